// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 maps a sample in [-1,1] onto the 16-bit range the way
// decoders map it the other way (v / 32768), so 16-bit input survives a
// round trip unchanged. Out of range input is clamped.
func Float32ToInt16(x float32) int16 {
	v := math.Floor(float64(x) * 32768)

	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}

	return int16(v)
}

// Float32ToPeak returns the most significant byte of the 16-bit sample.
func Float32ToPeak(x float32) int8 {
	return int8(Float32ToInt16(x) >> 8)
}
