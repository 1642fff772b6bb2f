// SPDX-License-Identifier: EPL-2.0

package pcm

// Decode16 re-encodes the samples in src as 16-bit values. Wider samples keep
// their top 16 bits, 8-bit samples are widened. It returns the number of
// samples written, bounded by len(dst).
func Decode16(format Format, src []byte, dst []int16) int {
	bps := format.BytesPerSample()
	n := min(len(src)/bps, len(dst))

	switch bps {
	case 1:
		for i := range n {
			dst[i] = int16(int(src[i])-128) << 8
		}
	case 2:
		for i := range n {
			dst[i] = int16(uint16(src[2*i]) | uint16(src[2*i+1])<<8)
		}
	default:
		// little-endian: the top two bytes are the last two of each sample
		for i := range n {
			hi := i*bps + bps - 1
			dst[i] = int16(uint16(src[hi-1]) | uint16(src[hi])<<8)
		}
	}

	return n
}

// MSB is the most significant byte of a 16-bit sample, the resolution peak
// views are stored at.
func MSB(v int16) int8 {
	return int8(v >> 8)
}

// Peaks writes the most significant byte of every sample in src to dst and
// returns how many it wrote.
func Peaks(format Format, src []byte, dst []int8) int {
	bps := format.BytesPerSample()
	n := min(len(src)/bps, len(dst))

	if bps == 1 {
		for i := range n {
			dst[i] = int8(int(src[i]) - 128)
		}
		return n
	}

	for i := range n {
		// the sign byte of a little-endian sample is its last byte
		dst[i] = int8(src[i*bps+bps-1])
	}

	return n
}
