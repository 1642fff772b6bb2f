// SPDX-License-Identifier: EPL-2.0

package view

// maxPassFactor caps how many source samples a single block pass folds into
// one. Larger factors are reached by running more passes over the already
// reduced output.
const maxPassFactor = 1024

// Reduce lowers the resolution of v to exactly width samples.
//
// Phase one folds fixed-size blocks of the source into min/max pairs until
// fewer than 2*width samples remain; phase two resamples that result to the
// exact width with a Zoom. Both phases are linear in the source length. A view
// that already has width samples is returned as is.
func Reduce(v View, width int) View {
	w := int64(width)
	n := v.Len()
	if w <= 0 || n == 0 {
		return NewFill(v.Channels(), max(w, 0), v.RealLength())
	}
	if n == w {
		return v
	}

	for n/w >= 2 {
		v = BlockReduce(v, min(n/w, maxPassFactor))
		n = v.Len()
	}

	if n == w {
		return v
	}

	return NewZoom(v, w)
}

// BlockReduce folds every factor consecutive samples of v into one pair. The
// last block may be short. The result lives in memory.
func BlockReduce(v View, factor int64) *Buffer {
	ch := v.Channels()
	n := v.Len()
	if factor < 1 {
		factor = 1
	}

	out := MakeBuffer(ch, (n+factor-1)/factor, v.RealLength())
	for i := range out.Len() {
		lo := i * factor
		hi := min(lo+factor, n)
		for c := range ch {
			mn, mx := bucket(v, c, lo, hi)
			out.Set(c, i, mn, mx)
		}
	}

	return out
}
