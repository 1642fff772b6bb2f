// SPDX-License-Identifier: EPL-2.0

package view

// View is a finite, indexable sequence of per-channel (min, max) byte pairs.
//
// Len is the displayable (rendered) length, RealLength the number of original
// sample frames the view stands for. Channels never changes for a view.
type View interface {
	Channels() int
	RealLength() int64
	Len() int64
	// MinMax returns the pair stored for channel at index. Callers must keep
	// index within [0, Len()).
	MinMax(channel int, index int64) (min, max int8)
}

// ZoomFactor is RealLength/Len. An empty view has a zoom factor of 1.
func ZoomFactor(v View) float64 {
	if v.Len() == 0 {
		return 1
	}

	return float64(v.RealLength()) / float64(v.Len())
}

// CanProvide reports whether v can serve SubView(v, begin, length, width)
// without clipping or padding, so a caller can reuse v instead of querying a
// cache again. Volatile views never qualify.
func CanProvide(v View, begin, length int64, width int) bool {
	if IsVolatile(v) {
		return false
	}

	return begin >= 0 && begin+length <= v.Len() && int64(width) <= length
}

// SubView returns exactly width samples covering [begin, begin+length) of v.
//
// The range is clipped to what v holds. The part that exists is reduced to
// its share of width, never less than one sample; whatever lies before frame 0
// or past the end is padded with silence on that side. Views derived from a
// volatile view stay volatile.
func SubView(v View, begin, length int64, width int) View {
	out := subView(v, begin, length, width)
	if IsVolatile(v) {
		return Volatile(out)
	}

	return out
}

func subView(v View, begin, length int64, width int) View {
	ch := v.Channels()
	if width <= 0 {
		return NewFill(ch, 0, 0)
	}

	w := int64(width)
	zoom := ZoomFactor(v)
	if length <= 0 {
		return NewFill(ch, w, 0)
	}

	end := begin + length
	lo := clamp(begin, 0, v.Len())
	hi := clamp(end, lo, v.Len())
	avail := hi - lo
	if avail == 0 {
		return NewFill(ch, w, realOf(length, zoom))
	}

	var out View = NewSub(v, lo, avail)
	if avail == length {
		if out.Len() != w {
			out = Reduce(out, width)
		}
		return out
	}

	dw := max(w*avail/length, 1)
	lead := (w - dw) * (lo - begin) / (length - avail)
	trail := w - dw - lead

	if out.Len() != dw {
		out = Reduce(out, int(dw))
	}

	parts := make([]View, 0, 3)
	if lead > 0 {
		parts = append(parts, NewFill(ch, lead, realOf(lo-begin, zoom)))
	}
	parts = append(parts, out)
	if trail > 0 {
		parts = append(parts, NewFill(ch, trail, realOf(end-hi, zoom)))
	}
	if len(parts) == 1 {
		return out
	}

	return concatOf(parts)
}

// realOf converts n displayable samples to frames at zoom.
func realOf(n int64, zoom float64) int64 {
	return int64(float64(n)*zoom + 0.5)
}

func clamp(x, lo, hi int64) int64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}

	return x
}
