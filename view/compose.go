// SPDX-License-Identifier: EPL-2.0

package view

import (
	"fmt"
	"math"
	"sort"
)

// Sub is a contiguous range of another view.
type Sub struct {
	src    View
	offset int64
	length int64
	real   int64
}

// NewSub returns the range [offset, offset+length) of src. The range must lie
// within src; SubView is the clipping entry point.
func NewSub(src View, offset, length int64) *Sub {
	// Sub of a Sub collapses onto the original source.
	if s, ok := src.(*Sub); ok {
		return NewSub(s.src, s.offset+offset, length)
	}

	z := ZoomFactor(src)
	start := int64(math.Round(float64(offset) * z))
	end := int64(math.Round(float64(offset+length) * z))
	if end > src.RealLength() {
		end = src.RealLength()
	}
	if start > end {
		start = end
	}

	return &Sub{
		src:    src,
		offset: offset,
		length: length,
		real:   end - start,
	}
}

func (s *Sub) Channels() int     { return s.src.Channels() }
func (s *Sub) RealLength() int64 { return s.real }
func (s *Sub) Len() int64        { return s.length }

func (s *Sub) MinMax(channel int, index int64) (int8, int8) {
	return s.src.MinMax(channel, s.offset+index)
}

// Concat joins views end to end.
type Concat struct {
	views []View
	// starts[i] is the first index of views[i]; the last entry is the total.
	starts []int64
	real   int64
}

// NewConcat joins views that share a channel count.
func NewConcat(views ...View) (*Concat, error) {
	if len(views) == 0 {
		return nil, ErrEmptyConcat
	}

	ch := views[0].Channels()
	for i, v := range views[1:] {
		if v.Channels() != ch {
			return nil, fmt.Errorf("%w: view %d has %d channels, want %d", ErrChannelMismatch, i+1, v.Channels(), ch)
		}
	}

	return concatOf(views), nil
}

func concatOf(views []View) *Concat {
	c := &Concat{
		views:  make([]View, 0, len(views)),
		starts: make([]int64, 0, len(views)+1),
	}

	var pos int64
	for _, v := range views {
		if v.Len() == 0 {
			continue
		}
		c.views = append(c.views, v)
		c.starts = append(c.starts, pos)
		pos += v.Len()
		c.real += v.RealLength()
	}
	c.starts = append(c.starts, pos)

	if len(c.views) == 0 && len(views) > 0 {
		// keep the channel count of an all-empty concatenation
		c.views = append(c.views, views[0])
		c.starts = []int64{0, 0}
	}

	return c
}

func (c *Concat) Channels() int     { return c.views[0].Channels() }
func (c *Concat) RealLength() int64 { return c.real }
func (c *Concat) Len() int64        { return c.starts[len(c.starts)-1] }

func (c *Concat) MinMax(channel int, index int64) (int8, int8) {
	i := sort.Search(len(c.views), func(i int) bool { return c.starts[i+1] > index })
	return c.views[i].MinMax(channel, index-c.starts[i])
}

// Fill is a silent view: every pair is (0, 0).
type Fill struct {
	channels int
	length   int64
	real     int64
}

func NewFill(channels int, length, realLength int64) *Fill {
	return &Fill{channels: channels, length: length, real: realLength}
}

func (f *Fill) Channels() int                  { return f.channels }
func (f *Fill) RealLength() int64              { return f.real }
func (f *Fill) Len() int64                     { return f.length }
func (f *Fill) MinMax(int, int64) (int8, int8) { return 0, 0 }

// Zoom resamples a view to an exact width. Each output index covers a
// proportional bucket of the source and reports the min of its mins and the
// max of its maxes. When width exceeds the source, indexes repeat.
type Zoom struct {
	src   View
	width int64
}

func NewZoom(src View, width int64) *Zoom {
	return &Zoom{src: src, width: width}
}

func (z *Zoom) Channels() int     { return z.src.Channels() }
func (z *Zoom) RealLength() int64 { return z.src.RealLength() }
func (z *Zoom) Len() int64        { return z.width }

func (z *Zoom) MinMax(channel int, index int64) (int8, int8) {
	n := z.src.Len()
	lo := index * n / z.width
	hi := (index + 1) * n / z.width
	if hi <= lo {
		hi = lo + 1
	}

	return bucket(z.src, channel, lo, hi)
}

func bucket(src View, channel int, lo, hi int64) (int8, int8) {
	mn, mx := src.MinMax(channel, lo)
	for i := lo + 1; i < hi; i++ {
		a, b := src.MinMax(channel, i)
		if a < mn {
			mn = a
		}
		if b > mx {
			mx = b
		}
	}

	return mn, mx
}

type volatile struct {
	View
}

// Volatile marks v as backed by data that may still change. CanProvide is
// false for it and for every SubView taken from it, so it is never reused as
// a cache hit.
func Volatile(v View) View {
	if IsVolatile(v) {
		return v
	}

	return volatile{View: v}
}

// IsVolatile reports whether v was produced by Volatile.
func IsVolatile(v View) bool {
	_, ok := v.(volatile)
	return ok
}
