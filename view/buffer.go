// SPDX-License-Identifier: EPL-2.0

package view

// Buffer is an in-memory view. Pairs are interleaved per index as
// ch0.min, ch0.max, ch1.min, ch1.max, ...
type Buffer struct {
	channels int
	real     int64
	data     []int8
}

// NewBuffer wraps data, which must hold a multiple of 2*channels bytes.
// realLength is the number of original frames the pairs summarize.
func NewBuffer(channels int, realLength int64, data []int8) *Buffer {
	return &Buffer{
		channels: channels,
		real:     realLength,
		data:     data,
	}
}

// MakeBuffer allocates a zeroed buffer of length pairs per channel.
func MakeBuffer(channels int, length, realLength int64) *Buffer {
	return NewBuffer(channels, realLength, make([]int8, length*int64(channels)*2))
}

// NewRawBuffer builds a raw-resolution view from interleaved samples, one
// byte per channel per frame. Each pair starts with min == max == sample.
func NewRawBuffer(channels int, samples []int8) *Buffer {
	frames := len(samples) / channels
	data := make([]int8, frames*channels*2)
	for i, s := range samples[:frames*channels] {
		data[2*i] = s
		data[2*i+1] = s
	}

	return NewBuffer(channels, int64(frames), data)
}

func (b *Buffer) Channels() int     { return b.channels }
func (b *Buffer) RealLength() int64 { return b.real }

func (b *Buffer) Len() int64 {
	if b.channels == 0 {
		return 0
	}

	return int64(len(b.data) / (2 * b.channels))
}

func (b *Buffer) MinMax(channel int, index int64) (int8, int8) {
	i := (index*int64(b.channels) + int64(channel)) * 2
	return b.data[i], b.data[i+1]
}

// Set stores a pair.
func (b *Buffer) Set(channel int, index int64, min, max int8) {
	i := (index*int64(b.channels) + int64(channel)) * 2
	b.data[i] = min
	b.data[i+1] = max
}

// Data exposes the interleaved pairs backing b.
func (b *Buffer) Data() []int8 { return b.data }

// Materialize copies any view into a Buffer.
func Materialize(v View) *Buffer {
	ch := v.Channels()
	if b, ok := v.(*Buffer); ok {
		return NewBuffer(ch, b.real, append([]int8(nil), b.data...))
	}

	out := MakeBuffer(ch, v.Len(), v.RealLength())
	for i := range v.Len() {
		for c := range ch {
			lo, hi := v.MinMax(c, i)
			out.Set(c, i, lo, hi)
		}
	}

	return out
}
