// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"fmt"

	"github.com/ik5/wavepeaks/pcm"
	"github.com/ik5/wavepeaks/view"
)

// blocks serves raw-resolution views of src from a pool of fixed-size
// chunks. Callers hold the owning cache's lock.
type blocks struct {
	src   pcm.ReaderAt
	opts  Options
	pool  *Pool[view.View]
	stats Stats

	raw  []byte
	wide []int16
}

func newBlocks(src pcm.ReaderAt, opts Options) *blocks {
	return &blocks{
		src:  src,
		opts: opts,
		pool: NewPool[view.View](opts.MaxChunks),
	}
}

// blockLen is how many frames block k holds in a source of total frames.
func (b *blocks) blockLen(k, total int64) int64 {
	size := int64(b.opts.BlockFrames)
	return max(0, min(size, total-k*size))
}

// view returns width samples covering [start, start+length) frames. Only
// blocks that end at or before complete may be pooled; later ones are read
// fresh on every call.
func (b *blocks) view(start, length int64, width int, total, complete int64) (view.View, error) {
	channels := b.src.Format().Channels
	lo, hi := max(start, 0), min(start+length, total)
	if length <= 0 || hi <= lo {
		return view.SubView(view.NewFill(channels, 0, 0), 0, length, width), nil
	}

	size := int64(b.opts.BlockFrames)
	first, last := lo/size, (hi-1)/size

	parts := make([]view.View, 0, last-first+1)
	for k := first; k <= last; k++ {
		c, err := b.chunk(k, total, (k+1)*size <= complete)
		if err != nil {
			return nil, err
		}
		parts = append(parts, c)
	}

	joined, err := view.NewConcat(parts...)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return view.SubView(joined, start-first*size, length, width), nil
}

func (b *blocks) chunk(k, total int64, poolable bool) (view.View, error) {
	if poolable {
		if c, ok := b.pool.Get(k); ok {
			b.stats.Hits++
			return c, nil
		}
	}

	c, err := b.load(k, total)
	if err != nil {
		b.stats.Failures++
		if b.opts.Policy == FailOnError {
			return nil, err
		}

		b.opts.Logger.Warn("substituting silence for unreadable block",
			"block", k, "error", err)
		n := b.blockLen(k, total)
		return view.NewFill(b.src.Format().Channels, n, n), nil
	}

	if poolable {
		if _, evicted := b.pool.Put(k, c); evicted {
			b.stats.Evictions++
		}
	}

	return c, nil
}

// load reads block k, re-encodes it as 16-bit samples and keeps the most
// significant byte of each as both min and max.
func (b *blocks) load(k, total int64) (view.View, error) {
	format := b.src.Format()
	n := b.blockLen(k, total)
	samples := int(n) * format.Channels

	if need := int(n) * format.FrameSize(); cap(b.raw) < need {
		b.raw = make([]byte, need)
	}
	if cap(b.wide) < samples {
		b.wide = make([]int16, samples)
	}
	raw, wide := b.raw[:int(n)*format.FrameSize()], b.wide[:samples]

	b.stats.Loads++
	got, err := b.src.ReadFramesAt(raw, k*int64(b.opts.BlockFrames))
	if int64(got) != n {
		if err == nil {
			err = pcm.ErrPartialRead
		}
		return nil, fmt.Errorf("%w %d (%d of %d frames): %w", ErrBlockLoad, k, got, n, err)
	}

	pcm.Decode16(format, raw, wide)
	peaks := make([]int8, samples)
	for i, v := range wide {
		peaks[i] = pcm.MSB(v)
	}

	return view.NewRawBuffer(format.Channels, peaks), nil
}
