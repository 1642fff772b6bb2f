// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"fmt"
	"sync"

	"github.com/ik5/wavepeaks/pcm"
	"github.com/ik5/wavepeaks/peak"
	"github.com/ik5/wavepeaks/view"
)

// Querier is what a renderer needs from a cache.
type Querier interface {
	Channels() int
	TotalLength() int64
	GetView(start, length int64, width int) (view.View, error)
}

// FileCache serves views of a static audio file. Coarse requests are
// answered from the peak summary, fine ones from raw chunks loaded into a
// bounded pool. It is safe for concurrent use.
type FileCache struct {
	mu     sync.Mutex
	blocks *blocks
	peaks  *peak.Store
	total  int64
}

// NewFileCache returns a cache over src. peaks may be nil, in which case
// every request takes the raw path.
func NewFileCache(src pcm.ReaderAt, peaks *peak.Store, opts Options) (*FileCache, error) {
	if err := src.Format().Validate(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if peaks != nil && peaks.Channels() != src.Format().Channels {
		return nil, fmt.Errorf("%w: %d peak channels, %d audio channels",
			ErrFormatChange, peaks.Channels(), src.Format().Channels)
	}

	return &FileCache{
		blocks: newBlocks(src, opts.withDefaults()),
		peaks:  peaks,
		total:  src.Frames(),
	}, nil
}

func (c *FileCache) Channels() int      { return c.blocks.src.Format().Channels }
func (c *FileCache) TotalLength() int64 { return c.total }

// Peaks returns the summary the cache was built with, or nil.
func (c *FileCache) Peaks() *peak.Store { return c.peaks }

// GetView returns exactly width samples covering frames
// [start, start+length). Parts of the range before frame 0 or past the end
// of the file are padded with silence.
func (c *FileCache) GetView(start, length int64, width int) (view.View, error) {
	if c.peaks != nil && useSummary(length, width, c.peaks.Interval()) {
		return summaryView(c.peaks, start, length, width), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.blocks.view(start, length, width, c.total, c.total)
}

// Stats returns a snapshot of the pool counters.
func (c *FileCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.blocks.stats
}

// useSummary reports whether every output sample spans at least one
// snapshot, which is when the summary holds enough detail.
func useSummary(length int64, width int, interval int64) bool {
	return width > 0 && length >= int64(width)*interval
}

// summaryView maps a frame range onto snapshot indexes of s.
func summaryView(s *peak.Store, start, length int64, width int) view.View {
	interval := s.Interval()
	first := floorDiv(start, interval)
	end := -floorDiv(-(start + length), interval)

	return view.SubView(s, first, end-first, width)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}

	return q
}
