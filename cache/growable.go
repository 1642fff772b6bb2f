// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"fmt"
	"io"
	"sync"

	"github.com/ik5/wavepeaks/pcm"
	"github.com/ik5/wavepeaks/peak"
	"github.com/ik5/wavepeaks/view"
)

// Capture is the audio file a recording is written to. Written frames must
// be readable through ReaderAt right away, and stay readable after Close.
type Capture interface {
	pcm.ReaderAt
	io.Writer
	io.Closer
}

// Growable is a cache over a recording in progress.
//
// Append writes captured audio through to the capture file and feeds the
// peak accumulator. Every view handed out before Close is volatile, so
// view.CanProvide never lets a renderer reuse it. After Close the cache
// answers exactly like a FileCache over the finished files.
//
// Append and GetView may be called from different goroutines.
type Growable struct {
	mu sync.Mutex

	capture Capture
	store   *peak.Growable
	blocks  *blocks
	opts    Options

	carry  []byte
	peaks  []int8
	frames int64

	final *FileCache
}

// NewGrowable starts a growable cache. capture and store must be empty and
// agree on the channel count.
func NewGrowable(capture Capture, store *peak.Growable, opts Options) (*Growable, error) {
	format := capture.Format()
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if store.Channels() != format.Channels {
		return nil, fmt.Errorf("%w: %d peak channels, %d audio channels",
			ErrFormatChange, store.Channels(), format.Channels)
	}

	opts = opts.withDefaults()

	return &Growable{
		capture: capture,
		store:   store,
		blocks:  newBlocks(capture, opts),
		opts:    opts,
		carry:   make([]byte, 0, format.FrameSize()),
	}, nil
}

func (g *Growable) Channels() int { return g.capture.Format().Channels }

func (g *Growable) TotalLength() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.final != nil {
		return g.final.TotalLength()
	}

	return g.frames
}

// Append adds captured PCM in the capture format. A trailing partial frame
// is held back until the next call completes it.
func (g *Growable) Append(p []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.final != nil {
		return ErrClosed
	}

	format := g.capture.Format()
	fs := format.FrameSize()

	// complete a frame left over from the previous call
	if len(g.carry) > 0 {
		n := min(fs-len(g.carry), len(p))
		g.carry = append(g.carry, p[:n]...)
		p = p[n:]
		if len(g.carry) < fs {
			return nil
		}
		if err := g.write(format, g.carry); err != nil {
			return err
		}
		g.carry = g.carry[:0]
	}

	whole := len(p) / fs * fs
	if whole > 0 {
		if err := g.write(format, p[:whole]); err != nil {
			return err
		}
	}
	g.carry = append(g.carry, p[whole:]...)

	return nil
}

func (g *Growable) write(format pcm.Format, p []byte) error {
	if _, err := g.capture.Write(p); err != nil {
		return fmt.Errorf("writing capture: %w", err)
	}

	samples := len(p) / format.BytesPerSample()
	if cap(g.peaks) < samples {
		g.peaks = make([]int8, samples)
	}
	peaks := g.peaks[:samples]
	pcm.Peaks(format, p, peaks)

	ch := format.Channels
	for i := 0; i < samples; i += ch {
		if err := g.store.AddFrame(peaks[i : i+ch]); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	g.frames += int64(samples / ch)

	return nil
}

// GetView returns width samples covering frames [start, start+length).
// While recording, the result is volatile. On the summary path the frames
// still in the accumulator are not covered; they amount to less than one
// output sample and are padded with silence.
func (g *Growable) GetView(start, length int64, width int) (view.View, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.final != nil {
		return g.final.GetView(start, length, width)
	}

	if useSummary(length, width, int64(g.store.Interval())) && g.store.Snapshots() > 0 {
		return view.Volatile(summaryView(g.store.Snapshot(), start, length, width)), nil
	}

	complete := g.frames / int64(g.opts.BlockFrames) * int64(g.opts.BlockFrames)
	v, err := g.blocks.view(start, length, width, g.frames, complete)
	if err != nil {
		return nil, err
	}

	return view.Volatile(v), nil
}

// Stats returns a snapshot of the pool counters.
func (g *Growable) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.final != nil {
		return g.final.Stats()
	}

	return g.blocks.stats
}

// Close finishes the capture file and the peak file, stamping the peak
// header with modTime (Unix milliseconds). A partial frame still held back
// is dropped. The returned FileCache is the one g delegates to from now on;
// it keeps the chunks already pooled.
func (g *Growable) Close(modTime int64) (*FileCache, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.final != nil {
		return nil, ErrClosed
	}

	if err := g.capture.Close(); err != nil {
		return nil, fmt.Errorf("closing capture: %w", err)
	}

	st, err := g.store.Close(modTime)
	if err != nil {
		return nil, fmt.Errorf("closing peak store: %w", err)
	}

	g.final = &FileCache{
		blocks: g.blocks,
		peaks:  st,
		total:  g.frames,
	}
	g.carry = nil

	return g.final, nil
}

// Closed reports whether Close has run.
func (g *Growable) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.final != nil
}
