// SPDX-License-Identifier: EPL-2.0

package peak

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/wavepeaks/view"
)

// Growable is a peak store that grows while audio is captured.
//
// Frames are fed one at a time; every interval frames the accumulated
// per-channel (min, max) pair is flushed as a snapshot and written through
// to the backing writer. The file carries a provisional header until Close
// writes the final one.
//
// Growable is not safe for concurrent use. Flushed snapshots are never
// rewritten, so stores returned by Snapshot stay valid while g keeps growing.
type Growable struct {
	w      io.WriterAt
	closer io.Closer

	channels int
	interval int

	data      []int8
	snapshots int64

	acc       []int8
	accFrames int

	closed bool
}

// Create starts a growable peak file at path.
func Create(path string, channels, interval int) (*Growable, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	g, err := NewGrowable(f, channels, interval)
	if err != nil {
		f.Close()
		return nil, err
	}
	g.closer = f

	return g, nil
}

// NewGrowable writes a provisional header to w and returns a store that
// appends snapshots after it.
func NewGrowable(w io.WriterAt, channels, interval int) (*Growable, error) {
	h := Header{
		Interval: interval,
		ModTime:  UnknownTime,
		Channels: channels,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	g := &Growable{
		w:        w,
		channels: channels,
		interval: interval,
		acc:      make([]int8, channels*2),
	}

	if err := g.writeHeader(h); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Growable) Channels() int { return g.channels }
func (g *Growable) Interval() int { return g.interval }

// Snapshots is the number of flushed snapshots.
func (g *Growable) Snapshots() int64 { return g.snapshots }

// Pending is the number of frames in the accumulator.
func (g *Growable) Pending() int { return g.accFrames }

// RealLength counts every frame fed so far, flushed or pending.
func (g *Growable) RealLength() int64 {
	return g.snapshots*int64(g.interval) + int64(g.accFrames)
}

// AddFrame accumulates one frame, given as the most significant byte of
// each channel's sample.
func (g *Growable) AddFrame(frame []int8) error {
	if g.closed {
		return ErrClosed
	}

	for c := range g.channels {
		s := frame[c]
		if g.accFrames == 0 {
			g.acc[2*c] = s
			g.acc[2*c+1] = s
			continue
		}
		if s < g.acc[2*c] {
			g.acc[2*c] = s
		}
		if s > g.acc[2*c+1] {
			g.acc[2*c+1] = s
		}
	}
	g.accFrames++

	if g.accFrames == g.interval {
		return g.flush()
	}

	return nil
}

func (g *Growable) flush() error {
	off := HeaderSize + g.snapshots*int64(g.channels)*2

	b := make([]byte, len(g.acc))
	for i, v := range g.acc {
		b[i] = byte(v)
	}
	if _, err := g.w.WriteAt(b, off); err != nil {
		return fmt.Errorf("writing snapshot %d: %w", g.snapshots, err)
	}

	g.data = append(g.data, g.acc...)
	g.snapshots++
	g.accFrames = 0

	return nil
}

// Snapshot returns the flushed snapshots as a store. Pending frames are not
// included. The store shares memory with g but is never modified by it.
func (g *Growable) Snapshot() *Store {
	h := Header{
		Interval:   g.interval,
		ModTime:    UnknownTime,
		RealLength: g.snapshots * int64(g.interval),
		Channels:   g.channels,
		Snapshots:  g.snapshots,
	}
	n := int(h.DataSize())

	return &Store{
		hdr: h,
		buf: view.NewBuffer(g.channels, h.RealLength, g.data[:n:n]),
	}
}

// Close flushes a short trailing snapshot, writes the final header with
// modTime and returns the finished store. A writer opened by Create is
// closed as well, even when finishing the file fails.
func (g *Growable) Close(modTime int64) (*Store, error) {
	if g.closed {
		return nil, ErrClosed
	}
	g.closed = true

	store, err := g.finish(modTime)
	if g.closer != nil {
		if cerr := g.closer.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%w", cerr))
		}
	}
	if err != nil {
		return nil, err
	}

	return store, nil
}

func (g *Growable) finish(modTime int64) (*Store, error) {
	frames := g.RealLength()
	if g.accFrames > 0 {
		if err := g.flush(); err != nil {
			return nil, err
		}
	}

	h := Header{
		Interval:   g.interval,
		ModTime:    modTime,
		RealLength: frames,
		Channels:   g.channels,
		Snapshots:  g.snapshots,
	}
	if err := g.writeHeader(h); err != nil {
		return nil, err
	}

	return NewStore(h, g.data)
}

func (g *Growable) writeHeader(h Header) error {
	b, err := h.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := g.w.WriteAt(b, 0); err != nil {
		return fmt.Errorf("writing peak header: %w", err)
	}

	return nil
}
