// SPDX-License-Identifier: EPL-2.0

package builder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ik5/wavepeaks/audio"
	"github.com/ik5/wavepeaks/peak"
	"github.com/ik5/wavepeaks/utils"
)

const (
	DefaultInterval     = 256
	DefaultBufferFrames = 4096
)

// Options tune a build. Zero fields take the defaults.
type Options struct {
	// Interval is the number of frames folded into one snapshot.
	Interval int
	// BufferFrames is how many frames are read between cancellation checks.
	BufferFrames int
	// ModTime is the source's modification time. The zero time is written
	// as unknown.
	ModTime time.Time
}

func DefaultOptions() Options {
	return Options{
		Interval:     DefaultInterval,
		BufferFrames: DefaultBufferFrames,
	}
}

func (o Options) withDefaults() Options {
	if o.Interval == 0 {
		o.Interval = DefaultInterval
	}
	if o.BufferFrames <= 0 {
		o.BufferFrames = DefaultBufferFrames
	}

	return o
}

// Build streams src once and writes a peak file to w.
//
// A provisional header goes out first; it is rewritten with the final
// counts once the source is drained, so w must be positioned at the start
// of an empty output. ctx is checked between buffers. On cancellation Build
// returns ErrCancelled and the output is left incomplete.
func Build(ctx context.Context, src audio.Source, w io.WriteSeeker, opts Options, obs Observer) (peak.Header, error) {
	opts = opts.withDefaults()
	if obs == nil {
		obs = NopObserver{}
	}
	if opts.Interval < 1 {
		return peak.Header{}, fmt.Errorf("%w: %d", ErrInvalidInterval, opts.Interval)
	}

	channels := src.Channels()
	h := peak.Header{
		Interval: opts.Interval,
		ModTime:  peak.UnknownTime,
		Channels: channels,
	}
	if err := writeHeader(w, h); err != nil {
		return peak.Header{}, err
	}

	if frames := audio.Frames(src); frames >= 0 {
		obs.OnTotal(peak.SnapshotsFor(frames, opts.Interval))
	}

	acc := newAccumulator(channels, opts.Interval)
	bw := bufio.NewWriter(w)
	buf := make([]float32, opts.BufferFrames*channels)

	for {
		select {
		case <-ctx.Done():
			obs.OnCancelled()
			return peak.Header{}, fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
		default:
		}

		n, err := src.ReadSamples(buf)
		if err != nil && err != io.EOF {
			return peak.Header{}, fmt.Errorf("reading source: %w", err)
		}

		for i := 0; i+channels <= n; i += channels {
			if acc.add(buf[i : i+channels]) {
				if err := acc.flush(bw); err != nil {
					return peak.Header{}, err
				}
			}
		}
		if n > 0 {
			obs.OnProgress(acc.snapshots)
		}

		if err == io.EOF || (n == 0 && err == nil) {
			break
		}
	}

	// a short final interval still makes a snapshot
	if acc.frames > 0 {
		if err := acc.flush(bw); err != nil {
			return peak.Header{}, err
		}
		obs.OnProgress(acc.snapshots)
	}

	if err := bw.Flush(); err != nil {
		return peak.Header{}, fmt.Errorf("%w", err)
	}

	h.ModTime = peak.ModTimeMillis(opts.ModTime)
	h.RealLength = acc.total
	h.Snapshots = acc.snapshots

	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return peak.Header{}, fmt.Errorf("%w", err)
	}
	if err := writeHeader(w, h); err != nil {
		return peak.Header{}, err
	}
	if _, err := w.Seek(0, io.SeekEnd); err != nil {
		return peak.Header{}, fmt.Errorf("%w", err)
	}

	obs.OnFinished()

	return h, nil
}

// BuildFile builds into a temporary file next to path and renames it into
// place once complete. Nothing is left at path on failure or cancellation.
func BuildFile(ctx context.Context, src audio.Source, path string, opts Options, obs Observer) (peak.Header, error) {
	var h peak.Header

	err := atomicWrite(path, func(f *os.File) error {
		var err error
		h, err = Build(ctx, src, f, opts, obs)
		return err
	})

	return h, err
}

// Persist writes an in-memory store to path atomically.
func Persist(store *peak.Store, path string) error {
	return atomicWrite(path, func(f *os.File) error {
		if _, err := store.WriteTo(f); err != nil {
			return fmt.Errorf("%w", err)
		}
		return nil
	})
}

func atomicWrite(path string, write func(*os.File) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func writeHeader(w io.Writer, h peak.Header) error {
	b, err := h.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing peak header: %w", err)
	}

	return nil
}

// accumulator folds frames into (min, max) pairs of the most significant
// sample byte.
type accumulator struct {
	channels int
	interval int

	pair   []int8
	frames int

	total     int64
	snapshots int64
	out       []byte
}

func newAccumulator(channels, interval int) *accumulator {
	return &accumulator{
		channels: channels,
		interval: interval,
		pair:     make([]int8, channels*2),
		out:      make([]byte, channels*2),
	}
}

// add folds one frame and reports whether the interval is complete.
func (a *accumulator) add(frame []float32) bool {
	for c, x := range frame {
		s := utils.Float32ToPeak(x)
		if a.frames == 0 {
			a.pair[2*c], a.pair[2*c+1] = s, s
			continue
		}
		a.pair[2*c] = min(a.pair[2*c], s)
		a.pair[2*c+1] = max(a.pair[2*c+1], s)
	}
	a.frames++
	a.total++

	return a.frames == a.interval
}

func (a *accumulator) flush(w io.Writer) error {
	for i, v := range a.pair {
		a.out[i] = byte(v)
	}
	if _, err := w.Write(a.out); err != nil {
		return fmt.Errorf("writing snapshot %d: %w", a.snapshots, err)
	}

	a.snapshots++
	a.frames = 0

	return nil
}

// IsCancelled reports whether err came from a cancelled build.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
