// SPDX-License-Identifier: EPL-2.0

package wavepeaks

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ik5/wavepeaks/cache"
	"github.com/ik5/wavepeaks/formats/wav"
	"github.com/ik5/wavepeaks/pcm"
	"github.com/ik5/wavepeaks/peak"
)

// Recording is a growable cache writing to a WAV capture file and its peak
// file.
type Recording struct {
	*cache.Growable

	path string
}

// Record creates the capture file at path and its peak file. Existing files
// are truncated.
func Record(path string, format pcm.Format, opts Options) (*Recording, error) {
	opts = opts.withDefaults()

	w, err := wav.Create(path, format)
	if err != nil {
		return nil, fmt.Errorf("creating capture file: %w", err)
	}

	store, err := peak.Create(PeakPath(path), format.Channels, opts.Build.Interval)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("creating peak file: %w", err), discard(w, path))
	}

	g, err := cache.NewGrowable(w, store, opts.Cache)
	if err != nil {
		_, cerr := store.Close(peak.UnknownTime)
		return nil, errors.Join(err, cerr, discard(w, path), os.Remove(PeakPath(path)))
	}

	opts.Logger.Debug("recording started", "path", path,
		"channels", format.Channels, "rate", format.SampleRate, "bits", format.BitDepth)

	return &Recording{Growable: g, path: path}, nil
}

func discard(w *wav.Writer, path string) error {
	return errors.Join(w.Close(), os.Remove(path))
}

// Path is the capture file's path.
func (r *Recording) Path() string { return r.path }

// Close finishes both files. The capture file's modification time is set to
// the time stamped in the peak header, so a later Open accepts the pair
// without rebuilding.
func (r *Recording) Close() (*cache.FileCache, error) {
	stamp := time.Now().Truncate(time.Millisecond)

	c, err := r.Growable.Close(peak.ModTimeMillis(stamp))
	if err != nil {
		return nil, err
	}

	if err := os.Chtimes(r.path, stamp, stamp); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return c, nil
}
