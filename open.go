// SPDX-License-Identifier: EPL-2.0

package wavepeaks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ik5/wavepeaks/builder"
	"github.com/ik5/wavepeaks/cache"
	"github.com/ik5/wavepeaks/formats/wav"
	"github.com/ik5/wavepeaks/pcm"
	"github.com/ik5/wavepeaks/peak"
)

// Open returns a cache over the WAV file at path.
//
// The peak file next to it is used when its header matches the audio: same
// modification time, channel count, length and interval. Anything else,
// including a missing or malformed peak file, is rebuilt from scratch by
// streaming the audio once. ctx bounds that build.
func Open(ctx context.Context, path string, opts Options) (*cache.FileCache, error) {
	opts = opts.withDefaults()

	src, err := wav.OpenPCM(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	peaks, err := loadPeaks(ctx, src, fi.ModTime(), opts)
	if err != nil {
		return nil, err
	}

	c, err := cache.NewFileCache(src, peaks, opts.Cache)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return c, nil
}

func loadPeaks(ctx context.Context, src *pcm.File, modTime time.Time, opts Options) (*peak.Store, error) {
	path := PeakPath(src.Path())
	log := opts.Logger.With("path", path)

	store, err := peak.Open(path)
	switch {
	case err == nil:
		reason := mismatch(store, src, modTime, opts.Build.Interval)
		if reason == "" {
			return store, nil
		}
		log.Info("rebuilding peak file", "reason", reason)
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("building peak file")
	case errors.Is(err, peak.ErrFormat):
		log.Warn("rebuilding invalid peak file", "error", err)
	default:
		return nil, fmt.Errorf("reading peak file: %w", err)
	}

	bo := opts.Build
	bo.ModTime = modTime

	start := time.Now()
	h, err := builder.BuildFile(ctx, pcm.NewSource(src, bo.BufferFrames), path, bo, opts.Observer)
	if err != nil {
		return nil, fmt.Errorf("building peak file: %w", err)
	}
	log.Debug("peak file built", "snapshots", h.Snapshots, "elapsed", time.Since(start))

	store, err = peak.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return store, nil
}

// mismatch explains why store cannot serve src, or returns "".
func mismatch(store *peak.Store, src *pcm.File, modTime time.Time, interval int) string {
	switch {
	case store.Stale(modTime):
		return "stale"
	case store.Channels() != src.Format().Channels:
		return "channel count changed"
	case store.RealLength() != src.Frames():
		return "length changed"
	case store.Interval() != int64(interval):
		return "interval changed"
	default:
		return ""
	}
}
