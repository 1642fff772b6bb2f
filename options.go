// SPDX-License-Identifier: EPL-2.0

package wavepeaks

import (
	"log/slog"

	"github.com/ik5/wavepeaks/builder"
	"github.com/ik5/wavepeaks/cache"
)

// PeakExt is appended to an audio file path to name its peak file.
const PeakExt = ".peak"

// Options configure Open, Record and Spool.
type Options struct {
	Cache cache.Options
	// Build tunes peak file generation. ModTime is always taken from the
	// audio file.
	Build builder.Options
	// Observer follows peak file builds. Nil means no reporting.
	Observer builder.Observer

	// SpoolRate resamples spooled audio when non-zero.
	SpoolRate int
	// SpoolMono mixes spooled audio down to one channel.
	SpoolMono bool

	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Cache: cache.DefaultOptions(),
		Build: builder.DefaultOptions(),
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Cache.Logger == nil {
		o.Cache.Logger = o.Logger
	}
	if o.Build.Interval == 0 {
		o.Build.Interval = builder.DefaultInterval
	}
	if o.Observer == nil {
		o.Observer = builder.NopObserver{}
	}

	return o
}

// PeakPath names the peak file that belongs to the audio file at path.
func PeakPath(path string) string {
	return path + PeakExt
}
