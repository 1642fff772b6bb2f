// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultBlockFrames is the length of a raw chunk in frames.
	DefaultBlockFrames = 32768
	// DefaultMaxChunks is the pool capacity.
	DefaultMaxChunks = 8
)

// ChunkLoadPolicy decides what a failed or short block read turns into.
type ChunkLoadPolicy int

const (
	// SilentOnError substitutes a zero-filled chunk and logs a warning.
	SilentOnError ChunkLoadPolicy = iota
	// FailOnError returns the read error to the caller of GetView.
	FailOnError
)

func (p ChunkLoadPolicy) String() string {
	switch p {
	case SilentOnError:
		return "silent"
	case FailOnError:
		return "fail"
	default:
		return fmt.Sprintf("ChunkLoadPolicy(%d)", int(p))
	}
}

// ParsePolicy maps "silent" or "fail" to a policy.
func ParsePolicy(s string) (ChunkLoadPolicy, error) {
	switch s {
	case "", "silent":
		return SilentOnError, nil
	case "fail":
		return FailOnError, nil
	default:
		return 0, fmt.Errorf("unknown chunk load policy %q", s)
	}
}

// Options tune a cache. Zero fields take the defaults.
type Options struct {
	BlockFrames int
	MaxChunks   int
	Policy      ChunkLoadPolicy
	Logger      *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		BlockFrames: DefaultBlockFrames,
		MaxChunks:   DefaultMaxChunks,
		Policy:      SilentOnError,
		Logger:      slog.Default(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BlockFrames <= 0 {
		o.BlockFrames = d.BlockFrames
	}
	if o.MaxChunks <= 0 {
		o.MaxChunks = d.MaxChunks
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}

	return o
}

// Stats counts pool activity since the cache was created.
type Stats struct {
	Loads     int64 // block reads issued to the source
	Hits      int64 // blocks served from the pool
	Evictions int64
	Failures  int64 // block reads that failed or came back short
}
