// SPDX-License-Identifier: EPL-2.0

// Package builder writes peak files by streaming an audio source once.
//
// Build is cancellable through its context and reports progress in
// snapshots to an Observer:
//
//	h, err := builder.BuildFile(ctx, src, "take.wav.peak", builder.Options{
//		Interval: 256,
//		ModTime:  fi.ModTime(),
//	}, nil)
//	if builder.IsCancelled(err) {
//		// nothing was written
//	}
package builder
