// SPDX-License-Identifier: EPL-2.0

// Package cache answers waveform queries over audio files without holding
// them in memory.
//
// A FileCache serves a finished file: requests coarse enough for the peak
// summary never touch the audio, finer ones are assembled from fixed-size
// raw chunks kept in a small Pool. A Growable serves a recording while it is
// written and turns into a FileCache when it is closed.
//
//	c, err := cache.NewFileCache(src, peaks, cache.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	v, err := c.GetView(start, frames, width)
package cache
