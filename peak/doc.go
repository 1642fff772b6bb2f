// SPDX-License-Identifier: EPL-2.0

// Package peak reads and writes peak files, the persisted low-resolution
// summary of an audio file.
//
// A peak file is a 34-byte little-endian header followed by one (min, max)
// pair of signed bytes per channel per snapshot, where each snapshot covers
// Interval sample frames of the source:
//
//	store, err := peak.Open("take1.wav.peak")
//	if errors.Is(err, peak.ErrFormat) {
//	    // rebuild, never repair
//	}
//
// A Store is a view.View, so it can be handed to view.SubView directly. When a
// request is finer than the store's interval, callers go back to the audio.
//
// Growable produces the same format while audio is still being captured and
// finalizes the header on Close.
package peak
