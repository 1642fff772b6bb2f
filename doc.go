// SPDX-License-Identifier: EPL-2.0

// Package wavepeaks serves multi-resolution waveform views of audio files.
//
// A renderer asks a cache for the min/max envelope of a frame range at a
// given pixel width. Wide requests are answered from a peak file that holds
// one (min, max) pair per channel for every interval of frames; narrow ones
// read the audio itself through a small pool of decoded blocks.
//
// # Opening a file
//
// Open pairs a 16-bit WAV file with its peak file, building or rebuilding
// the peak file when it is missing, unreadable or older than the audio:
//
//	c, err := wavepeaks.Open(ctx, "take1.wav", wavepeaks.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	v, err := c.GetView(0, c.TotalLength(), 800)
//
// Compressed sources go through Spool, or OpenMedia which spools on demand
// using a decoder Registry.
//
// # Recording
//
// Record starts a growable cache on a new capture file. Captured bytes are
// appended as they arrive and every view handed out before Close is marked
// volatile, so renderers never keep a picture of audio that is still
// growing.
//
//	rec, err := wavepeaks.Record("live.wav", pcm.Format{Channels: 2, BitDepth: 16, SampleRate: 48000}, opts)
//	...
//	err = rec.Append(buf)
//	...
//	final, err := rec.Close()
//
// The packages below this one can be used on their own: view for the view
// algebra, peak for the file format, cache for the caches and builder for
// peak file generation.
package wavepeaks
