// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files into an audio.Source using
// github.com/go-audio/aiff.
//
// AIFF stores big-endian integer PCM. Samples of 8, 16, 24 and 32 bits are
// scaled to float32 by their full-scale value, so the most negative sample
// maps to exactly -1.0. Other sizes fail with ErrUnsupportedBitDepth.
//
// The source reports its length from the COMM chunk, which lets a peak file
// builder announce progress totals before decoding:
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	frames := audio.Frames(src)
//
// The waveform cache reads uncompressed little-endian WAV, so AIFF input is
// normally spooled through wav.Encode first.
package aiff
