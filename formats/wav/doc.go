// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files.
//
// Decoder streams a canonical WAV (RIFF, fmt, data) as an audio.Source.
// OpenPCM walks the chunks of a file on disk with github.com/go-audio/wav
// and returns random-access frames, which is what the caches read from.
// Writer records a capture file that stays readable while it grows, and
// Encode spools any audio.Source into 16-bit PCM.
//
// Integer PCM of 8, 16, 24 and 32 bits is supported. Samples wider than 16
// bits are reduced to their top 16 bits.
//
//	f, err := wav.OpenPCM("take.wav")
//	if errors.Is(err, wav.ErrNotWavFile) {
//		// not a RIFF/WAVE file
//	}
package wav
