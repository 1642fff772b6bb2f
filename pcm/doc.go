// SPDX-License-Identifier: EPL-2.0

// Package pcm is random access to decoded PCM frames.
//
// Caches read blocks of frames by index through ReaderAt. File reads a byte
// range of a file on disk and opens it only for the duration of a read;
// Memory serves tests and small buffers. Samples of any supported width are
// brought to 16 bits with Decode16, and waveform views keep only their most
// significant byte (MSB, Peaks).
//
// Source turns a ReaderAt into a forward-only audio.Source so the peak file
// builder can stream it like any decoded file.
package pcm
