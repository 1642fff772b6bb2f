// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio using
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so every source has two channels
// whatever the file holds. Mono files come out with both channels equal.
//
// Frames is known only when the input is seekable; go-mp3 scans the stream
// once to learn its length. For a plain io.Reader it reports -1 and
// progress observers get no total.
package mp3
