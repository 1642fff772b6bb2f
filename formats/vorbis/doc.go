// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio using github.com/jfreymuth/oggvorbis.
//
// Decoding is float native, so samples pass through without scaling. The
// stream length comes from the last Ogg page granule position and needs a
// seekable input; otherwise Frames reports -1.
package vorbis
