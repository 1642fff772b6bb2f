// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	// ErrUnsupportedSource indicates a sample encoding the decoder cannot interpret
	ErrUnsupportedSource = errors.New("unsupported PCM source")

	// ErrPartialRead indicates fewer frames were read than the source claims to hold
	ErrPartialRead = errors.New("partial PCM read")
)
