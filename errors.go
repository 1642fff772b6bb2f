// SPDX-License-Identifier: EPL-2.0

package wavepeaks

import "errors"

var (
	// ErrUnknownFormat indicates no decoder is registered for a file extension
	ErrUnknownFormat = errors.New("no decoder for audio format")
)
