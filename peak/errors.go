// SPDX-License-Identifier: EPL-2.0

package peak

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates a peak file inconsistent with its own header.
	// Such files are rejected, never repaired.
	ErrFormat = errors.New("invalid peak file")

	// ErrBadMagic indicates the file does not start with the peak file tag
	ErrBadMagic = fmt.Errorf("%w: bad magic tag", ErrFormat)

	// ErrLengthMismatch indicates the file length differs from the header's
	ErrLengthMismatch = fmt.Errorf("%w: length mismatch", ErrFormat)

	// ErrClosed indicates a write to a growable store after Close
	ErrClosed = errors.New("peak store is closed")
)
