// SPDX-License-Identifier: EPL-2.0

package builder

import "errors"

var (
	// ErrCancelled indicates the build was stopped before it finished. The
	// output is incomplete and must not be used.
	ErrCancelled = errors.New("peak build cancelled")

	// ErrInvalidInterval indicates an interval below one frame
	ErrInvalidInterval = errors.New("invalid peak interval")
)
