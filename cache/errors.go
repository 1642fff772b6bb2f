// SPDX-License-Identifier: EPL-2.0

package cache

import "errors"

var (
	// ErrClosed indicates use of a growable cache after Close
	ErrClosed = errors.New("cache: closed")

	// ErrBlockLoad indicates a block could not be read under the FailOnError policy
	ErrBlockLoad = errors.New("cache: loading block")

	// ErrFormatChange indicates a peak store whose channel count differs from the audio
	ErrFormatChange = errors.New("cache: peak store does not match the audio source")
)
