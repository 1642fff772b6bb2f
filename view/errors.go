// SPDX-License-Identifier: EPL-2.0

package view

import "errors"

var (
	// ErrChannelMismatch indicates views with different channel counts were combined
	ErrChannelMismatch = errors.New("views have different channel counts")

	// ErrEmptyConcat indicates a concatenation of no views
	ErrEmptyConcat = errors.New("nothing to concatenate")
)
