// SPDX-License-Identifier: EPL-2.0

// Package view defines the waveform view contract and its composition wrappers.
//
// A View is what a renderer draws: for every displayable index and channel a
// (min, max) pair of signed bytes, the most significant byte of the 16-bit
// samples it summarizes. RealLength counts the original sample frames behind
// the view, Len the pairs it holds, and their ratio is the zoom factor.
//
// # Wrappers
//
// Views are composed instead of copied:
//   - Buffer holds pairs in memory
//   - Sub is a range of another view
//   - Concat joins views with the same channel count
//   - Fill is silence
//   - Zoom resamples a view to an exact width
//   - Volatile marks data that may still change
//
// # Sub-views
//
// SubView is the combinator every cache is built on:
//
//	v := view.SubView(src, begin, length, width)
//	// v.Len() == width, always
//
// Requests reaching past the end of src are padded with silence, and requests
// coarser than src are reduced with Reduce. CanProvide tells a renderer
// whether a view it already holds can answer a new request, which keeps small
// scroll steps away from the cache entirely.
package view
