// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// File reads frames from a byte range of a file on disk. The file is opened
// for each read and closed right after, so a File holds no handle between
// calls.
type File struct {
	path   string
	offset int64
	format Format
	frames atomic.Int64
}

// NewFile describes frames of format stored at offset in path.
func NewFile(path string, offset int64, format Format, frames int64) (*File, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	f := &File{
		path:   path,
		offset: offset,
		format: format,
	}
	f.frames.Store(frames)

	return f, nil
}

func (f *File) Path() string   { return f.path }
func (f *File) Offset() int64  { return f.offset }
func (f *File) Format() Format { return f.format }
func (f *File) Frames() int64  { return f.frames.Load() }

// SetFrames moves the readable end, for files still being written.
func (f *File) SetFrames(n int64) { f.frames.Store(n) }

func (f *File) ReadFramesAt(p []byte, frame int64) (int, error) {
	fs := f.format.FrameSize()
	want := clipFrames(len(p)/fs, frame, f.Frames())
	if want <= 0 {
		return 0, io.EOF
	}

	fh, err := os.Open(f.path)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	defer fh.Close()

	n, err := fh.ReadAt(p[:want*fs], f.offset+frame*int64(fs))
	got := n / fs
	if got < want {
		return got, fmt.Errorf("%w: %d of %d frames at frame %d: %w", ErrPartialRead, got, want, frame, err)
	}

	return got, nil
}
