// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"
	"io"
)

// Format describes interleaved little-endian integer PCM.
// 8-bit samples are unsigned, wider ones signed.
type Format struct {
	Channels   int
	BitDepth   int
	SampleRate int
}

func (f Format) BytesPerSample() int { return f.BitDepth / 8 }
func (f Format) FrameSize() int      { return f.Channels * f.BytesPerSample() }

// Validate rejects formats this package cannot decode.
func (f Format) Validate() error {
	if f.Channels <= 0 || f.Channels > 0xffff {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedSource, f.Channels)
	}

	switch f.BitDepth {
	case 8, 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: %d-bit samples", ErrUnsupportedSource, f.BitDepth)
	}
}

// ReaderAt gives random access to decoded frames.
type ReaderAt interface {
	Format() Format
	// Frames is the number of frames currently readable.
	Frames() int64
	// ReadFramesAt fills p with whole frames starting at frame and returns
	// how many frames it read. Reading at or past Frames returns io.EOF; a
	// read that ends early returns ErrPartialRead.
	ReadFramesAt(p []byte, frame int64) (int, error)
}

// Memory is a ReaderAt over a byte slice.
type Memory struct {
	format Format
	data   []byte
}

func NewMemory(format Format, data []byte) (*Memory, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	return &Memory{format: format, data: data}, nil
}

func (m *Memory) Format() Format { return m.format }

func (m *Memory) Frames() int64 {
	return int64(len(m.data) / m.format.FrameSize())
}

func (m *Memory) ReadFramesAt(p []byte, frame int64) (int, error) {
	fs := m.format.FrameSize()
	want := clipFrames(len(p)/fs, frame, m.Frames())
	if want <= 0 {
		return 0, io.EOF
	}

	off := frame * int64(fs)
	copy(p, m.data[off:off+int64(want*fs)])

	return want, nil
}

// clipFrames is how many of want frames starting at frame exist in total.
func clipFrames(want int, frame, total int64) int {
	if frame < 0 || frame >= total {
		return 0
	}

	return int(min(int64(want), total-frame))
}
