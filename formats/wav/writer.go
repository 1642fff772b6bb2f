// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/ik5/wavepeaks/pcm"
)

// Writer records PCM into a WAV file.
//
// The header is written up front with empty sizes and patched by Close.
// Everything written is readable through ReadFramesAt at once, and stays
// readable after Close.
type Writer struct {
	mu     sync.Mutex
	f      *os.File
	format pcm.Format
	data   int64
	reader *pcm.File
	closed bool
}

// Create starts a WAV file at path.
func Create(path string, format pcm.Format) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if _, err := f.Write(encodeHeader(format, 0)); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w", err)
	}

	reader, err := pcm.NewFile(path, HeaderSize, format, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Writer{
		f:      f,
		format: format,
		reader: reader,
	}, nil
}

func (w *Writer) Path() string       { return w.reader.Path() }
func (w *Writer) Format() pcm.Format { return w.format }
func (w *Writer) Frames() int64      { return w.reader.Frames() }

func (w *Writer) ReadFramesAt(p []byte, frame int64) (int, error) {
	return w.reader.ReadFramesAt(p, frame)
}

// Write appends whole frames of interleaved little-endian PCM.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, ErrClosed
	}

	fs := w.format.FrameSize()
	if len(p)%fs != 0 {
		return 0, fmt.Errorf("%w: %d bytes, frame size %d", ErrPartialFrame, len(p), fs)
	}
	if w.data+int64(len(p)) > maxDataSize {
		return 0, ErrTooLarge
	}

	n, err := w.f.Write(p)
	w.data += int64(n / fs * fs)
	w.reader.SetFrames(w.data / int64(fs))
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}

	return n, nil
}

// Close patches the RIFF and data sizes and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	w.closed = true

	sizes := make([]byte, 4)
	binary.LittleEndian.PutUint32(sizes, uint32(36+w.data))
	if _, err := w.f.WriteAt(sizes, 4); err != nil {
		w.f.Close()
		return fmt.Errorf("%w", err)
	}

	binary.LittleEndian.PutUint32(sizes, uint32(w.data))
	if _, err := w.f.WriteAt(sizes, 40); err != nil {
		w.f.Close()
		return fmt.Errorf("%w", err)
	}

	if err := w.f.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
