// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/wavepeaks/audio"
	"github.com/ik5/wavepeaks/pcm"
)

type wavSource struct {
	r      io.Reader
	format pcm.Format
	frames int64

	buf  []byte
	wide []int16
}

func (s *wavSource) SampleRate() int { return s.format.SampleRate }
func (s *wavSource) Channels() int   { return s.format.Channels }
func (s *wavSource) BufSize() int    { return 4096 }
func (s *wavSource) Close() error    { return nil }

// Frames is taken from the data chunk size, -1 for a streamed file that
// never filled it in.
func (s *wavSource) Frames() int64 { return s.frames }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	fs := s.format.FrameSize()
	want := len(dst) / s.format.Channels * fs
	if want == 0 {
		return 0, nil
	}

	if len(s.buf) < want {
		s.buf = make([]byte, want)
		s.wide = make([]int16, len(dst))
	}

	n, err := io.ReadFull(s.r, s.buf[:want])
	switch err {
	case nil, io.EOF, io.ErrUnexpectedEOF:
	default:
		return 0, fmt.Errorf("%w", err)
	}

	// a trailing partial frame is dropped
	n = n / fs * fs
	samples := pcm.Decode16(s.format, s.buf[:n], s.wide)
	for i, v := range s.wide[:samples] {
		dst[i] = float32(v) / 32768.0
	}

	if samples == 0 && err != nil {
		return 0, io.EOF
	}

	return samples, nil
}

// Decoder reads canonical WAV streams: RIFF, a PCM fmt chunk, then data.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	header := make([]byte, HeaderSize)

	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if !bytes.HasPrefix(header[:4], []byte("RIFF")) || !bytes.HasPrefix(header[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	if !bytes.HasPrefix(header[12:16], []byte("fmt ")) {
		return nil, ErrUnsupportedWavLayout
	}

	if tag := binary.LittleEndian.Uint16(header[20:22]); tag != formatPCM {
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, tag)
	}

	format := pcm.Format{
		Channels:   int(binary.LittleEndian.Uint16(header[22:24])),
		SampleRate: int(binary.LittleEndian.Uint32(header[24:28])),
		BitDepth:   int(binary.LittleEndian.Uint16(header[34:36])),
	}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEncoding, err)
	}

	// the data chunk must follow fmt directly
	if !bytes.HasPrefix(header[36:40], []byte("data")) {
		return nil, ErrUnsupportedWavChunks
	}

	src := &wavSource{
		r:      r,
		format: format,
		frames: -1,
	}
	if size := binary.LittleEndian.Uint32(header[40:44]); size != math.MaxUint32 {
		src.r = io.LimitReader(r, int64(size))
		src.frames = int64(size) / int64(format.FrameSize())
	}

	return src, nil
}
