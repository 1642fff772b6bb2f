// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"
	"io"
)

// Source streams a ReaderAt front to back as normalized float32 samples.
// It implements audio.Source and audio.Lengther.
type Source struct {
	r     ReaderAt
	pos   int64
	buf   []byte
	tmp   []int16
	frame int
}

// NewSource reads r bufFrames frames at a time.
func NewSource(r ReaderAt, bufFrames int) *Source {
	if bufFrames <= 0 {
		bufFrames = 4096
	}
	f := r.Format()

	return &Source{
		r:     r,
		buf:   make([]byte, bufFrames*f.FrameSize()),
		tmp:   make([]int16, bufFrames*f.Channels),
		frame: f.FrameSize(),
	}
}

func (s *Source) SampleRate() int { return s.r.Format().SampleRate }
func (s *Source) Channels() int   { return s.r.Format().Channels }
func (s *Source) BufSize() int    { return len(s.tmp) }
func (s *Source) Close() error    { return nil }
func (s *Source) Frames() int64   { return s.r.Frames() }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	ch := s.Channels()
	frames := min(len(dst)/ch, len(s.buf)/s.frame)
	if frames == 0 {
		return 0, nil
	}

	n, err := s.r.ReadFramesAt(s.buf[:frames*s.frame], s.pos)
	if n == 0 {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("%w", err)
	}
	s.pos += int64(n)

	samples := Decode16(s.r.Format(), s.buf[:n*s.frame], s.tmp)
	for i := range samples {
		dst[i] = float32(s.tmp[i]) / 32768.0
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("%w", err)
	}

	return samples, nil
}
