// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/ik5/wavepeaks/pcm"
)

// Interleave16 builds little-endian 16-bit PCM of frames frames.
func Interleave16(channels, frames int, sample func(frame, channel int) int16) []byte {
	b := make([]byte, frames*channels*2)
	for f := range frames {
		for c := range channels {
			binary.LittleEndian.PutUint16(b[(f*channels+c)*2:], uint16(sample(f, c)))
		}
	}

	return b
}

// WAV wraps PCM data in a canonical 44-byte header.
func WAV(format pcm.Format, data []byte) []byte {
	buf := new(bytes.Buffer)

	blockAlign := format.FrameSize()
	byteRate := format.SampleRate * blockAlign

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(format.Channels))
	binary.Write(buf, binary.LittleEndian, uint32(format.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(format.BitDepth))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

// SynthReader generates 16-bit frames on demand, so very long sources cost
// no memory. Sample returns the value for a frame and channel.
type SynthReader struct {
	Fmt    pcm.Format
	Total  int64
	Sample func(frame int64, channel int) int16
}

func (s *SynthReader) Format() pcm.Format { return s.Fmt }
func (s *SynthReader) Frames() int64      { return s.Total }

func (s *SynthReader) ReadFramesAt(p []byte, frame int64) (int, error) {
	ch := s.Fmt.Channels
	want := min(int64(len(p)/(ch*2)), s.Total-frame)
	if frame < 0 || want <= 0 {
		return 0, io.EOF
	}

	for f := range want {
		for c := range ch {
			binary.LittleEndian.PutUint16(p[(int(f)*ch+c)*2:], uint16(s.Sample(frame+f, c)))
		}
	}

	return int(want), nil
}

// CountingReader records every read made through it.
type CountingReader struct {
	pcm.ReaderAt

	mu    sync.Mutex
	reads []int64
}

func NewCountingReader(r pcm.ReaderAt) *CountingReader {
	return &CountingReader{ReaderAt: r}
}

func (c *CountingReader) ReadFramesAt(p []byte, frame int64) (int, error) {
	c.mu.Lock()
	c.reads = append(c.reads, frame)
	c.mu.Unlock()

	return c.ReaderAt.ReadFramesAt(p, frame)
}

// Reads returns the start frame of every read so far.
func (c *CountingReader) Reads() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]int64(nil), c.reads...)
}

// FailingReader fails every read that starts inside [From, To).
type FailingReader struct {
	pcm.ReaderAt

	From, To int64
}

func (f *FailingReader) ReadFramesAt(p []byte, frame int64) (int, error) {
	if frame >= f.From && frame < f.To {
		return 0, fmt.Errorf("%w: injected failure at frame %d", pcm.ErrPartialRead, frame)
	}

	return f.ReaderAt.ReadFramesAt(p, frame)
}
