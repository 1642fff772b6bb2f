// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate   int
	samples      []int16 // interleaved stereo
	offset       int     // in bytes
	length       int64
	maxRead      int // caps the bytes returned per Read when > 0
	returnErrors bool
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }
func (m *mockMP3Reader) Length() int64   { return m.length }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	raw := make([]byte, len(m.samples)*2)
	for i, s := range m.samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	if m.offset >= len(raw) {
		return 0, io.EOF
	}

	if m.maxRead > 0 && len(buf) > m.maxRead {
		buf = buf[:m.maxRead]
	}
	n := copy(buf, raw[m.offset:])
	m.offset += n

	if m.offset >= len(raw) {
		return n, io.EOF
	}

	return n, nil
}

func drain(t *testing.T, src *source, bufSize int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, bufSize)
	for range 10000 {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("ReadSamples() never reached EOF")

	return nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not MP3 data")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", data)
		}
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		length int64
		want   int64
	}{
		{4000, 1000},
		{-1, -1},
		{0, 0},
	}

	for _, tt := range tests {
		src := &source{dec: &mockMP3Reader{sampleRate: 22050, length: tt.length}, sampleRate: 22050}
		if src.Frames() != tt.want {
			t.Errorf("Length %d: Frames() = %d, want %d", tt.length, src.Frames(), tt.want)
		}
		if src.Channels() != 2 || src.SampleRate() != 22050 {
			t.Errorf("got %d Hz / %d ch, want 22050 Hz / 2 ch", src.SampleRate(), src.Channels())
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	samples := []int16{-32768, 32767, 16384, -16384, 0, 1}
	want := []float32{-1, 32767.0 / 32768, 0.5, -0.5, 0, 1.0 / 32768}

	tests := []struct {
		name    string
		bufSize int
		maxRead int
	}{
		{"single read", 64, 0},
		{"one frame at a time", 2, 0},
		{"split frames", 64, 6},
		{"odd byte reads", 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{
				dec:        &mockMP3Reader{sampleRate: 44100, samples: samples, maxRead: tt.maxRead},
				sampleRate: 44100,
			}

			got := drain(t, src, tt.bufSize)
			if len(got) != len(want) {
				t.Fatalf("read %d samples, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_TinyBuffer(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockMP3Reader{samples: []int16{1, 2}}}
	n, err := src.ReadSamples(make([]float32, 1))
	if n != 0 || err != nil {
		t.Errorf("ReadSamples() with room for no frame = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockMP3Reader{returnErrors: true}}
	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 1<<15)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := &source{dec: &mockMP3Reader{samples: samples}}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
