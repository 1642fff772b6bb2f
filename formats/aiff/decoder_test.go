// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate   int
	channels     int
	samples      []int
	offset       int
	returnErrors bool
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n

	return n, nil
}

func newSource(bitDepth int, samples ...int) *source {
	scale, _ := fullScale(bitDepth)

	return &source{
		dec:        &mockAiffReader{sampleRate: 44100, channels: 2, samples: samples},
		sampleRate: 44100,
		channels:   2,
		frames:     int64(len(samples) / 2),
		scale:      scale,
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("This is not AIFF data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotAiffFile) {
				t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(16, make([]int, 200)...)

	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("got %d Hz / %d ch, want 44100 Hz / 2 ch", src.SampleRate(), src.Channels())
	}
	if src.Frames() != 100 {
		t.Errorf("Frames() = %d, want 100", src.Frames())
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() before first read = %d, want 4096", src.BufSize())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitDepth int
		in       int
		want     float32
	}{
		{8, -128, -1},
		{8, 64, 0.5},
		{16, -32768, -1},
		{16, 16384, 0.5},
		{24, -8388608, -1},
		{24, 4194304, 0.5},
		{32, -2147483648, -1},
	}

	for _, tt := range tests {
		src := newSource(tt.bitDepth, tt.in, 0)
		buf := make([]float32, 2)

		n, err := src.ReadSamples(buf)
		if n != 2 || (err != nil && err != io.EOF) {
			t.Fatalf("%d-bit: ReadSamples() = %d, %v", tt.bitDepth, n, err)
		}
		if buf[0] != tt.want {
			t.Errorf("%d-bit: sample %d = %v, want %v", tt.bitDepth, tt.in, buf[0], tt.want)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	samples := make([]int, 1000)
	for i := range samples {
		samples[i] = i * 16
	}
	src := newSource(16, samples...)

	var got []float32
	buf := make([]float32, 300)
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	for i, v := range got {
		if want := float32(samples[i]) / 32768; v != want {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	n, err := newSource(16, 1, 2).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := newSource(16, 1, 2)
	src.dec.(*mockAiffReader).returnErrors = true

	_, err := src.ReadSamples(make([]float32, 4))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestFullScale_Rejects(t *testing.T) {
	t.Parallel()

	for _, bits := range []int{0, 4, 12, 20, 64} {
		if _, ok := fullScale(bits); ok {
			t.Errorf("fullScale(%d) accepted", bits)
		}
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 1<<16)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := newSource(16, samples...)
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
