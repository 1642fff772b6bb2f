// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"slices"
	"testing"

	"github.com/ik5/wavepeaks/internal/audiotest"
)

type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(r io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

type bareSource struct{ Source }

func readAll(t *testing.T, src Source, bufSize int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, bufSize)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
		if n == 0 {
			t.Fatal("ReadSamples() made no progress")
		}
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wav := &mockDecoder{name: "wav"}
	mp3 := &mockDecoder{name: "mp3"}

	registry.Register("wav", wav)
	registry.Register("mp3", mp3)

	tests := []struct {
		format string
		want   Decoder
		wantOK bool
	}{
		{"wav", wav, true},
		{"mp3", mp3, true},
		{"flac", nil, false},
	}

	for _, tt := range tests {
		got, ok := registry.Get(tt.format)
		if ok != tt.wantOK {
			t.Errorf("Registry.Get(%q) ok = %v, want %v", tt.format, ok, tt.wantOK)
		}
		if tt.wantOK && got != tt.want {
			t.Errorf("Registry.Get(%q) returned wrong decoder", tt.format)
		}
	}

	formats := registry.Formats()
	slices.Sort(formats)
	if !slices.Equal(formats, []string{"mp3", "wav"}) {
		t.Errorf("Registry.Formats() = %v, want [mp3 wav]", formats)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "test"}

	done := make(chan bool)
	for range 10 {
		go func() {
			registry.Register("format", decoder)
			done <- true
		}()
		go func() {
			_, _ = registry.Get("format")
			done <- true
		}()
	}
	for range 20 {
		<-done
	}

	if got, ok := registry.Get("format"); !ok || got != decoder {
		t.Error("Registry returned wrong decoder after concurrent operations")
	}
}

func TestFrames(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 2, 1234)
	if got := Frames(src); got != 1234 {
		t.Errorf("Frames() = %d, want 1234", got)
	}
	if got := Frames(bareSource{src}); got != -1 {
		t.Errorf("Frames() without Lengther = %d, want -1", got)
	}

	if got := Frames(NewMonoMixer(src)); got != 1234 {
		t.Errorf("MonoMixer Frames() = %d, want 1234", got)
	}
	if got := Frames(NewResampler(src, 4000)); got != 617 {
		t.Errorf("Resampler Frames() = %d, want 617", got)
	}
}

func TestResampler_Downsampling(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(44100, 1, 44100, 440.0)
	r := NewResampler(src, 8000)

	if r.SampleRate() != 8000 || r.Channels() != 1 {
		t.Fatalf("Resampler = %d Hz / %d ch, want 8000 Hz / 1 ch", r.SampleRate(), r.Channels())
	}

	out := readAll(t, r, 1024)
	if diff := len(out) - 8000; diff < -10 || diff > 10 {
		t.Errorf("got %d samples, want ≈8000", len(out))
	}

	for i, v := range out {
		if v < -1.1 || v > 1.1 {
			t.Fatalf("sample %d = %v out of range", i, v)
		}
	}
}

func TestResampler_SameRateKeepsLevel(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewConstantSource(8000, 2, 100, 0.5), 8000)

	out := readAll(t, r, 64)
	if len(out) == 0 {
		t.Fatal("no samples")
	}
	for i, v := range out {
		if math.Abs(float64(v-0.5)) > 0.01 {
			t.Fatalf("sample %d = %v, want 0.5", i, v)
		}
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(8000, 2, 100), 8000)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(8000, 1, 0), 16000)
	n, err := r.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestMonoMixer_Averages(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 2, 100, func(_ int, channel int) float32 {
		if channel == 0 {
			return 0.4
		}
		return 0.6
	})
	m := NewMonoMixer(src)

	out := readAll(t, m, 30)
	if len(out) != 100 {
		t.Fatalf("got %d samples, want 100", len(out))
	}
	for i, v := range out {
		if math.Abs(float64(v-0.5)) > 0.001 {
			t.Fatalf("sample %d = %v, want 0.5", i, v)
		}
	}
}

func TestMonoMixer_Passthrough(t *testing.T) {
	t.Parallel()

	m := NewMonoMixer(audiotest.NewConstantSource(8000, 1, 10, 0.25))
	out := readAll(t, m, 4)
	if len(out) != 10 || out[9] != 0.25 {
		t.Errorf("got %v, want ten samples of 0.25", out)
	}
}
