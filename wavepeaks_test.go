// SPDX-License-Identifier: EPL-2.0

package wavepeaks

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ik5/wavepeaks/audio"
	"github.com/ik5/wavepeaks/builder"
	"github.com/ik5/wavepeaks/formats/wav"
	"github.com/ik5/wavepeaks/internal/audiotest"
	"github.com/ik5/wavepeaks/pcm"
	"github.com/ik5/wavepeaks/peak"
	"github.com/ik5/wavepeaks/view"
)

var stereo16 = pcm.Format{Channels: 2, BitDepth: 16, SampleRate: 8000}

func wave(frame, channel int) int16 {
	return int16(frame*97 + channel*5000)
}

type buildCounter struct {
	builder.NopObserver

	finished atomic.Int32
}

func (b *buildCounter) OnFinished() { b.finished.Add(1) }

func testOptions() (Options, *buildCounter) {
	obs := &buildCounter{}

	opts := DefaultOptions()
	opts.Build.Interval = 100
	opts.Observer = obs
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	return opts, obs
}

func writeWAV(t *testing.T, dir string, frames int) string {
	t.Helper()

	path := filepath.Join(dir, "take.wav")
	data := audiotest.WAV(stereo16, audiotest.Interleave16(2, frames, wave))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	return path
}

func TestOpen(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, t.TempDir(), 1000)
	opts, obs := testOptions()

	c, err := Open(t.Context(), path, opts)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if obs.finished.Load() != 1 {
		t.Fatalf("first Open built %d peak files, want 1", obs.finished.Load())
	}
	if c.TotalLength() != 1000 || c.Channels() != 2 || c.Peaks().Len() != 10 {
		t.Fatalf("cache = %d frames, %d ch, %d snapshots, want 1000, 2, 10",
			c.TotalLength(), c.Channels(), c.Peaks().Len())
	}

	v, err := c.GetView(0, 1000, 10)
	if err != nil {
		t.Fatalf("GetView() error = %v", err)
	}
	// snapshot 3 covers frames 300..399 of channel 0
	lo, hi := v.MinMax(0, 3)
	if want := pcm.MSB(wave(300, 0)); lo > want || hi < want {
		t.Errorf("MinMax(0, 3) = (%d, %d), does not contain %d", lo, hi, want)
	}

	if _, err := Open(t.Context(), path, opts); err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if obs.finished.Load() != 1 {
		t.Errorf("second Open rebuilt a fresh peak file")
	}
}

func TestOpen_Rebuilds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		change func(t *testing.T, path string, opts *Options)
	}{
		{"stale", func(t *testing.T, path string, _ *Options) {
			old := time.Now().Add(-time.Hour)
			if err := os.Chtimes(path, old, old); err != nil {
				t.Fatal(err)
			}
		}},
		{"corrupt", func(t *testing.T, path string, _ *Options) {
			if err := os.WriteFile(PeakPath(path), []byte("WVPK junk"), 0o644); err != nil {
				t.Fatal(err)
			}
		}},
		{"interval", func(_ *testing.T, _ string, opts *Options) {
			opts.Build.Interval = 50
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeWAV(t, t.TempDir(), 1000)
			opts, obs := testOptions()

			if _, err := Open(t.Context(), path, opts); err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			tt.change(t, path, &opts)

			c, err := Open(t.Context(), path, opts)
			if err != nil {
				t.Fatalf("Open() after change error = %v", err)
			}
			if obs.finished.Load() != 2 {
				t.Errorf("built %d peak files, want 2", obs.finished.Load())
			}

			fi, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if c.Peaks().Stale(fi.ModTime()) {
				t.Error("rebuilt peak file is stale")
			}
		})
	}
}

func TestOpen_Cancelled(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, t.TempDir(), 1000)
	opts, _ := testOptions()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := Open(ctx, path, opts); !errors.Is(err, builder.ErrCancelled) {
		t.Fatalf("Open() error = %v, want ErrCancelled", err)
	}
	if _, err := os.Stat(PeakPath(path)); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("cancelled build left a peak file: %v", err)
	}
}

func TestOpen_NotWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.wav")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, _ := testOptions()
	if _, err := Open(t.Context(), path, opts); err == nil {
		t.Error("Open() of a non-WAV file succeeded")
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "live.wav")
	opts, obs := testOptions()

	rec, err := Record(path, stereo16, opts)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := rec.Append(audiotest.Interleave16(2, 250, wave)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	v, err := rec.GetView(0, 250, 2)
	if err != nil {
		t.Fatalf("GetView() error = %v", err)
	}
	if !view.IsVolatile(v) {
		t.Error("view of a live recording is not volatile")
	}

	final, err := rec.Close()
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if final.TotalLength() != 250 {
		t.Errorf("TotalLength() = %d, want 250", final.TotalLength())
	}
	if _, err := rec.Close(); err == nil {
		t.Error("second Close() succeeded")
	}

	c, err := Open(t.Context(), path, opts)
	if err != nil {
		t.Fatalf("Open() of the recording error = %v", err)
	}
	if obs.finished.Load() != 0 {
		t.Error("Open rebuilt the peak file written while recording")
	}
	if c.Peaks().Len() != 3 || c.TotalLength() != 250 {
		t.Errorf("reopened = %d snapshots / %d frames, want 3 / 250", c.Peaks().Len(), c.TotalLength())
	}
}

func TestRecord_RejectsFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts, _ := testOptions()

	if _, err := Record(filepath.Join(dir, "x.wav"), pcm.Format{Channels: 1, BitDepth: 12, SampleRate: 8000}, opts); err == nil {
		t.Fatal("Record() accepted a 12-bit format")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("failed Record left %d files", len(entries))
	}
}

// fakeDecoder ignores its input and yields 500 stereo frames of wave.
type fakeDecoder struct {
	calls atomic.Int32
}

func (d *fakeDecoder) Decode(io.Reader) (audio.Source, error) {
	d.calls.Add(1)
	return audiotest.NewPCM16Source(8000, 2, 500, wave), nil
}

func fakeMedia(t *testing.T) (*audio.Registry, *fakeDecoder, string) {
	t.Helper()

	dec := &fakeDecoder{}
	reg := NewRegistry()
	reg.Register("fake", dec)

	path := filepath.Join(t.TempDir(), "in.fake")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	return reg, dec, path
}

func TestSpool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mono         bool
		rate         int
		wantChannels int
		wantRate     int
	}{
		{"as is", false, 0, 2, 8000},
		{"mono", true, 0, 1, 8000},
		{"resampled", false, 4000, 2, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg, _, src := fakeMedia(t)
			dst := src + ".wav"

			opts, _ := testOptions()
			opts.SpoolMono = tt.mono
			opts.SpoolRate = tt.rate

			frames, err := Spool(t.Context(), reg, src, dst, opts)
			if err != nil {
				t.Fatalf("Spool() error = %v", err)
			}

			f, err := wav.OpenPCM(dst)
			if err != nil {
				t.Fatalf("OpenPCM() error = %v", err)
			}
			if f.Frames() != frames {
				t.Errorf("file holds %d frames, Spool reported %d", f.Frames(), frames)
			}
			if got := f.Format(); got.Channels != tt.wantChannels || got.SampleRate != tt.wantRate {
				t.Errorf("format = %+v, want %d ch at %d Hz", got, tt.wantChannels, tt.wantRate)
			}
			if tt.rate == 0 && frames != 500 {
				t.Errorf("Spool() = %d frames, want 500", frames)
			}
		})
	}
}

func TestSpool_Errors(t *testing.T) {
	t.Parallel()

	reg, _, src := fakeMedia(t)
	opts, _ := testOptions()

	if _, err := Spool(t.Context(), reg, filepath.Join(t.TempDir(), "x.flac"), "out.wav", opts); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Spool() of .flac error = %v, want ErrUnknownFormat", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	dst := src + ".wav"
	if _, err := Spool(ctx, reg, src, dst, opts); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Spool() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(dst); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("cancelled Spool left %s behind", dst)
	}
}

func TestOpenMedia(t *testing.T) {
	t.Parallel()

	reg, dec, src := fakeMedia(t)
	opts, obs := testOptions()

	// the source predates any spool
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(src, old, old); err != nil {
		t.Fatal(err)
	}

	for range 2 {
		c, err := OpenMedia(t.Context(), reg, src, opts)
		if err != nil {
			t.Fatalf("OpenMedia() error = %v", err)
		}
		if c.TotalLength() != 500 {
			t.Errorf("TotalLength() = %d, want 500", c.TotalLength())
		}
	}

	if dec.calls.Load() != 1 {
		t.Errorf("decoded %d times, want 1", dec.calls.Load())
	}
	if obs.finished.Load() != 1 {
		t.Errorf("built %d peak files, want 1", obs.finished.Load())
	}

	st, err := peak.Open(PeakPath(src + ".wav"))
	if err != nil {
		t.Fatalf("peak.Open() error = %v", err)
	}
	if st.RealLength() != 500 {
		t.Errorf("peak RealLength() = %d, want 500", st.RealLength())
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"a/b/c.WAV":   "wav",
		"song.mp3":    "mp3",
		"x.tar.ogg":   "ogg",
		"noextension": "",
		"dir.d/file":  "",
		"take.aiff":   "aiff",
	}

	for in, want := range tests {
		if got := FormatOf(in); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", in, got, want)
		}
	}
}
