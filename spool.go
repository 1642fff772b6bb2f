// SPDX-License-Identifier: EPL-2.0

package wavepeaks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/wavepeaks/audio"
	"github.com/ik5/wavepeaks/cache"
	"github.com/ik5/wavepeaks/formats/aiff"
	"github.com/ik5/wavepeaks/formats/mp3"
	"github.com/ik5/wavepeaks/formats/vorbis"
	"github.com/ik5/wavepeaks/formats/wav"
)

// NewRegistry returns a registry with every built-in decoder, keyed by file
// extension.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})

	return reg
}

// FormatOf is the registry key for path: its lower-cased extension.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Spool decodes src with the decoder registered for its extension and
// writes it to dst as 16-bit PCM WAV, which the caches can read at random.
// opts.SpoolRate and opts.SpoolMono reshape the audio on the way. dst is
// removed if spooling fails.
func Spool(ctx context.Context, reg *audio.Registry, src, dst string, opts Options) (int64, error) {
	opts = opts.withDefaults()

	dec, ok := reg.Get(FormatOf(src))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(src))
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	defer in.Close()

	s, err := dec.Decode(in)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", src, err)
	}
	defer s.Close()

	if opts.SpoolRate > 0 && opts.SpoolRate != s.SampleRate() {
		s = audio.NewResampler(s, opts.SpoolRate)
	}
	if opts.SpoolMono && s.Channels() > 1 {
		s = audio.NewMonoMixer(s)
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	frames, err := wav.Encode(out, ctxSource{Source: s, ctx: ctx})
	if err == nil {
		err = out.Close()
	} else {
		out.Close()
	}
	if err != nil {
		return 0, errors.Join(fmt.Errorf("spooling %s: %w", src, err), os.Remove(dst))
	}

	opts.Logger.Debug("spooled", "src", src, "dst", dst, "frames", frames)

	return frames, nil
}

// OpenMedia opens any file reg can decode. WAV files are opened in place;
// everything else is spooled to path+".wav" first, reusing an earlier spool
// that is newer than the source.
func OpenMedia(ctx context.Context, reg *audio.Registry, path string, opts Options) (*cache.FileCache, error) {
	if FormatOf(path) == "wav" {
		return Open(ctx, path, opts)
	}

	spooled := path + ".wav"
	if !newer(spooled, path) {
		if _, err := Spool(ctx, reg, path, spooled, opts); err != nil {
			return nil, err
		}
	}

	return Open(ctx, spooled, opts)
}

// newer reports whether a exists and was modified after b.
func newer(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}

	return fa.ModTime().After(fb.ModTime())
}

// ctxSource stops a stream once ctx is done.
type ctxSource struct {
	audio.Source

	ctx context.Context
}

func (s ctxSource) ReadSamples(dst []float32) (int, error) {
	if err := context.Cause(s.ctx); err != nil {
		return 0, err
	}

	return s.Source.ReadSamples(dst)
}
