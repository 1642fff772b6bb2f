// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/wavepeaks/cache"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	yamlContent := `
peaks:
  interval: 512
cache:
  max_chunks: 4
  on_error: fail
spool:
  rate: 16000
  mono: true
logging:
  level: debug
  json: true
`

	cfgPath := filepath.Join(t.TempDir(), "wavepeaks.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Peaks.Interval != 512 {
		t.Errorf("expected interval 512, got %d", cfg.Peaks.Interval)
	}
	if cfg.Cache.BlockFrames != cache.DefaultBlockFrames {
		t.Errorf("expected default block frames, got %d", cfg.Cache.BlockFrames)
	}

	opts, err := cfg.Options(slog.Default())
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if opts.Cache.Policy != cache.FailOnError || opts.Cache.MaxChunks != 4 {
		t.Errorf("cache options = %+v", opts.Cache)
	}
	if opts.Build.Interval != 512 || opts.SpoolRate != 16000 || !opts.SpoolMono {
		t.Errorf("options = interval %d, rate %d, mono %v", opts.Build.Interval, opts.SpoolRate, opts.SpoolMono)
	}

	var buf bytes.Buffer
	logger, err := cfg.Logger(&buf)
	if err != nil {
		t.Fatalf("Logger failed: %v", err)
	}
	logger.Debug("hello", "k", 1)
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected a JSON debug record, got %q", buf.String())
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"", "# nothing\n"} {
		cfg, err := Parse(strings.NewReader(src))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", src, err)
		}
		if *cfg != Default() {
			t.Errorf("Parse(%q) = %+v, want defaults", src, *cfg)
		}
	}

	cfg, err := Load("")
	if err != nil || *cfg != Default() {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{"zero interval", "peaks:\n  interval: 0\n", true},
		{"negative chunks", "cache:\n  max_chunks: -1\n", true},
		{"bad policy", "cache:\n  on_error: retry\n", true},
		{"bad level", "logging:\n  level: chatty\n", true},
		{"negative rate", "spool:\n  rate: -8000\n", true},
		{"unknown key", "peaks:\n  intervall: 10\n", false},
		{"not yaml", "peaks: [", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, ErrInvalid) != tt.invalid {
				t.Errorf("errors.Is(%v, ErrInvalid) = %v, want %v", err, !tt.invalid, tt.invalid)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
