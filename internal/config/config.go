// SPDX-License-Identifier: EPL-2.0

// Package config loads the wavepeaks command line configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ik5/wavepeaks"
	"github.com/ik5/wavepeaks/builder"
	"github.com/ik5/wavepeaks/cache"
)

// ErrInvalid indicates a configuration value out of range
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Peaks   PeaksConfig   `yaml:"peaks"`
	Cache   CacheConfig   `yaml:"cache"`
	Spool   SpoolConfig   `yaml:"spool"`
	Logging LoggingConfig `yaml:"logging"`
}

type PeaksConfig struct {
	Interval     int `yaml:"interval"`
	BufferFrames int `yaml:"buffer_frames"`
}

type CacheConfig struct {
	BlockFrames int    `yaml:"block_frames"`
	MaxChunks   int    `yaml:"max_chunks"`
	OnError     string `yaml:"on_error"`
}

type SpoolConfig struct {
	Rate int  `yaml:"rate"`
	Mono bool `yaml:"mono"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default is the configuration used for anything a file leaves out.
func Default() Config {
	return Config{
		Peaks: PeaksConfig{
			Interval:     builder.DefaultInterval,
			BufferFrames: builder.DefaultBufferFrames,
		},
		Cache: CacheConfig{
			BlockFrames: cache.DefaultBlockFrames,
			MaxChunks:   cache.DefaultMaxChunks,
			OnError:     cache.SilentOnError.String(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over Default. An empty path returns
// Default.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(bytes.NewReader(data))
}

// Parse decodes YAML from r over Default. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Peaks.Interval <= 0:
		return fmt.Errorf("%w: peaks.interval %d", ErrInvalid, c.Peaks.Interval)
	case c.Peaks.BufferFrames <= 0:
		return fmt.Errorf("%w: peaks.buffer_frames %d", ErrInvalid, c.Peaks.BufferFrames)
	case c.Cache.BlockFrames <= 0:
		return fmt.Errorf("%w: cache.block_frames %d", ErrInvalid, c.Cache.BlockFrames)
	case c.Cache.MaxChunks <= 0:
		return fmt.Errorf("%w: cache.max_chunks %d", ErrInvalid, c.Cache.MaxChunks)
	case c.Spool.Rate < 0:
		return fmt.Errorf("%w: spool.rate %d", ErrInvalid, c.Spool.Rate)
	}

	if _, err := cache.ParsePolicy(c.Cache.OnError); err != nil {
		return fmt.Errorf("%w: cache.on_error: %w", ErrInvalid, err)
	}
	if _, err := c.level(); err != nil {
		return err
	}

	return nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("%w: logging.level: %w", ErrInvalid, err)
	}

	return l, nil
}

// Logger builds the logger described by the logging section, writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.JSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Options converts the configuration into library options logging to
// logger.
func (c *Config) Options(logger *slog.Logger) (wavepeaks.Options, error) {
	policy, err := cache.ParsePolicy(c.Cache.OnError)
	if err != nil {
		return wavepeaks.Options{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	opts := wavepeaks.DefaultOptions()
	opts.Logger = logger
	opts.Cache.Logger = logger
	opts.Cache.BlockFrames = c.Cache.BlockFrames
	opts.Cache.MaxChunks = c.Cache.MaxChunks
	opts.Cache.Policy = policy
	opts.Build.Interval = c.Peaks.Interval
	opts.Build.BufferFrames = c.Peaks.BufferFrames
	opts.SpoolRate = c.Spool.Rate
	opts.SpoolMono = c.Spool.Mono

	return opts, nil
}
