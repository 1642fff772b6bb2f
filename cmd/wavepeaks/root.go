// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ik5/wavepeaks"
	"github.com/ik5/wavepeaks/audio"
	"github.com/ik5/wavepeaks/internal/config"
)

// app is what every subcommand shares once the configuration is loaded.
type app struct {
	cfgPath  string
	logLevel string

	log  *slog.Logger
	opts wavepeaks.Options
	reg  *audio.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wavepeaks",
		Short: "Multi-resolution waveform peaks for audio files",
		Long: `wavepeaks keeps a peak file next to each audio file and answers
waveform queries at any zoom level from it, falling back to the audio
itself when a view needs more detail than the peaks hold.

Supported inputs are WAV, and MP3, Ogg Vorbis and AIFF which are
spooled to WAV on first use.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (debug|info|warn|error)")

	root.AddCommand(
		newBuildCmd(a),
		newInfoCmd(a),
		newViewCmd(a),
		newRecordCmd(a),
	)

	return root
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a.log, err = cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.opts, err = cfg.Options(a.log)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	a.reg = wavepeaks.NewRegistry()

	return nil
}
