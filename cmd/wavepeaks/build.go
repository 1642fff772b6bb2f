// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ik5/wavepeaks"
)

func newBuildCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "build <file>...",
		Short: "Create or refresh the peak files of audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				opts := a.opts
				var pr *progress
				if !quiet {
					pr = newProgress(cmd.ErrOrStderr(), filepath.Base(path))
					opts.Observer = pr
				}

				c, err := wavepeaks.OpenMedia(cmd.Context(), a.reg, path, opts)
				if pr != nil {
					pr.Wait()
				}
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				h := c.Peaks().Header()
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d frames, %d channels, %d snapshots of %d frames\n",
					path, h.RealLength, h.Channels, h.Snapshots, h.Interval)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show progress")

	return cmd
}
