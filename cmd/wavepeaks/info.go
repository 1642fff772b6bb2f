// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/wavepeaks"
	"github.com/ik5/wavepeaks/peak"
)

func newInfoCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the peak file header of an audio or peak file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			audioPath := ""
			if wavepeaks.FormatOf(path) != "peak" {
				audioPath = path
				path = wavepeaks.PeakPath(path)
			}

			st, err := peak.Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			h := st.Header()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:      %s\n", path)
			fmt.Fprintf(out, "frames:    %d\n", h.RealLength)
			fmt.Fprintf(out, "channels:  %d\n", h.Channels)
			fmt.Fprintf(out, "interval:  %d\n", h.Interval)
			fmt.Fprintf(out, "snapshots: %d\n", h.Snapshots)
			if h.ModTime == peak.UnknownTime {
				fmt.Fprintln(out, "modified:  unknown")
			} else {
				fmt.Fprintf(out, "modified:  %s\n", time.UnixMilli(h.ModTime).UTC().Format(time.RFC3339Nano))
			}

			if audioPath != "" {
				fi, err := os.Stat(audioPath)
				if err != nil {
					return fmt.Errorf("%w", err)
				}
				fmt.Fprintf(out, "stale:     %t\n", st.Stale(fi.ModTime()))
			}

			return nil
		},
	}
}
