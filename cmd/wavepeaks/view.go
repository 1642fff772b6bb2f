// SPDX-License-Identifier: EPL-2.0

package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ik5/wavepeaks"
	"github.com/ik5/wavepeaks/view"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		start, length int64
		width, height int
	)

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Render a waveform view of an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wavepeaks.OpenMedia(cmd.Context(), a.reg, args[0], a.opts)
			if err != nil {
				return err
			}

			if length <= 0 {
				length = c.TotalLength() - start
			}
			if width <= 0 {
				width = terminalWidth()
			}

			v, err := c.GetView(start, length, width)
			if err != nil {
				return err
			}

			a.log.Debug("view", "start", start, "length", length, "width", width,
				"volatile", view.IsVolatile(v), "stats", c.Stats())

			return render(cmd.OutOrStdout(), v, height)
		},
	}

	cmd.Flags().Int64Var(&start, "start", 0, "first frame")
	cmd.Flags().Int64Var(&length, "length", 0, "frames to show (default: to the end)")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "columns (default: terminal width)")
	cmd.Flags().IntVarP(&height, "height", "H", 9, "rows per channel")

	return cmd
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}

	return 80
}
