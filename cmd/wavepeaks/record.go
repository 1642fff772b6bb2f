// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/wavepeaks"
	"github.com/ik5/wavepeaks/pcm"
)

func newRecordCmd(a *app) *cobra.Command {
	var (
		format pcm.Format
		from   string
		every  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "record <out.wav>",
		Short: "Record raw little-endian PCM from stdin into a WAV file and its peak file",
		Long: `record appends raw interleaved little-endian PCM, read from stdin or
--from, to a new WAV file while keeping its peak file current. It stops at
end of input or on interrupt, and finishes both files either way. An
interrupt stops the recording at once even while the input is idle.

	arecord -f S16_LE -c 2 -r 48000 -t raw | wavepeaks record take.wav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if from != "" {
				f, err := os.Open(from)
				if err != nil {
					return fmt.Errorf("%w", err)
				}
				defer f.Close()
				in = f
			}

			rec, err := wavepeaks.Record(args[0], format, a.opts)
			if err != nil {
				return err
			}

			copyErr := capture(cmd.Context(), rec, in, every, a)

			c, err := rec.Close()
			if err != nil {
				return errors.Join(copyErr, err)
			}
			if copyErr != nil {
				return copyErr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d frames, %d snapshots\n",
				args[0], c.TotalLength(), c.Peaks().Len())

			return nil
		},
	}

	cmd.Flags().IntVar(&format.Channels, "channels", 2, "interleaved channels")
	cmd.Flags().IntVar(&format.SampleRate, "rate", 48000, "sample rate in Hz")
	cmd.Flags().IntVar(&format.BitDepth, "bits", 16, "bits per sample (8, 16, 24 or 32)")
	cmd.Flags().StringVar(&from, "from", "", "read raw PCM from this file instead of stdin")
	cmd.Flags().DurationVar(&every, "status", 5*time.Second, "how often to log recording progress")

	return cmd
}

type chunk struct {
	data []byte
	err  error
}

// readChunks reads r on its own goroutine until an error or done. A read
// blocked on r outlives done; its result is dropped.
func readChunks(r io.Reader, done <-chan struct{}) <-chan chunk {
	out := make(chan chunk)

	go func() {
		defer close(out)

		for {
			buf := make([]byte, 32*1024)
			n, err := r.Read(buf)
			select {
			case out <- chunk{data: buf[:n], err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	return out
}

// capture appends r to rec until EOF or ctx is done. Cancellation is a
// normal way to stop and takes effect even while r is blocked.
func capture(ctx context.Context, rec *wavepeaks.Recording, r io.Reader, every time.Duration, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := readChunks(r, ctx.Done())

	var status <-chan time.Time
	if every > 0 {
		t := time.NewTicker(every)
		defer t.Stop()
		status = t.C
	}

	for {
		select {
		case <-ctx.Done():
			a.log.Info("recording interrupted", "path", rec.Path())
			return nil

		case <-status:
			a.log.Info("recording", "path", rec.Path(), "frames", rec.TotalLength(), "stats", rec.Stats())

		case c, ok := <-chunks:
			if !ok {
				return nil
			}
			if len(c.data) > 0 {
				if err := rec.Append(c.data); err != nil {
					return err
				}
			}
			if errors.Is(c.err, io.EOF) {
				return nil
			}
			if c.err != nil {
				return fmt.Errorf("reading input: %w", c.err)
			}
		}
	}
}
