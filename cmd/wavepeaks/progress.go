// SPDX-License-Identifier: EPL-2.0

package main

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progress shows a peak file build as a bar counting snapshots.
type progress struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgress(w io.Writer, name string) *progress {
	p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(w))
	bar := p.AddBar(0,
		mpb.PrependDecorators(
			decor.Name(name+" "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Name(" "),
			decor.AverageETA(decor.ET_STYLE_GO),
		),
	)

	return &progress{p: p, bar: bar}
}

func (pr *progress) OnTotal(snapshots int64)    { pr.bar.SetTotal(snapshots, false) }
func (pr *progress) OnProgress(snapshots int64) { pr.bar.SetCurrent(snapshots) }
func (pr *progress) OnCancelled()               { pr.bar.Abort(false) }
func (pr *progress) OnFinished()                { pr.bar.SetTotal(-1, true) }

// Wait drops the bar if no build ran and waits for rendering to end.
func (pr *progress) Wait() {
	pr.bar.Abort(true)
	pr.p.Wait()
}
