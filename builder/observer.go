// SPDX-License-Identifier: EPL-2.0

package builder

// Observer follows a build. Calls come from the goroutine running Build.
type Observer interface {
	// OnTotal reports how many snapshots the build will write. It is not
	// called when the source cannot tell its length up front.
	OnTotal(snapshots int64)
	// OnProgress reports the snapshots written so far.
	OnProgress(snapshots int64)
	OnCancelled()
	OnFinished()
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnTotal(int64)    {}
func (NopObserver) OnProgress(int64) {}
func (NopObserver) OnCancelled()     {}
func (NopObserver) OnFinished()      {}
