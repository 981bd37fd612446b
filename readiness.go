package arview

import (
	"sync/atomic"
	"time"
)

// SceneSignal reports whether the rendered scene has finished loading. The
// edge-triggered half of the contract is Bootstrap.NotifySceneReady.
type SceneSignal interface {
	Ready() bool
}

// ReadinessPoller is the fallback readiness predicate, called at a fixed
// interval while the bootstrap waits for the scene.
type ReadinessPoller func() bool

// SceneFlag is a SceneSignal that a loader goroutine can set.
type SceneFlag struct {
	ready atomic.Bool
}

// Set marks the scene as loaded.
func (f *SceneFlag) Set() {
	f.ready.Store(true)
}

// Ready implements SceneSignal.
func (f *SceneFlag) Ready() bool {
	return f.ready.Load()
}

// pollState tracks the polling fallback within one AwaitingScene phase.
type pollState struct {
	elapsed  time.Duration // since the last poll
	attempts int
}
