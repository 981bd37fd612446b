package arview

import "time"

// Watchdog is a single cancellable deadline advanced by frame time. It is
// armed for one phase at a time; arming again replaces the previous
// deadline, so at most one is ever pending.
type Watchdog struct {
	armed     bool
	phase     Phase
	remaining time.Duration
}

// Arm starts a deadline of d for phase, replacing any pending deadline.
func (w *Watchdog) Arm(phase Phase, d time.Duration) {
	w.armed = true
	w.phase = phase
	w.remaining = d
}

// Disarm cancels the pending deadline, if any.
func (w *Watchdog) Disarm() {
	w.armed = false
	w.remaining = 0
}

// Armed reports whether a deadline is pending.
func (w *Watchdog) Armed() bool {
	return w.armed
}

// Phase returns the phase the pending deadline was armed for.
func (w *Watchdog) Phase() Phase {
	return w.phase
}

// Remaining returns the time left before the pending deadline fires.
func (w *Watchdog) Remaining() time.Duration {
	if !w.armed {
		return 0
	}
	return w.remaining
}

// Tick advances the deadline by dt. When it elapses the watchdog disarms
// itself and returns the phase it was armed for with fired=true. It fires at
// most once per Arm.
func (w *Watchdog) Tick(dt time.Duration) (phase Phase, fired bool) {
	if !w.armed {
		return 0, false
	}
	w.remaining -= dt
	if w.remaining > 0 {
		return 0, false
	}
	w.armed = false
	w.remaining = 0
	return w.phase, true
}
