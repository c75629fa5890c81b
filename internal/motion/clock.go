// Package motion holds the view sequencers that drive the portfolio's
// animated state: visibility detection, staggered reveals, counters, the
// hero typewriter, the loading splash and the scroll progress bar.
//
// Every sequencer owns its state exclusively and mutates it from a single
// step method invoked by its timer callback. Timers come from a Clock so that
// tests can drive time deterministically with ManualClock.
package motion

import (
	"sync"
	"time"
)

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Clock provides the current time and one-shot callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock returns a Clock backed by the runtime timers.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Handle is the release handle returned for every timer registration.
// Cancel is safe to call any number of times and from any goroutine.
type Handle struct {
	mu        sync.Mutex
	timer     Timer
	cancelled bool
}

// Cancel stops the underlying timer. Subsequent calls are no-ops.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}
	h.cancelled = true
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// Cancelled reports whether Cancel was called.
func (h *Handle) Cancelled() bool {
	if h == nil {
		return true
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

func (h *Handle) arm(t Timer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		t.Stop()
		return false
	}
	h.timer = t
	return true
}

// After schedules f once after d.
func After(c Clock, d time.Duration, f func()) *Handle {
	h := &Handle{}
	h.arm(c.AfterFunc(d, func() {
		if h.Cancelled() {
			return
		}
		f()
	}))
	return h
}

// Every schedules f every d until the handle is cancelled. The next tick is
// armed only after f returns, so at most one tick is pending and ticks of one
// registration never overlap.
func Every(c Clock, d time.Duration, f func()) *Handle {
	h := &Handle{}
	var tick func()
	tick = func() {
		if h.Cancelled() {
			return
		}
		f()
		h.arm(c.AfterFunc(d, tick))
	}
	h.arm(c.AfterFunc(d, tick))
	return h
}
