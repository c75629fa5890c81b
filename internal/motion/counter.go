package motion

import (
	"math"
	"sync"
	"time"
)

// Counter defaults.
const (
	DefaultCounterDuration = 2 * time.Second
	DefaultFrameInterval   = time.Second / 60
)

// CounterValue is floor(target * min(elapsed/duration, 1)).
func CounterValue(target int, duration, elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	if duration <= 0 || elapsed >= duration {
		return target
	}
	p := float64(elapsed) / float64(duration)
	return int(math.Floor(p * float64(target)))
}

// CounterOption configures a Counter.
type CounterOption func(*Counter)

// WithCounterDuration sets how long the count takes.
func WithCounterDuration(d time.Duration) CounterOption {
	return func(c *Counter) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithFrameInterval sets the frame cadence used to sample the value.
func WithFrameInterval(d time.Duration) CounterOption {
	return func(c *Counter) {
		if d > 0 {
			c.frame = d
		}
	}
}

// WithCounterUpdate registers a function called with each new value. It runs
// on the timer goroutine while no lock is held.
func WithCounterUpdate(f func(int)) CounterOption {
	return func(c *Counter) { c.onUpdate = f }
}

// Counter counts from zero to a target once triggered, sampling on every
// frame until the duration has elapsed.
type Counter struct {
	clock    Clock
	target   int
	duration time.Duration
	frame    time.Duration
	onUpdate func(int)

	mu      sync.Mutex
	value   int
	started bool
	done    bool
	stopped bool
	start   time.Time
	handle  *Handle
}

// NewCounter returns an idle counter at zero.
func NewCounter(clock Clock, target int, opts ...CounterOption) *Counter {
	c := &Counter{
		clock:    clock,
		target:   target,
		duration: DefaultCounterDuration,
		frame:    DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trigger starts counting. Only the first call has an effect.
func (c *Counter) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true
	c.start = c.clock.Now()
	c.handle = After(c.clock, c.frame, c.step)
}

func (c *Counter) step() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	elapsed := c.clock.Now().Sub(c.start)
	c.value = CounterValue(c.target, c.duration, elapsed)
	if elapsed >= c.duration {
		c.done = true
		c.handle = nil
	} else {
		c.handle = After(c.clock, c.frame, c.step)
	}
	value, notify := c.value, c.onUpdate
	c.mu.Unlock()

	if notify != nil {
		notify(value)
	}
}

// Value returns the current count.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Target returns the value the counter ends at.
func (c *Counter) Target() int { return c.target }

// Done reports whether the counter reached its target.
func (c *Counter) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Stop ends frame sampling. It is idempotent.
func (c *Counter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.handle.Cancel()
	c.handle = nil
}
