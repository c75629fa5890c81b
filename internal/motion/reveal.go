package motion

import "time"

// Default reveal timings.
const (
	DefaultRevealDuration = 600 * time.Millisecond
	DefaultRevealOffset   = 20.0
)

// Reveal maps item indexes to a staggered appearance timeline. It holds no
// state; the visibility gate is passed in by the caller.
type Reveal struct {
	// InitialDelay is added before the first item.
	InitialDelay time.Duration
	// Stagger is the delay between consecutive items.
	Stagger time.Duration
	// Duration is how long each item takes to become fully visible.
	Duration time.Duration
	// Offset is the hidden translation in pixels.
	Offset float64
}

// NewReveal returns a Reveal with the default duration and offset.
func NewReveal(stagger time.Duration) Reveal {
	return Reveal{Stagger: stagger, Duration: DefaultRevealDuration, Offset: DefaultRevealOffset}
}

// Step is the schedule of a single item.
type Step struct {
	Index    int
	Delay    time.Duration
	Duration time.Duration
}

// ItemFrame is the presentation of an item at one instant.
type ItemFrame struct {
	Index   int     `json:"index"`
	Opacity float64 `json:"opacity"`
	Offset  float64 `json:"offset"`
	Visible bool    `json:"visible"`
}

// Delay returns when item i starts, measured from the visibility trigger.
func (r Reveal) Delay(i int) time.Duration {
	if i < 0 {
		i = 0
	}
	return r.InitialDelay + time.Duration(i)*r.Stagger
}

// Plan returns the schedule for n items.
func (r Reveal) Plan(n int) []Step {
	steps := make([]Step, 0, max(n, 0))
	for i := 0; i < n; i++ {
		steps = append(steps, Step{Index: i, Delay: r.Delay(i), Duration: r.Duration})
	}
	return steps
}

// Hidden is the presentation of item i before the trigger.
func (r Reveal) Hidden(i int) ItemFrame {
	return ItemFrame{Index: i, Opacity: 0, Offset: r.Offset}
}

// Frame returns item i's presentation at since after the trigger. Pass a
// negative since when the trigger has not happened.
func (r Reveal) Frame(i int, since time.Duration) ItemFrame {
	if since < 0 {
		return r.Hidden(i)
	}
	elapsed := since - r.Delay(i)
	if elapsed <= 0 {
		return r.Hidden(i)
	}
	p := 1.0
	if r.Duration > 0 {
		p = clamp(float64(elapsed)/float64(r.Duration), 0, 1)
	}
	return ItemFrame{
		Index:   i,
		Opacity: p,
		Offset:  r.Offset * (1 - p),
		Visible: p >= 1,
	}
}

// Total is how long the whole sequence of n items takes.
func (r Reveal) Total(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return r.Delay(n-1) + r.Duration
}
