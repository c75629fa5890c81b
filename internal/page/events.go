package page

import (
	"github.com/vgandi/cyber-portfolio/internal/motion"
)

// Event names sent to the browser.
const (
	EventLoading    = "loading"
	EventLoaded     = "loaded"
	EventTypewriter = "typewriter"
	EventScroll     = "scroll"
	EventReveal     = "reveal"
	EventCounter    = "counter"
)

// Event is one state change of a session.
type Event struct {
	Name string
	Data any
}

// LoadingEvent carries the splash state with the active message text.
type LoadingEvent struct {
	motion.LoadingState
	Message string `json:"message"`
}

// LoadedEvent tells the browser to drop the splash and show the page.
type LoadedEvent struct {
	ElapsedMS int64 `json:"elapsedMs"`
}

// RevealEvent starts a section's staggered reveal.
type RevealEvent struct {
	Section SectionID    `json:"section"`
	Items   []RevealItem `json:"items"`
	// TotalMS is when the last item has finished appearing.
	TotalMS int64 `json:"totalMs"`
}

// RevealItem is the schedule of one item, relative to the event.
type RevealItem struct {
	Index      int     `json:"index"`
	DelayMS    int64   `json:"delayMs"`
	DurationMS int64   `json:"durationMs"`
	Offset     float64 `json:"offset"`
}

// CounterEvent is one frame of an about counter.
type CounterEvent struct {
	Key    string `json:"key"`
	Value  int    `json:"value"`
	Target int    `json:"target"`
	Suffix string `json:"suffix"`
}

func revealEvent(spec SectionSpec) RevealEvent {
	plan := spec.Reveal.Plan(spec.Items)
	items := make([]RevealItem, len(plan))
	for i, st := range plan {
		items[i] = RevealItem{
			Index:      st.Index,
			DelayMS:    st.Delay.Milliseconds(),
			DurationMS: st.Duration.Milliseconds(),
			Offset:     spec.Reveal.Offset,
		}
	}
	return RevealEvent{Section: spec.ID, Items: items, TotalMS: spec.Reveal.Total(spec.Items).Milliseconds()}
}

// pending records which parts of the state changed since the last drain.
type pending struct {
	loading    bool
	loaded     bool
	typewriter bool
	scroll     bool
	reveals    []SectionID
	counters   map[string]bool
}

func (p *pending) empty() bool {
	return !p.loading && !p.loaded && !p.typewriter && !p.scroll &&
		len(p.reveals) == 0 && len(p.counters) == 0
}
