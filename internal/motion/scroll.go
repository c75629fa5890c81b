package motion

import "sync"

// Offsets past which the header compacts and the back-to-top button shows.
const (
	HeaderCompactOffset = 50
	ScrollTopOffset     = 500
)

// ScrollState is a snapshot of a ScrollTracker.
type ScrollState struct {
	Percent       float64 `json:"percent"`
	Scrolled      bool    `json:"scrolled"`
	ShowScrollTop bool    `json:"showScrollTop"`
}

// ScrollTracker derives the page scroll percentage from viewport events.
type ScrollTracker struct {
	mu    sync.Mutex
	state ScrollState
}

// NewScrollTracker returns a tracker at 0%.
func NewScrollTracker() *ScrollTracker {
	return &ScrollTracker{}
}

// Update recomputes the percentage for v. When the document is not taller
// than the viewport the previous percentage is kept.
func (t *ScrollTracker) Update(v Viewport) ScrollState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if scrollable := v.DocumentHeight - v.ViewportHeight; scrollable > 0 {
		t.state.Percent = clamp(100*v.ScrollY/scrollable, 0, 100)
	}
	t.state.Scrolled = v.ScrollY > HeaderCompactOffset
	t.state.ShowScrollTop = v.ScrollY > ScrollTopOffset
	return t.state
}

// State returns the last computed snapshot.
func (t *ScrollTracker) State() ScrollState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
