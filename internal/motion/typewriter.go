package motion

import (
	"sync"
	"time"
)

// Typewriter cadence defaults.
const (
	DefaultTypeInterval   = 100 * time.Millisecond
	DefaultDeleteInterval = 50 * time.Millisecond
	DefaultTypePause      = 2000 * time.Millisecond
)

// TypewriterPhase is the effective state of a Typewriter.
type TypewriterPhase int

// Typewriter phases.
const (
	Typing TypewriterPhase = iota
	PausedAtFull
	Deleting
)

func (p TypewriterPhase) String() string {
	switch p {
	case Typing:
		return "typing"
	case PausedAtFull:
		return "paused"
	case Deleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// TypewriterState is a snapshot of a Typewriter.
type TypewriterState struct {
	Text        string          `json:"text"`
	PhraseIndex int             `json:"phraseIndex"`
	Deleting    bool            `json:"deleting"`
	Phase       TypewriterPhase `json:"-"`
}

// TypewriterOption configures a Typewriter.
type TypewriterOption func(*Typewriter)

// WithTypeInterval sets the delay between typed characters.
func WithTypeInterval(d time.Duration) TypewriterOption {
	return func(t *Typewriter) {
		if d > 0 {
			t.typeEvery = d
		}
	}
}

// WithDeleteInterval sets the delay between deleted characters.
func WithDeleteInterval(d time.Duration) TypewriterOption {
	return func(t *Typewriter) {
		if d > 0 {
			t.deleteEvery = d
		}
	}
}

// WithTypePause sets how long a complete phrase stays on screen.
func WithTypePause(d time.Duration) TypewriterOption {
	return func(t *Typewriter) {
		if d >= 0 {
			t.pause = d
		}
	}
}

// WithTypewriterUpdate registers a function called after every change.
func WithTypewriterUpdate(f func(TypewriterState)) TypewriterOption {
	return func(t *Typewriter) { t.onUpdate = f }
}

// Typewriter types and deletes a cycle of phrases one rune at a time.
type Typewriter struct {
	clock       Clock
	phrases     [][]rune
	typeEvery   time.Duration
	deleteEvery time.Duration
	pause       time.Duration
	onUpdate    func(TypewriterState)

	mu      sync.Mutex
	phase   TypewriterPhase
	index   int
	n       int // runes of phrases[index] currently shown
	started bool
	stopped bool
	handle  *Handle
}

// NewTypewriter returns a typewriter in the Typing phase on phrase 0 with
// an empty buffer. It does nothing until Start.
func NewTypewriter(clock Clock, phrases []string, opts ...TypewriterOption) *Typewriter {
	t := &Typewriter{
		clock:       clock,
		typeEvery:   DefaultTypeInterval,
		deleteEvery: DefaultDeleteInterval,
		pause:       DefaultTypePause,
	}
	for _, p := range phrases {
		t.phrases = append(t.phrases, []rune(p))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start arms the first keystroke. Later calls are ignored, as is a
// typewriter without phrases.
func (t *Typewriter) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.stopped || len(t.phrases) == 0 {
		return
	}
	t.started = true
	t.schedule()
}

// schedule arms the single pending timer for the current phase. Caller
// holds t.mu.
func (t *Typewriter) schedule() {
	var d time.Duration
	switch t.phase {
	case Typing:
		d = t.typeEvery
	case PausedAtFull:
		d = t.pause
	case Deleting:
		d = t.deleteEvery
	}
	t.handle = After(t.clock, d, t.step)
}

// step is the only place the typewriter state changes after Start.
func (t *Typewriter) step() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	phrase := t.phrases[t.index]
	switch t.phase {
	case Typing:
		if t.n < len(phrase) {
			t.n++
		}
		if t.n == len(phrase) {
			t.phase = PausedAtFull
		}
	case PausedAtFull:
		t.phase = Deleting
	case Deleting:
		if t.n > 0 {
			t.n--
		}
		if t.n == 0 {
			t.index = (t.index + 1) % len(t.phrases)
			t.phase = Typing
		}
	}
	t.schedule()
	state, notify := t.snapshot(), t.onUpdate
	t.mu.Unlock()

	if notify != nil {
		notify(state)
	}
}

func (t *Typewriter) snapshot() TypewriterState {
	s := TypewriterState{
		PhraseIndex: t.index,
		Deleting:    t.phase == Deleting,
		Phase:       t.phase,
	}
	if len(t.phrases) > 0 {
		s.Text = string(t.phrases[t.index][:t.n])
	}
	return s
}

// State returns the current buffer and phase.
func (t *Typewriter) State() TypewriterState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Stop cancels the pending timer. It is idempotent.
func (t *Typewriter) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.handle.Cancel()
	t.handle = nil
}
