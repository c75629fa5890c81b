package motion

import (
	"sync"
	"time"
)

// Loading cadence defaults.
const (
	DefaultLoadingInterval      = 80 * time.Millisecond
	DefaultLoadingStep          = 2
	DefaultLoadingCompleteDelay = 500 * time.Millisecond
	DefaultMessageInterval      = time.Second
)

// LoadingState is a snapshot of a Loading sequencer.
type LoadingState struct {
	Progress     int `json:"progress"`
	MessageIndex int `json:"messageIndex"`
	// Reached counts the status items whose icon is lit, that is every
	// index i with i <= floor(Progress*N/100).
	Reached int `json:"reached"`
}

// LoadingOption configures a Loading sequencer.
type LoadingOption func(*Loading)

// WithLoadingInterval sets the progress tick period.
func WithLoadingInterval(d time.Duration) LoadingOption {
	return func(l *Loading) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLoadingStep sets the progress gained per tick.
func WithLoadingStep(step int) LoadingOption {
	return func(l *Loading) {
		if step > 0 {
			l.step = step
		}
	}
}

// WithCompleteDelay sets the wait between reaching 100 and completion.
func WithCompleteDelay(d time.Duration) LoadingOption {
	return func(l *Loading) {
		if d >= 0 {
			l.completeDelay = d
		}
	}
}

// WithMessageInterval sets the status message rotation period.
func WithMessageInterval(d time.Duration) LoadingOption {
	return func(l *Loading) {
		if d > 0 {
			l.messageEvery = d
		}
	}
}

// WithLoadingUpdate registers a function called after every state change.
func WithLoadingUpdate(f func(LoadingState)) LoadingOption {
	return func(l *Loading) { l.onUpdate = f }
}

// Loading drives the splash screen: a progress ticker that completes once,
// and a message rotator that keeps cycling until Stop regardless of progress.
type Loading struct {
	clock         Clock
	messages      int
	interval      time.Duration
	step          int
	completeDelay time.Duration
	messageEvery  time.Duration
	onComplete    func()
	onUpdate      func(LoadingState)

	mu           sync.Mutex
	progress     int
	messageIndex int
	started      bool
	stopped      bool
	completed    bool
	ticker       *Handle
	rotator      *Handle
	completion   *Handle
}

// NewLoading returns an idle sequencer. onComplete is called at most once,
// without arguments, after progress reaches 100 and the completion delay
// has passed.
func NewLoading(clock Clock, messages int, onComplete func(), opts ...LoadingOption) *Loading {
	l := &Loading{
		clock:         clock,
		messages:      messages,
		interval:      DefaultLoadingInterval,
		step:          DefaultLoadingStep,
		completeDelay: DefaultLoadingCompleteDelay,
		messageEvery:  DefaultMessageInterval,
		onComplete:    onComplete,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start launches both periodic processes. Later calls are ignored.
func (l *Loading) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.stopped {
		return
	}
	l.started = true
	l.ticker = Every(l.clock, l.interval, l.tick)
	if l.messages > 0 {
		l.rotator = Every(l.clock, l.messageEvery, l.rotate)
	}
}

func (l *Loading) tick() {
	l.mu.Lock()
	if l.stopped || l.progress >= 100 {
		l.mu.Unlock()
		return
	}
	l.progress = min(l.progress+l.step, 100)
	if l.progress == 100 {
		l.ticker.Cancel()
		l.completion = After(l.clock, l.completeDelay, l.complete)
	}
	state, notify := l.snapshot(), l.onUpdate
	l.mu.Unlock()

	if notify != nil {
		notify(state)
	}
}

func (l *Loading) rotate() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.messageIndex = (l.messageIndex + 1) % l.messages
	state, notify := l.snapshot(), l.onUpdate
	l.mu.Unlock()

	if notify != nil {
		notify(state)
	}
}

func (l *Loading) complete() {
	l.mu.Lock()
	if l.stopped || l.completed {
		l.mu.Unlock()
		return
	}
	l.completed = true
	done := l.onComplete
	l.mu.Unlock()

	if done != nil {
		done()
	}
}

func (l *Loading) snapshot() LoadingState {
	return LoadingState{
		Progress:     l.progress,
		MessageIndex: l.messageIndex,
		Reached:      ReachedCount(l.progress, l.messages),
	}
}

// ReachedCount returns how many of n status items are lit at progress.
func ReachedCount(progress, n int) int {
	if n <= 0 {
		return 0
	}
	return min(progress*n/100+1, n)
}

// State returns the current progress and message index.
func (l *Loading) State() LoadingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Completed reports whether the completion callback has been invoked.
func (l *Loading) Completed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.completed
}

// Stop tears down every pending timer. A completion that has not fired yet
// never fires. Stop is idempotent.
func (l *Loading) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.ticker.Cancel()
	l.rotator.Cancel()
	l.completion.Cancel()
}
