package page

import (
	"context"
	"sync"
	"time"

	"github.com/vgandi/cyber-portfolio/internal/content"
	"github.com/vgandi/cyber-portfolio/internal/motion"
	"github.com/vgandi/cyber-portfolio/pkg/logger"
	"github.com/vgandi/cyber-portfolio/pkg/metrics"
)

// Options configures the sequencers of every session.
type Options struct {
	Clock      motion.Clock
	Loading    []motion.LoadingOption
	Typewriter []motion.TypewriterOption
	Counter    []motion.CounterOption
	Logger     logger.Logger
	Metrics    *metrics.Manager

	// ReconnectGrace is how long a session whose streams have all ended
	// waits for a reconnect before the store closes it. Zero means the
	// store TTL.
	ReconnectGrace time.Duration
	// MaxSessions caps the live sessions of a store. Zero means no cap.
	MaxSessions int
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = motion.SystemClock()
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// ViewportUpdate is a viewport measurement with the regions of the
// sections the browser has laid out.
type ViewportUpdate struct {
	motion.Viewport
	Regions map[SectionID]motion.Region `json:"regions"`
}

// ViewportResult is the session's answer to a viewport measurement.
type ViewportResult struct {
	Scroll  motion.ScrollState `json:"scroll"`
	Loaded  bool               `json:"loaded"`
	Visible map[SectionID]bool `json:"visible"`
}

// SectionState is the reveal progress of one section.
type SectionState struct {
	ID       SectionID `json:"id"`
	Visible  bool      `json:"visible"`
	Revealed bool      `json:"revealed"`
	// Complete is set once every item has finished appearing.
	Complete bool               `json:"complete"`
	Frames   []motion.ItemFrame `json:"frames"`
}

type section struct {
	spec       SectionSpec
	detector   *motion.Detector
	revealed   bool
	revealedAt time.Time
}

type stat struct {
	content.Stat
	counter *motion.Counter
}

// Session is one mounted page. Until the splash completes only the loading
// sequencer and the scroll tracker run; completion mounts the typewriter,
// the section reveals and the counters.
type Session struct {
	id       string
	created  time.Time
	opts     Options
	log      logger.Logger
	messages []string

	loading    *motion.Loading
	scroll     *motion.ScrollTracker
	typewriter *motion.Typewriter
	sections   []*section
	statsGate  *motion.Detector
	stats      []*stat

	notify chan struct{}
	done   chan struct{}

	mu       sync.Mutex
	closed   bool
	loaded   bool
	lastSeen time.Time
	streams  int
	streamed bool
	last     *ViewportUpdate
	pending  pending
}

func newSession(id string, p *content.Portfolio, layout []SectionSpec, opts Options) *Session {
	opts = opts.withDefaults()
	now := opts.Clock.Now()
	s := &Session{
		id:        id,
		created:   now,
		opts:      opts,
		log:       opts.Logger.With(logger.String("session", id)),
		messages:  p.Loading.StatusTexts(),
		scroll:    motion.NewScrollTracker(),
		statsGate: motion.NewDetector(StatsVisibility),
		notify:    make(chan struct{}, 1),
		done:      make(chan struct{}),
		lastSeen:  now,
	}

	loadingOpts := append(append([]motion.LoadingOption{}, opts.Loading...),
		motion.WithLoadingUpdate(func(motion.LoadingState) { s.mark(func(p *pending) { p.loading = true }) }))
	s.loading = motion.NewLoading(opts.Clock, len(s.messages), s.mount, loadingOpts...)

	typeOpts := append(append([]motion.TypewriterOption{}, opts.Typewriter...),
		motion.WithTypewriterUpdate(func(motion.TypewriterState) { s.mark(func(p *pending) { p.typewriter = true }) }))
	s.typewriter = motion.NewTypewriter(opts.Clock, p.Hero.Phrases, typeOpts...)

	for _, spec := range layout {
		sec := &section{spec: spec}
		if spec.ID != SectionHero {
			sec.detector = motion.NewDetector(spec.Visibility)
		}
		s.sections = append(s.sections, sec)
	}

	for _, st := range p.About.Stats {
		key := st.Key
		counterOpts := append(append([]motion.CounterOption{}, opts.Counter...),
			motion.WithCounterUpdate(func(int) {
				s.mark(func(p *pending) {
					if p.counters == nil {
						p.counters = make(map[string]bool)
					}
					p.counters[key] = true
				})
			}))
		s.stats = append(s.stats, &stat{Stat: st, counter: motion.NewCounter(opts.Clock, st.Value, counterOpts...)})
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Notify receives a value whenever events are ready to Drain. Signals
// coalesce, so one receive may stand for many changes.
func (s *Session) Notify() <-chan struct{} { return s.notify }

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Loaded reports whether the splash has completed.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Session) start() {
	s.loading.Start()
}

// mark records a change and wakes the event stream.
func (s *Session) mark(f func(*pending)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	f(&s.pending)
	s.signal()
}

// signal wakes the event stream. Caller holds s.mu.
func (s *Session) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// mount runs once when the splash completes.
func (s *Session) mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.loaded {
		return
	}
	s.loaded = true
	elapsed := s.opts.Clock.Now().Sub(s.created)
	if s.opts.Metrics != nil {
		s.opts.Metrics.LoadingCompleted(elapsed)
	}
	s.log.Debug(context.Background(), "page mounted", logger.Duration("elapsed", elapsed))

	s.pending.loaded = true
	s.typewriter.Start()
	for _, sec := range s.sections {
		if sec.detector == nil {
			s.reveal(sec)
		}
	}
	if s.last != nil {
		s.observe(*s.last, nil)
	}
	s.signal()
}

// reveal starts a section's reveal. Caller holds s.mu.
func (s *Session) reveal(sec *section) {
	sec.revealed = true
	sec.revealedAt = s.opts.Clock.Now()
	s.pending.reveals = append(s.pending.reveals, sec.spec.ID)
	if s.opts.Metrics != nil {
		s.opts.Metrics.SectionRevealed(string(sec.spec.ID))
	}
}

// observe feeds u to every detector. Caller holds s.mu and has mounted.
func (s *Session) observe(u ViewportUpdate, visible map[SectionID]bool) {
	for _, sec := range s.sections {
		if sec.detector == nil {
			if visible != nil {
				visible[sec.spec.ID] = true
			}
			continue
		}
		in := sec.detector.Observe(region(u.Regions, sec.spec.ID), u.Viewport)
		if in && !sec.revealed {
			s.reveal(sec)
		}
		if visible != nil {
			visible[sec.spec.ID] = in
		}
	}
	s.statsGate.Observe(region(u.Regions, StatsRegion), u.Viewport)
	select {
	case <-s.statsGate.Triggered():
		for _, st := range s.stats {
			st.counter.Trigger()
		}
	default:
	}
}

func region(regions map[SectionID]motion.Region, id SectionID) *motion.Region {
	r, ok := regions[id]
	if !ok {
		return nil
	}
	return &r
}

// Viewport applies a viewport measurement. Before the page has mounted only
// the scroll tracker sees it; the latest measurement is replayed on mount.
func (s *Session) Viewport(u ViewportUpdate) (ViewportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ViewportResult{}, ErrSessionClosed
	}
	s.lastSeen = s.opts.Clock.Now()
	if s.opts.Metrics != nil {
		s.opts.Metrics.ViewportUpdated()
	}

	before := s.scroll.State()
	res := ViewportResult{Scroll: s.scroll.Update(u.Viewport), Loaded: s.loaded, Visible: map[SectionID]bool{}}
	if res.Scroll != before {
		s.pending.scroll = true
	}

	if s.loaded {
		s.observe(u, res.Visible)
	} else {
		s.last = &u
	}
	if !s.pending.empty() {
		s.signal()
	}
	return res, nil
}

// Section returns the reveal state of id at the current time.
func (s *Session) Section(id SectionID) (SectionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range s.sections {
		if sec.spec.ID != id {
			continue
		}
		st := SectionState{ID: id, Revealed: sec.revealed, Visible: sec.detector == nil && s.loaded}
		if sec.detector != nil {
			st.Visible = sec.detector.Visible()
		}
		since := time.Duration(-1)
		if sec.revealed {
			since = s.opts.Clock.Now().Sub(sec.revealedAt)
			st.Complete = since >= sec.spec.Reveal.Total(sec.spec.Items)
		}
		for i := 0; i < sec.spec.Items; i++ {
			st.Frames = append(st.Frames, sec.spec.Reveal.Frame(i, since))
		}
		return st, true
	}
	return SectionState{}, false
}

// Replay marks the whole current state as changed so that the next Drain
// describes it from scratch.
func (s *Session) Replay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = pending{loading: true, scroll: true}
	if s.loaded {
		s.pending.loaded = true
		s.pending.typewriter = true
		s.pending.counters = make(map[string]bool, len(s.stats))
		for _, sec := range s.sections {
			if sec.revealed {
				s.pending.reveals = append(s.pending.reveals, sec.spec.ID)
			}
		}
		for _, st := range s.stats {
			s.pending.counters[st.Key] = true
		}
	}
	s.signal()
}

// Drain returns the events accumulated since the previous call.
func (s *Session) Drain() []Event {
	s.mu.Lock()
	p := s.pending
	s.pending = pending{}
	closed, created := s.closed, s.created
	s.mu.Unlock()

	if closed || p.empty() {
		return nil
	}

	var events []Event
	if p.loading {
		st := s.loading.State()
		ev := LoadingEvent{LoadingState: st}
		if st.MessageIndex < len(s.messages) {
			ev.Message = s.messages[st.MessageIndex]
		}
		events = append(events, Event{Name: EventLoading, Data: ev})
	}
	if p.loaded {
		elapsed := s.opts.Clock.Now().Sub(created)
		events = append(events, Event{Name: EventLoaded, Data: LoadedEvent{ElapsedMS: elapsed.Milliseconds()}})
	}
	if p.typewriter {
		events = append(events, Event{Name: EventTypewriter, Data: s.typewriter.State()})
	}
	if p.scroll {
		events = append(events, Event{Name: EventScroll, Data: s.scroll.State()})
	}
	for _, id := range p.reveals {
		for _, sec := range s.sections {
			if sec.spec.ID == id {
				events = append(events, Event{Name: EventReveal, Data: revealEvent(sec.spec)})
			}
		}
	}
	for _, st := range s.stats {
		if p.counters[st.Key] {
			events = append(events, Event{Name: EventCounter, Data: CounterEvent{
				Key:    st.Key,
				Value:  st.counter.Value(),
				Target: st.counter.Target(),
				Suffix: st.Suffix,
			}})
		}
	}
	return events
}

// Attach registers an event stream and returns its release function. A
// closed session cannot be attached.
func (s *Session) Attach() (func(), error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.streams++
	s.streamed = true
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.streams--
			s.lastSeen = s.opts.Clock.Now()
			s.mu.Unlock()
		})
	}, nil
}

// Streams returns the number of attached event streams.
func (s *Session) Streams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams
}

// usage reports when the session was last used, whether a stream is
// attached right now and whether one ever was.
func (s *Session) usage() (seen time.Time, attached, streamed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, s.streams > 0, s.streamed
}

// Close unmounts the page, cancelling every timer it registered. It reports
// whether this call closed the session.
func (s *Session) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	s.loading.Stop()
	s.typewriter.Stop()
	for _, st := range s.stats {
		st.counter.Stop()
	}
	close(s.done)
	return true
}
