package page

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vgandi/cyber-portfolio/internal/content"
	"github.com/vgandi/cyber-portfolio/pkg/logger"
)

// Store owns the live sessions. A session is closed once it has had no
// event stream for the reconnect grace, or when it never got a stream and
// has been idle for the TTL.
type Store struct {
	portfolio *content.Portfolio
	layout    []SectionSpec
	opts      Options
	ttl       time.Duration
	grace     time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty store for pages of p.
func NewStore(p *content.Portfolio, ttl time.Duration, opts Options) *Store {
	opts = opts.withDefaults()
	grace := opts.ReconnectGrace
	if grace <= 0 || grace > ttl {
		grace = ttl
	}
	return &Store{
		portfolio: p,
		layout:    Layout(p),
		opts:      opts,
		ttl:       ttl,
		grace:     grace,
		sessions:  make(map[string]*Session),
	}
}

// Layout returns the section specs every session is built from.
func (st *Store) Layout() []SectionSpec { return st.layout }

// Open creates a session and starts its splash. At the session cap the
// least recently used session without a stream makes room, or the oldest
// session when every one is streaming.
func (st *Store) Open(ctx context.Context) *Session {
	s := newSession(uuid.NewString(), st.portfolio, st.layout, st.opts)

	st.mu.Lock()
	var victim *Session
	if st.opts.MaxSessions > 0 && len(st.sessions) >= st.opts.MaxSessions {
		victim = st.oldest()
		delete(st.sessions, victim.id)
	}
	st.sessions[s.id] = s
	n := len(st.sessions)
	st.mu.Unlock()

	if victim != nil {
		st.closeSession(ctx, victim, true)
	}
	if st.opts.Metrics != nil {
		st.opts.Metrics.SessionOpened()
	}
	st.opts.Logger.Debug(ctx, "session opened", logger.String("session", s.id), logger.Int("active", n))
	s.start()
	return s
}

// oldest picks the session Open replaces. Caller holds st.mu and the map
// is not empty.
func (st *Store) oldest() *Session {
	var idle, first *Session
	var idleSeen time.Time
	for _, s := range st.sessions {
		if first == nil || s.created.Before(first.created) {
			first = s
		}
		seen, attached, _ := s.usage()
		if !attached && (idle == nil || seen.Before(idleSeen)) {
			idle, idleSeen = s, seen
		}
	}
	if idle != nil {
		return idle
	}
	return first
}

// Get returns the live session id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close unmounts and forgets session id.
func (st *Store) Close(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	st.closeSession(context.Background(), s, false)
	return nil
}

func (st *Store) closeSession(ctx context.Context, s *Session, evicted bool) {
	if !s.Close() {
		return
	}
	if st.opts.Metrics != nil {
		st.opts.Metrics.SessionClosed(evicted)
	}
	st.opts.Logger.Debug(ctx, "session closed", logger.String("session", s.id), logger.Bool("evicted", evicted))
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// expired reports whether s should be closed at now. Caller holds st.mu.
func (st *Store) expired(s *Session, now time.Time) bool {
	seen, attached, streamed := s.usage()
	if attached {
		return false
	}
	limit := st.ttl
	if streamed {
		limit = st.grace
	}
	return now.Sub(seen) > limit
}

// Evict closes every expired session at now and returns how many were
// closed. Sessions are checked and removed under the same lock, so a
// stream attaching concurrently either keeps its session or is refused.
func (st *Store) Evict(now time.Time) int {
	st.mu.Lock()
	var stale []*Session
	for id, s := range st.sessions {
		if st.expired(s, now) {
			stale = append(stale, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range stale {
		st.closeSession(context.Background(), s, true)
	}
	return len(stale)
}

// Run evicts expired sessions until ctx is done, then closes the rest.
func (st *Store) Run(ctx context.Context) {
	interval := st.grace / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st.CloseAll()
			return
		case <-ticker.C:
			if n := st.Evict(st.opts.Clock.Now()); n > 0 {
				st.opts.Logger.Info(ctx, "evicted idle sessions", logger.Int("count", n), logger.Int("active", st.Len()))
			}
		}
	}
}

// CloseAll closes every live session.
func (st *Store) CloseAll() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		st.closeSession(context.Background(), s, false)
	}
}
