package visitors

import (
	"context"
	"strings"
	"time"

	"github.com/vgandi/cyber-portfolio/pkg/logger"
	"github.com/vgandi/cyber-portfolio/pkg/metrics"
)

// Paths that are never recorded.
var skipPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/favicon",
	"/privacy",
	"/sessions/",
	"/metrics",
	"/healthz",
}

// ShouldTrack reports whether a request for path is recorded. Requests that
// carry Do Not Track are never recorded.
func ShouldTrack(path, dnt string) bool {
	if dnt == "1" {
		return false
	}
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// View is a page view waiting to be recorded.
type View struct {
	IP        string
	UserAgent string
	Path      string
}

// Recorder stores page views.
type Recorder interface {
	Record(ctx context.Context, ip, userAgent, path string) error
}

// Tracker records views off the request path through a bounded queue.
type Tracker struct {
	rec     Recorder
	log     logger.Logger
	metrics *metrics.Manager
	queue   chan View
}

// NewTracker returns a tracker buffering up to size views.
func NewTracker(rec Recorder, size int, log logger.Logger, m *metrics.Manager) *Tracker {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{rec: rec, log: log, metrics: m, queue: make(chan View, size)}
}

// Track queues v without blocking. A full queue drops the view.
func (t *Tracker) Track(v View) error {
	select {
	case t.queue <- v:
		return nil
	default:
		t.observe(ErrQueueFull)
		return ErrQueueFull
	}
}

// Run records queued views until ctx is done, then records what is left.
// Writes in flight are not interrupted by ctx.
func (t *Tracker) Run(ctx context.Context) {
	writes := context.WithoutCancel(ctx)
	for {
		select {
		case v := <-t.queue:
			t.record(writes, v)
		case <-ctx.Done():
			t.drain()
			return
		}
	}
}

func (t *Tracker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case v := <-t.queue:
			t.record(ctx, v)
		default:
			return
		}
	}
}

func (t *Tracker) record(ctx context.Context, v View) {
	err := t.rec.Record(ctx, v.IP, v.UserAgent, v.Path)
	if err != nil {
		t.log.Error(ctx, "error recording visitor", logger.String("path", v.Path), logger.Error(err))
	}
	t.observe(err)
}

func (t *Tracker) observe(err error) {
	if t.metrics != nil {
		t.metrics.VisitorTracked(err)
	}
}

// Janitor deletes views older than retention once at start and then every
// interval until ctx is done.
func Janitor(ctx context.Context, s *Store, retention, interval time.Duration, log logger.Logger) {
	sweep := func() {
		n, err := s.Cleanup(ctx, retention)
		switch {
		case err != nil:
			log.Error(ctx, "error cleaning up old visitor data", logger.Error(err))
		case n > 0:
			log.Info(ctx, "privacy cleanup removed old visitor records", logger.Int64("rows", n), logger.Duration("retention", retention))
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
