// Package metrics exposes the site's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every metric of the site on its own registry.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	sessionsActive   prometheus.Gauge
	sessionsTotal    prometheus.Counter
	sessionsEvicted  prometheus.Counter
	loadingCompleted prometheus.Counter
	loadingDuration  prometheus.Histogram
	viewportUpdates  prometheus.Counter
	sectionsRevealed *prometheus.CounterVec

	contactSubmissions *prometheus.CounterVec
	visitorsTracked    prometheus.Counter
	visitorErrors      prometheus.Counter
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithHistogramBuckets overrides the latency buckets.
func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) {
		if len(b) > 0 {
			m.buckets = b
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewManager builds a Manager with a fresh registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "portfolio",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.init()
	return m
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name:    "request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: m.buckets,
	}, []string{"route"})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "session",
		Name: "active",
		Help: "Page sessions currently mounted.",
	})
	m.sessionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "session",
		Name: "created_total",
		Help: "Page sessions created.",
	})
	m.sessionsEvicted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "session",
		Name: "evicted_total",
		Help: "Page sessions closed by the idle janitor.",
	})
	m.loadingCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "loading",
		Name: "completed_total",
		Help: "Loading splash sequences that completed.",
	})
	m.loadingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "loading",
		Name:    "duration_seconds",
		Help:    "Time from session start to loading completion.",
		Buckets: []float64{1, 2, 3, 4, 4.5, 5, 6, 8, 10},
	})
	m.viewportUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "session",
		Name: "viewport_updates_total",
		Help: "Viewport measurements received.",
	})
	m.sectionsRevealed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "session",
		Name: "sections_revealed_total",
		Help: "Sections that entered the viewport for the first time, by section.",
	}, []string{"section"})

	m.contactSubmissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "contact",
		Name: "submissions_total",
		Help: "Contact form submissions by outcome.",
	}, []string{"outcome"})
	m.visitorsTracked = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "visitors",
		Name: "tracked_total",
		Help: "Page views recorded.",
	})
	m.visitorErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "visitors",
		Name: "errors_total",
		Help: "Page views that failed to record.",
	})
}

// Registry returns the registry the metrics live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Manager) ObserveRequest(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// SessionOpened records a new page session.
func (m *Manager) SessionOpened() {
	m.sessionsTotal.Inc()
	m.sessionsActive.Inc()
}

// SessionClosed records a session teardown.
func (m *Manager) SessionClosed(evicted bool) {
	m.sessionsActive.Dec()
	if evicted {
		m.sessionsEvicted.Inc()
	}
}

// LoadingCompleted records a finished splash sequence.
func (m *Manager) LoadingCompleted(d time.Duration) {
	m.loadingCompleted.Inc()
	m.loadingDuration.Observe(d.Seconds())
}

// ViewportUpdated counts a viewport measurement.
func (m *Manager) ViewportUpdated() { m.viewportUpdates.Inc() }

// SectionRevealed counts a section's first reveal.
func (m *Manager) SectionRevealed(section string) {
	m.sectionsRevealed.WithLabelValues(section).Inc()
}

// ContactSubmitted counts a contact form submission.
func (m *Manager) ContactSubmitted(outcome string) {
	m.contactSubmissions.WithLabelValues(outcome).Inc()
}

// VisitorTracked counts a recorded page view, or a failure to record one.
func (m *Manager) VisitorTracked(err error) {
	if err != nil {
		m.visitorErrors.Inc()
		return
	}
	m.visitorsTracked.Inc()
}
