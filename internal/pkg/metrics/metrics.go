package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campusnet"

// Projection labels for event filter queries
const (
	ProjectionList     = "list"
	ProjectionCalendar = "calendar"
	ProjectionDay      = "day"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	feedCompositions prometheus.Counter
	feedSize         prometheus.Histogram
	eventQueries     *prometheus.CounterVec
	followToggles    *prometheus.CounterVec
	applications     *prometheus.CounterVec
	mirroredPosts    prometheus.Counter
}

// New registers all collectors on reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		feedCompositions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "compositions_total",
			Help:      "Feeds composed.",
		}),
		feedSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "posts",
			Help:      "Number of posts in a composed feed.",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500},
		}),
		eventQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "filter_queries_total",
			Help:      "Event filter queries by projection.",
		}, []string{"projection"}),
		followToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "follows",
			Name:      "toggles_total",
			Help:      "Follow toggles by outcome.",
		}, []string{"outcome"}),
		applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "applications_total",
			Help:      "Event applications by outcome.",
		}, []string{"outcome"}),
		mirroredPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "instagram",
			Name:      "mirrored_posts_total",
			Help:      "Posts created from Instagram webhook deliveries.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.feedCompositions,
		m.feedSize,
		m.eventQueries,
		m.followToggles,
		m.applications,
		m.mirroredPosts,
	)
	return m
}

// NewWithRuntime is New plus the Go runtime and process collectors
func NewWithRuntime() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// FeedComposed records a composed feed and its size
func (m *Metrics) FeedComposed(posts int) {
	if m == nil {
		return
	}
	m.feedCompositions.Inc()
	m.feedSize.Observe(float64(posts))
}

// EventQuery records an event filter query for the given projection
func (m *Metrics) EventQuery(projection string) {
	if m == nil {
		return
	}
	m.eventQueries.WithLabelValues(projection).Inc()
}

// FollowToggled records a follow toggle outcome ("followed", "unfollowed")
func (m *Metrics) FollowToggled(outcome string) {
	if m == nil {
		return
	}
	m.followToggles.WithLabelValues(outcome).Inc()
}

// ApplicationSubmitted records an application outcome ("created", "duplicate")
func (m *Metrics) ApplicationSubmitted(outcome string) {
	if m == nil {
		return
	}
	m.applications.WithLabelValues(outcome).Inc()
}

// PostMirrored records a post created from the social mirror
func (m *Metrics) PostMirrored() {
	if m == nil {
		return
	}
	m.mirroredPosts.Inc()
}
