// Package metrics exposes the site's Prometheus metrics. One Metrics value
// is registered per registry and handed to the components that report into it.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"

	"github.com/recera/clueso-site/internal/cache"
	"github.com/recera/clueso-site/internal/submit"
	"github.com/recera/clueso-site/pkg/live"
)

const namespace = "clueso"

// Metrics holds every collector the site reports
type Metrics struct {
	registry *prometheus.Registry

	LiveSessions       *prometheus.GaugeVec
	LiveSessionsTotal  *prometheus.CounterVec
	LiveFrames         *prometheus.CounterVec
	RotationAdvances   *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	BreakerState       prometheus.Gauge
	ContentReloads     prometheus.Counter
	PageCacheLookups   *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

var (
	_ live.Recorder   = (*Metrics)(nil)
	_ submit.Recorder = (*Metrics)(nil)
	_ cache.Recorder  = (*Metrics)(nil)
)

// New creates the site metrics on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := newMetrics(reg)
	m.registry = reg
	return m
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LiveSessions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "sessions_current",
			Help:      "Open live sessions by page.",
		}, []string{"page"}),
		LiveSessionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "sessions_total",
			Help:      "Live sessions opened by page.",
		}, []string{"page"}),
		LiveFrames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "frames_total",
			Help:      "Live protocol frames by direction and type.",
		}, []string{"direction", "type"}),
		RotationAdvances: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rotation",
			Name:      "changes_total",
			Help:      "Rotation index changes by view and cause.",
		}, []string{"view", "cause"}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "submissions_total",
			Help:      "Form submissions by kind and result.",
		}, []string{"kind", "result"}),
		SubmissionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "duration_seconds",
			Help:      "Time to deliver a form submission.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 1.5, 2, 5, 10},
		}, []string{"kind"}),
		BreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "circuit_breaker_state",
			Help:      "Submission circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
		ContentReloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "reloads_total",
			Help:      "Successful content reloads.",
		}),
		PageCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "page_cache",
			Name:      "lookups_total",
			Help:      "Rendered page cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"code", "method"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument wraps next with request count, duration and in-flight metrics
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(m.HTTPInFlight,
		promhttp.InstrumentHandlerDuration(m.HTTPDuration,
			promhttp.InstrumentHandlerCounter(m.HTTPRequests, next),
		),
	)
}

func (m *Metrics) SessionOpened(page string) {
	m.LiveSessions.WithLabelValues(page).Inc()
	m.LiveSessionsTotal.WithLabelValues(page).Inc()
}

func (m *Metrics) SessionClosed(page string) {
	m.LiveSessions.WithLabelValues(page).Dec()
}

func (m *Metrics) FrameSent(frameType string) {
	m.LiveFrames.WithLabelValues("out", frameType).Inc()
}

func (m *Metrics) FrameReceived(frameType string) {
	m.LiveFrames.WithLabelValues("in", frameType).Inc()
}

// RotationChanged counts an index change of a rotating view
func (m *Metrics) RotationChanged(view, cause string) {
	m.RotationAdvances.WithLabelValues(view, cause).Inc()
}

func (m *Metrics) Submitted(kind submit.Kind, result string, took time.Duration) {
	m.Submissions.WithLabelValues(string(kind), result).Inc()
	if result != submit.ResultInvalid {
		m.SubmissionDuration.WithLabelValues(string(kind)).Observe(took.Seconds())
	}
}

// BreakerChanged records the submission breaker's new state
func (m *Metrics) BreakerChanged(_, to gobreaker.State) {
	m.BreakerState.Set(breakerValue(to))
}

func breakerValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// CacheLookup counts a page cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.PageCacheLookups.WithLabelValues(result).Inc()
}
