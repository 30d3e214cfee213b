package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the API and the collector.
// Methods are safe to call on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec   // labels: route, status
	HTTPDuration       *prometheus.HistogramVec // labels: route
	SnapshotComputeDur prometheus.Histogram
	CacheResults       *prometheus.CounterVec // labels: result=hit|miss|stale
	FetchErrors        *prometheus.CounterVec // labels: source
	AlertsSent         prometheus.Counter
}

// New creates the metrics on a fresh registry, so several instances can
// coexist in tests.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stocklens_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SnapshotComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocklens_snapshot_compute_seconds",
			Help:    "Indicator snapshot compute latency",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		CacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_cache_results_total",
			Help: "Series cache lookups by result",
		}, []string{"result"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_fetch_errors_total",
			Help: "Failed provider fetches by source",
		}, []string{"source"}),
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stocklens_alerts_sent_total",
			Help: "RSI zone alerts delivered",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.SnapshotComputeDur,
		m.CacheResults,
		m.FetchErrors,
		m.AlertsSent,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, status).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObserveSnapshot(d time.Duration) {
	if m == nil {
		return
	}
	m.SnapshotComputeDur.Observe(d.Seconds())
}

func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.CacheResults.WithLabelValues(result).Inc()
}

func (m *Metrics) FetchError(source string) {
	if m == nil {
		return
	}
	m.FetchErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) AlertSent() {
	if m == nil {
		return
	}
	m.AlertsSent.Inc()
}
