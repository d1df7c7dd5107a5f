// Package metrics exposes Prometheus instrumentation for claim verification
// and session lifecycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and instruments for a single process.
type Metrics struct {
	registry *prometheus.Registry

	claimsTotal  *prometheus.CounterVec
	codesIssued  prometheus.Counter
	sessionsOpen prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a registry with process, runtime, and application collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		claimsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_claims_total",
			Help: "Attendance claims processed, partitioned by verification outcome.",
		}, []string{"outcome"}),
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_codes_issued_total",
			Help: "One-time codes issued to presenters.",
		}),
		sessionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rollcall_sessions_open",
			Help: "Sessions currently accepting claims.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_http_requests_total",
			Help: "HTTP requests served, partitioned by method, route, and status class.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rollcall_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registry.MustRegister(m.claimsTotal, m.codesIssued, m.sessionsOpen, m.httpRequests, m.httpDuration)
	return m
}

// ClaimProcessed counts a verification attempt by outcome.
func (m *Metrics) ClaimProcessed(outcome string) {
	m.claimsTotal.WithLabelValues(outcome).Inc()
}

// CodeIssued counts a code issuance.
func (m *Metrics) CodeIssued() {
	m.codesIssued.Inc()
}

// SessionOpened increments the open session gauge.
func (m *Metrics) SessionOpened() {
	m.sessionsOpen.Inc()
}

// SessionClosed decrements the open session gauge.
func (m *Metrics) SessionClosed() {
	m.sessionsOpen.Dec()
}

// HTTPRequest records a served request.
func (m *Metrics) HTTPRequest(method, route, status string, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
