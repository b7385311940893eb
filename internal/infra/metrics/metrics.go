// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build independent instances.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	storeSelections  *prometheus.CounterVec
	remoteRoundTrip  *prometheus.HistogramVec
	signalsPublished *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		storeSelections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_selections_total",
				Help: "Data facade calls routed to each dataset.",
			},
			[]string{"backend"},
		),
		remoteRoundTrip: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "remote_round_trip_seconds",
				Help:    "Simulated remote storage round trips including injected latency.",
				Buckets: []float64{0.05, 0.1, 0.125, 0.15, 0.2, 0.3, 0.5, 1},
			},
			[]string{"op"},
		),
		signalsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signals_published_total",
				Help: "Signals published on the in-process bus.",
			},
			[]string{"signal"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.storeSelections,
		m.remoteRoundTrip,
		m.signalsPublished,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

func (m *Metrics) RequestFinished(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

func (m *Metrics) StoreSelected(backend string) {
	if m == nil {
		return
	}
	m.storeSelections.WithLabelValues(backend).Inc()
}

func (m *Metrics) RemoteRoundTrip(op string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.remoteRoundTrip.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) SignalPublished(signal string) {
	if m == nil {
		return
	}
	m.signalsPublished.WithLabelValues(signal).Inc()
}
