// Package observability exposes Prometheus metrics for the service.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// New creates and registers the service metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{reg: reg}
	m.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soilviz_interpolation_requests_total",
			Help: "Interpolation requests by final HTTP status.",
		},
		[]string{"status"},
	)
	m.duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "soilviz_interpolation_duration_seconds",
			Help:    "End-to-end interpolation request duration.",
			Buckets: prometheus.DefBuckets,
		},
	)
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Handler returns the /metrics HTTP handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished interpolation request.
func (m *Metrics) ObserveRequest(status int, elapsed time.Duration) {
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	m.duration.Observe(elapsed.Seconds())
}
