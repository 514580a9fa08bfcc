// Package metrics exposes Prometheus collectors for document rendering and HTTP traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors
type Metrics struct {
	registry *prometheus.Registry

	Renders        *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	RenderPages    prometheus.Histogram
	CacheLookups   *prometheus.CounterVec
	Archives       *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_renders_total",
			Help: "Invoice renders by theme and outcome.",
		}, []string{"theme", "outcome"}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoice_render_duration_seconds",
			Help:    "Time spent composing and rendering an invoice.",
			Buckets: prometheus.DefBuckets,
		}, []string{"theme"}),
		RenderPages: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoice_render_pages",
			Help:    "Pages per rendered invoice.",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_cache_lookups_total",
			Help: "Rendered document cache lookups by result.",
		}, []string{"result"}),
		Archives: f.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_archives_total",
			Help: "Rendered documents uploaded to the archive by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// ObserveRender records the outcome of one render
func (m *Metrics) ObserveRender(theme, outcome string, pages int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(theme, outcome).Inc()
	if outcome == "ok" {
		m.RenderDuration.WithLabelValues(theme).Observe(elapsed.Seconds())
		m.RenderPages.Observe(float64(pages))
	}
}

// ObserveCache records a cache hit or miss
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveArchive records an archive upload attempt
func (m *Metrics) ObserveArchive(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Archives.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
