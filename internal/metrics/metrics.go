package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry collects the service metrics on a dedicated prometheus registry
// so tests can create isolated instances.
type Registry struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	jobsActive          prometheus.Gauge
	datasetsLoaded      prometheus.Gauge
}

// NewRegistry creates the metric instruments
func NewRegistry() *Registry {
	registry := prometheus.NewRegistry()

	return &Registry{
		registry: registry,
		httpRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hypergraph",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hypergraph",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		jobsActive: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "hypergraph",
				Name:      "analysis_jobs_active",
				Help:      "Number of queued or running analysis jobs",
			},
		),
		datasetsLoaded: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "hypergraph",
				Name:      "datasets_loaded",
				Help:      "Number of datasets currently stored",
			},
		),
	}
}

// RecordHTTPRequest records one served request
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetActiveJobs updates the active job gauge
func (r *Registry) SetActiveJobs(n int) {
	r.jobsActive.Set(float64(n))
}

// SetLoadedDatasets updates the dataset gauge
func (r *Registry) SetLoadedDatasets(n int) {
	r.datasetsLoaded.Set(float64(n))
}

// Handler exposes the registry in the prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
