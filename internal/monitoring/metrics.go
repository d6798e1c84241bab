package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ManifestFetchTotal  *prometheus.CounterVec
	ManifestFetchTime   prometheus.Histogram
	InvalidURLTotal     prometheus.Counter
}

// NewMetrics registers the metrics with reg. Pass prometheus.DefaultRegisterer in main.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		ManifestFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "manifest_fetch_total",
			Help: "Total number of manifest requests sent to the manifest service.",
		}, []string{"status"}), // success, failure
		ManifestFetchTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "manifest_fetch_duration_seconds",
			Help:    "Duration of manifest service calls.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		InvalidURLTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "manifest_invalid_url_total",
			Help: "Total number of submitted URLs rejected by validation.",
		}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, path, status string, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func (m *Metrics) ObserveManifestFetch(status string, d time.Duration) {
	m.ManifestFetchTotal.WithLabelValues(status).Inc()
	m.ManifestFetchTime.Observe(d.Seconds())
}

func (m *Metrics) IncInvalidURL() {
	m.InvalidURLTotal.Inc()
}
