package health

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "restoran",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoran",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	registerOnce sync.Once
)

// RegisterMetrics registers the HTTP collectors once per process.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HttpDuration, HttpRequests)
	})
}
