package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RelayMetrics tracks calls forwarded by the development relay.
//
// Metrics:
//   - tokenscope_relay_requests_total: relayed calls by provider and upstream status
//   - tokenscope_relay_duration_seconds: upstream round trip
type RelayMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRelayMetrics creates and registers relay metrics with the provided registry.
func NewRelayMetrics(registry prometheus.Registerer) *RelayMetrics {
	rm := &RelayMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "relay",
				Name:      "requests_total",
				Help:      "Total number of relayed vendor requests",
			},
			[]string{"provider", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "relay",
				Name:      "duration_seconds",
				Help:      "Round trip of relayed vendor requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(rm.requests, rm.duration)
	return rm
}

// Record records one relayed call. status is "0" when the upstream could
// not be reached.
func (rm *RelayMetrics) Record(provider, status string, duration time.Duration) {
	rm.requests.WithLabelValues(provider, status).Inc()
	rm.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// HTTPMetrics tracks requests to the JSON API.
//
// Metrics:
//   - tokenscope_http_requests_total: requests by route, method, status
//   - tokenscope_http_request_duration_seconds: handler latency by route
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(registry prometheus.Registerer) *HTTPMetrics {
	hm := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"route", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(hm.requests, hm.duration)
	return hm
}

// Record records one API request.
func (hm *HTTPMetrics) Record(route, method, status string, duration time.Duration) {
	hm.requests.WithLabelValues(route, method, status).Inc()
	hm.duration.WithLabelValues(route).Observe(duration.Seconds())
}
