package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CountMetrics tracks dispatched token counts.
//
// Metrics:
//   - tokenscope_count_requests_total: counts by provider, model, status
//   - tokenscope_count_duration_seconds: adapter latency
//   - tokenscope_count_tokens: distribution of counted totals
//   - tokenscope_count_errors_total: failures by provider and error kind
type CountMetrics struct {
	requestsTotal *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	tokens        *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
}

// NewCountMetrics creates and registers count metrics with the provided registry.
func NewCountMetrics(registry prometheus.Registerer) *CountMetrics {
	cm := &CountMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "count",
				Name:      "requests_total",
				Help:      "Total number of token count requests",
			},
			[]string{"provider", "model", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "count",
				Name:      "duration_seconds",
				Help:      "Duration of token count requests in seconds",
				// Local counts take microseconds, vendor calls up to the 30s budget.
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "model"},
		),

		tokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "count",
				Name:      "tokens",
				Help:      "Distribution of counted input tokens",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 8), // 10 to ~160K
			},
			[]string{"provider", "model"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "count",
				Name:      "errors_total",
				Help:      "Total number of failed token counts by error kind",
			},
			[]string{"provider", "kind"},
		),
	}

	registry.MustRegister(
		cm.requestsTotal,
		cm.duration,
		cm.tokens,
		cm.errorsTotal,
	)

	return cm
}

// RecordSuccess records a successful count.
func (cm *CountMetrics) RecordSuccess(provider, model string, duration time.Duration, tokens int) {
	cm.requestsTotal.WithLabelValues(provider, model, "success").Inc()
	cm.duration.WithLabelValues(provider, model).Observe(duration.Seconds())
	cm.tokens.WithLabelValues(provider, model).Observe(float64(tokens))
}

// RecordError records a failed count.
func (cm *CountMetrics) RecordError(provider, model, kind string, duration time.Duration) {
	cm.requestsTotal.WithLabelValues(provider, model, "error").Inc()
	cm.duration.WithLabelValues(provider, model).Observe(duration.Seconds())
	cm.errorsTotal.WithLabelValues(provider, kind).Inc()
}
