package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/tokenscope/pkg/config"
	"mercator-hq/tokenscope/pkg/providers"
)

// Namespace prefixes every metric name.
const Namespace = "tokenscope"

// otherLabel replaces label values that are not in the catalogue so that
// arbitrary client input cannot grow the series count.
const otherLabel = "other"

// Collector owns the Prometheus registry and every tokenscope metric.
// It implements providerfactory.Recorder.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	count *CountMetrics
	relay *RelayMetrics
	http  *HTTPMetrics
}

// NewCollector creates a collector registering into registry. A nil
// registry gets a fresh one with the Go runtime and process collectors.
//
// Example:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	manager, err := providerfactory.NewManager(configs,
//		providerfactory.WithRecorder(collector))
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Collector{
		enabled:  cfg.Enabled,
		registry: registry,
		count:    NewCountMetrics(registry),
		relay:    NewRelayMetrics(registry),
		http:     NewHTTPMetrics(registry),
	}
}

// RecordCount records one dispatched count.
//
// Parameters:
//   - provider: provider identifier as requested
//   - model: model identifier as requested
//   - duration: time spent in the adapter
//   - result: the result (nil on error)
//   - err: the adapter error (nil on success)
func (c *Collector) RecordCount(provider, model string, duration time.Duration, result *providers.TokenCountResult, err error) {
	if !c.enabled {
		return
	}

	provider, model = catalogueLabels(provider, model)

	if err != nil {
		kind := string(providers.KindOf(err))
		if kind == "" {
			kind = "unknown"
		}
		c.count.RecordError(provider, model, kind, duration)
		return
	}

	tokens := 0
	if result != nil {
		tokens = result.TotalTokens
	}
	c.count.RecordSuccess(provider, model, duration, tokens)
}

// RecordRelay records one relayed vendor call.
func (c *Collector) RecordRelay(provider string, status int, duration time.Duration) {
	if !c.enabled {
		return
	}

	if !providers.IsKnownProvider(providers.ProviderID(provider)) {
		provider = otherLabel
	}
	c.relay.Record(provider, strconv.Itoa(status), duration)
}

// RecordHTTPRequest records one request served by the JSON API.
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !c.enabled {
		return
	}

	c.http.Record(route, method, strconv.Itoa(status), duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether metrics are being recorded.
func (c *Collector) Enabled() bool {
	return c.enabled
}

// catalogueLabels maps identifiers outside the catalogue to "other".
func catalogueLabels(provider, model string) (string, string) {
	id := providers.ProviderID(provider)
	if !providers.IsKnownProvider(id) {
		return otherLabel, otherLabel
	}
	if !providers.IsValidModel(id, model) {
		return provider, otherLabel
	}
	return provider, model
}
