// Package metrics provides Prometheus metrics collection for tokenscope.
//
// # Metrics
//
//   - tokenscope_count_requests_total{provider,model,status}
//   - tokenscope_count_duration_seconds{provider,model}
//   - tokenscope_count_tokens{provider,model}
//   - tokenscope_count_errors_total{provider,kind}
//   - tokenscope_relay_requests_total{provider,status}
//   - tokenscope_relay_duration_seconds{provider}
//   - tokenscope_http_requests_total{route,method,status}
//   - tokenscope_http_request_duration_seconds{route}
//
// Provider and model labels come from the catalogue; anything else is
// recorded as "other".
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//
//	// The collector is a providerfactory.Recorder.
//	manager, err := providerfactory.NewManager(configs,
//		providerfactory.WithRecorder(collector))
//
//	mux.Handle("/metrics", collector.Handler())
//
// Recording never changes a result or an error.
package metrics
