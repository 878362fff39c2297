// Package telemetry groups the observability packages of tokenscope.
//
// # Components
//
//   - logging: slog setup with credential redaction and request IDs
//   - metrics: Prometheus counters and histograms for counts, relays and API requests
//   - tracing: OpenTelemetry spans exported over OTLP
//   - health: readiness checks behind /ready
//
// # Usage
//
//	logger := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	logging.SetDefault(logger)
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//
//	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// Telemetry never changes a count result or an error.
package telemetry
