// Package tracing provides OpenTelemetry tracing for tokenscope.
//
// Tracing is off by default. When telemetry.tracing.enabled is set, New
// installs an SDK tracer provider that exports over OTLP gRPC, plus the
// W3C trace-context and baggage propagators, as the otel globals.
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    insecure: true
//	    sampler: ratio       # always, never, ratio
//	    sample_ratio: 0.1
//
// # Spans
//
//   - "<METHOD> <route>": one server span per API request, continuing a
//     client traceparent (middleware.TracingMiddleware)
//   - "providerfactory.CountTokens": one span per dispatched count, with
//     tokenscope.provider, tokenscope.model, tokenscope.images and either
//     tokenscope.total_tokens or tokenscope.error.kind
//
// Relayed vendor calls carry the server span's traceparent.
//
// Samplers are parent-based: a sampled incoming trace stays sampled.
package tracing
