// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// This package implements middleware functions that handle common functionality
// across all HTTP requests including request ID generation, logging, CORS,
// panic recovery, body limits, timeouts, tracing and metrics.
//
// # Middleware Chain
//
// The server assembles the chain with Chain, outermost first:
//
//	handler := middleware.Chain(mux,
//	    middleware.RecoveryMiddleware,
//	    middleware.RequestIDMiddleware,
//	    middleware.LoggingMiddleware,
//	    middleware.CORSMiddleware(cfg.Server.CORS),
//	    middleware.BodyLimitMiddleware(cfg.Server.MaxBodyBytes),
//	    middleware.TracingMiddleware(tracer),
//	    middleware.MetricsMiddleware(collector),
//	)
//
// TracingMiddleware and MetricsMiddleware must be last so the request they
// pass down is the one the mux stores the matched route pattern on. TimeoutMiddleware is applied per route to the
// JSON API only; the relay streams and is bounded by the provider timeout.
//
// # Request ID
//
// RequestIDMiddleware generates a UUID v4 for each request:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// A client-supplied X-Request-ID is kept. The ID is stored with
// logging.WithRequestID, so the logging handler adds it to every record.
//
// # Errors
//
// Recovery and timeout responses use the API error body from
// pkg/proxy/types.
package middleware
