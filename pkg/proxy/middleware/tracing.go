package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/tokenscope/pkg/telemetry/tracing"
)

var requestIDKey = attribute.Key("tokenscope.request_id")

// TracingMiddleware starts a server span per request, continuing any W3C
// traceparent sent by the client. Like MetricsMiddleware it must sit next
// to the mux so the span can be renamed to the matched route pattern.
// A nil tracer disables the middleware.
//
// Example usage:
//
//	handler = TracingMiddleware(tracer.Tracer())(handler)
func TracingMiddleware(tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tracer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := tracing.Extract(r.Context(), r.Header)
			ctx, span := tracer.Start(ctx, r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
				))
			defer span.End()

			if id := GetRequestID(ctx); id != "" {
				span.SetAttributes(requestIDKey.String(id))
			}

			rw := newResponseWriter(w)
			req := r.WithContext(ctx)
			next.ServeHTTP(rw, req)

			route := routeLabel(req.Pattern)
			span.SetName(r.Method + " " + route)
			span.SetAttributes(
				semconv.HTTPRoute(route),
				semconv.HTTPResponseStatusCode(rw.statusCode),
			)
			if rw.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			}
		})
	}
}
