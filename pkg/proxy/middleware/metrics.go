package middleware

import (
	"net/http"
	"strings"
	"time"
)

// HTTPRecorder receives one observation per API request.
// *metrics.Collector implements it.
type HTTPRecorder interface {
	RecordHTTPRequest(route, method string, status int, duration time.Duration)
}

// unmatchedRoute labels requests that no route pattern matched.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request counts and latency by route pattern.
// It must wrap the *http.ServeMux directly: the mux stores the matched
// pattern on the request it is given, and the route label is read from it.
// Labelling by pattern instead of path keeps cardinality bounded.
//
// Example usage:
//
//	handler = MetricsMiddleware(collector)(mux)
func MetricsMiddleware(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			recorder.RecordHTTPRequest(routeLabel(r.Pattern), r.Method, rw.statusCode, time.Since(start))
		})
	}
}

// routeLabel drops the method and host parts of a ServeMux pattern.
func routeLabel(pattern string) string {
	if pattern == "" {
		return unmatchedRoute
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	if i := strings.IndexByte(pattern, '/'); i > 0 {
		pattern = pattern[i:]
	}
	return pattern
}

// Chain applies middleware so that the first one listed is the outermost.
//
//	handler := Chain(mux, RecoveryMiddleware, LoggingMiddleware)
//	// == RecoveryMiddleware(LoggingMiddleware(mux))
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
