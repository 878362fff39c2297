package middleware

import "net/http"

// BodyLimitMiddleware caps request bodies at maxBytes. Reading past the cap
// fails with *http.MaxBytesError, which handlers report as 413.
// A non-positive maxBytes disables the cap.
//
// Example usage:
//
//	handler = BodyLimitMiddleware(cfg.Server.MaxBodyBytes)(handler)
func BodyLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
