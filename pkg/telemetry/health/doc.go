// Package health provides the readiness checks behind GET /ready.
//
// Liveness is answered by the API's /health route. Readiness asks each
// registered component whether it can serve right now:
//
//	checker := health.New(5 * time.Second)
//	checker.Register("tokenizer", func(ctx context.Context) error {
//		_, err := tokenizer.Encoding(tokens.EncodingCL100K)
//		return err
//	})
//	mux.Handle("GET /ready", checker.Handler())
//
// Checks run concurrently, each under its own timeout.
package health
