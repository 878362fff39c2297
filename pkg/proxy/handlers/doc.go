// Package handlers implements the HTTP handlers of the tokenscope API.
//
// # Endpoints
//
//	POST /v1/count_tokens            CountHandler
//	GET  /v1/providers               ProvidersHandler
//	GET  /v1/providers/{id}/models   ModelsHandler
//	POST /v1/images/fetch            FetchImageHandler
//	GET  /health                     HealthHandler
//	ANY  <relay prefix>/{provider}/  RelayHandler
//
// Errors are written in the envelope of the types package. Messages are
// localized from the request's Accept-Language header when one is sent,
// otherwise from the server locale.
//
// Handlers take interfaces (TokenCounter, Settings, RelayRecorder) so tests
// can substitute fakes for the provider manager and the configuration.
package handlers
