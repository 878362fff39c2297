// Package types defines the JSON request and response bodies of the
// tokenscope HTTP API.
//
// # Endpoints
//
//	POST /v1/count_tokens          CountTokensRequest -> CountTokensResponse
//	GET  /v1/providers             ProvidersResponse
//	GET  /v1/providers/{id}/models ModelsResponse
//	POST /v1/images/fetch          FetchImageRequest -> ImageResponse
//	GET  /health                   HealthResponse
//
// # Errors
//
// Every failure is an ErrorResponse:
//
//	{"error": {"message": "...", "type": "bad_gateway", "code": "invalid_request_error",
//	           "kind": "api", "provider": "anthropic", "status": 400}}
//
// StatusForError maps provider error kinds to HTTP status codes. Request
// structs carry go-playground/validator tags checked by the handlers.
package types
