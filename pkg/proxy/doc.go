// Package proxy holds the request and response plumbing shared by the
// tokenscope HTTP handlers.
//
// The server exposes a JSON counting API and a same-origin relay to the
// vendor APIs for the browser client:
//
//   - Handlers (pkg/proxy/handlers): count, catalogue, image fetch, relay, health
//   - Middleware (pkg/proxy/middleware): recovery, request ID, logging, CORS,
//     body limit, timeout, metrics
//   - Types (pkg/proxy/types): JSON bodies and the error-kind to status mapping
//
// # Requests
//
// ParseJSONRequest decodes a body and validates it with the struct's
// go-playground/validator tags:
//
//	req, err := proxy.ParseCountTokensRequest(r)
//	if err != nil {
//	    errResp, status := proxy.HandleError(err, tr)
//	    proxy.WriteErrorResponse(w, status, errResp)
//	    return
//	}
//
// ToTokenCountRequest turns the API body into a providers.TokenCountRequest,
// accepting images as bare base64 or as data URLs.
//
// # Errors
//
// HandleError maps request errors to 400 (413 for oversized bodies) and
// provider errors through types.StatusForError, rendering provider messages
// in the caller's language. Unknown errors become an opaque 500.
package proxy
