package proxy

import (
	"context"
	"errors"
	"net/http"

	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/proxy/types"
)

// HandleError converts an error into an API error response and its status.
// Provider errors are rendered in the language of tr; request errors keep
// their English message. Anything unrecognised becomes a generic 500 so
// internal details never reach the client.
//
// Example usage:
//
//	if err != nil {
//	    errResp, status := HandleError(err, tr)
//	    WriteErrorResponse(w, status, errResp)
//	    return
//	}
func HandleError(err error, tr *i18n.Translations) (*types.ErrorResponse, int) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse(), reqErr.StatusCode()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewGatewayTimeoutError("Request timeout: the request took too long to complete"),
			http.StatusGatewayTimeout
	}

	status := types.StatusForError(err)
	resp := types.NewProviderErrorResponse(err, "")
	if resp.Error.Kind == "" {
		return types.NewServerError("An internal error occurred. Please try again later."), status
	}

	if tr != nil {
		resp.Error.Message = tr.Error(err)
	} else {
		resp.Error.Message = err.Error()
	}
	return resp, status
}
