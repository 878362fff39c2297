package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/proxy/types"
)

// FormatCountTokensResponse builds the API response for a count.
func FormatCountTokensResponse(provider, model string, result *providers.TokenCountResult) *types.CountTokensResponse {
	return &types.CountTokensResponse{
		Provider:    provider,
		Model:       model,
		InputTokens: result.InputTokens,
		TotalTokens: result.TotalTokens,
	}
}

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes an error response with the given status. A zero
// status is derived from the error type.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, errResp *types.ErrorResponse) error {
	if statusCode == 0 {
		statusCode = errResp.Error.HTTPStatusCode()
	}
	return WriteJSONResponse(w, statusCode, errResp)
}
