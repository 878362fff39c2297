package types

import (
	"errors"
	"net/http"

	"mercator-hq/tokenscope/pkg/providers"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable, localized error message.
	Message string `json:"message"`

	// Type categorizes the error.
	// Possible values: "invalid_request_error", "authentication_error",
	// "permission_denied", "not_found", "unprocessable_entity",
	// "server_error", "bad_gateway", "gateway_timeout".
	Type string `json:"type"`

	// Param is the name of the request field that caused the error (if applicable).
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code. For vendor errors this is the
	// vendor's own code.
	Code string `json:"code,omitempty"`

	// Kind is the provider error kind, when the error came from an adapter.
	Kind string `json:"kind,omitempty"`

	// Provider is the provider the error came from.
	Provider string `json:"provider,omitempty"`

	// Status is the vendor HTTP status, when a vendor answered.
	Status int `json:"status,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeAuthentication indicates a rejected vendor credential (401).
	ErrorTypeAuthentication = "authentication_error"

	// ErrorTypePermissionDenied indicates a vendor authorization failure (403).
	ErrorTypePermissionDenied = "permission_denied"

	// ErrorTypeNotFound indicates a resource was not found (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeUnprocessable indicates content the model cannot accept (422).
	ErrorTypeUnprocessable = "unprocessable_entity"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeBadGateway indicates a vendor or fetch error (502).
	ErrorTypeBadGateway = "bad_gateway"

	// ErrorTypeGatewayTimeout indicates a vendor timeout (504).
	ErrorTypeGatewayTimeout = "gateway_timeout"
)

// Error code constants for errors raised by the API itself.
const (
	// CodeMissingField indicates a required field is missing.
	CodeMissingField = "missing_field"

	// CodeInvalidValue indicates a field has an invalid value.
	CodeInvalidValue = "invalid_value"

	// CodeInvalidJSON indicates the request body is not valid JSON.
	CodeInvalidJSON = "invalid_json"

	// CodeModelNotFound indicates the model is not in the provider's catalogue.
	CodeModelNotFound = "model_not_found"

	// CodeRequestTooLarge indicates the request payload is too large.
	CodeRequestTooLarge = "request_too_large"

	// CodeRequestTimeout indicates the request exceeded the server budget.
	CodeRequestTimeout = "request_timeout"

	// CodeInternalError indicates an internal server error.
	CodeInternalError = "internal_error"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewNotFoundError creates an error response for unknown resources (404).
func NewNotFoundError(message, param string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeNotFound, param, "")
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", CodeInternalError)
}

// NewGatewayTimeoutError creates an error response for requests that ran
// past the server budget (504).
func NewGatewayTimeoutError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeGatewayTimeout, "", CodeRequestTimeout)
}

// NewProviderErrorResponse converts an adapter error into a response.
// message is the text shown to the user, normally the localized rendering
// of err. Errors that are not *providers.Error become server errors.
func NewProviderErrorResponse(err error, message string) *ErrorResponse {
	var perr *providers.Error
	if !errors.As(err, &perr) {
		return NewServerError(message)
	}

	code := perr.Code
	if code == "" {
		code = string(perr.Kind)
	}

	return &ErrorResponse{
		Error: ErrorDetail{
			Message:  message,
			Type:     errorTypeForStatus(StatusForError(err)),
			Code:     code,
			Kind:     string(perr.Kind),
			Provider: string(perr.Provider),
			Status:   perr.StatusCode,
		},
	}
}

// StatusForError returns the HTTP status an error is reported with.
//
//	validation, missing_content  400
//	api with vendor 401 or 403   passed through
//	unsupported_provider         404
//	unsupported_content          422
//	configuration, tokenizer     500
//	api, fetch, conversion       502
//	timeout                      504
func StatusForError(err error) int {
	var perr *providers.Error
	if !errors.As(err, &perr) {
		return http.StatusInternalServerError
	}

	switch perr.Kind {
	case providers.KindValidation, providers.KindMissingContent:
		return http.StatusBadRequest
	case providers.KindUnsupportedProvider:
		return http.StatusNotFound
	case providers.KindUnsupportedContent:
		return http.StatusUnprocessableEntity
	case providers.KindTimeout:
		return http.StatusGatewayTimeout
	case providers.KindAPI:
		if perr.StatusCode == http.StatusUnauthorized || perr.StatusCode == http.StatusForbidden {
			return perr.StatusCode
		}
		return http.StatusBadGateway
	case providers.KindFetch, providers.KindConversion:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusCode returns the appropriate HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypePermissionDenied:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUnprocessable:
		return http.StatusUnprocessableEntity
	case ErrorTypeBadGateway:
		return http.StatusBadGateway
	case ErrorTypeGatewayTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorTypeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrorTypeInvalidRequest
	case http.StatusUnauthorized:
		return ErrorTypeAuthentication
	case http.StatusForbidden:
		return ErrorTypePermissionDenied
	case http.StatusNotFound:
		return ErrorTypeNotFound
	case http.StatusUnprocessableEntity:
		return ErrorTypeUnprocessable
	case http.StatusBadGateway:
		return ErrorTypeBadGateway
	case http.StatusGatewayTimeout:
		return ErrorTypeGatewayTimeout
	default:
		return ErrorTypeServerError
	}
}
