package providers

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a provider error. Callers branch on the kind rather than on
// the concrete adapter that produced the error.
type Kind string

const (
	// KindConfiguration means a required credential or setting is absent.
	KindConfiguration Kind = "configuration"

	// KindMissingContent means the request carried neither text nor images.
	KindMissingContent Kind = "missing_content"

	// KindValidation means an input failed a precondition (wrong file type, oversized file).
	KindValidation Kind = "validation"

	// KindTimeout means a vendor call exceeded its wall-clock budget.
	KindTimeout Kind = "timeout"

	// KindAPI means the vendor answered with a non-success status or could not be reached.
	KindAPI Kind = "api"

	// KindFetch means a remote image could not be fetched.
	KindFetch Kind = "fetch"

	// KindConversion means a local file could not be converted to base64.
	KindConversion Kind = "conversion"

	// KindUnsupportedContent means the model cannot accept the requested content.
	KindUnsupportedContent Kind = "unsupported_content"

	// KindUnsupportedProvider means the provider identifier is not in the catalogue.
	KindUnsupportedProvider Kind = "unsupported_provider"

	// KindTokenizer means the local tokenizer failed.
	KindTokenizer Kind = "tokenizer"
)

// Message identifiers used to localize errors. Each one has an entry in the
// embedded locale files of package i18n.
const (
	MsgConfiguration       = "ErrConfiguration"
	MsgMissingContent      = "ErrMissingContent"
	MsgFileNotImage        = "ErrFileNotImage"
	MsgFileTooLarge        = "ErrFileTooLarge"
	MsgTimeout             = "ErrTimeout"
	MsgAPI                 = "ErrAPI"
	MsgRequest             = "ErrRequest"
	MsgFetch               = "ErrFetch"
	MsgFetchNotImage       = "ErrFetchNotImage"
	MsgConversion          = "ErrConversion"
	MsgUnsupportedContent  = "ErrUnsupportedContent"
	MsgUnsupportedProvider = "ErrUnsupportedProvider"
	MsgTokenizer           = "ErrTokenizer"
)

// Error is the single error type returned by the registry, the adapters and
// the dispatch layer. Kind discriminates the failure; StatusCode and Code are
// only set when a vendor answered.
type Error struct {
	// Kind classifies the failure
	Kind Kind

	// Provider is the provider the failing call was addressed to (empty if unknown)
	Provider ProviderID

	// StatusCode is the vendor HTTP status code (0 if not applicable)
	StatusCode int

	// Code is the vendor-supplied error code, e.g. "invalid_request_error" or "400"
	Code string

	// Message is the English, human-readable description
	Message string

	// MessageID identifies the localized template for this error
	MessageID string

	// TemplateData fills the localized template
	TemplateData map[string]any

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind. It lets callers
// write errors.Is(err, &providers.Error{Kind: providers.KindTimeout}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Provider == "" || t.Provider == e.Provider)
}

// KindOf returns the kind of err, or "" when err is not a provider error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsKind reports whether err is a provider error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// NewConfigError reports an absent credential or setting.
func NewConfigError(provider ProviderID, field string) *Error {
	return &Error{
		Kind:      KindConfiguration,
		Provider:  provider,
		Message:   fmt.Sprintf("%s is not configured", field),
		MessageID: MsgConfiguration,
		TemplateData: map[string]any{
			"Provider": string(provider),
			"Field":    field,
		},
	}
}

// NewMissingContentError reports a request without text or images.
func NewMissingContentError(provider ProviderID) *Error {
	return &Error{
		Kind:         KindMissingContent,
		Provider:     provider,
		Message:      "text or at least one image is required",
		MessageID:    MsgMissingContent,
		TemplateData: map[string]any{"Provider": string(provider)},
	}
}

// NewFileTypeError reports a file whose declared type is not an image.
func NewFileTypeError(provider ProviderID, name, mediaType string) *Error {
	return &Error{
		Kind:      KindValidation,
		Provider:  provider,
		Message:   fmt.Sprintf("file %q has type %q, only images are supported", name, mediaType),
		MessageID: MsgFileNotImage,
		TemplateData: map[string]any{
			"Name": name,
			"Type": mediaType,
		},
	}
}

// NewFileSizeError reports a file above the size ceiling.
func NewFileSizeError(provider ProviderID, name string, size, limit int64) *Error {
	return &Error{
		Kind:      KindValidation,
		Provider:  provider,
		Message:   fmt.Sprintf("file %q is %d bytes, the limit is %d bytes", name, size, limit),
		MessageID: MsgFileTooLarge,
		TemplateData: map[string]any{
			"Name":  name,
			"Size":  size,
			"Limit": limit,
		},
	}
}

// NewTimeoutError reports a vendor call that exceeded its budget.
func NewTimeoutError(provider ProviderID, timeout time.Duration) *Error {
	return &Error{
		Kind:      KindTimeout,
		Provider:  provider,
		Message:   fmt.Sprintf("request timeout after %s", timeout),
		MessageID: MsgTimeout,
		TemplateData: map[string]any{
			"Provider": string(provider),
			"Timeout":  timeout.String(),
		},
	}
}

// NewAPIError reports a non-success vendor response.
func NewAPIError(provider ProviderID, status int, code, message string) *Error {
	return &Error{
		Kind:       KindAPI,
		Provider:   provider,
		StatusCode: status,
		Code:       code,
		Message:    "token count failed: " + message,
		MessageID:  MsgAPI,
		TemplateData: map[string]any{
			"Provider": string(provider),
			"Status":   status,
			"Detail":   message,
		},
	}
}

// NewRequestError reports a vendor call that never produced a usable response.
func NewRequestError(provider ProviderID, cause error) *Error {
	return &Error{
		Kind:      KindAPI,
		Provider:  provider,
		Message:   fmt.Sprintf("API request failed: %v", cause),
		MessageID: MsgRequest,
		TemplateData: map[string]any{
			"Provider": string(provider),
			"Detail":   cause.Error(),
		},
		Cause: cause,
	}
}

// NewFetchError reports a remote image that could not be fetched.
func NewFetchError(provider ProviderID, url string, cause error) *Error {
	return &Error{
		Kind:      KindFetch,
		Provider:  provider,
		Message:   fmt.Sprintf("failed to fetch image %q: %v", url, cause),
		MessageID: MsgFetch,
		TemplateData: map[string]any{
			"URL":    url,
			"Detail": cause.Error(),
		},
		Cause: cause,
	}
}

// NewFetchTypeError reports a fetched resource that is not an image.
func NewFetchTypeError(provider ProviderID, url, contentType string) *Error {
	return &Error{
		Kind:      KindFetch,
		Provider:  provider,
		Message:   fmt.Sprintf("resource %q has content type %q, not an image", url, contentType),
		MessageID: MsgFetchNotImage,
		TemplateData: map[string]any{
			"URL":  url,
			"Type": contentType,
		},
	}
}

// NewConversionError reports a local file that could not be converted.
func NewConversionError(provider ProviderID, name string, cause error) *Error {
	return &Error{
		Kind:      KindConversion,
		Provider:  provider,
		Message:   fmt.Sprintf("failed to convert file %q: %v", name, cause),
		MessageID: MsgConversion,
		TemplateData: map[string]any{
			"Name":   name,
			"Detail": cause.Error(),
		},
		Cause: cause,
	}
}

// NewUnsupportedContentError reports image content sent to a model without vision support.
func NewUnsupportedContentError(provider ProviderID, model string) *Error {
	return &Error{
		Kind:      KindUnsupportedContent,
		Provider:  provider,
		Message:   fmt.Sprintf("model %q does not support image input", model),
		MessageID: MsgUnsupportedContent,
		TemplateData: map[string]any{
			"Model": model,
		},
	}
}

// NewUnsupportedProviderError reports a provider identifier outside the catalogue.
func NewUnsupportedProviderError(id string) *Error {
	return &Error{
		Kind:         KindUnsupportedProvider,
		Message:      fmt.Sprintf("unsupported provider %q", id),
		MessageID:    MsgUnsupportedProvider,
		TemplateData: map[string]any{"Provider": id},
	}
}

// NewTokenizerError reports a local tokenizer failure.
func NewTokenizerError(provider ProviderID, encoding string, cause error) *Error {
	return &Error{
		Kind:      KindTokenizer,
		Provider:  provider,
		Message:   fmt.Sprintf("text token count failed (%s): %v", encoding, cause),
		MessageID: MsgTokenizer,
		TemplateData: map[string]any{
			"Encoding": encoding,
			"Detail":   cause.Error(),
		},
		Cause: cause,
	}
}
