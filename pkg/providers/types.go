package providers

import (
	"io"
	"net/http"
	"strings"
	"time"
)

// ProviderID identifies a vendor. The catalogue defines the closed set of
// valid identifiers; any other value is rejected by the dispatch layer.
type ProviderID string

const (
	// Anthropic counts tokens with the vendor's messages/count_tokens endpoint.
	Anthropic ProviderID = "anthropic"

	// OpenAI counts tokens locally with a BPE tokenizer.
	OpenAI ProviderID = "openai"

	// Gemini counts tokens with the vendor's per-model countTokens endpoint.
	Gemini ProviderID = "gemini"
)

// String returns the identifier as a plain string.
func (id ProviderID) String() string {
	return string(id)
}

// Model is a vendor model offered in the catalogue.
type Model struct {
	// ID is the vendor model identifier, unique within its provider
	ID string `json:"id" yaml:"id"`

	// Name is the display name
	Name string `json:"name" yaml:"name"`

	// Description is optional
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Provider is a vendor and its ordered model list.
type Provider struct {
	ID     ProviderID `json:"id" yaml:"id"`
	Name   string     `json:"name" yaml:"name"`
	Models []Model    `json:"models" yaml:"models"`
}

// Image is image content encoded as base64 text.
type Image struct {
	// Data is the base64 payload without any data-URL prefix
	Data string `json:"data"`

	// MediaType is the MIME type, e.g. "image/png"
	MediaType string `json:"media_type"`
}

// TokenCountRequest is the provider-agnostic request every adapter accepts.
type TokenCountRequest struct {
	// Text is optional prompt text
	Text string `json:"text,omitempty"`

	// Images is an optional ordered list of images
	Images []Image `json:"images,omitempty"`

	// Model is the vendor model identifier
	Model string `json:"model"`
}

// HasText reports whether the text is non-blank after trimming.
func (r *TokenCountRequest) HasText() bool {
	return r != nil && strings.TrimSpace(r.Text) != ""
}

// HasContent reports whether the request carries text or at least one image.
func (r *TokenCountRequest) HasContent() bool {
	return r.HasText() || (r != nil && len(r.Images) > 0)
}

// TokenCountResult is the normalized adapter result.
type TokenCountResult struct {
	InputTokens int `json:"input_tokens"`
	TotalTokens int `json:"total_tokens"`
}

// ImageFile is a locally supplied file awaiting conversion to an Image.
// Name, Type and Size are the declared attributes; Open is only invoked once
// they have been validated.
type ImageFile struct {
	Name string
	Type string
	Size int64
	Open func() (io.ReadCloser, error)
}

// ProviderConfig contains the settings one adapter is built from.
type ProviderConfig struct {
	// Name is the provider identifier
	Name ProviderID

	// BaseURL is the vendor (or relay) base URL
	BaseURL string

	// APIKey is the vendor credential; empty means not configured
	APIKey string

	// Timeout is the wall-clock budget for one vendor call
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// IdleConnTimeout is how long an idle connection stays open
	IdleConnTimeout time.Duration

	// Client overrides the HTTP client built from the settings above
	Client *http.Client
}

// DefaultTimeout is the per-call budget used when none is configured.
const DefaultTimeout = 30 * time.Second
