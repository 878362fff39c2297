package types

// CountTokensRequest is the body of POST /v1/count_tokens.
type CountTokensRequest struct {
	// Provider is the provider identifier ("anthropic", "openai", "gemini").
	Provider string `json:"provider" validate:"required"`

	// Model is the vendor model identifier.
	Model string `json:"model" validate:"required"`

	// Text is optional prompt text.
	Text string `json:"text,omitempty"`

	// Images are images already encoded as base64.
	Images []ImagePayload `json:"images,omitempty" validate:"omitempty,max=20,dive"`

	// ImageURLs are remote images fetched before counting, appended after Images.
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,max=20,dive,url"`
}

// ImagePayload is one image in a count request.
//
// Data may be a bare base64 payload or a full data URL; for a data URL the
// media type may be omitted and is taken from the URL.
type ImagePayload struct {
	// Data is the base64 payload or a data URL.
	Data string `json:"data" validate:"required"`

	// MediaType is the MIME type, e.g. "image/png".
	MediaType string `json:"media_type,omitempty"`
}

// FetchImageRequest is the body of POST /v1/images/fetch.
type FetchImageRequest struct {
	// URL is the remote image location.
	URL string `json:"url" validate:"required,url"`
}
