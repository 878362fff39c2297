package types

import "mercator-hq/tokenscope/pkg/providers"

// CountTokensResponse is returned by POST /v1/count_tokens.
type CountTokensResponse struct {
	// Provider is the provider that counted the request.
	Provider string `json:"provider"`

	// Model is the model the count applies to.
	Model string `json:"model"`

	// InputTokens is the number of input tokens.
	InputTokens int `json:"input_tokens"`

	// TotalTokens equals InputTokens for every provider.
	TotalTokens int `json:"total_tokens"`
}

// ProvidersResponse is returned by GET /v1/providers.
type ProvidersResponse struct {
	Object string             `json:"object"`
	Data   []ProviderResponse `json:"data"`
}

// ProviderResponse describes one provider and its models.
type ProviderResponse struct {
	providers.Provider

	// Configured reports whether a credential is available. OpenAI counts
	// locally and is always configured.
	Configured bool `json:"configured"`
}

// ModelsResponse is returned by GET /v1/providers/{id}/models.
type ModelsResponse struct {
	Object   string            `json:"object"`
	Provider string            `json:"provider"`
	Data     []providers.Model `json:"data"`
}

// ImageResponse is returned by POST /v1/images/fetch.
type ImageResponse struct {
	providers.Image

	// Size is the decoded size of the image in bytes.
	Size int `json:"size"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// Status is "ok" when the server is serving.
	Status string `json:"status"`

	// Version is the build version.
	Version string `json:"version,omitempty"`

	// Providers maps provider IDs to "configured" or "not_configured".
	Providers map[string]string `json:"providers"`
}
