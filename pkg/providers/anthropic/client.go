package anthropic

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercator-hq/tokenscope/pkg/providers"
)

const (
	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultBaseURL is the vendor host
	DefaultBaseURL = "https://api.anthropic.com"

	// CountTokensPath is the token counting endpoint, relative to the base URL
	CountTokensPath = "/v1/messages/count_tokens"
)

var errorFormat = providers.ErrorFormat{
	CodePath:    "error.type",
	MessagePath: "error.message",
}

// Provider is the Anthropic adapter. It counts tokens with the vendor's
// count_tokens endpoint and also converts remote or local images into
// base64 content for requests.
type Provider struct {
	*providers.HTTPProvider
	images *ImageLoader
}

// Option configures a Provider.
type Option func(*Provider)

// WithImageLoader replaces the image loader used by FetchImage and ConvertFile.
func WithImageLoader(l *ImageLoader) Option {
	return func(p *Provider) {
		p.images = l
	}
}

// WithImageLimits builds the image loader on the provider's own HTTP client
// with the given file size ceiling and fetch timeout.
func WithImageLimits(maxFileSize int64, fetchTimeout time.Duration) Option {
	return func(p *Provider) {
		p.images = NewImageLoader(p.Client(), maxFileSize, fetchTimeout)
	}
}

// NewProvider creates a new Anthropic provider instance. A missing API key is
// not an error here; CountTokens reports it when it is called.
func NewProvider(config providers.ProviderConfig, opts ...Option) (*Provider, error) {
	if config.Name == "" {
		config.Name = providers.Anthropic
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return nil, providers.NewConfigError(config.Name, "base_url")
	}

	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.images == nil {
		p.images = NewImageLoader(p.Client(), DefaultMaxFileSize, DefaultFetchTimeout)
	}

	slog.Info("Anthropic provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"has_api_key", config.APIKey != "",
	)

	return p, nil
}

// CountTokens counts the input tokens of req with the count_tokens endpoint.
func (p *Provider) CountTokens(ctx context.Context, req *providers.TokenCountRequest) (*providers.TokenCountResult, error) {
	config := p.GetConfig()

	if !req.HasContent() {
		return nil, providers.NewMissingContentError(config.Name)
	}
	if config.APIKey == "" {
		return nil, providers.NewConfigError(config.Name, "api_key")
	}

	body := transformRequest(req, buildContent(req))
	headers := map[string]string{
		"x-api-key":         config.APIKey,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",

		"anthropic-dangerous-direct-browser-access": "true",
	}

	var resp CountTokensResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, config.BaseURL+CountTokensPath, body, &resp, headers, errorFormat); err != nil {
		return nil, err
	}

	result := transformResponse(&resp)

	slog.Debug("token count succeeded",
		"provider", config.Name,
		"model", req.Model,
		"images", len(req.Images),
		"input_tokens", result.InputTokens,
	)

	return result, nil
}

// FetchImage downloads a remote image and returns it as base64 content.
func (p *Provider) FetchImage(ctx context.Context, url string) (providers.Image, error) {
	return p.images.FetchImage(ctx, url)
}

// ConvertFile converts a local image file into base64 content.
func (p *Provider) ConvertFile(file providers.ImageFile) (providers.Image, error) {
	return p.images.ConvertFile(file)
}
