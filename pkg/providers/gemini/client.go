package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercator-hq/tokenscope/pkg/providers"
)

// DefaultBaseURL is the vendor API root, including the version segment.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var errorFormat = providers.ErrorFormat{
	CodePath:    "error.code",
	MessagePath: "error.message",
}

// Provider is the Gemini adapter. It counts tokens with the per-model
// countTokens endpoint, passing the API key as a query parameter.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new Gemini provider instance. A missing API key is
// reported by CountTokens, not here.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = providers.Gemini
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

	slog.Info("Gemini provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"has_api_key", config.APIKey != "",
	)

	return &Provider{HTTPProvider: providers.NewHTTPProvider(config)}, nil
}

// CountTokens counts the tokens of req with the countTokens endpoint.
func (p *Provider) CountTokens(ctx context.Context, req *providers.TokenCountRequest) (*providers.TokenCountResult, error) {
	config := p.GetConfig()

	parts := buildParts(req)
	if len(parts) == 0 {
		return nil, providers.NewMissingContentError(config.Name)
	}
	if config.APIKey == "" {
		return nil, providers.NewConfigError(config.Name, "api_key")
	}

	var resp CountTokensResponse
	err := p.DoJSONRequest(ctx, http.MethodPost, p.endpoint(req.Model), transformRequest(parts), &resp,
		map[string]string{"Content-Type": "application/json"}, errorFormat)
	if err != nil {
		return nil, err
	}

	result := transformResponse(&resp)

	slog.Debug("token count succeeded",
		"provider", config.Name,
		"model", req.Model,
		"parts", len(parts),
		"total_tokens", result.TotalTokens,
	)

	return result, nil
}

// endpoint builds {base}/models/{model}:countTokens?key={api_key}.
func (p *Provider) endpoint(model string) string {
	config := p.GetConfig()
	query := url.Values{"key": []string{config.APIKey}}
	return fmt.Sprintf("%s/models/%s:countTokens?%s", config.BaseURL, escapeModelPath(model), query.Encode())
}

// escapeModelPath escapes each segment of a model ID but keeps its slashes,
// so qualified IDs such as "tunedModels/x" stay routable.
func escapeModelPath(model string) string {
	segments := strings.Split(model, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
