package openai

import (
	"context"
	"log/slog"

	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/tokens"
)

// Provider is the OpenAI adapter. It counts text tokens with a local BPE
// tokenizer and estimates image tokens; it never calls the network and
// needs no credential.
type Provider struct {
	name      providers.ProviderID
	tokenizer tokens.Tokenizer
}

// NewProvider creates a new OpenAI provider instance backed by tokenizer.
func NewProvider(config providers.ProviderConfig, tokenizer tokens.Tokenizer) (*Provider, error) {
	if config.Name == "" {
		config.Name = providers.OpenAI
	}
	if tokenizer == nil {
		return nil, providers.NewConfigError(config.Name, "tokenizer")
	}

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"mode", "local",
	)

	return &Provider{
		name:      config.Name,
		tokenizer: tokenizer,
	}, nil
}

// ID returns the provider identifier.
func (p *Provider) ID() providers.ProviderID {
	return p.name
}

// CountTokens sums the text tokens and the estimated image tokens of req.
func (p *Provider) CountTokens(ctx context.Context, req *providers.TokenCountRequest) (*providers.TokenCountResult, error) {
	if !req.HasContent() {
		return nil, providers.NewMissingContentError(p.name)
	}
	if len(req.Images) > 0 && !IsVisionModel(req.Model) {
		return nil, providers.NewUnsupportedContentError(p.name, req.Model)
	}

	total := 0

	if req.HasText() {
		n, err := p.countText(req.Model, req.Text)
		if err != nil {
			return nil, err
		}
		total += n
	}

	for _, img := range req.Images {
		total += ImageTokens(img)
	}

	slog.Debug("token count succeeded",
		"provider", p.name,
		"model", req.Model,
		"images", len(req.Images),
		"total_tokens", total,
	)

	return &providers.TokenCountResult{
		InputTokens: total,
		TotalTokens: total,
	}, nil
}

// countText encodes text with the model's profile. The encoding is released
// on every path.
func (p *Provider) countText(model, text string) (int, error) {
	name := EncodingForModel(model)

	enc, err := p.tokenizer.Encoding(name)
	if err != nil {
		return 0, providers.NewTokenizerError(p.name, name, err)
	}
	defer enc.Free()

	n, err := tokens.Count(enc, text)
	if err != nil {
		return 0, providers.NewTokenizerError(p.name, name, err)
	}

	slog.Debug("text tokens counted", "encoding", name, "tokens", n)
	return n, nil
}
