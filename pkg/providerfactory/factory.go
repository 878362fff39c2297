package providerfactory

import (
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/providers/anthropic"
	"mercator-hq/tokenscope/pkg/providers/gemini"
	"mercator-hq/tokenscope/pkg/providers/openai"
	"mercator-hq/tokenscope/pkg/tokens"
)

// Option configures NewCounter and NewManager.
type Option func(*options)

type options struct {
	tokenizer    tokens.Tokenizer
	maxFileSize  int64
	fetchTimeout time.Duration
	recorder     Recorder
}

// WithTokenizer sets the tokenizer used by the OpenAI adapter. Without it a
// tiktoken-backed tokenizer is created.
func WithTokenizer(t tokens.Tokenizer) Option {
	return func(o *options) {
		o.tokenizer = t
	}
}

// WithImageLimits sets the file size ceiling and fetch timeout of the
// Anthropic image helpers.
func WithImageLimits(maxFileSize int64, fetchTimeout time.Duration) Option {
	return func(o *options) {
		o.maxFileSize = maxFileSize
		o.fetchTimeout = fetchTimeout
	}
}

// WithRecorder observes every dispatched call.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.tokenizer == nil {
		o.tokenizer = tokens.NewTiktoken(tokens.Options{})
	}
	return o
}

// NewCounter creates the adapter for config.Name.
//
// Supported providers:
//   - "anthropic": Messages count_tokens endpoint
//   - "gemini": per-model countTokens endpoint
//   - "openai": local tokenizer
//
// Example:
//
//	counter, err := NewCounter(providers.ProviderConfig{
//	    Name:   providers.Gemini,
//	    APIKey: os.Getenv("GEMINI_API_KEY"),
//	})
func NewCounter(config providers.ProviderConfig, opts ...Option) (providers.Counter, error) {
	return newCounter(config, buildOptions(opts))
}

func newCounter(config providers.ProviderConfig, o *options) (providers.Counter, error) {
	slog.Debug("creating provider",
		"name", config.Name,
		"base_url", config.BaseURL,
	)

	var (
		counter providers.Counter
		err     error
	)

	switch config.Name {
	case providers.Anthropic:
		counter, err = anthropic.NewProvider(config, anthropic.WithImageLimits(o.maxFileSize, o.fetchTimeout))

	case providers.Gemini:
		counter, err = gemini.NewProvider(config)

	case providers.OpenAI:
		counter, err = openai.NewProvider(config, o.tokenizer)

	default:
		return nil, providers.NewUnsupportedProviderError(string(config.Name))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", config.Name, err)
	}

	return counter, nil
}
