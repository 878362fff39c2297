package providerfactory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/telemetry/tracing"
)

// Recorder observes dispatched calls. It must not alter results.
type Recorder interface {
	RecordCount(provider, model string, duration time.Duration, result *providers.TokenCountResult, err error)
}

// imageHelper is implemented by adapters that can acquire images.
type imageHelper interface {
	FetchImage(ctx context.Context, url string) (providers.Image, error)
	ConvertFile(file providers.ImageFile) (providers.Image, error)
}

// Manager is the dispatch façade. It owns one adapter per catalogue
// provider and routes CountTokens calls by provider identifier.
//
// Manager is thread-safe and can be used concurrently.
type Manager struct {
	counters map[providers.ProviderID]providers.Counter
	opts     *options
	mu       sync.RWMutex
}

// NewManager builds an adapter for every catalogue provider. Providers
// missing from configs are built with default settings (and therefore no
// credential).
func NewManager(configs []providers.ProviderConfig, opts ...Option) (*Manager, error) {
	m := &Manager{opts: buildOptions(opts)}

	counters, err := m.build(configs)
	if err != nil {
		return nil, err
	}
	m.counters = counters

	slog.Info("provider manager initialized", "providers", len(counters))
	return m, nil
}

func (m *Manager) build(configs []providers.ProviderConfig) (map[providers.ProviderID]providers.Counter, error) {
	byID := make(map[providers.ProviderID]providers.ProviderConfig, len(configs))
	for _, config := range configs {
		if !providers.IsKnownProvider(config.Name) {
			return nil, providers.NewUnsupportedProviderError(string(config.Name))
		}
		byID[config.Name] = config
	}

	counters := make(map[providers.ProviderID]providers.Counter)
	var errs []error

	for _, p := range providers.ListProviders() {
		config, ok := byID[p.ID]
		if !ok {
			config = providers.ProviderConfig{Name: p.ID}
		}

		counter, err := newCounter(config, m.opts)
		if err != nil {
			errs = append(errs, err)
			slog.Error("failed to load provider",
				"name", p.ID,
				"error", err,
			)
			continue
		}
		counters[p.ID] = counter
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load %d provider(s): %w", len(errs), errs[0])
	}

	return counters, nil
}

// Reload rebuilds every adapter from configs and swaps the set atomically.
// On error the current adapters stay in place.
func (m *Manager) Reload(configs []providers.ProviderConfig) error {
	counters, err := m.build(configs)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.counters = counters
	m.mu.Unlock()

	slog.Info("provider manager reloaded", "providers", len(counters))
	return nil
}

// Counter returns the adapter for id.
func (m *Manager) Counter(id providers.ProviderID) (providers.Counter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counter, ok := m.counters[id]
	return counter, ok
}

// CountTokens dispatches req to the adapter for providerID. An identifier
// outside the catalogue fails with KindUnsupportedProvider before any
// adapter is invoked; otherwise the adapter's result or error is returned
// unchanged.
func (m *Manager) CountTokens(ctx context.Context, providerID string, req *providers.TokenCountRequest) (*providers.TokenCountResult, error) {
	id := providers.ProviderID(providerID)

	counter, ok := m.Counter(id)
	if !ok || !providers.IsKnownProvider(id) {
		return nil, providers.NewUnsupportedProviderError(providerID)
	}

	model, images := "", 0
	if req != nil {
		model, images = req.Model, len(req.Images)
	}

	ctx, span := otel.Tracer(tracing.InstrumentationName).Start(ctx, "providerfactory.CountTokens",
		trace.WithAttributes(
			tracing.ProviderKey.String(providerID),
			tracing.ModelKey.String(model),
			tracing.ImagesKey.Int(images),
		))

	start := time.Now()
	result, err := counter.CountTokens(ctx, req)
	duration := time.Since(start)

	if err != nil {
		span.SetAttributes(tracing.ErrorKindKey.String(string(providers.KindOf(err))))
	} else {
		span.SetAttributes(tracing.TotalTokensKey.Int(result.TotalTokens))
	}
	tracing.EndSpan(span, err)

	if m.opts.recorder != nil {
		m.opts.recorder.RecordCount(providerID, model, duration, result, err)
	}

	if err != nil {
		slog.DebugContext(ctx, "token count failed",
			"provider", providerID,
			"model", model,
			"kind", providers.KindOf(err),
			"duration", duration,
		)
		return nil, err
	}

	slog.DebugContext(ctx, "token count dispatched",
		"provider", providerID,
		"model", model,
		"total_tokens", result.TotalTokens,
		"duration", duration,
	)

	return result, nil
}

// FetchImage downloads a remote image with the Anthropic image helper.
func (m *Manager) FetchImage(ctx context.Context, url string) (providers.Image, error) {
	helper, err := m.images()
	if err != nil {
		return providers.Image{}, err
	}
	return helper.FetchImage(ctx, url)
}

// ConvertFile converts a local image file with the Anthropic image helper.
func (m *Manager) ConvertFile(file providers.ImageFile) (providers.Image, error) {
	helper, err := m.images()
	if err != nil {
		return providers.Image{}, err
	}
	return helper.ConvertFile(file)
}

func (m *Manager) images() (imageHelper, error) {
	counter, ok := m.Counter(providers.Anthropic)
	if !ok {
		return nil, providers.NewUnsupportedProviderError(string(providers.Anthropic))
	}
	helper, ok := counter.(imageHelper)
	if !ok {
		return nil, providers.NewConfigError(providers.Anthropic, "images")
	}
	return helper, nil
}

// Providers returns the catalogue.
func (m *Manager) Providers() []providers.Provider {
	return providers.ListProviders()
}

// Models returns the models of a provider (empty if unknown).
func (m *Manager) Models(id providers.ProviderID) []providers.Model {
	return providers.ListModels(id)
}

// Model looks up a model within a provider.
func (m *Manager) Model(id providers.ProviderID, modelID string) (providers.Model, bool) {
	return providers.FindModel(id, modelID)
}

// IsValidModel reports whether modelID belongs to provider id.
func (m *Manager) IsValidModel(id providers.ProviderID, modelID string) bool {
	return providers.IsValidModel(id, modelID)
}
