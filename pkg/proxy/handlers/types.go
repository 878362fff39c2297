package handlers

import (
	"context"
	"net/http"
	"time"

	"mercator-hq/tokenscope/pkg/config"
	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providers"
)

// TokenCounter dispatches counts and fetches remote images.
// *providerfactory.Manager implements it.
type TokenCounter interface {
	CountTokens(ctx context.Context, providerID string, req *providers.TokenCountRequest) (*providers.TokenCountResult, error)
	FetchImage(ctx context.Context, url string) (providers.Image, error)
}

// Settings exposes the per-provider configuration. *config.Config
// implements it; the server passes a view that follows config reloads.
type Settings interface {
	Provider(id providers.ProviderID) (config.ProviderConfig, bool)
}

// RelayRecorder observes relayed calls. *metrics.Collector implements it.
type RelayRecorder interface {
	RecordRelay(provider string, status int, duration time.Duration)
}

// configured reports whether a provider can count. OpenAI counts locally
// and needs no credential.
func configured(settings Settings, id providers.ProviderID) bool {
	if id == providers.OpenAI {
		return true
	}
	if settings == nil {
		return false
	}
	p, ok := settings.Provider(id)
	return ok && p.Configured()
}

// localizer picks translations for the request's Accept-Language header,
// falling back to the server locale when the header is absent.
func localizer(tr *i18n.Translations, w http.ResponseWriter, r *http.Request) *i18n.Translations {
	if tr == nil {
		return nil
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		tr = tr.For(accept)
	}
	w.Header().Set("Content-Language", tr.Language().String())
	return tr
}
