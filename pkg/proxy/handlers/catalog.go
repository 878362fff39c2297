package handlers

import (
	"log/slog"
	"net/http"

	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/proxy"
	"mercator-hq/tokenscope/pkg/proxy/types"
)

// ProvidersHandler serves GET /v1/providers.
type ProvidersHandler struct {
	settings Settings
}

// NewProvidersHandler creates a catalogue handler.
func NewProvidersHandler(settings Settings) *ProvidersHandler {
	return &ProvidersHandler{settings: settings}
}

// ServeHTTP implements http.Handler.
func (h *ProvidersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list := providers.ListProviders()

	resp := types.ProvidersResponse{
		Object: "list",
		Data:   make([]types.ProviderResponse, 0, len(list)),
	}
	for _, p := range list {
		resp.Data = append(resp.Data, types.ProviderResponse{
			Provider:   p,
			Configured: configured(h.settings, p.ID),
		})
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", "error", err)
	}
}

// ModelsHandler serves GET /v1/providers/{id}/models.
type ModelsHandler struct {
	translations *i18n.Translations
}

// NewModelsHandler creates a models handler.
func NewModelsHandler(tr *i18n.Translations) *ModelsHandler {
	return &ModelsHandler{translations: tr}
}

// ServeHTTP implements http.Handler.
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	p, ok := providers.GetProvider(providers.ProviderID(id))
	if !ok {
		writeError(w, r, providers.NewUnsupportedProviderError(id), localizer(h.translations, w, r))
		return
	}

	resp := types.ModelsResponse{
		Object:   "list",
		Provider: string(p.ID),
		Data:     p.Models,
	}
	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", "error", err)
	}
}
