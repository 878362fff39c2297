package handlers

import (
	"net/http"

	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/proxy"
	"mercator-hq/tokenscope/pkg/proxy/types"
)

// HealthHandler handles health check requests for liveness probes.
// It also reports which providers have credentials.
type HealthHandler struct {
	version  string
	settings Settings
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(version string, settings Settings) *HealthHandler {
	return &HealthHandler{version: version, settings: settings}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := types.HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Providers: make(map[string]string),
	}
	for _, p := range providers.ListProviders() {
		status := "not_configured"
		if configured(h.settings, p.ID) {
			status = "configured"
		}
		resp.Providers[string(p.ID)] = status
	}

	_ = proxy.WriteJSONResponse(w, http.StatusOK, resp)
}
