package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/proxy"
	"mercator-hq/tokenscope/pkg/telemetry/logging"
)

// CountHandler serves POST /v1/count_tokens.
//
// An unknown provider is rejected before anything else runs. Images listed
// in image_urls are then fetched and appended after the inline images, and
// the request is dispatched to the provider's adapter.
type CountHandler struct {
	counter      TokenCounter
	translations *i18n.Translations
}

// NewCountHandler creates a count handler.
func NewCountHandler(counter TokenCounter, tr *i18n.Translations) *CountHandler {
	return &CountHandler{counter: counter, translations: tr}
}

// ServeHTTP implements http.Handler.
func (h *CountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tr := localizer(h.translations, w, r)
	startTime := time.Now()

	apiReq, err := proxy.ParseCountTokensRequest(r)
	if err != nil {
		slog.DebugContext(ctx, "invalid count request", "error", err)
		writeError(w, r, err, tr)
		return
	}

	req, err := proxy.ToTokenCountRequest(apiReq)
	if err != nil {
		writeError(w, r, err, tr)
		return
	}

	if !providers.IsKnownProvider(providers.ProviderID(apiReq.Provider)) {
		writeError(w, r, providers.NewUnsupportedProviderError(apiReq.Provider), tr)
		return
	}

	ctx = logging.WithProvider(ctx, apiReq.Provider)
	ctx = logging.WithModel(ctx, apiReq.Model)

	for _, url := range apiReq.ImageURLs {
		image, err := h.counter.FetchImage(ctx, url)
		if err != nil {
			slog.WarnContext(ctx, "image fetch failed",
				"url", providers.StripQuery(url),
				"kind", providers.KindOf(err),
			)
			writeError(w, r, err, tr)
			return
		}
		req.Images = append(req.Images, image)
	}

	result, err := h.counter.CountTokens(ctx, apiReq.Provider, req)
	if err != nil {
		slog.InfoContext(ctx, "token count failed",
			"kind", providers.KindOf(err),
			"error", err,
			"latency_ms", time.Since(startTime).Milliseconds(),
		)
		writeError(w, r, err, tr)
		return
	}

	slog.InfoContext(ctx, "token count completed",
		"images", len(req.Images),
		"input_tokens", result.InputTokens,
		"latency_ms", time.Since(startTime).Milliseconds(),
	)

	resp := proxy.FormatCountTokensResponse(apiReq.Provider, apiReq.Model, result)
	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

// writeError renders err in the request language and writes it.
func writeError(w http.ResponseWriter, r *http.Request, err error, tr *i18n.Translations) {
	errResp, status := proxy.HandleError(err, tr)
	if werr := proxy.WriteErrorResponse(w, status, errResp); werr != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", "error", werr)
	}
}
