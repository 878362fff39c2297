package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/proxy"
	"mercator-hq/tokenscope/pkg/proxy/types"
)

// FetchImageHandler serves POST /v1/images/fetch. It lets the browser
// client add images by URL without running into cross-origin restrictions.
type FetchImageHandler struct {
	fetcher      providers.ImageFetcher
	translations *i18n.Translations
}

// NewFetchImageHandler creates an image fetch handler.
func NewFetchImageHandler(fetcher providers.ImageFetcher, tr *i18n.Translations) *FetchImageHandler {
	return &FetchImageHandler{fetcher: fetcher, translations: tr}
}

// ServeHTTP implements http.Handler.
func (h *FetchImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tr := localizer(h.translations, w, r)

	req, err := proxy.ParseFetchImageRequest(r)
	if err != nil {
		writeError(w, r, err, tr)
		return
	}

	image, err := h.fetcher.FetchImage(ctx, req.URL)
	if err != nil {
		slog.WarnContext(ctx, "image fetch failed",
			"url", providers.StripQuery(req.URL),
			"kind", providers.KindOf(err),
		)
		writeError(w, r, err, tr)
		return
	}

	resp := types.ImageResponse{
		Image: image,
		Size:  base64.StdEncoding.DecodedLen(len(image.Data)),
	}
	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}
