package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/proxy"
	"mercator-hq/tokenscope/pkg/proxy/types"
	"mercator-hq/tokenscope/pkg/telemetry/tracing"
)

// RelayHandler forwards <prefix>/<provider>/<path> to the provider's base
// URL with the prefix and provider segment stripped, so a browser client
// can call the vendor APIs from the same origin:
//
//	POST /api/anthropic/v1/messages/count_tokens
//	  -> POST https://api.anthropic.com/v1/messages/count_tokens
//	POST /api/gemini/models/gemini-1.5-pro:countTokens?key=...
//	  -> POST https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-pro:countTokens?key=...
//
// Upstream CORS headers are dropped; the CORS middleware owns them.
type RelayHandler struct {
	prefix            string
	injectCredentials bool
	settings          Settings
	transport         http.RoundTripper
	recorder          RelayRecorder
	translations      *i18n.Translations
}

// RelayOption configures a RelayHandler.
type RelayOption func(*RelayHandler)

// WithRelayTransport sets the transport used for upstream calls.
func WithRelayTransport(rt http.RoundTripper) RelayOption {
	return func(h *RelayHandler) {
		h.transport = rt
	}
}

// WithRelayRecorder records every relayed call.
func WithRelayRecorder(r RelayRecorder) RelayOption {
	return func(h *RelayHandler) {
		h.recorder = r
	}
}

// WithCredentialInjection attaches the server-held credential to relayed
// requests that do not carry one.
func WithCredentialInjection(enabled bool) RelayOption {
	return func(h *RelayHandler) {
		h.injectCredentials = enabled
	}
}

// NewRelayHandler creates a relay mounted at prefix (e.g. "/api").
func NewRelayHandler(prefix string, settings Settings, tr *i18n.Translations, opts ...RelayOption) *RelayHandler {
	h := &RelayHandler{
		prefix:       strings.TrimSuffix(prefix, "/"),
		settings:     settings,
		transport:    http.DefaultTransport,
		translations: tr,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *RelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, rest := splitRelayPath(strings.TrimPrefix(r.URL.Path, h.prefix))
	if !providers.IsKnownProvider(id) {
		writeError(w, r, providers.NewUnsupportedProviderError(string(id)), localizer(h.translations, w, r))
		return
	}

	cfg, ok := h.settings.Provider(id)
	if !ok || cfg.BaseURL == "" {
		writeError(w, r, providers.NewConfigError(id, "base_url"), localizer(h.translations, w, r))
		return
	}
	target, err := url.Parse(cfg.BaseURL)
	if err != nil {
		writeError(w, r, providers.NewConfigError(id, "base_url"), localizer(h.translations, w, r))
		return
	}

	upstreamStatus := 0
	rp := &httputil.ReverseProxy{
		Transport: h.transport,
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = rest
			pr.Out.URL.RawPath = ""
			pr.SetURL(target)
			pr.Out.Header.Del("Cookie")
			tracing.Inject(pr.In.Context(), pr.Out.Header)
			if h.injectCredentials {
				injectCredential(pr.Out, id, cfg.APIKey)
			}
		},
		ModifyResponse: func(resp *http.Response) error {
			upstreamStatus = resp.StatusCode
			for name := range resp.Header {
				if strings.HasPrefix(name, "Access-Control-") {
					resp.Header.Del(name)
				}
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.WarnContext(r.Context(), "relay request failed",
				"provider", string(id),
				"path", rest,
				"error", err,
			)
			errResp := types.NewErrorResponse(
				"The provider could not be reached.",
				types.ErrorTypeBadGateway, "", string(providers.KindAPI),
			)
			errResp.Error.Provider = string(id)
			_ = proxy.WriteErrorResponse(w, http.StatusBadGateway, errResp)
		},
	}

	start := time.Now()
	rp.ServeHTTP(w, r)
	duration := time.Since(start)

	if h.recorder != nil {
		h.recorder.RecordRelay(string(id), upstreamStatus, duration)
	}
	slog.DebugContext(ctx, "relayed request",
		"provider", string(id),
		"method", r.Method,
		"path", rest,
		"upstream_status", upstreamStatus,
		"latency_ms", duration.Milliseconds(),
	)
}

// splitRelayPath splits "/anthropic/v1/messages" into "anthropic" and
// "/v1/messages".
func splitRelayPath(path string) (providers.ProviderID, string) {
	path = strings.TrimPrefix(path, "/")
	id, rest, _ := strings.Cut(path, "/")
	return providers.ProviderID(id), "/" + rest
}

// injectCredential adds apiKey in the provider's own scheme unless the
// client already sent a credential.
func injectCredential(out *http.Request, id providers.ProviderID, apiKey string) {
	if apiKey == "" {
		return
	}

	switch id {
	case providers.Anthropic:
		if out.Header.Get("x-api-key") == "" {
			out.Header.Set("x-api-key", apiKey)
		}
	case providers.Gemini:
		q := out.URL.Query()
		if q.Get("key") == "" && out.Header.Get("x-goog-api-key") == "" {
			q.Set("key", apiKey)
			out.URL.RawQuery = q.Encode()
		}
	case providers.OpenAI:
		if out.Header.Get("Authorization") == "" {
			out.Header.Set("Authorization", "Bearer "+apiKey)
		}
	}
}
