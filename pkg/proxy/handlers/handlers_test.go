package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	testhelpers "mercator-hq/tokenscope/internal/providers"
	"mercator-hq/tokenscope/pkg/config"
	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providerfactory"
	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/proxy/types"
)

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	tr, err := i18n.NewTranslations("en")
	if err != nil {
		t.Fatalf("NewTranslations failed: %v", err)
	}
	return tr
}

// newManager builds a manager whose Anthropic adapter talks to mock.
func newManager(t *testing.T, mock *testhelpers.MockServer) *providerfactory.Manager {
	t.Helper()
	m, err := providerfactory.NewManager(
		[]providers.ProviderConfig{
			testhelpers.TestConfigWithURL(providers.Anthropic, mock.URL()),
			testhelpers.TestConfigWithURL(providers.Gemini, mock.URL()),
		},
		providerfactory.WithTokenizer(&testhelpers.FakeTokenizer{}),
	)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func postJSON(t *testing.T, h http.Handler, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorDetail {
	t.Helper()
	var resp types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return resp.Error
}

func TestCountHandler_OpenAI(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	h := NewCountHandler(newManager(t, mock), newTranslations(t))
	w := postJSON(t, h, "/v1/count_tokens", types.CountTokensRequest{
		Provider: "openai",
		Model:    "gpt-4",
		Text:     "one two three",
	}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp types.CountTokensResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := types.CountTokensResponse{Provider: "openai", Model: "gpt-4", InputTokens: 3, TotalTokens: 3}
	if resp != want {
		t.Errorf("got %+v, want %+v", resp, want)
	}
	if mock.GetRequestCount() != 0 {
		t.Error("OpenAI counting must not call the network")
	}
}

func TestCountHandler_AnthropicWithImageURL(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/cat.png", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "PNGDATA",
		Headers:    map[string]string{"Content-Type": "image/png"},
	})
	mock.SetResponse("/v1/messages/count_tokens", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]any{"input_tokens": 1500},
	})

	h := NewCountHandler(newManager(t, mock), newTranslations(t))
	w := postJSON(t, h, "/v1/count_tokens", types.CountTokensRequest{
		Provider:  "anthropic",
		Model:     "claude-3-haiku-20240307",
		Images:    []types.ImagePayload{{Data: "data:image/jpeg;base64,aGVsbG8="}},
		ImageURLs: []string{mock.URL() + "/cat.png"},
	}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	last, ok := mock.LastRequest()
	if !ok || last.Path != "/v1/messages/count_tokens" {
		t.Fatalf("unexpected last request %+v", last)
	}

	var body struct {
		Messages []struct {
			Content []struct {
				Type   string `json:"type"`
				Source struct {
					MediaType string `json:"media_type"`
				} `json:"source"`
			} `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(last.Body, &body); err != nil {
		t.Fatalf("vendor body: %v", err)
	}
	content := body.Messages[0].Content
	if len(content) != 2 {
		t.Fatalf("expected 2 image blocks, got %d", len(content))
	}
	if content[0].Source.MediaType != "image/jpeg" || content[1].Source.MediaType != "image/png" {
		t.Errorf("inline images must precede fetched ones: %+v", content)
	}
}

func TestCountHandler_Errors(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/page.html", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "<html></html>",
		Headers:    map[string]string{"Content-Type": "text/html"},
	})
	mock.SetResponse("/v1/messages/count_tokens", testhelpers.MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body: map[string]any{
			"error": map[string]any{"type": "authentication_error", "message": "invalid x-api-key"},
		},
	})

	h := NewCountHandler(newManager(t, mock), newTranslations(t))

	tests := []struct {
		name     string
		body     types.CountTokensRequest
		header   map[string]string
		wantCode int
		wantKind string
		wantMsg  string
	}{
		{
			name:     "unknown provider",
			body:     types.CountTokensRequest{Provider: "mistral", Model: "m", Text: "hi"},
			wantCode: http.StatusNotFound,
			wantKind: "unsupported_provider",
		},
		{
			name:     "no content",
			body:     types.CountTokensRequest{Provider: "gemini", Model: "gemini-1.5-pro", Text: "   "},
			wantCode: http.StatusBadRequest,
			wantKind: "missing_content",
			wantMsg:  "Enter text or add at least one image",
		},
		{
			name:     "no content in Japanese",
			body:     types.CountTokensRequest{Provider: "gemini", Model: "gemini-1.5-pro"},
			header:   map[string]string{"Accept-Language": "ja,en;q=0.5"},
			wantCode: http.StatusBadRequest,
			wantKind: "missing_content",
			wantMsg:  "テキストまたは画像を入力してください",
		},
		{
			name: "image on a text-only model",
			body: types.CountTokensRequest{
				Provider: "openai",
				Model:    "gpt-3.5-turbo",
				Images:   []types.ImagePayload{{Data: "aGVsbG8=", MediaType: "image/png"}},
			},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "unsupported_content",
		},
		{
			name:     "vendor rejects the key",
			body:     types.CountTokensRequest{Provider: "anthropic", Model: "claude-3-haiku-20240307", Text: "hi"},
			wantCode: http.StatusUnauthorized,
			wantKind: "api",
		},
		{
			name: "fetched URL is not an image",
			body: types.CountTokensRequest{
				Provider:  "anthropic",
				Model:     "claude-3-haiku-20240307",
				ImageURLs: []string{mock.URL() + "/page.html"},
			},
			wantCode: http.StatusBadGateway,
			wantKind: "fetch",
		},
		{
			name:     "validation",
			body:     types.CountTokensRequest{Provider: "openai"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h, "/v1/count_tokens", tt.body, tt.header)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			detail := decodeError(t, w)
			if detail.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", detail.Kind, tt.wantKind)
			}
			if tt.wantMsg != "" && detail.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", detail.Message, tt.wantMsg)
			}
		})
	}
}

func TestCountHandler_UnknownProviderSkipsImageFetch(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/cat.png", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "PNGDATA",
		Headers:    map[string]string{"Content-Type": "image/png"},
	})

	h := NewCountHandler(newManager(t, mock), newTranslations(t))
	w := postJSON(t, h, "/v1/count_tokens", types.CountTokensRequest{
		Provider:  "unknown",
		Model:     "x",
		ImageURLs: []string{mock.URL() + "/cat.png"},
	}, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", w.Code, w.Body.String())
	}
	if kind := decodeError(t, w).Kind; kind != "unsupported_provider" {
		t.Errorf("kind = %q, want unsupported_provider", kind)
	}
	if n := mock.GetRequestCount(); n != 0 {
		t.Errorf("expected no image fetch for an unknown provider, got %d requests", n)
	}
}

func TestCountHandler_ContentLanguage(t *testing.T) {
	h := NewCountHandler(nopCounter{}, newTranslations(t))

	w := postJSON(t, h, "/v1/count_tokens",
		types.CountTokensRequest{Provider: "openai", Model: "gpt-4", Text: "x"},
		map[string]string{"Accept-Language": "ja-JP"})

	if got := w.Header().Get("Content-Language"); got != "ja" {
		t.Errorf("Content-Language = %q, want ja", got)
	}
}

type nopCounter struct{}

func (nopCounter) CountTokens(context.Context, string, *providers.TokenCountRequest) (*providers.TokenCountResult, error) {
	return &providers.TokenCountResult{InputTokens: 1, TotalTokens: 1}, nil
}

func (nopCounter) FetchImage(context.Context, string) (providers.Image, error) {
	return providers.Image{}, nil
}

func TestProvidersHandler(t *testing.T) {
	cfg := config.Default()
	cfg.Providers["anthropic"] = config.ProviderConfig{BaseURL: "https://api.anthropic.com", APIKey: "sk-ant-test"}

	w := httptest.NewRecorder()
	NewProvidersHandler(cfg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/providers", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp types.ProvidersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := make(map[string]bool)
	order := make([]string, 0, len(resp.Data))
	for _, p := range resp.Data {
		got[string(p.ID)] = p.Configured
		order = append(order, string(p.ID))
		if len(p.Models) == 0 {
			t.Errorf("provider %s has no models", p.ID)
		}
	}
	if strings.Join(order, ",") != "anthropic,openai,gemini" {
		t.Errorf("order = %v", order)
	}
	if !got["anthropic"] || !got["openai"] || got["gemini"] {
		t.Errorf("configured flags = %v", got)
	}
}

func TestModelsHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /v1/providers/{id}/models", NewModelsHandler(newTranslations(t)))

	t.Run("known provider", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/providers/gemini/models", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var resp types.ModelsResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Provider != "gemini" || len(resp.Data) != 3 || resp.Data[0].ID != "gemini-2.0-flash" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/providers/mistral/models", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
		if detail := decodeError(t, w); detail.Kind != "unsupported_provider" {
			t.Errorf("kind = %q", detail.Kind)
		}
	})
}

func TestFetchImageHandler(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/cat.jpg", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "JPEGDATA",
		Headers:    map[string]string{"Content-Type": "image/jpeg"},
	})

	h := NewFetchImageHandler(newManager(t, mock), newTranslations(t))

	t.Run("success", func(t *testing.T) {
		w := postJSON(t, h, "/v1/images/fetch", types.FetchImageRequest{URL: mock.URL() + "/cat.jpg"}, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp types.ImageResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.MediaType != "image/jpeg" || resp.Data == "" || resp.Size == 0 {
			t.Errorf("unexpected image %+v", resp)
		}
	})

	t.Run("upstream 404", func(t *testing.T) {
		w := postJSON(t, h, "/v1/images/fetch", types.FetchImageRequest{URL: mock.URL() + "/missing.jpg"}, nil)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d", w.Code)
		}
		if detail := decodeError(t, w); detail.Kind != "fetch" {
			t.Errorf("kind = %q", detail.Kind)
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		w := postJSON(t, h, "/v1/images/fetch", types.FetchImageRequest{URL: "nope"}, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})
}

func TestHealthHandler(t *testing.T) {
	cfg := config.Default()
	cfg.Providers["gemini"] = config.ProviderConfig{BaseURL: config.DefaultGeminiBaseURL, APIKey: "AIza-test"}

	w := httptest.NewRecorder()
	NewHealthHandler("1.2.3", cfg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp types.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "1.2.3" {
		t.Errorf("unexpected response %+v", resp)
	}
	want := map[string]string{
		"anthropic": "not_configured",
		"gemini":    "configured",
		"openai":    "configured",
	}
	for id, status := range want {
		if resp.Providers[id] != status {
			t.Errorf("providers[%s] = %q, want %q", id, resp.Providers[id], status)
		}
	}
}
