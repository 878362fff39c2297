package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	testhelpers "mercator-hq/tokenscope/internal/providers"
	"mercator-hq/tokenscope/pkg/providers"
)

func newTestProvider(t *testing.T, baseURL, apiKey string) *Provider {
	t.Helper()
	config := testhelpers.TestConfigWithURL(providers.Anthropic, baseURL)
	config.APIKey = apiKey
	provider, err := NewProvider(config)
	testhelpers.AssertNoError(t, err)
	return provider
}

func TestAnthropicProvider_CountTokens(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse(CountTokensPath, testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]interface{}{"input_tokens": 1500},
	})

	provider := newTestProvider(t, mock.URL(), "sk-ant-test")

	// A 2 MB image sent to a Claude 3 model.
	req := &providers.TokenCountRequest{
		Model:  "claude-3-opus-20240229",
		Images: []providers.Image{testhelpers.TestImage(2*1024*1024, "image/jpeg")},
	}

	result, err := provider.CountTokens(context.Background(), req)
	testhelpers.AssertNoError(t, err)

	if result.InputTokens != 1500 || result.TotalTokens != 1500 {
		t.Errorf("expected {1500 1500}, got %+v", *result)
	}

	recorded, ok := mock.LastRequest()
	if !ok {
		t.Fatal("expected a request to reach the server")
	}
	if recorded.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", recorded.Method)
	}

	headers := map[string]string{
		"x-api-key":         "sk-ant-test",
		"anthropic-version": "2023-06-01",
		"anthropic-dangerous-direct-browser-access": "true",
		"Content-Type": "application/json",
	}
	for name, want := range headers {
		if got := recorded.Header.Get(name); got != want {
			t.Errorf("header %s: expected %q, got %q", name, want, got)
		}
	}

	var body CountTokensRequest
	if err := json.Unmarshal(recorded.Body, &body); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
	if body.Model != req.Model {
		t.Errorf("expected model %s, got %s", req.Model, body.Model)
	}
	if len(body.Messages) != 1 || body.Messages[0].Role != "user" {
		t.Fatalf("expected one user message, got %+v", body.Messages)
	}
	content := body.Messages[0].Content
	if len(content) != 1 || content[0].Type != "image" {
		t.Fatalf("expected a single image block, got %+v", content)
	}
	if content[0].Source.Type != "base64" || content[0].Source.MediaType != "image/jpeg" {
		t.Errorf("unexpected image source %+v", content[0].Source)
	}
}

func TestAnthropicProvider_ContentBlocks(t *testing.T) {
	tests := []struct {
		name  string
		req   *providers.TokenCountRequest
		types []string
	}{
		{
			name:  "text only",
			req:   &providers.TokenCountRequest{Model: "m", Text: "hello"},
			types: []string{"text"},
		},
		{
			name: "text then images in order",
			req: &providers.TokenCountRequest{
				Model: "m",
				Text:  "describe",
				Images: []providers.Image{
					{Data: "AAAA", MediaType: "image/png"},
					{Data: "BBBB", MediaType: "image/gif"},
				},
			},
			types: []string{"text", "image", "image"},
		},
		{
			name: "blank text is dropped",
			req: &providers.TokenCountRequest{
				Model:  "m",
				Text:   "   ",
				Images: []providers.Image{{Data: "AAAA", MediaType: "image/png"}},
			},
			types: []string{"image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := buildContent(tt.req)
			if len(blocks) != len(tt.types) {
				t.Fatalf("expected %d blocks, got %d", len(tt.types), len(blocks))
			}
			for i, typ := range tt.types {
				if blocks[i].Type != typ {
					t.Errorf("block %d: expected %s, got %s", i, typ, blocks[i].Type)
				}
			}
			if len(tt.req.Images) == 2 && blocks[2].Source.MediaType != "image/gif" {
				t.Error("image order was not preserved")
			}
		})
	}
}

func TestAnthropicProvider_Preconditions(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	t.Run("missing content without credential", func(t *testing.T) {
		provider := newTestProvider(t, mock.URL(), "")
		_, err := provider.CountTokens(context.Background(), &providers.TokenCountRequest{Model: "m", Text: "  "})
		testhelpers.AssertKind(t, err, providers.KindMissingContent)
	})

	t.Run("missing content with credential", func(t *testing.T) {
		provider := newTestProvider(t, mock.URL(), "key")
		_, err := provider.CountTokens(context.Background(), &providers.TokenCountRequest{Model: "m"})
		testhelpers.AssertKind(t, err, providers.KindMissingContent)
	})

	t.Run("missing credential", func(t *testing.T) {
		provider := newTestProvider(t, mock.URL(), "")
		_, err := provider.CountTokens(context.Background(), &providers.TokenCountRequest{Model: "m", Text: "hi"})
		testhelpers.AssertKind(t, err, providers.KindConfiguration)
	})

	if n := mock.GetRequestCount(); n != 0 {
		t.Errorf("expected no network calls, got %d", n)
	}
}

func TestAnthropicProvider_APIError(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse(CountTokensPath, testhelpers.MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"type":"error","error":{"type":"not_found_error","message":"model: claude-x"}}`,
	})

	provider := newTestProvider(t, mock.URL(), "key")
	_, err := provider.CountTokens(context.Background(), &providers.TokenCountRequest{Model: "claude-x", Text: "hi"})

	pe := testhelpers.AssertKind(t, err, providers.KindAPI)
	testhelpers.AssertEqual(t, pe.StatusCode, http.StatusNotFound)
	testhelpers.AssertEqual(t, pe.Code, "not_found_error")
	testhelpers.AssertContains(t, pe.Message, "model: claude-x")
}

func TestAnthropicProvider_Timeout(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse(CountTokensPath, testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]interface{}{"input_tokens": 1},
		Delay:      500 * time.Millisecond,
	})

	config := testhelpers.TestConfigWithURL(providers.Anthropic, mock.URL())
	config.Timeout = 50 * time.Millisecond
	provider, err := NewProvider(config)
	testhelpers.AssertNoError(t, err)

	_, err = provider.CountTokens(context.Background(), &providers.TokenCountRequest{Model: "m", Text: "hi"})
	testhelpers.AssertKind(t, err, providers.KindTimeout)
}

func TestNewProvider_Defaults(t *testing.T) {
	provider, err := NewProvider(providers.ProviderConfig{})
	testhelpers.AssertNoError(t, err)

	config := provider.GetConfig()
	testhelpers.AssertEqual(t, config.BaseURL, DefaultBaseURL)
	testhelpers.AssertEqual(t, config.Timeout, providers.DefaultTimeout)
	testhelpers.AssertEqual(t, provider.ID(), providers.Anthropic)

	_, err = NewProvider(providers.ProviderConfig{BaseURL: "not a url"})
	testhelpers.AssertKind(t, err, providers.KindConfiguration)
}
