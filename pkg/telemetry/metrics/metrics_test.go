package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/tokenscope/pkg/config"
	"mercator-hq/tokenscope/pkg/providers"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	return NewCollector(config.MetricsConfig{Enabled: true, Path: "/metrics"}, prometheus.NewRegistry())
}

func TestCollector_RecordCount(t *testing.T) {
	c := newTestCollector(t)

	c.RecordCount("anthropic", "claude-3-haiku-20240307", 120*time.Millisecond,
		&providers.TokenCountResult{InputTokens: 1500, TotalTokens: 1500}, nil)
	c.RecordCount("anthropic", "claude-3-haiku-20240307", 30*time.Second, nil,
		providers.NewTimeoutError(providers.Anthropic, 30*time.Second))
	c.RecordCount("openai", "gpt-4", time.Millisecond, nil,
		providers.NewMissingContentError(providers.OpenAI))

	tests := []struct {
		name      string
		collector prometheus.Collector
		want      float64
	}{
		{
			name:      "success counter",
			collector: c.count.requestsTotal.WithLabelValues("anthropic", "claude-3-haiku-20240307", "success"),
			want:      1,
		},
		{
			name:      "error counter",
			collector: c.count.requestsTotal.WithLabelValues("anthropic", "claude-3-haiku-20240307", "error"),
			want:      1,
		},
		{
			name:      "timeout kind",
			collector: c.count.errorsTotal.WithLabelValues("anthropic", "timeout"),
			want:      1,
		},
		{
			name:      "missing content kind",
			collector: c.count.errorsTotal.WithLabelValues("openai", "missing_content"),
			want:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.collector); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if n := testutil.CollectAndCount(c.count.tokens); n != 1 {
		t.Errorf("expected one token histogram series, got %d", n)
	}
}

func TestCollector_CardinalityGuard(t *testing.T) {
	c := newTestCollector(t)

	c.RecordCount("unknown", "whatever", time.Millisecond, nil, providers.NewUnsupportedProviderError("unknown"))
	c.RecordCount("gemini", "user-typed-model-123", time.Millisecond, nil, errors.New("plain"))

	if got := testutil.ToFloat64(c.count.requestsTotal.WithLabelValues("other", "other", "error")); got != 1 {
		t.Errorf("unknown provider not folded into other: %v", got)
	}
	if got := testutil.ToFloat64(c.count.requestsTotal.WithLabelValues("gemini", "other", "error")); got != 1 {
		t.Errorf("unknown model not folded into other: %v", got)
	}
	if got := testutil.ToFloat64(c.count.errorsTotal.WithLabelValues("gemini", "unknown")); got != 1 {
		t.Errorf("non-provider error not recorded as unknown kind: %v", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := NewCollector(config.MetricsConfig{Enabled: false}, prometheus.NewRegistry())

	c.RecordCount("openai", "gpt-4", time.Millisecond, &providers.TokenCountResult{TotalTokens: 1}, nil)
	c.RecordRelay("openai", 200, time.Millisecond)
	c.RecordHTTPRequest("/v1/count_tokens", "POST", 200, time.Millisecond)

	if n := testutil.CollectAndCount(c.count.requestsTotal); n != 0 {
		t.Errorf("expected no series when disabled, got %d", n)
	}
	if n := testutil.CollectAndCount(c.relay.requests); n != 0 {
		t.Errorf("expected no relay series when disabled, got %d", n)
	}
	if c.Enabled() {
		t.Error("Enabled() should be false")
	}
}

func TestCollector_RecordRelay(t *testing.T) {
	c := newTestCollector(t)

	c.RecordRelay("anthropic", 200, 50*time.Millisecond)
	c.RecordRelay("anthropic", 200, 60*time.Millisecond)
	c.RecordRelay("gemini", 0, time.Second)
	c.RecordRelay("../etc", 404, time.Millisecond)

	if got := testutil.ToFloat64(c.relay.requests.WithLabelValues("anthropic", "200")); got != 2 {
		t.Errorf("expected 2 anthropic relays, got %v", got)
	}
	if got := testutil.ToFloat64(c.relay.requests.WithLabelValues("gemini", "0")); got != 1 {
		t.Errorf("expected 1 failed gemini relay, got %v", got)
	}
	if got := testutil.ToFloat64(c.relay.requests.WithLabelValues("other", "404")); got != 1 {
		t.Errorf("expected unknown provider folded into other, got %v", got)
	}
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	c := newTestCollector(t)

	c.RecordHTTPRequest("/v1/count_tokens", "POST", 200, 10*time.Millisecond)
	c.RecordHTTPRequest("/v1/count_tokens", "POST", 400, time.Millisecond)

	if got := testutil.ToFloat64(c.http.requests.WithLabelValues("/v1/count_tokens", "POST", "400")); got != 1 {
		t.Errorf("expected 1 bad request, got %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := newTestCollector(t)
	c.RecordCount("openai", "gpt-4o", time.Millisecond, &providers.TokenCountResult{InputTokens: 7, TotalTokens: 7}, nil)

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	for _, want := range []string{
		"tokenscope_count_requests_total",
		`provider="openai"`,
		`model="gpt-4o"`,
		"tokenscope_count_tokens_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestNewCollector_DefaultRegistry(t *testing.T) {
	c := NewCollector(config.MetricsConfig{Enabled: true}, nil)
	if c.Registry() == nil {
		t.Fatal("expected a registry")
	}

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "go_") {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected Go runtime metrics on a default registry")
	}
}
