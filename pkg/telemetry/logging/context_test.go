package logging

import (
	"context"
	"testing"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	if GetRequestID(ctx) != "" || GetProvider(ctx) != "" || GetModel(ctx) != "" {
		t.Fatal("expected empty values on a bare context")
	}
	if attrs := contextAttrs(ctx); len(attrs) != 0 {
		t.Errorf("expected no attrs, got %v", attrs)
	}

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithProvider(ctx, "anthropic")
	ctx = WithModel(ctx, "claude-3-haiku-20240307")

	if GetRequestID(ctx) != "req-1" {
		t.Errorf("GetRequestID() = %q", GetRequestID(ctx))
	}
	if GetProvider(ctx) != "anthropic" {
		t.Errorf("GetProvider() = %q", GetProvider(ctx))
	}
	if GetModel(ctx) != "claude-3-haiku-20240307" {
		t.Errorf("GetModel() = %q", GetModel(ctx))
	}

	attrs := contextAttrs(ctx)
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attrs, got %d", len(attrs))
	}
	want := []string{"request_id", "provider", "model"}
	for i, key := range want {
		if attrs[i].Key != key {
			t.Errorf("attr %d: expected key %q, got %q", i, key, attrs[i].Key)
		}
	}
}
