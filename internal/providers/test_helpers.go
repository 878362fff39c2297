package providers

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"mercator-hq/tokenscope/pkg/providers"
)

// TestConfig returns a test provider configuration.
func TestConfig(name providers.ProviderID) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:            name,
		BaseURL:         "http://localhost:8080",
		APIKey:          "test-key",
		Timeout:         5 * time.Second,
		MaxIdleConns:    10,
		IdleConnTimeout: 30 * time.Second,
	}
}

// TestConfigWithURL returns a test config with a specific base URL.
func TestConfigWithURL(name providers.ProviderID, baseURL string) providers.ProviderConfig {
	config := TestConfig(name)
	config.BaseURL = baseURL
	return config
}

// TestImage returns an image whose base64 payload decodes to size bytes.
func TestImage(size int, mediaType string) providers.Image {
	raw := make([]byte, size)
	return providers.Image{
		Data:      base64.StdEncoding.EncodeToString(raw),
		MediaType: mediaType,
	}
}

// TestImageWithEncodedLength returns an image whose base64 payload has
// exactly n characters.
func TestImageWithEncodedLength(n int) providers.Image {
	return providers.Image{
		Data:      strings.Repeat("A", n),
		MediaType: "image/png",
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertKind fails the test if err is not a provider error of the given kind.
func AssertKind(t *testing.T, err error, kind providers.Kind) *providers.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}

	var pe *providers.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *providers.Error, got %T: %v", err, err)
	}
	if pe.Kind != kind {
		t.Fatalf("expected kind %s, got %s: %v", kind, pe.Kind, err)
	}
	return pe
}

// AssertEqual fails the test if got != expected.
func AssertEqual(t *testing.T, got, expected interface{}) {
	t.Helper()
	if got != expected {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

// AssertContains fails the test if haystack doesn't contain needle.
func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}
