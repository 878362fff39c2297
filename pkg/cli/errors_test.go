package cli

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providers"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "server.listen_address",
		Message: "missing required field",
	}

	expected := "config error in server.listen_address: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("count", underlyingErr)

	if err.Error() != "command count failed: underlying error" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitError},
		{"config", NewConfigError("format", "bad"), ExitUsage},
		{"wrapped config", fmt.Errorf("flags: %w", NewConfigError("model", "bad")), ExitUsage},
		{"unsupported provider", providers.NewUnsupportedProviderError("mistral"), ExitUsage},
		{"timeout", providers.NewTimeoutError(providers.Anthropic, 30*time.Second), ExitProvider},
		{"command wraps provider", NewCommandError("count", providers.NewMissingContentError(providers.OpenAI)), ExitProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	ja, err := i18n.NewTranslations("ja")
	if err != nil {
		t.Fatalf("NewTranslations failed: %v", err)
	}

	provErr := providers.NewMissingContentError(providers.Gemini)

	if got := UserMessage(provErr, ja); got != "テキストまたは画像を入力してください" {
		t.Errorf("localized message = %q", got)
	}
	if got := UserMessage(fmt.Errorf("count: %w", provErr), ja); got != "テキストまたは画像を入力してください" {
		t.Errorf("wrapped localized message = %q", got)
	}
	if got := UserMessage(provErr, nil); got != provErr.Error() {
		t.Errorf("untranslated message = %q", got)
	}
	if got := UserMessage(errors.New("boom"), ja); got != "boom" {
		t.Errorf("plain message = %q", got)
	}
}
