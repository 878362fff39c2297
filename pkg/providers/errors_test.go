package providers

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestError_Format(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := NewAPIError(Anthropic, 500, "api_error", "internal error")

		expected := `provider "anthropic" error (status 500): token count failed: internal error`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("without status code", func(t *testing.T) {
		err := NewMissingContentError(Gemini)

		expected := `provider "gemini" error: text or at least one image is required`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("without provider", func(t *testing.T) {
		err := NewUnsupportedProviderError("unknown")

		expected := `unsupported_provider error: unsupported provider "unknown"`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewRequestError(Anthropic, cause)

		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
		if errors.Unwrap(err) != cause {
			t.Errorf("expected unwrapped error to be %v", cause)
		}
	})
}

func TestError_Kinds(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name      string
		err       *Error
		kind      Kind
		messageID string
	}{
		{"configuration", NewConfigError(Anthropic, "api_key"), KindConfiguration, MsgConfiguration},
		{"missing content", NewMissingContentError(OpenAI), KindMissingContent, MsgMissingContent},
		{"file type", NewFileTypeError(Anthropic, "a.pdf", "application/pdf"), KindValidation, MsgFileNotImage},
		{"file size", NewFileSizeError(Anthropic, "a.png", 30, 20), KindValidation, MsgFileTooLarge},
		{"timeout", NewTimeoutError(Gemini, 30*time.Second), KindTimeout, MsgTimeout},
		{"api", NewAPIError(Gemini, 400, "400", "bad"), KindAPI, MsgAPI},
		{"request", NewRequestError(Gemini, cause), KindAPI, MsgRequest},
		{"fetch", NewFetchError(Anthropic, "http://x", cause), KindFetch, MsgFetch},
		{"fetch type", NewFetchTypeError(Anthropic, "http://x", "text/html"), KindFetch, MsgFetchNotImage},
		{"conversion", NewConversionError(Anthropic, "a.png", cause), KindConversion, MsgConversion},
		{"unsupported content", NewUnsupportedContentError(OpenAI, "gpt-3.5-turbo"), KindUnsupportedContent, MsgUnsupportedContent},
		{"unsupported provider", NewUnsupportedProviderError("x"), KindUnsupportedProvider, MsgUnsupportedProvider},
		{"tokenizer", NewTokenizerError(OpenAI, "cl100k_base", cause), KindTokenizer, MsgTokenizer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, tt.err.Kind)
			}
			if tt.err.MessageID != tt.messageID {
				t.Errorf("expected message id %s, got %s", tt.messageID, tt.err.MessageID)
			}
			if tt.err.TemplateData == nil {
				t.Error("expected template data")
			}
			if !IsKind(tt.err, tt.kind) {
				t.Errorf("IsKind(%s) returned false", tt.kind)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", NewTimeoutError(Anthropic, time.Second))
	if KindOf(wrapped) != KindTimeout {
		t.Errorf("expected timeout kind through wrapping, got %q", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("expected empty kind for plain error")
	}
	if IsKind(nil, KindTimeout) {
		t.Error("nil error must not match any kind")
	}
}

func TestError_Is(t *testing.T) {
	err := NewTimeoutError(Anthropic, time.Second)

	if !errors.Is(err, &Error{Kind: KindTimeout}) {
		t.Error("expected match on kind")
	}
	if !errors.Is(err, &Error{Kind: KindTimeout, Provider: Anthropic}) {
		t.Error("expected match on kind and provider")
	}
	if errors.Is(err, &Error{Kind: KindTimeout, Provider: Gemini}) {
		t.Error("expected no match for another provider")
	}
	if errors.Is(err, &Error{Kind: KindAPI}) {
		t.Error("expected no match for another kind")
	}
}
