package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"mercator-hq/tokenscope/pkg/config"
)

// Redactor masks vendor credentials in log messages and attributes.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternVendorKey   = "vendor_key"
	PatternGoogleKey   = "google_key"
	PatternQueryKey    = "query_key"
	PatternBearerToken = "bearer_token"
)

// defaultPatterns are applied in order. The Anthropic prefix is kept so
// logs still show which vendor a masked key belonged to.
var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	// Anthropic (sk-ant-...) and OpenAI (sk-..., sk-proj-...) keys
	{PatternVendorKey, `\bsk-(ant-)?[A-Za-z0-9_\-]{8,}`, "sk-${1}***"},
	// Google API keys
	{PatternGoogleKey, `\bAIza[0-9A-Za-z_\-]{20,}`, "AIza***"},
	// Credentials passed in a query string (Gemini uses ?key=)
	{PatternQueryKey, `([?&](?:key|api_key)=)[^&\s"']+`, "${1}***"},
	// Bearer tokens
	{PatternBearerToken, `Bearer\s+[A-Za-z0-9\-._~+/]+=*`, "Bearer ***"},
}

// sensitiveKeys are attribute names whose values are masked whole.
// "token" is deliberately absent: input_tokens and total_tokens are counts.
var sensitiveKeys = []string{
	"api_key", "apikey", "api-key",
	"authorization",
	"secret", "password", "credential",
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// the custom ones. Custom patterns that fail to compile are skipped.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// RedactString masks every credential found in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	for _, pattern := range r.patterns {
		value = pattern.regex.ReplaceAllString(value, pattern.replacement)
	}
	return value
}

// RedactAttr returns a copy of a with credentials masked. Groups are
// walked recursively; errors are rendered to strings and scanned, since
// transport errors embed the request URL.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}

	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, redactValue(a.Value.String()))
		}
		return slog.String(a.Key, r.RedactString(a.Value.String()))

	case slog.KindAny:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, "***")
		}
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
		return a

	default:
		return a
	}
}

// RedactArgs redacts key/value argument lists of the form accepted by
// slog.Logger.Info.
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		key, ok := redacted[i-1].(string)
		if !ok {
			continue
		}
		attr := r.RedactAttr(slog.Any(key, redacted[i]))
		if attr.Value.Kind() == slog.KindString {
			redacted[i] = attr.Value.String()
		}
	}

	return redacted
}

// isSensitiveKey checks if a key name indicates a credential.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// redactValue masks a sensitive value, keeping a short prefix for
// identification.
func redactValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}

// RedactAPIKey redacts an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	return redactValue(apiKey)
}
