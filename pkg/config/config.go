package config

import (
	"sort"
	"time"

	"mercator-hq/tokenscope/pkg/providers"
)

// Config is the root configuration structure for tokenscope.
// It contains the vendor endpoints and credentials, image limits, tokenizer
// settings, the HTTP server, telemetry and the display locale.
type Config struct {
	// Providers contains configuration for each vendor integration.
	// Keys are provider identifiers ("anthropic", "gemini", "openai").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Images contains limits for local files and remote image fetches.
	Images ImagesConfig `yaml:"images"`

	// Tokenizer contains settings for the local BPE tokenizer.
	Tokenizer TokenizerConfig `yaml:"tokenizer"`

	// Server contains the HTTP server configuration including the
	// development relay.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Locale is the default language for user-facing messages.
	// Default: "en"
	Locale string `yaml:"locale"`
}

// ProviderConfig contains configuration for a single vendor.
type ProviderConfig struct {
	// BaseURL is the base URL of the vendor API. It is also the relay
	// target for this vendor.
	// Example: "https://api.anthropic.com"
	BaseURL string `yaml:"base_url"`

	// APIKey is the vendor credential. It is normally supplied through the
	// environment rather than the file. Empty is allowed; counting fails at
	// call time with a configuration error.
	APIKey string `yaml:"api_key"`

	// Timeout is the wall-clock budget for one count request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// Configured reports whether a credential is present.
func (p ProviderConfig) Configured() bool {
	return p.APIKey != ""
}

// ImagesConfig contains limits for image inputs.
type ImagesConfig struct {
	// MaxFileSize is the largest local image accepted, in bytes.
	// Default: 20971520 (20 MiB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// FetchTimeout bounds a remote image download.
	// Default: 30s
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// TokenizerConfig contains settings for the local tokenizer.
type TokenizerConfig struct {
	// Offline loads BPE ranks from the embedded tables instead of
	// downloading them on first use.
	// Default: false
	Offline bool `yaml:"offline"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8787"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the provider timeout.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout is the per-request deadline applied by middleware to
	// the JSON API. The relay is not affected.
	// Default: 45s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxBodyBytes caps JSON API request bodies. Base64 images make
	// bodies large, so the default is generous.
	// Default: 67108864 (64 MiB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// Relay contains the same-origin vendor relay configuration.
	Relay RelayConfig `yaml:"relay"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are written.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. ["*"] allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers. The vendor
	// headers used by the browser client must be present.
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache duration in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// RelayConfig configures the same-origin relay under /api/<provider>/.
type RelayConfig struct {
	// Enabled mounts the relay routes.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// PathPrefix is the route prefix. Requests to <prefix>/<provider>/...
	// are forwarded to the provider base URL with the prefix stripped.
	// Default: "/api"
	PathPrefix string `yaml:"path_prefix"`

	// InjectCredentials attaches the server-held credential to relayed
	// requests (x-api-key for Anthropic, key= for Gemini, a bearer token
	// for OpenAI) so browsers never hold vendor keys.
	// Default: false
	InjectCredentials bool `yaml:"inject_credentials"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks vendor credentials in log attributes.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the Prometheus endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns on span export.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Sampler selects the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces kept when Sampler is "ratio".
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "tokenscope"
	ServiceName string `yaml:"service_name"`

	// Timeout bounds each export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// ProviderConfigs converts the provider section into adapter
// configurations, sorted by provider name.
func (c *Config) ProviderConfigs() []providers.ProviderConfig {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]providers.ProviderConfig, 0, len(names))
	for _, name := range names {
		p := c.Providers[name]
		out = append(out, providers.ProviderConfig{
			Name:    providers.ProviderID(name),
			BaseURL: p.BaseURL,
			APIKey:  p.APIKey,
			Timeout: p.Timeout,
		})
	}
	return out
}

// Provider returns the configuration for one provider.
func (c *Config) Provider(id providers.ProviderID) (ProviderConfig, bool) {
	p, ok := c.Providers[string(id)]
	return p, ok
}
