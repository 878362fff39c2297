package config

import (
	"time"

	"mercator-hq/tokenscope/pkg/providers"
)

// Default values for configuration fields.
const (
	// Provider defaults
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultProviderTimeout  = providers.DefaultTimeout

	// Image defaults
	DefaultMaxFileSize  = int64(20 * 1024 * 1024)
	DefaultFetchTimeout = 30 * time.Second

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8787"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultRequestTimeout  = 45 * time.Second
	DefaultMaxBodyBytes    = int64(64 * 1024 * 1024)
	DefaultCORSMaxAge      = 3600
	DefaultRelayPathPrefix = "/api"

	// Telemetry defaults
	DefaultLoggingLevel    = "info"
	DefaultLoggingFormat   = "text"
	DefaultPrometheusPath  = "/metrics"
	DefaultTracingEndpoint = "localhost:4317"
	DefaultTracingSampler  = "always"
	DefaultServiceName     = "tokenscope"
	DefaultTracingTimeout  = 10 * time.Second

	DefaultLocale = "en"
)

// DefaultBaseURLs maps each provider to its vendor endpoint.
var DefaultBaseURLs = map[providers.ProviderID]string{
	providers.Anthropic: DefaultAnthropicBaseURL,
	providers.Gemini:    DefaultGeminiBaseURL,
	providers.OpenAI:    DefaultOpenAIBaseURL,
}

// Default returns a configuration with every default applied, including
// the boolean switches that default to true. LoadConfig decodes the file
// over this value so that omitted switches keep their defaults.
func Default() *Config {
	cfg := &Config{
		Providers: make(map[string]ProviderConfig),
		Server: ServerConfig{
			CORS:  CORSConfig{Enabled: true},
			Relay: RelayConfig{Enabled: true},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactSecrets: true},
			Metrics: MetricsConfig{Enabled: true},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values and adds an entry
// for every catalogue provider that is missing.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	for id, baseURL := range DefaultBaseURLs {
		p := cfg.Providers[string(id)]
		if p.BaseURL == "" {
			p.BaseURL = baseURL
		}
		if p.Timeout == 0 {
			p.Timeout = DefaultProviderTimeout
		}
		cfg.Providers[string(id)] = p
	}

	// Images
	if cfg.Images.MaxFileSize == 0 {
		cfg.Images.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Images.FetchTimeout == 0 {
		cfg.Images.FetchTimeout = DefaultFetchTimeout
	}

	// Server
	s := &cfg.Server
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.Relay.PathPrefix == "" {
		s.Relay.PathPrefix = DefaultRelayPathPrefix
	}

	// CORS
	if len(s.CORS.AllowedOrigins) == 0 {
		s.CORS.AllowedOrigins = []string{"*"}
	}
	if len(s.CORS.AllowedMethods) == 0 {
		s.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(s.CORS.AllowedHeaders) == 0 {
		s.CORS.AllowedHeaders = []string{
			"Content-Type",
			"Authorization",
			"X-Request-ID",
			"x-api-key",
			"anthropic-version",
			"anthropic-dangerous-direct-browser-access",
		}
	}
	if len(s.CORS.ExposedHeaders) == 0 {
		s.CORS.ExposedHeaders = []string{"X-Request-ID"}
	}
	if s.CORS.MaxAge == 0 {
		s.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Telemetry
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	t := &cfg.Telemetry.Tracing
	if t.Endpoint == "" {
		t.Endpoint = DefaultTracingEndpoint
	}
	if t.Sampler == "" {
		t.Sampler = DefaultTracingSampler
	}
	if t.ServiceName == "" {
		t.ServiceName = DefaultServiceName
	}
	if t.Timeout == 0 {
		t.Timeout = DefaultTracingTimeout
	}

	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
}
