package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every tokenscope environment variable.
const EnvPrefix = "TOKENSCOPE_"

// credentialFallbacks lists the conventional variables consulted, in order,
// when TOKENSCOPE_PROVIDERS_<NAME>_API_KEY is unset.
var credentialFallbacks = map[string][]string{
	"anthropic": {"ANTHROPIC_API_KEY", "VITE_ANTHROPIC_API_KEY"},
	"gemini":    {"GEMINI_API_KEY", "GOOGLE_API_KEY", "VITE_GEMINI_API_KEY"},
	"openai":    {"OPENAI_API_KEY", "VITE_OPENAI_API_KEY"},
}

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded over Default(), then defaults are re-applied and the
// result is validated. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults without validating.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention TOKENSCOPE_SECTION_FIELD (e.g., TOKENSCOPE_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// An empty path means no file: defaults plus environment only.
//
// The loading sequence is:
// 1. Load YAML from file (or start from defaults)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE files into the process environment without
// overriding variables that are already set. With no arguments it reads
// ./.env and silently ignores its absence; explicitly named files must
// exist.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		err := godotenv.Load()
		if err != nil && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for name := range cfg.Providers {
		applyProviderEnvOverrides(cfg, name)
	}

	// Images
	if val := os.Getenv(EnvPrefix + "IMAGES_MAX_FILE_SIZE"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Images.MaxFileSize = n
		}
	}
	if d, ok := envDuration(EnvPrefix + "IMAGES_FETCH_TIMEOUT"); ok {
		cfg.Images.FetchTimeout = d
	}

	// Tokenizer
	if b, ok := envBool(EnvPrefix + "TOKENIZER_OFFLINE"); ok {
		cfg.Tokenizer.Offline = b
	}

	// Server
	if val := os.Getenv(EnvPrefix + "SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if d, ok := envDuration(EnvPrefix + "SERVER_REQUEST_TIMEOUT"); ok {
		cfg.Server.RequestTimeout = d
	}
	if b, ok := envBool(EnvPrefix + "SERVER_RELAY_ENABLED"); ok {
		cfg.Server.Relay.Enabled = b
	}
	if b, ok := envBool(EnvPrefix + "SERVER_RELAY_INJECT_CREDENTIALS"); ok {
		cfg.Server.Relay.InjectCredentials = b
	}
	if val := os.Getenv(EnvPrefix + "SERVER_CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}

	// Telemetry
	if val := os.Getenv(EnvPrefix + "TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if b, ok := envBool(EnvPrefix + "TELEMETRY_METRICS_ENABLED"); ok {
		cfg.Telemetry.Metrics.Enabled = b
	}
	if b, ok := envBool(EnvPrefix + "TELEMETRY_TRACING_ENABLED"); ok {
		cfg.Telemetry.Tracing.Enabled = b
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}

	if val := os.Getenv(EnvPrefix + "LOCALE"); val != "" {
		cfg.Locale = val
	}
}

// applyProviderEnvOverrides applies environment variable overrides for a
// specific provider. Variables follow TOKENSCOPE_PROVIDERS_<NAME>_<FIELD>.
// The API key falls back to the vendor's conventional variable names.
func applyProviderEnvOverrides(cfg *Config, providerName string) {
	provider := cfg.Providers[providerName]
	prefix := fmt.Sprintf("%sPROVIDERS_%s_", EnvPrefix, strings.ToUpper(providerName))

	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
	}
	if d, ok := envDuration(prefix + "TIMEOUT"); ok {
		provider.Timeout = d
	}

	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		provider.APIKey = val
	} else if provider.APIKey == "" {
		for _, name := range credentialFallbacks[providerName] {
			if val := os.Getenv(name); val != "" {
				provider.APIKey = val
				break
			}
		}
	}

	cfg.Providers[providerName] = provider
}

func envDuration(name string) (time.Duration, bool) {
	val := os.Getenv(name)
	if val == "" {
		return 0, false
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, false
	}
	return d, true
}

func envBool(name string) (bool, bool) {
	val := os.Getenv(name)
	if val == "" {
		return false, false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}
	return b, true
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
