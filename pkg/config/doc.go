// Package config provides configuration management for tokenscope.
//
// This package handles loading, validating, and watching configuration from
// YAML files with environment variable overrides. Every field has a default,
// so tokenscope runs with no file at all.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("tokenscope.yaml")
//
//  2. From a YAML file (or none) with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("tokenscope.yaml")
//     cfg, err := config.LoadConfigWithEnvOverrides("")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention TOKENSCOPE_SECTION_FIELD.
// For example:
//
//   - TOKENSCOPE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - TOKENSCOPE_PROVIDERS_ANTHROPIC_API_KEY overrides providers.anthropic.api_key
//   - TOKENSCOPE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// When no TOKENSCOPE_PROVIDERS_<NAME>_API_KEY is set and the file has no key,
// the vendor's conventional variable is used (ANTHROPIC_API_KEY,
// GEMINI_API_KEY, OPENAI_API_KEY). LoadDotEnv reads these from .env files.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	providers:
//	  anthropic:
//	    timeout: "30s"
//	  gemini:
//	    base_url: "https://generativelanguage.googleapis.com/v1beta"
//
//	tokenizer:
//	  offline: true
//
//	server:
//	  listen_address: "127.0.0.1:8787"
//	  relay:
//	    inject_credentials: true
//
//	telemetry:
//	  logging:
//	    level: "debug"
//	    format: "json"
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//	    insecure: true
//
// # Reloading
//
// Watch observes the file with fsnotify and hands every valid reloaded
// configuration to a callback. The server uses it to rebuild provider
// adapters in place.
package config
