// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and console output
//   - Redaction of vendor credentials before records are written
//   - Request fields (request_id, provider, model) taken from the context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//	logging.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "count finished", "input_tokens", 42)
//
// After SetDefault every package that logs through slog shares the same
// handler, so adapters never need a logger handed to them.
//
// # Redaction
//
//   - Anthropic keys: sk-ant-api03-... → sk-ant-***
//   - OpenAI keys: sk-proj-... → sk-***
//   - Google keys: AIzaSy... → AIza***
//   - Query credentials: ?key=... → ?key=***
//   - Attributes named like api_key, x-api-key or authorization are masked whole
package logging
