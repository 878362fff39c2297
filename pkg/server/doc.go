// Package server wires the tokenscope HTTP API together.
//
// # Routes
//
//	POST /v1/count_tokens            count tokens for one provider and model
//	GET  /v1/providers               provider catalogue with configured flags
//	GET  /v1/providers/{id}/models   models of one provider
//	POST /v1/images/fetch            fetch a remote image as base64
//	GET  /health                     liveness and per-provider status
//	GET  /ready                      readiness checks (when configured)
//	GET  <metrics path>              Prometheus metrics (when enabled)
//	ANY  <relay prefix>/{provider}/  same-origin vendor relay (when enabled)
//
// Middleware runs outermost first: recovery, request ID, logging, CORS,
// body limit, metrics. The count and image routes also carry the request
// timeout; the relay does not.
//
// # Usage
//
//	manager, _ := providerfactory.NewManager(cfg.ProviderConfigs())
//	srv := server.NewServer(cfg, manager,
//		server.WithCollector(collector),
//		server.WithVersion(version))
//
//	// Blocks until ctx is cancelled.
//	err := srv.Start(ctx)
//
// A config reload calls UpdateConfig; provider settings take effect
// without a restart.
package server
