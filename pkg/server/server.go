package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"

	"mercator-hq/tokenscope/pkg/config"
	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/proxy/handlers"
	"mercator-hq/tokenscope/pkg/proxy/middleware"
	"mercator-hq/tokenscope/pkg/telemetry/health"
	"mercator-hq/tokenscope/pkg/telemetry/metrics"
)

// Server is the tokenscope HTTP server. It serves the JSON API, the
// same-origin relay, the health check and the metrics endpoint.
type Server struct {
	config       atomic.Pointer[config.Config]
	counter      handlers.TokenCounter
	collector    *metrics.Collector
	readiness    *health.Checker
	tracer       trace.Tracer
	translations *i18n.Translations
	version      string

	httpServer *http.Server
	listener   net.Listener
	mu         sync.RWMutex
	isRunning  bool
}

// Option configures a Server.
type Option func(*Server)

// WithCollector records API, relay and count metrics and mounts the
// metrics endpoint when the collector is enabled.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Server) {
		s.collector = c
	}
}

// WithReadiness mounts GET /ready backed by checker.
func WithReadiness(checker *health.Checker) Option {
	return func(s *Server) {
		s.readiness = checker
	}
}

// WithTranslations sets the translations used for error messages.
func WithTranslations(tr *i18n.Translations) Option {
	return func(s *Server) {
		s.translations = tr
	}
}

// WithTracer starts a server span for every request.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a server. counter is normally a
// *providerfactory.Manager.
func NewServer(cfg *config.Config, counter handlers.TokenCounter, opts ...Option) *Server {
	s := &Server{
		counter: counter,
		version: "dev",
	}
	s.config.Store(cfg)
	for _, opt := range opts {
		opt(s)
	}
	if s.translations == nil {
		if tr, err := i18n.NewTranslations(cfg.Locale); err == nil {
			s.translations = tr
		}
	}
	return s
}

// Config returns the current configuration.
func (s *Server) Config() *config.Config {
	return s.config.Load()
}

// UpdateConfig swaps the configuration after a reload. Provider settings
// (base URLs and credentials seen by the relay, /health and
// /v1/providers) follow immediately. Listener, timeout and middleware
// settings apply on the next start.
func (s *Server) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.config.Store(cfg)
	slog.Info("server configuration updated")
}

// Provider implements handlers.Settings against the current configuration.
func (s *Server) Provider(id providers.ProviderID) (config.ProviderConfig, bool) {
	return s.Config().Provider(id)
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Config().Server.ListenAddress
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled or the server fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return fmt.Errorf("server is already running")
	}
	cfg := s.Config().Server
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.listener = ln
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting tokenscope server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown gracefully shuts down the server within the configured
// shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning || s.httpServer == nil {
		return nil
	}

	timeout := s.Config().Server.ShutdownTimeout
	slog.Info("initiating graceful shutdown", "timeout", timeout.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var shutdownErr error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during server shutdown", "error", err)
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}
	s.isRunning = false

	slog.Info("tokenscope server stopped")
	return shutdownErr
}

// IsRunning returns true if the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listener address, or "" before Serve.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	cfg := s.Config()
	timeout := middleware.TimeoutMiddleware(cfg.Server.RequestTimeout)

	mux := http.NewServeMux()

	mux.Handle("POST /v1/count_tokens", timeout(handlers.NewCountHandler(s.counter, s.translations)))
	mux.Handle("GET /v1/providers", handlers.NewProvidersHandler(s))
	mux.Handle("GET /v1/providers/{id}/models", handlers.NewModelsHandler(s.translations))
	mux.Handle("POST /v1/images/fetch", timeout(handlers.NewFetchImageHandler(s.counter, s.translations)))
	mux.Handle("GET /health", handlers.NewHealthHandler(s.version, s))
	if s.readiness != nil {
		mux.Handle("GET /ready", s.readiness.Handler())
	}

	if cfg.Server.Relay.Enabled {
		prefix := "/" + strings.Trim(cfg.Server.Relay.PathPrefix, "/")
		relayOpts := []handlers.RelayOption{
			handlers.WithCredentialInjection(cfg.Server.Relay.InjectCredentials),
		}
		if s.metricsEnabled() {
			relayOpts = append(relayOpts, handlers.WithRelayRecorder(s.collector))
		}
		mux.Handle(prefix+"/", handlers.NewRelayHandler(prefix, s, s.translations, relayOpts...))
	}

	var recorder middleware.HTTPRecorder
	if s.metricsEnabled() {
		mux.Handle("GET "+cfg.Telemetry.Metrics.Path, s.collector.Handler())
		recorder = s.collector
	}

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware,
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware(cfg.Server.CORS),
		middleware.BodyLimitMiddleware(cfg.Server.MaxBodyBytes),
		middleware.TracingMiddleware(s.tracer),
		middleware.MetricsMiddleware(recorder),
	)
}

func (s *Server) metricsEnabled() bool {
	return s.collector != nil && s.collector.Enabled()
}
