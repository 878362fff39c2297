package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/tokenscope/pkg/config"
	"mercator-hq/tokenscope/pkg/providerfactory"
	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/server"
	"mercator-hq/tokenscope/pkg/telemetry/health"
	"mercator-hq/tokenscope/pkg/telemetry/metrics"
	"mercator-hq/tokenscope/pkg/telemetry/tracing"
	"mercator-hq/tokenscope/pkg/tokens"
)

var serveFlags struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the token counting API",
	Long: `Serve the token counting HTTP API, the same-origin vendor relay and the
metrics endpoint. Spans are exported over OTLP when telemetry.tracing is
enabled.

The config file, when one is used, is watched: provider credentials and base
URLs are reloaded without a restart.

Examples:
  # Serve with defaults (127.0.0.1:8787)
  tokenscope serve

  # Override listen address
  tokenscope serve --listen 0.0.0.0:8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.cfg
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	tracer, err := tracing.New(cmd.Context(), cfg.Telemetry.Tracing, tracing.WithVersion(Version))
	if err != nil {
		return fmt.Errorf("failed to start tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	tokenizer := newTokenizer(cfg.Tokenizer)

	opts := []providerfactory.Option{providerfactory.WithTokenizer(tokenizer)}
	if collector.Enabled() {
		opts = append(opts, providerfactory.WithRecorder(collector))
	}
	manager, err := newManager(cfg, opts...)
	if err != nil {
		return err
	}

	serverOpts := []server.Option{
		server.WithCollector(collector),
		server.WithTranslations(app.tr),
		server.WithVersion(Version),
		server.WithReadiness(readinessChecks(manager, tokenizer)),
	}
	if tracer.Enabled() {
		serverOpts = append(serverOpts, server.WithTracer(tracer.Tracer()))
	}
	srv := server.NewServer(cfg, manager, serverOpts...)

	fmt.Fprintln(cmd.ErrOrStderr(), app.tr.Message("ServerListening", map[string]any{"Address": cfg.Server.ListenAddress}))

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		return srv.Start(ctx)
	})

	if app.configPath != "" {
		g.Go(func() error {
			watchConfig(ctx, app.configPath, manager, srv)
			return nil
		})
	}

	err = g.Wait()
	fmt.Fprintln(cmd.ErrOrStderr(), app.tr.Message("ShuttingDown", nil))
	return err
}

// readinessChecks reports whether the local tokenizer can load its
// default encoding and every catalogue provider has an adapter.
func readinessChecks(manager *providerfactory.Manager, tokenizer tokens.Tokenizer) *health.Checker {
	checker := health.New(0)

	checker.Register("tokenizer", func(ctx context.Context) error {
		enc, err := tokenizer.Encoding(tokens.EncodingCL100K)
		if err != nil {
			return err
		}
		enc.Free()
		return nil
	})

	checker.Register("providers", func(ctx context.Context) error {
		for _, p := range providers.ListProviders() {
			if _, ok := manager.Counter(p.ID); !ok {
				return fmt.Errorf("no adapter for %s", p.ID)
			}
		}
		return nil
	})

	return checker
}

// watchConfig applies config file changes until ctx is done. A watcher
// that cannot start is logged; the server keeps running on the loaded
// configuration.
func watchConfig(ctx context.Context, path string, manager *providerfactory.Manager, srv *server.Server) {
	err := config.Watch(ctx, path, func(next *config.Config) {
		if serveFlags.listenAddress != "" {
			next.Server.ListenAddress = serveFlags.listenAddress
		}
		if err := manager.Reload(next.ProviderConfigs()); err != nil {
			slog.Error("provider reload failed", "error", err)
			return
		}
		srv.UpdateConfig(next)
		slog.Info(app.tr.Message("ConfigReloaded", map[string]any{"Path": path}))
	})
	if err != nil {
		slog.Warn("config watcher disabled", "path", path, "error", err)
	}
}
