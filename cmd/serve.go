package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxai/internal/logging"
	"github.com/teemow/inboxai/internal/server"
)

type serveOptions struct {
	addr           string
	metricsAddr    string
	metricsEnabled bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API used by the browser extension.

Endpoints:
  GET  /                  status
  POST /command           {"command": "..."} -> {"reply": "...", "data": {...}}
  POST /summarize/email   {"sender", "subject", "body"} -> {"summary": "..."}
  GET  /healthz, /readyz, /healthz/detailed

Prometheus metrics are served on a separate port when enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address (default from INBOXAI_SERVER_ADDR or :8000)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Metrics server address (default from INBOXAI_METRICS_ADDR or :9091)")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port. Can also use INBOXAI_METRICS_ENABLED.")

	return cmd
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(shutdownCtx, appOptions{surface: surfaceHTTP, debug: debugMode, telemetry: true, verify: true})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			a.logger.Error("error during shutdown", logging.Err(err))
		}
	}()

	addr := a.cfg.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr = opts.addr
	}
	metricsAddr := a.cfg.Metrics.Addr
	if cmd.Flags().Changed("metrics-addr") {
		metricsAddr = opts.metricsAddr
	}
	metricsEnabled := a.cfg.Metrics.Enabled
	if cmd.Flags().Changed("metrics-enabled") {
		metricsEnabled = opts.metricsEnabled
	}

	serverContext := server.NewServerContext(shutdownCtx, a.inbox, a.dispatcher)
	serverContext.SetMetrics(a.provider.Metrics())
	serverContext.SetAuditLogger(a.audit)
	defer func() {
		_ = serverContext.Shutdown()
	}()

	health := server.NewHealthChecker(serverContext)
	health.SetModel(a.model.Model())

	if !debugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.RouterDependencies{
		Commands:    a.dispatcher,
		Summarizer:  a.inbox,
		Health:      health,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		Logger:      a.logger,
		Metrics:     a.provider.Metrics(),
	})

	errCh := make(chan error, 2)

	var metricsServer *server.MetricsServer
	if metricsEnabled && a.provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: a.provider,
			Logger:                  a.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
	}

	httpServer := server.NewHTTPServer(addr, router, a.logger)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	var runErr error
	select {
	case <-shutdownCtx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	// Stop advertising readiness before draining connections
	health.SetReady(false)
	_ = serverContext.Shutdown()

	ctx, cancelShutdown := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancelShutdown()

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	a.logger.Info("server stopped", slog.String("addr", httpServer.Addr()))
	return errors.Join(errs...)
}
