package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxai/internal/logging"
	"github.com/teemow/inboxai/internal/resources"
	"github.com/teemow/inboxai/internal/server"
	"github.com/teemow/inboxai/internal/tools/inbox_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		httpAddr  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server",
		Long: `Start an MCP (Model Context Protocol) server exposing the inbox operations
as tools. The stdio transport is meant to be launched by an AI assistant;
logs go to stderr since stdout carries the protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(transport, httpAddr)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")

	return cmd
}

func runMCP(transport, httpAddr string) error {
	if transport != transportStdio && transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}

	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(shutdownCtx, appOptions{
		surface:   surfaceMCP,
		debug:     debugMode,
		telemetry: transport != transportStdio,
		verify:    true,
	})
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

	serverContext := server.NewServerContext(shutdownCtx, a.inbox, a.dispatcher)
	serverContext.SetMetrics(a.provider.Metrics())
	serverContext.SetAuditLogger(a.audit)
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := newMCPServer()
	if err := inbox_tools.RegisterInboxTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register inbox tools: %w", err)
	}
	if err := resources.RegisterInboxResources(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register inbox resources: %w", err)
	}

	switch transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	default:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, httpAddr, a)
	}
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("inboxai", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, addr string, a *app) error {
	httpSrv := mcpserver.NewStreamableHTTPServer(mcpSrv)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting MCP server", "transport", transportStreamableHTTP, "addr", addr)
		if err := httpSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down MCP server: %w", err)
	}
	return nil
}
