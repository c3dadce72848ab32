package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/teemow/inboxai/internal/attachments"
	"github.com/teemow/inboxai/internal/command"
	"github.com/teemow/inboxai/internal/config"
	"github.com/teemow/inboxai/internal/extract/ocr"
	"github.com/teemow/inboxai/internal/gmail"
	"github.com/teemow/inboxai/internal/google"
	"github.com/teemow/inboxai/internal/inbox"
	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/llm"
	"github.com/teemow/inboxai/internal/logging"
)

// Surfaces recorded in audit records.
const (
	surfaceCLI  = "cli"
	surfaceHTTP = "http"
	surfaceMCP  = "mcp"
)

// appOptions selects how much of the stack a command needs.
type appOptions struct {
	surface string
	debug   bool
	// telemetry starts the OpenTelemetry provider; CLI commands use a
	// no-op provider instead.
	telemetry bool
	// verify refreshes one Google access token during startup.
	verify bool
}

// app holds the components shared by every command.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	provider   *instrumentation.Provider
	instr      instrumentation.Config
	audit      *instrumentation.AuditLogger
	model      *llm.Client
	inbox      *inbox.Service
	dispatcher *command.Dispatcher

	logCloser io.Closer
}

// newApp loads configuration and builds the Gmail client, the model client,
// the attachment pipeline, the inbox service and the command dispatcher.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, logCloser: logCloser}
	if err := a.init(ctx, opts); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) init(ctx context.Context, opts appOptions) error {
	cfg := a.cfg

	a.instr = cfg.Telemetry
	a.instr.ServiceVersion = version
	if opts.telemetry {
		provider, err := instrumentation.NewProvider(ctx, a.instr)
		if err != nil {
			return fmt.Errorf("failed to create instrumentation provider: %w", err)
		}
		a.provider = provider
	} else {
		a.provider = instrumentation.NewNoopProvider(a.instr)
	}
	metrics := a.provider.Metrics()
	a.audit = instrumentation.NewAuditLoggerWithConfig(a.logger, a.instr.Audit)

	if err := cfg.RequireGmail(); err != nil {
		return err
	}
	if err := cfg.RequireModel(); err != nil {
		return err
	}

	creds := google.Credentials{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		RefreshToken: cfg.Gmail.RefreshToken,
	}
	if opts.verify {
		if err := verifyCredentials(ctx, creds, a.logger); err != nil {
			return err
		}
	}

	httpClient, err := google.HTTPClient(ctx, creds)
	if err != nil {
		return fmt.Errorf("failed to create Gmail HTTP client: %w", err)
	}

	mail, err := gmail.NewClient(ctx,
		gmail.WithHTTPClient(httpClient),
		gmail.WithLogger(a.logger),
		gmail.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create Gmail client: %w", err)
	}

	a.model, err = llm.NewClient(cfg.Model, llm.WithLogger(a.logger), llm.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	recognizer := &ocr.Tesseract{
		Languages:      cfg.Attachments.OCRLanguages,
		TessdataPrefix: cfg.Attachments.TessdataPrefix,
	}
	pipeline := attachments.New(attachments.DefaultExtractors(recognizer),
		attachments.WithLimit(attachments.KindSpreadsheet, cfg.Attachments.SpreadsheetLimit),
		attachments.WithLimit(attachments.KindTable, cfg.Attachments.TableLimit),
		attachments.WithLogger(a.logger),
		attachments.WithMetrics(metrics),
	)

	scratch := cfg.Attachments.ScratchDir
	if scratch == "" {
		scratch = inbox.DefaultScratchRoot()
	}
	a.inbox = inbox.New(mail, a.model, pipeline,
		inbox.WithScratchRoot(scratch),
		inbox.WithUnreadLimit(cfg.Gmail.UnreadLimit),
		inbox.WithBudget(cfg.Prompt),
		inbox.WithLogger(a.logger),
		inbox.WithMetrics(metrics),
	)

	a.dispatcher = command.NewDispatcher(command.Catalog(a.inbox), a.model,
		command.WithSurface(opts.surface),
		command.WithLogger(a.logger),
		command.WithMetrics(metrics),
		command.WithAudit(a.audit),
	)

	a.logger.Debug("application initialized",
		slog.String("surface", opts.surface),
		slog.String("model", a.model.Model()),
		slog.Bool("telemetry", a.provider.Enabled()))
	return nil
}

func verifyCredentials(ctx context.Context, creds google.Credentials, logger *slog.Logger) error {
	ts, err := google.TokenSource(ctx, creds)
	if err != nil {
		return fmt.Errorf("failed to create Google token source: %w", err)
	}
	if err := google.Verify(ts); err != nil {
		return err
	}
	logger.Info("verified Google credentials",
		slog.String("client_id", logging.SanitizeToken(creds.ClientID)),
		slog.String("refresh_token", logging.SanitizeToken(creds.RefreshToken)))
	return nil
}

// Close flushes telemetry and releases the log file.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.provider != nil {
		if err := a.provider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
