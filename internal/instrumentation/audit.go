package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// OperationInvocation captures one executed catalog operation for audit
// logging, whichever surface (HTTP, MCP, CLI) triggered it.
type OperationInvocation struct {
	Operation string
	Stage     string
	Surface   string

	// Argument is the raw operation argument (the sender query, if any).
	// It is only logged when the audit logger includes PII.
	Argument string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewOperationInvocation creates a new OperationInvocation with timing started.
// Call Complete() when the operation finishes.
func NewOperationInvocation(operation string) *OperationInvocation {
	return &OperationInvocation{
		Operation: operation,
		StartTime: time.Now(),
	}
}

// WithStage sets the dispatcher stage that selected the operation.
func (oi *OperationInvocation) WithStage(stage string) *OperationInvocation {
	oi.Stage = stage
	return oi
}

// WithSurface sets the entry point (http, mcp, cli).
func (oi *OperationInvocation) WithSurface(surface string) *OperationInvocation {
	oi.Surface = surface
	return oi
}

// WithArgument records the operation argument.
func (oi *OperationInvocation) WithArgument(arg string) *OperationInvocation {
	oi.Argument = arg
	return oi
}

// WithSpanContext extracts trace context from the current span.
func (oi *OperationInvocation) WithSpanContext(ctx context.Context) *OperationInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		oi.TraceID = span.SpanContext().TraceID().String()
		oi.SpanID = span.SpanContext().SpanID().String()
	}
	return oi
}

// Complete marks the invocation as completed and calculates duration.
func (oi *OperationInvocation) Complete(success bool, err error) *OperationInvocation {
	oi.Duration = time.Since(oi.StartTime)
	oi.Success = success
	if err != nil {
		oi.Error = err.Error()
	}
	return oi
}

// CompleteWithError marks the invocation as failed with the given error.
func (oi *OperationInvocation) CompleteWithError(err error) *OperationInvocation {
	return oi.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (oi *OperationInvocation) CompleteSuccess() *OperationInvocation {
	return oi.Complete(true, nil)
}

// Status returns "success" or "error" based on the Success field.
func (oi *OperationInvocation) Status() string {
	if oi.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging. The argument is
// reduced to its length unless includeArgument is set.
func (oi *OperationInvocation) LogAttrs(includeArgument bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", oi.Operation),
		slog.Duration("duration", oi.Duration),
		slog.Bool("success", oi.Success),
	}

	if oi.Stage != "" {
		attrs = append(attrs, slog.String("stage", oi.Stage))
	}
	if oi.Surface != "" {
		attrs = append(attrs, slog.String("surface", oi.Surface))
	}
	if oi.Argument != "" {
		if includeArgument {
			attrs = append(attrs, slog.String("argument", oi.Argument))
		} else {
			attrs = append(attrs, slog.Int("argument_len", len(oi.Argument)))
		}
	}
	if oi.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", oi.TraceID))
	}
	if oi.Error != "" {
		attrs = append(attrs, slog.String("error", oi.Error))
	}

	return attrs
}

// AuditLogger provides structured audit logging for operation invocations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:  logger,
		enabled: true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogOperation writes one audit record. Nil receivers are allowed.
func (al *AuditLogger) LogOperation(oi *OperationInvocation) {
	if al == nil || !al.enabled || oi == nil {
		return
	}

	attrs := oi.LogAttrs(al.includePII)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if oi.Success {
		al.logger.Info("operation_executed", args...)
	} else {
		al.logger.Warn("operation_failed", args...)
	}
}
