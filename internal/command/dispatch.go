package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/llm"
	"github.com/teemow/inboxai/internal/logging"
)

// Model selects operations for free text and phrases their results.
type Model interface {
	SelectFunction(ctx context.Context, instruction string, specs []llm.FunctionSpec) (*llm.Selection, error)
	CompleteWithContext(ctx context.Context, sel *llm.Selection, results []llm.CallResult) (string, error)
}

// Dispatcher turns free-text instructions into catalog operations.
type Dispatcher struct {
	registry *Registry
	model    Model
	surface  string
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSurface names the entry point recorded in audit records.
func WithSurface(surface string) Option {
	return func(d *Dispatcher) {
		d.surface = surface
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics records every executed operation.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithAudit writes an audit record for every executed operation.
func WithAudit(a *instrumentation.AuditLogger) Option {
	return func(d *Dispatcher) {
		d.audit = a
	}
}

// NewDispatcher creates a Dispatcher over registry. The model may be nil, in
// which case only the rule stage can answer.
func NewDispatcher(registry *Registry, model Model, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		model:    model,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch answers one instruction. Sender lookups are resolved by rule and
// never reach the model. Operation and model errors are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) (Outcome, error) {
	if query, ok := SenderQuery(text); ok {
		entry, _ := d.registry.Lookup(string(FromSender))
		return d.execute(ctx, instrumentation.StageRule, entry, map[string]any{SenderQueryArg: query})
	}

	if d.model == nil {
		return Outcome{}, llm.ErrNotConfigured
	}

	start := time.Now()
	sel, err := d.model.SelectFunction(ctx, text, d.registry.Specs())
	if err != nil {
		d.metrics.RecordDispatch(ctx, instrumentation.StageModel, instrumentation.OperationNone, instrumentation.StatusError, time.Since(start))
		return Outcome{}, err
	}
	if len(sel.Calls) == 0 {
		d.metrics.RecordDispatch(ctx, instrumentation.StageModel, instrumentation.OperationNone, instrumentation.StatusSuccess, time.Since(start))
		return Outcome{Reply: nonEmpty(sel.Content)}, nil
	}

	var (
		results  []llm.CallResult
		outcomes []Outcome
	)
	for _, call := range sel.Calls {
		entry, ok := d.registry.Lookup(call.Name)
		if !ok {
			d.logger.Warn("model selected unknown operation", logging.Operation(call.Name))
			continue
		}

		out, err := d.execute(ctx, instrumentation.StageModel, entry, decodeArgs(call.Arguments))
		if err != nil {
			return Outcome{}, err
		}
		results = append(results, llm.CallResult{Call: call, Result: out})
		outcomes = append(outcomes, out)
	}

	if len(outcomes) == 0 {
		d.metrics.RecordDispatch(ctx, instrumentation.StageModel, instrumentation.OperationNone, instrumentation.StatusSuccess, time.Since(start))
		return Outcome{Reply: nonEmpty(sel.Content)}, nil
	}

	first := outcomes[0]
	if first.Reply != "" {
		return first, nil
	}

	phrasing, err := d.model.CompleteWithContext(ctx, sel, results)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Reply: nonEmpty(phrasing), Data: first.Data}, nil
}

// Respond is Dispatch with failures turned into a reply.
func (d *Dispatcher) Respond(ctx context.Context, text string) Outcome {
	out, err := d.Dispatch(ctx, text)
	if err != nil {
		d.logger.Error("command failed", logging.Err(err))
		return Outcome{Reply: FailureReply}
	}
	return out
}

func (d *Dispatcher) execute(ctx context.Context, stage string, entry Entry, args map[string]any) (Outcome, error) {
	op := string(entry.Name)
	ctx, span := instrumentation.StartOperationSpan(ctx, op)
	defer span.End()

	inv := instrumentation.NewOperationInvocation(op).
		WithStage(stage).
		WithSurface(d.surface).
		WithSpanContext(ctx)
	if q, ok := args[SenderQueryArg].(string); ok {
		inv.WithArgument(q)
	}

	start := time.Now()
	out, err := entry.Run(ctx, args)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		inv.CompleteWithError(err)
		err = fmt.Errorf("operation %s failed: %w", op, err)
	} else {
		instrumentation.SetSpanSuccess(span)
		inv.CompleteSuccess()
	}
	d.metrics.RecordDispatch(ctx, stage, op, status, time.Since(start))
	d.audit.LogOperation(inv)

	d.logger.Debug("operation executed",
		logging.Operation(op), logging.Stage(stage), logging.Status(status))
	return out, err
}

// decodeArgs parses model-supplied arguments. Malformed input yields no
// arguments.
func decodeArgs(raw string) map[string]any {
	args := map[string]any{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

func nonEmpty(reply string) string {
	if reply == "" {
		return FallbackReply
	}
	return reply
}
