package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrProvider  = "provider"
	attrModel     = "model"
	attrKind      = "kind"
	attrStage     = "stage"
	attrTool      = "tool"
)

// Metrics provides methods for recording observability metrics.
// A zero Metrics is a valid no-op recorder.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Mail provider metrics
	providerCallsTotal   metric.Int64Counter
	providerCallDuration metric.Float64Histogram

	// Language model metrics
	modelRequestsTotal   metric.Int64Counter
	modelRequestDuration metric.Float64Histogram

	// Attachment extraction metrics
	extractionsTotal   metric.Int64Counter
	extractionDuration metric.Float64Histogram

	// Command dispatch metrics
	dispatchesTotal   metric.Int64Counter
	dispatchDuration  metric.Float64Histogram
	toolInvocations   metric.Int64Counter
	toolDuration      metric.Float64Histogram
	messagesProcessed metric.Int64Counter

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.providerCallsTotal, err = meter.Int64Counter(
		"mail_provider_calls_total",
		metric.WithDescription("Total number of mail provider calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail_provider_calls_total counter: %w", err)
	}

	m.providerCallDuration, err = meter.Float64Histogram(
		"mail_provider_call_duration_seconds",
		metric.WithDescription("Mail provider call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail_provider_call_duration_seconds histogram: %w", err)
	}

	m.modelRequestsTotal, err = meter.Int64Counter(
		"model_requests_total",
		metric.WithDescription("Total number of language model requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create model_requests_total counter: %w", err)
	}

	m.modelRequestDuration, err = meter.Float64Histogram(
		"model_request_duration_seconds",
		metric.WithDescription("Language model request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create model_request_duration_seconds histogram: %w", err)
	}

	m.extractionsTotal, err = meter.Int64Counter(
		"attachment_extractions_total",
		metric.WithDescription("Total number of attachment extractions by kind and status"),
		metric.WithUnit("{attachment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment_extractions_total counter: %w", err)
	}

	m.extractionDuration, err = meter.Float64Histogram(
		"attachment_extraction_duration_seconds",
		metric.WithDescription("Attachment extraction duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment_extraction_duration_seconds histogram: %w", err)
	}

	m.dispatchesTotal, err = meter.Int64Counter(
		"command_dispatches_total",
		metric.WithDescription("Total number of free-text command dispatches"),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command_dispatches_total counter: %w", err)
	}

	m.dispatchDuration, err = meter.Float64Histogram(
		"command_dispatch_duration_seconds",
		metric.WithDescription("Command dispatch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command_dispatch_duration_seconds histogram: %w", err)
	}

	m.toolInvocations, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.messagesProcessed, err = meter.Int64Counter(
		"messages_processed_total",
		metric.WithDescription("Total number of messages summarized or categorized"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_processed_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordProviderCall records one round trip to the mail provider.
//
// Parameters:
//   - provider: provider name (gmail)
//   - operation: list, get, or attachment
//   - status: "success" or "error"
func (m *Metrics) RecordProviderCall(ctx context.Context, provider, operation, status string, duration time.Duration) {
	if m == nil || m.providerCallsTotal == nil || m.providerCallDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrProvider, provider),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.providerCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.providerCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordModelRequest records one chat completion round trip. The model name
// is only attached when detailed labels are enabled.
func (m *Metrics) RecordModelRequest(ctx context.Context, operation, model, status string, duration time.Duration) {
	if m == nil || m.modelRequestsTotal == nil || m.modelRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && model != "" {
		attrs = append(attrs, attribute.String(attrModel, model))
	}

	m.modelRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.modelRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordExtraction records one attachment extraction by kind.
func (m *Metrics) RecordExtraction(ctx context.Context, kind, status string, duration time.Duration) {
	if m == nil || m.extractionsTotal == nil || m.extractionDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrKind, kind),
		attribute.String(attrStatus, status),
	}

	m.extractionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.extractionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDispatch records a command dispatch.
//
// Parameters:
//   - stage: rule, model, or none
//   - operation: catalog operation name, "none" when nothing executed
//   - status: "success" or "error"
func (m *Metrics) RecordDispatch(ctx context.Context, stage, operation, status string, duration time.Duration) {
	if m == nil || m.dispatchesTotal == nil || m.dispatchDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStage, stage),
		attribute.String(attrOperation, OperationLabel(operation)),
		attribute.String(attrStatus, status),
	}

	m.dispatchesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocations == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordMessageProcessed counts a message that went through an inbox operation.
func (m *Metrics) RecordMessageProcessed(ctx context.Context, operation, status string) {
	if m == nil || m.messagesProcessed == nil {
		return
	}

	m.messagesProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOperation, OperationLabel(operation)),
		attribute.String(attrStatus, status),
	))
}
