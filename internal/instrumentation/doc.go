// Package instrumentation provides OpenTelemetry instrumentation for inboxai.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Mail Provider Metrics:
//   - mail_provider_calls_total: Counter of provider calls by provider, operation, status
//   - mail_provider_call_duration_seconds: Histogram of provider call durations
//
// Model Metrics:
//   - model_requests_total: Counter of chat completion requests by operation and status
//   - model_request_duration_seconds: Histogram of model request durations
//
// Pipeline Metrics:
//   - attachment_extractions_total: Counter of extractions by kind and status
//   - attachment_extraction_duration_seconds: Histogram of extraction durations
//   - messages_processed_total: Counter of messages handled per operation
//
// Dispatch Metrics:
//   - command_dispatches_total: Counter of dispatches by stage, operation, status
//   - command_dispatch_duration_seconds: Histogram of dispatch durations
//   - mcp_tool_invocations_total / mcp_tool_duration_seconds for the MCP surface
//
// # Tracing
//
// Spans are created for catalog operations (operation.<name>), provider calls
// (mail.<provider>.<operation>) and model requests (llm.<operation>).
//
// # Configuration
//
// Config is filled by internal/config:
//   - INBOXAI_TELEMETRY_ENABLED (default: true)
//   - INBOXAI_TELEMETRY_METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - INBOXAI_TELEMETRY_TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - INBOXAI_TELEMETRY_OTLP_ENDPOINT, INBOXAI_TELEMETRY_OTLP_INSECURE
//   - INBOXAI_TELEMETRY_SAMPLING_RATE (default: 0.1)
//   - INBOXAI_AUDIT_ENABLED, INBOXAI_AUDIT_INCLUDE_PII
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordDispatch(ctx, instrumentation.StageRule,
//		"check_emails_from_sender", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
