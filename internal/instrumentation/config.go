package instrumentation

import (
	"errors"
	"fmt"
)

// Exporter names accepted by Config.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Label values shared by the recorders.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"
	StatusSkipped = "skipped"

	StageRule  = "rule"
	StageModel = "model"

	// OperationNone labels a dispatch that executed no operation.
	OperationNone = "none"
)

// Config selects the telemetry exporters. internal/config fills it from the
// INBOXAI_TELEMETRY_* and INBOXAI_AUDIT_* variables.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool

	// MetricsExporter is prometheus, otlp or stdout.
	MetricsExporter string
	// TracingExporter is otlp, stdout or none.
	TracingExporter string
	// OTLPEndpoint is the collector's host:port, without scheme.
	OTLPEndpoint string
	OTLPInsecure bool
	// TraceSamplingRate applies to root spans; children follow their parent.
	TraceSamplingRate float64

	// DetailedLabels adds the model name to model request metrics.
	DetailedLabels bool

	Audit AuditLoggingConfig
}

// AuditLoggingConfig controls the per-operation audit records.
type AuditLoggingConfig struct {
	Enabled bool
	// IncludePII logs the raw sender query of check_emails_from_sender.
	// Otherwise only its length is recorded.
	IncludePII bool
}

// DefaultConfig returns prometheus metrics, no tracing and audit records
// without sender queries.
func DefaultConfig() Config {
	return Config{
		ServiceName:       "inboxai",
		ServiceVersion:    "unknown",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
		TraceSamplingRate: 0.1,
		Audit:             AuditLoggingConfig{Enabled: true},
	}
}

var errNoOTLPEndpoint = errors.New("OTLP endpoint is required for the otlp exporter")

// Validate rejects exporter names and sampling rates the provider cannot use.
func (c Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %g", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return errNoOTLPEndpoint
		}
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return errNoOTLPEndpoint
		}
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	return nil
}
