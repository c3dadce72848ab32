package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "inboxai", config.ServiceName)
	assert.True(t, config.Enabled)
	assert.Equal(t, ExporterPrometheus, config.MetricsExporter)
	assert.Equal(t, ExporterNone, config.TracingExporter)
	assert.True(t, config.Audit.Enabled)
	assert.False(t, config.Audit.IncludePII, "sender queries stay out of audit records by default")
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name: "otlp traces to a collector",
			mutate: func(c *Config) {
				c.TracingExporter = ExporterOTLP
				c.OTLPEndpoint = "otel-collector:4318"
			},
		},
		{
			name: "otlp metrics without endpoint",
			mutate: func(c *Config) {
				c.MetricsExporter = ExporterOTLP
			},
			errContains: "OTLP endpoint is required",
		},
		{
			name: "otlp traces without endpoint",
			mutate: func(c *Config) {
				c.TracingExporter = ExporterOTLP
			},
			errContains: "OTLP endpoint is required",
		},
		{
			name: "unknown metrics exporter",
			mutate: func(c *Config) {
				c.MetricsExporter = "statsd"
			},
			errContains: "invalid metrics exporter",
		},
		{
			name: "unknown tracing exporter",
			mutate: func(c *Config) {
				c.TracingExporter = "jaeger"
			},
			errContains: "invalid tracing exporter",
		},
		{
			name: "sampling rate above 1",
			mutate: func(c *Config) {
				c.TraceSamplingRate = 1.5
			},
			errContains: "sampling rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errContains)
		})
	}
}
