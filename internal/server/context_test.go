package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/inboxai/internal/instrumentation"
)

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, nil)

	assert.False(t, sc.IsShutdown())
	assert.NoError(t, sc.Context().Err())

	assert.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)

	// second call is a no-op
	assert.NoError(t, sc.Shutdown())
}

func TestServerContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sc := NewServerContext(parent, nil, nil)
	defer sc.Shutdown()

	cancel()
	<-sc.Context().Done()
	assert.False(t, sc.IsShutdown(), "only Shutdown marks the context as shut down")
}

func TestServerContext_Instrumentation(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, nil)
	defer sc.Shutdown()

	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
	assert.NoError(t, err)
	audit := instrumentation.NewAuditLogger(nil)

	sc.SetMetrics(metrics)
	sc.SetAuditLogger(audit)

	assert.Same(t, metrics, sc.Metrics())
	assert.Same(t, audit, sc.AuditLogger())
	assert.Nil(t, sc.Inbox())
	assert.Nil(t, sc.Dispatcher())
}
