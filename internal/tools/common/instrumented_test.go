package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/server"
)

func newServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc := server.NewServerContext(context.Background(), nil, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandler_NoInstrumentation(t *testing.T) {
	sc := newServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	result, err := InstrumentedToolHandler("test_tool", sc, handler)(context.Background(), callRequest(nil))

	require.NoError(t, err)
	assert.True(t, called)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandler_Outcomes(t *testing.T) {
	handlerErr := errors.New("inbox unavailable")

	tests := []struct {
		name      string
		handler   ToolHandler
		args      map[string]any
		wantErr   error
		wantLog   string
		wantLevel string
	}{
		{
			name: "success",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText("ok"), nil
			},
			wantLog:   "operation_executed",
			wantLevel: "INFO",
		},
		{
			name: "go error",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return nil, handlerErr
			},
			wantErr:   handlerErr,
			wantLog:   "operation_failed",
			wantLevel: "WARN",
		},
		{
			name: "error result",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultError("bad input"), nil
			},
			wantLog:   "operation_failed",
			wantLevel: "WARN",
		},
		{
			name: "sender argument recorded",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText("ok"), nil
			},
			args:      map[string]any{"sender_query": "github"},
			wantLog:   "github",
			wantLevel: "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newServerContext(t)

			metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
			require.NoError(t, err)
			sc.SetMetrics(metrics)

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			sc.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger,
				instrumentation.AuditLoggingConfig{Enabled: true, IncludePII: true}))

			_, err = InstrumentedToolHandler("check_emails_from_sender", sc, tt.handler)(
				context.Background(), callRequest(tt.args))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			out := buf.String()
			assert.Contains(t, out, tt.wantLog)
			assert.Contains(t, out, "level="+tt.wantLevel)
			assert.Contains(t, out, "check_emails_from_sender")
			assert.Contains(t, out, SurfaceMCP)
		})
	}
}

func TestStringArg(t *testing.T) {
	args := map[string]any{"a": "x", "b": 3}
	assert.Equal(t, "x", StringArg(args, "a"))
	assert.Equal(t, "", StringArg(args, "b"))
	assert.Equal(t, "", StringArg(args, "missing"))
	assert.Equal(t, "", StringArg(nil, "a"))
}
