package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/inboxai/internal/command"
	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/server"
)

// SurfaceMCP labels audit records of tool calls.
const SurfaceMCP = "mcp"

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with metrics and audit logging.
// It records tool invocation metrics and logs the invocation for audit purposes.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		invocation := instrumentation.NewOperationInvocation(toolName).
			WithSurface(SurfaceMCP).
			WithSpanContext(ctx)

		if arg := StringArg(request.GetArguments(), command.SenderQueryArg); arg != "" {
			invocation.WithArgument(arg)
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
		default:
			invocation.CompleteSuccess()
		}

		metrics.RecordToolInvocation(ctx, toolName, status, duration)
		auditLogger.LogOperation(invocation)

		return result, err
	}
}

// StringArg returns args[key] when it is a string, or "".
func StringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}
