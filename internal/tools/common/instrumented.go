package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"

	"github.com/bkscholar/scholar/internal/instrumentation"
	"github.com/bkscholar/scholar/internal/server"
)

// errToolResult stands in for a handler that reported failure through an
// error result rather than a Go error.
var errToolResult = errors.New("tool returned an error result")

// InstrumentedToolHandlerWithService wraps handler with a tool span,
// invocation and Google API metrics, and an audit log line.
//
// Usage:
//
//	r.Register(tool, common.InstrumentedToolHandlerWithService("delete_calendar_event", "calendar", "delete_event", sc, handler))
func InstrumentedToolHandlerWithService(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler mcpserver.ToolHandlerFunc,
) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(serviceName, operation).
			WithTarget(TargetFromArgs(args))

		googleAPI := serviceName == instrumentation.ServiceCalendar || serviceName == instrumentation.ServiceDrive
		handlerCtx := ctx
		var apiSpan trace.Span
		if googleAPI {
			handlerCtx, apiSpan = instrumentation.StartGoogleAPISpan(ctx, serviceName, operation)
		}

		result, err := handler(handlerCtx, request)
		duration := time.Since(start)

		failure := err
		if failure == nil && result != nil && result.IsError {
			failure = errToolResult
			if text := resultText(result); text != "" {
				failure = errors.New(text)
			}
		}
		invocation.Complete(failure)
		if apiSpan != nil {
			instrumentation.EndSpan(apiSpan, failure)
		}
		instrumentation.EndSpan(span, failure)

		metrics := sc.Metrics()
		metrics.RecordToolInvocation(ctx, toolName, invocation.Status(), duration)
		if googleAPI {
			metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, invocation.Status(), duration)
		}
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
