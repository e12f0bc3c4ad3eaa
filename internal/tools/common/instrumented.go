package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"calagent/internal/instrumentation"
	"calagent/internal/logging"
)

// ToolHandler is the handler signature the MCP server dispatches to.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a tracing span and
// structured logging of the invocation outcome.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", logger, handler))
func InstrumentedToolHandler(toolName string, logger *slog.Logger, handler ToolHandler) ToolHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithTool(logger, toolName)

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := "success"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}
		if err != nil {
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		logger.Debug("tool handled",
			logging.Status(status),
			slog.Duration("duration", duration),
		)
		return result, err
	}
}
