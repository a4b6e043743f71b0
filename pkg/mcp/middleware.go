package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/propdoc/pkg/mcplog"
)

// loggingMiddleware logs every tool call and, when a call log is configured,
// appends it there as well.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			entry := mcplog.Entry(req, start, result, err)
			s.logger.Debug("tool call",
				"tool", entry.Tool,
				"path", entry.Path,
				"duration_ms", entry.DurationMs,
				"is_error", entry.IsError,
			)
			if s.callLog != nil {
				if werr := s.callLog.Write(entry); werr != nil {
					s.logger.Warn("cannot write call log", "error", werr)
				}
			}
			return result, err
		}
	}
}
