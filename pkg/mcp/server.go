// Package mcp exposes document generation as MCP tools.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/propdoc/pkg/generator"
	"github.com/gnana997/propdoc/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// DocGenerator is the part of generator.Generator the tools call.
type DocGenerator interface {
	Generate(ctx context.Context, sourcePath string) (*generator.Result, error)
	Preview(ctx context.Context, sourcePath string) (*generator.Result, error)
}

// Options configure the server. Relative tool paths resolve against Root.
type Options struct {
	Root    string
	CallLog *mcplog.Logger // nil disables the call log
}

// Server implements the MCP server for propdoc.
type Server struct {
	mcpServer *server.MCPServer
	gen       DocGenerator
	root      string
	callLog   *mcplog.Logger
	logger    *slog.Logger
}

// NewServer creates a server backed by gen.
func NewServer(gen DocGenerator, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{gen: gen, root: opts.Root, callLog: opts.CallLog, logger: logger}

	s.mcpServer = server.NewMCPServer(
		"propdoc",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.loggingMiddleware()),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: generateDocTool(), Handler: s.handleGenerateDoc},
		server.ServerTool{Tool: previewPropsTool(), Handler: s.handlePreviewProps},
	)

	return s
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio", "root", s.root)
	return server.ServeStdio(s.mcpServer)
}
