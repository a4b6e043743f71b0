package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/propdoc/pkg/generator"
)

func (s *Server) handleGenerateDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, s.gen.Generate)
}

func (s *Server) handlePreviewProps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, s.gen.Preview)
}

type generateFunc func(ctx context.Context, sourcePath string) (*generator.Result, error)

// run resolves the path argument and reports generation failures as tool
// errors so the client sees the message.
func (s *Server) run(ctx context.Context, req mcp.CallToolRequest, fn generateFunc) (*mcp.CallToolResult, error) {
	path, errResult := s.sourcePath(req)
	if errResult != nil {
		return errResult, nil
	}

	res, err := fn(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return marshalToolResponse(res)
}

func (s *Server) sourcePath(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return "", mcp.NewToolResultError("invalid arguments format")
	}
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", mcp.NewToolResultError("path parameter is required")
	}
	if !filepath.IsAbs(path) && s.root != "" {
		path = filepath.Join(s.root, path)
	}
	return filepath.Clean(path), nil
}

func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
