package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/extractor"
	"github.com/gnana997/propdoc/pkg/generator"
	"github.com/gnana997/propdoc/pkg/mcplog"
	"github.com/gnana997/propdoc/pkg/util"
)

type fakeGenerator struct {
	generated []string
	previewed []string
	err       error
}

func (f *fakeGenerator) result(path string, action generator.Action) *generator.Result {
	return &generator.Result{
		SourcePath:    path,
		DocPath:       generator.DocPath(path, ".md"),
		ComponentName: generator.ComponentName(path),
		PropsType:     "CardProps",
		Rows:          []extractor.PropertyRow{{Name: "title", Description: "标题", Type: "string", Default: extractor.NoDefault}},
		Action:        action,
	}
}

func (f *fakeGenerator) Generate(_ context.Context, path string) (*generator.Result, error) {
	f.generated = append(f.generated, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.result(path, generator.ActionCreated), nil
}

func (f *fakeGenerator) Preview(_ context.Context, path string) (*generator.Result, error) {
	f.previewed = append(f.previewed, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.result(path, generator.ActionCreated), nil
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

func TestHandleGenerateDoc(t *testing.T) {
	gen := &fakeGenerator{}
	s := NewServer(gen, Options{Root: "/proj"}, util.DiscardLogger())

	result, err := s.handleGenerateDoc(context.Background(), makeRequest(toolGenerateDoc, map[string]any{"path": "src/Card.tsx"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{"/proj/src/Card.tsx"}, gen.generated)

	var res generator.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
	assert.Equal(t, "/proj/src/Card.md", res.DocPath)
	assert.Equal(t, generator.ActionCreated, res.Action)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "title", res.Rows[0].Name)
}

func TestHandlePreviewProps_AbsolutePath(t *testing.T) {
	gen := &fakeGenerator{}
	s := NewServer(gen, Options{Root: "/proj"}, nil)

	result, err := s.handlePreviewProps(context.Background(), makeRequest(toolPreviewProps, map[string]any{"path": "/other/./Button.tsx"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{"/other/Button.tsx"}, gen.previewed)
	assert.Empty(t, gen.generated)
}

func TestHandlers_ArgumentErrors(t *testing.T) {
	s := NewServer(&fakeGenerator{}, Options{}, util.DiscardLogger())

	tests := []struct {
		name string
		args map[string]any
	}{
		{"no arguments", nil},
		{"missing path", map[string]any{}},
		{"empty path", map[string]any{"path": ""}},
		{"wrong type", map[string]any{"path": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleGenerateDoc(context.Background(), makeRequest(toolGenerateDoc, tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestHandlers_GeneratorErrorIsToolError(t *testing.T) {
	s := NewServer(&fakeGenerator{err: errors.New("project root not found")}, Options{}, util.DiscardLogger())

	result, err := s.handlePreviewProps(context.Background(), makeRequest(toolPreviewProps, map[string]any{"path": "/p/Card.tsx"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "project root not found")
}

func TestLoggingMiddleware_WritesCallLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	callLog, err := mcplog.NewLogger(fs, "/logs/mcp.jsonl")
	require.NoError(t, err)

	s := NewServer(&fakeGenerator{}, Options{Root: "/proj", CallLog: callLog}, util.DiscardLogger())
	handler := s.loggingMiddleware()(s.handleGenerateDoc)

	_, err = handler(context.Background(), makeRequest(toolGenerateDoc, map[string]any{"path": "Card.tsx"}))
	require.NoError(t, err)
	require.NoError(t, callLog.Close())

	data, err := afero.ReadFile(fs, "/logs/mcp.jsonl")
	require.NoError(t, err)
	var entry mcplog.LogEntry
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, toolGenerateDoc, entry.Tool)
	assert.Equal(t, "Card.tsx", entry.Path)
	assert.False(t, entry.IsError)
}

func TestRegisteredTools(t *testing.T) {
	for _, tool := range []mcp.Tool{generateDocTool(), previewPropsTool()} {
		assert.Contains(t, tool.InputSchema.Required, "path", tool.Name)
	}
}
