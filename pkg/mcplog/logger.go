// Package mcplog records MCP tool calls as JSON lines.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
)

// LogEntry is one line of the call log.
type LogEntry struct {
	Ts            string  `json:"ts"`
	Tool          string  `json:"tool"`
	Path          string  `json:"path,omitempty"`
	DurationMs    int64   `json:"duration_ms"`
	ResponseBytes int     `json:"response_bytes"`
	IsError       bool    `json:"is_error"`
	Error         *string `json:"error"`
}

// Logger appends entries to a file and is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   afero.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories.
// An empty path returns nil, nil; callers treat a nil Logger as disabled.
func NewLogger(fs afero.Fs, path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// Entry builds the log line for a finished call.
func Entry(req mcp.CallToolRequest, start time.Time, result *mcp.CallToolResult, err error) LogEntry {
	entry := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          req.Params.Name,
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: ResponseBytes(result),
		IsError:       result != nil && result.IsError,
	}
	if path, ok := req.GetArguments()["path"].(string); ok {
		entry.Path = path
	}
	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	}
	return entry
}

// ResponseBytes is the serialized size of the result content, 0 for nil.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is a replaceable clock for testing.
var Now = time.Now
