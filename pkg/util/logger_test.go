package util

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Debug("resolving module", "module", "@ui/button")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "resolving module", record["msg"])
	assert.Equal(t, "@ui/button", record["module"])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseLogFormat("json"))
	assert.Equal(t, FormatText, ParseLogFormat("text"))
	assert.Equal(t, FormatText, ParseLogFormat("other"))
}

func TestWorkersFor(t *testing.T) {
	assert.Equal(t, 1, WorkersFor(0))
	assert.Equal(t, 1, WorkersFor(1))
	assert.LessOrEqual(t, WorkersFor(1000), 32)
	assert.GreaterOrEqual(t, GetOptimalPoolSize(), 4)
}
