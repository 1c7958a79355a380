package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), "ParseLevel(%q)", input)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", &buf)

	logger.Debug("hidden")
	logger.Warn("hint stage failed", "stage", "a2a")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hint stage failed", record["msg"])
	assert.Equal(t, "a2a", record["stage"])
	assert.Equal(t, "WARN", record["level"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "text", &buf)

	logger.Debug("visible", KeyError, "boom")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "error=boom")
}
