// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// KeyError is the slog attribute key for error values.
const KeyError = "error"

// New builds a logger writing text or json records at the given level.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Setup builds a logger and installs it as the slog default.
func Setup(level, format string, w io.Writer) *slog.Logger {
	logger := New(level, format, w)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
