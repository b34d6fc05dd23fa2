package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs a logger for the named service. LOG_LEVEL selects the minimum level and
// LOG_FORMAT=json switches from the default text handler to JSON.
func New(service string) *slog.Logger {
	return NewWithWriter(service, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(service string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", service)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
