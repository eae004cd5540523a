// Package logging configures structured logging for the server.
//
// Usage:
//
//	logging.Setup("debug", true)   // colored tint output for development
//	logging.Setup("info", false)   // JSON lines for production
//
// Levels: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger. Development gets colored tint
// output on stderr; production gets JSON on stdout.
func Setup(level string, development bool) *slog.Logger {
	var logger *slog.Logger
	if development {
		logger = New(os.Stderr, ParseLevel(level), true)
	} else {
		logger = New(os.Stdout, ParseLevel(level), false)
	}
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w.
func New(w io.Writer, level slog.Level, colored bool) *slog.Logger {
	if colored {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
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
