// Package logger provides structured logging for the application using
// Go's standard library log/slog package, plus helpers for carrying a
// request-scoped logger through a context.Context.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/anwarji786/EnglishLearningApp/internal/config"
)

// Setup initializes the application's logging system from the provided
// configuration. It creates a structured JSON logger with the configured
// log level, sets it as the process default, and returns it.
//
// An unrecognized log level falls back to info; a warning is emitted on
// stderr so the misconfiguration is visible.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	level, ok := parseLevel(cfg.LogLevel)
	if !ok {
		level = slog.LevelInfo

		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	// Allows using the slog package functions directly (slog.Info, etc.)
	// anywhere a contextual logger has not been threaded through.
	slog.SetDefault(logger)

	return logger, nil
}

// parseLevel maps a case-insensitive level name to its slog.Level.
// The second return value reports whether the name was recognized.
func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
