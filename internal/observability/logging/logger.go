// Package logging provides structured logging utilities using the standard
// library's log/slog package. It offers helper functions for creating loggers
// with consistent configuration and for attaching run-scoped attributes.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger creates a new structured logger with JSON output.
// The log level can be controlled via the LOG_LEVEL environment variable.
// Supported levels: debug, info, warn, error
// Default level: info
func NewLogger() *slog.Logger {
	logLevel := levelFromEnv()

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
		// Add source code location for error and warn levels
		AddSource: logLevel <= slog.LevelWarn,
	})

	return slog.New(handler)
}

// NewTextLogger creates a new structured logger with colorized,
// human-readable output via tint. This is the handler for local runs.
func NewTextLogger() *slog.Logger {
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      levelFromEnv(),
		TimeFormat: time.TimeOnly,
	})

	return slog.New(handler)
}

// WithRunID returns a new logger carrying the export run identifier, so all
// log lines of one run can be correlated.
func WithRunID(logger *slog.Logger, runID string) *slog.Logger {
	if runID == "" {
		return logger
	}
	return logger.With(slog.String("run_id", runID))
}

// FromContext retrieves the logger from the context, or returns the default
// logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type contextKey string

const loggerContextKey contextKey = "logger"
