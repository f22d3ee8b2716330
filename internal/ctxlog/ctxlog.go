// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"log/slog"
	"os"
)

// LogLevelEnv is the environment variable that sets the log level.
// Recognized values are DEBUG, INFO, WARN and ERROR; anything else
// defaults to WARN.
const LogLevelEnv = "REPOBATCH_LOG_LEVEL"

type loggerKey struct{}

// LevelVar holds the process log level, initialized from LogLevelEnv.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is a pretty text logger used when no logger is provided.
// It writes to stderr so command output on stdout stays clean.
var DefaultLogger = slog.New(NewPrettyHandler(
	&slog.HandlerOptions{Level: LevelVar},
	WithAutoColour(),
	WithDestinationWriter(os.Stderr),
))

func init() {
	LevelVar.Set(logLevelFromEnv())
}

// New creates a new context carrying the given logger.
// If logger is nil, the default logger is used.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

func logLevelFromEnv() slog.Level {
	switch os.Getenv(LogLevelEnv) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
