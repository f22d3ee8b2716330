// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		logger *slog.Logger
	}{
		{
			name:   "with custom logger",
			logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
		},
		{
			name:   "with nil logger should use default",
			logger: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := New(context.Background(), tt.logger)

			got := Logger(ctx)
			require.NotNil(t, got)

			if tt.logger == nil {
				assert.Same(t, DefaultLogger, got)
			} else {
				assert.Same(t, tt.logger, got)
			}
		})
	}
}

func TestLogger_NoLoggerInContext(t *testing.T) {
	got := Logger(context.Background())
	assert.Same(t, DefaultLogger, got)
}

func TestPrettyHandler_WritesMessageAndAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPrettyHandler(
		&slog.HandlerOptions{Level: slog.LevelDebug},
		WithDestinationWriter(buf),
	))

	ctx := New(context.Background(), logger)
	Info(ctx, "discovered projects", "count", 3)

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "discovered projects")
	assert.Contains(t, out, "count")
	assert.Contains(t, out, "3")
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPrettyHandler(
		&slog.HandlerOptions{Level: slog.LevelWarn},
		WithDestinationWriter(buf),
	))

	ctx := New(context.Background(), logger)
	Debug(ctx, "should not appear")
	Warn(ctx, "should appear")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
}

func TestPrettyHandler_NoAttrsOmitsBlock(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPrettyHandler(
		&slog.HandlerOptions{Level: slog.LevelDebug},
		WithDestinationWriter(buf),
	))

	logger.Info("bare message")

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(line, "bare message"), "expected no attribute block, got %q", line)
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelWarn},
		{"", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			t.Setenv(LogLevelEnv, tt.value)
			assert.Equal(t, tt.want, logLevelFromEnv())
		})
	}
}
