package ipheat

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with heat-map-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithBitsPerPixel adds a bits_per_pixel field to the logger.
func (l *Logger) WithBitsPerPixel(bits int) *Logger {
	return &Logger{
		Logger: l.Logger.With("bits_per_pixel", bits),
	}
}

// WithSide adds the image side length to the logger.
func (l *Logger) WithSide(side uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("side", side),
	}
}

// LogSkippedLine logs a non-fatal range parse failure.
func (l *Logger) LogSkippedLine(line int, token string, err error) {
	l.Warn("failed to parse range, skipping line",
		"line", line,
		"token", token,
		"error", err,
	)
}

// LogIngest logs the outcome of an ingestion pass.
func (l *Logger) LogIngest(ctx context.Context, lines, skipped int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"lines", lines,
			"skipped", skipped,
			"duration", duration,
			"error", err,
		)
	} else if skipped > 0 {
		l.WarnContext(ctx, "ingest completed with skipped lines",
			"lines", lines,
			"skipped", skipped,
			"duration", duration,
		)
	} else {
		l.DebugContext(ctx, "ingest completed",
			"lines", lines,
			"duration", duration,
		)
	}
}

// LogRender logs the outcome of a render pass.
func (l *Logger) LogRender(painted uint64, duration time.Duration, err error) {
	if err != nil {
		l.Error("render failed",
			"painted_pixels", painted,
			"duration", duration,
			"error", err,
		)
	} else {
		l.Debug("render completed",
			"painted_pixels", painted,
			"duration", duration,
		)
	}
}
