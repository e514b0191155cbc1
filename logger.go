package simdmem

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/simdmem/lane"
)

// Logger wraps slog.Logger with simdmem-specific context.
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

// WithShape adds a shape field (e.g. "float32x8") to the logger.
func (l *Logger) WithShape(d lane.Desc) *Logger {
	return &Logger{
		Logger: l.Logger.With("shape", d.String()),
	}
}

// WithName adds a name field to the logger (useful for tagging static buffers).
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// WithBytes adds a bytes field to the logger.
func (l *Logger) WithBytes(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("bytes", n),
	}
}

// LogAllocate logs an allocation.
func (l *Logger) LogAllocate(size, align int, err error) {
	if err != nil {
		l.Error("allocate failed",
			"size", size,
			"align", align,
			"error", err,
		)
	} else {
		l.Debug("allocate completed",
			"size", size,
			"align", align,
		)
	}
}

// LogReallocate logs a reallocation during container growth.
func (l *Logger) LogReallocate(size, align int, err error) {
	if err != nil {
		l.Error("reallocate failed",
			"size", size,
			"align", align,
			"error", err,
		)
	} else {
		l.Debug("reallocate completed",
			"size", size,
			"align", align,
		)
	}
}

// LogFree logs a release back to the allocator.
func (l *Logger) LogFree(size int) {
	l.Debug("free completed",
		"size", size,
	)
}

// LogSave logs a snapshot save operation.
func (l *Logger) LogSave(ctx context.Context, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot save failed",
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"bytes", bytes,
		)
	}
}

// LogLoad logs a snapshot load operation.
func (l *Logger) LogLoad(ctx context.Context, vectors int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"vectors", vectors,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"vectors", vectors,
		)
	}
}
