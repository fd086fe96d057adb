package vecdot

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vecdot-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithOp adds an operation name field to the logger.
func (l *Logger) WithOp(op string) *Logger {
	return &Logger{
		Logger: l.Logger.With("op", op),
	}
}

// WithN adds an element count field to the logger.
func (l *Logger) WithN(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("n", n),
	}
}

// WithBatch adds a batch count field to the logger.
func (l *Logger) WithBatch(batch int) *Logger {
	return &Logger{
		Logger: l.Logger.With("batch", batch),
	}
}

// LogReduction logs a completed or failed reduction.
func (l *Logger) LogReduction(ctx context.Context, op string, n, batch int, kernel string, blocks int, placement string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reduction failed",
			"op", op,
			"n", n,
			"batch", batch,
			"kernel", kernel,
			"placement", placement,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "reduction completed",
			"op", op,
			"n", n,
			"batch", batch,
			"kernel", kernel,
			"blocks", blocks,
			"placement", placement,
		)
	}
}

// LogNumerics logs non-finite or subnormal inputs found by numerics checking.
func (l *Logger) LogNumerics(ctx context.Context, level slog.Level, op string, invalidEntries, badElements, denormalEntries uint64) {
	l.Log(ctx, level, "numerics check found abnormal inputs",
		"op", op,
		"invalid_entries", invalidEntries,
		"bad_elements", badElements,
		"denormal_entries", denormalEntries,
	)
}

// LogSizeQuery logs a workspace size recorded in size query mode.
func (l *Logger) LogSizeQuery(ctx context.Context, op string, bytes int64) {
	l.DebugContext(ctx, "workspace size recorded",
		"op", op,
		"bytes", bytes,
	)
}
