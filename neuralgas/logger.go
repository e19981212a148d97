package neuralgas

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with training-specific helpers.
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

	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	}))
}

// WithShard adds the shard rank to every record.
func (l *Logger) WithShard(rank int) *Logger {
	return &Logger{Logger: l.Logger.With("shard", rank)}
}

// LogIteration logs one completed training iteration.
// attrs carries optional key/value pairs (the quantization error when logged).
func (l *Logger) LogIteration(ctx context.Context, iteration int, lambda float64, attrs ...any) {
	args := append([]any{"iteration", iteration, "lambda", lambda}, attrs...)
	l.DebugContext(ctx, "iteration completed", args...)
}

// LogTrain logs the outcome of a Train call.
func (l *Logger) LogTrain(ctx context.Context, prototypes, iterations int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training failed",
			"prototypes", prototypes,
			"iterations", iterations,
			"error", err,
		)

		return
	}
	l.InfoContext(ctx, "training completed",
		"prototypes", prototypes,
		"iterations", iterations,
		"elapsed", elapsed,
	)
}

// LogUse logs an assignment call.
func (l *Logger) LogUse(ctx context.Context, objects int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "assignment failed",
			"objects", objects,
			"error", err,
		)

		return
	}
	l.DebugContext(ctx, "assignment completed", "objects", objects)
}
