package aagnet

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with aagnet-specific context.
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

// WithFile adds the analyzed file name to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// WithFaces adds a face count field to the logger.
func (l *Logger) WithFaces(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("faces", n),
	}
}

// WithModel adds the resolved checkpoint name to the logger.
func (l *Logger) WithModel(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("model", name),
	}
}

// LogAnalyze logs one analysis request.
func (l *Logger) LogAnalyze(ctx context.Context, file string, faces, features int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "analysis failed",
			"file", file,
			"faces", faces,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "analysis completed",
			"file", file,
			"faces", faces,
			"features", features,
		)
	}
}

// LogLoadModel logs a model load from the weight store.
func (l *Logger) LogLoadModel(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "model load failed",
			"model", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "model loaded",
			"model", name,
		)
	}
}

// LogReload logs an explicit weight reload.
func (l *Logger) LogReload(ctx context.Context, name string, throttled bool, err error) {
	switch {
	case throttled:
		l.WarnContext(ctx, "reload throttled")
	case err != nil:
		l.ErrorContext(ctx, "reload failed",
			"model", name,
			"error", err,
		)
	default:
		l.InfoContext(ctx, "reload completed",
			"model", name,
		)
	}
}
