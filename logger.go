package owlgo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/owlgo/model"
)

// Logger wraps slog.Logger with owlgo-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithEngineID tags every record with the engine id.
func (l *Logger) WithEngineID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("engine_id", id),
	}
}

// WithCapacity adds a capacity field to the logger.
func (l *Logger) WithCapacity(capacity uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("capacity", capacity),
	}
}

// LogMutation logs a single axiom mutation.
func (l *Logger) LogMutation(ctx context.Context, a model.Axiom, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mutation rejected",
			"kind", a.Kind.String(),
			"subject", a.Subject,
			"object", a.Object,
			"error", err,
		)
		return
	}
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.DebugContext(ctx, "axiom added",
		"axiom", a.String(),
	)
}

// LogMaterialize logs a materialization run.
func (l *Logger) LogMaterialize(ctx context.Context, res model.MaterializeResult, err error) {
	if err != nil {
		l.WarnContext(ctx, "materialization incomplete",
			"passes", res.Passes,
			"rows_changed", res.RowsChanged,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "materialization completed",
		"passes", res.Passes,
		"rows_changed", res.RowsChanged,
		"rows_visited", res.RowsVisited,
		"equivalences_derived", res.EquivalencesDerived,
		"disjoints_derived", res.DisjointsDerived,
		"axioms", res.Axioms,
		"cycles", res.Cycles,
		"duration", res.Duration,
	)
}

// LogIntegrity logs an integrity check.
func (l *Logger) LogIntegrity(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "integrity check failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "integrity check passed")
	}
}

// LogRebuild logs a capacity migration.
func (l *Logger) LogRebuild(ctx context.Context, from, to uint32, axioms int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "rebuild failed",
			"from", from,
			"to", to,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "rebuild completed",
			"from", from,
			"to", to,
			"axioms", axioms,
		)
	}
}
