package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With returns a copy of ctx whose logger carries the extra fields.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// Lookup returns the logger installed by With, if any.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	return l, ok
}

// From returns the context logger, or the process logger when none is set.
func From(ctx context.Context) *slog.Logger {
	if l, ok := Lookup(ctx); ok {
		return l
	}
	return LoggerWrapper()
}
