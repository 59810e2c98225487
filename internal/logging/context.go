package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext returns a context carrying l. Processors started with it log
// through l instead of the global logger.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx, or the global logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return GetLogger()
}
