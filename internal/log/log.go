// Package log wires slog so attributes attached to a context travel with
// every record logged under it.
package log

import (
	"context"
	"log/slog"
	"os"
)

type attrsKeyT struct{}

var attrsKey attrsKeyT

// ContextHandler adds the attrs stored in the record's context to every
// record it handles.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(handler slog.Handler) ContextHandler {
	return ContextHandler{Handler: handler}
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

// ContextAttrs returns a context carrying the given attrs in addition to any
// already present.
func ContextAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	existing, ok := ctx.Value(attrsKey).([]slog.Attr)
	if !ok || existing == nil {
		existing = make([]slog.Attr, 0, len(attrs))
	}
	existing = append(existing, attrs...)
	return context.WithValue(ctx, attrsKey, existing)
}

// New builds the default JSON logger on stderr. Verbose switches the level
// to debug.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	base := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	})
	return slog.New(NewContextHandler(base))
}
