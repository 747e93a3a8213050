package log

import (
	"context"
	"log/slog"

	"github.com/ErlanBelekov/trade-tally/internal/identity"
	"github.com/ErlanBelekov/trade-tally/internal/requestid"
)

// ContextHandler wraps an slog.Handler and stamps every record with the
// request ID and, for authenticated requests, the caller's id and username.
type ContextHandler struct {
	inner slog.Handler
}

func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := requestid.FromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	if caller, ok := identity.FromContext(ctx); ok && caller.ID != "" {
		r.AddAttrs(slog.String("user_id", caller.ID), slog.String("username", caller.Username))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
