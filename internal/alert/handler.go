package alert

import (
	"context"
	"log/slog"
)

// alertSink is what the handler needs from the publisher.
type alertSink interface {
	Publish(ctx context.Context, level, logger, message string) error
}

// MirrorHandler is an slog.Handler that forwards every record to the
// wrapped handler and additionally publishes records at or above the
// threshold to the operator channel. Publish failures are dropped on the
// floor: alerting must never take the broadcast loop down.
type MirrorHandler struct {
	inner slog.Handler
	sink  alertSink
	min   slog.Level
	scope string
}

func NewMirrorHandler(inner slog.Handler, sink alertSink, min slog.Level) *MirrorHandler {
	return &MirrorHandler{inner: inner, sink: sink, min: min}
}

func (h *MirrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min || h.inner.Enabled(ctx, level)
}

func (h *MirrorHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= h.min && h.sink != nil {
		_ = h.sink.Publish(ctx, record.Level.String(), h.scope, record.Message)
	}
	if h.inner.Enabled(ctx, record.Level) {
		return h.inner.Handle(ctx, record)
	}
	return nil
}

// WithAttrs picks the component attribute up as the alert's logger scope,
// so an operator can tell which part of the system raised it.
func (h *MirrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scope := h.scope
	for _, a := range attrs {
		if a.Key == "component" {
			scope = a.Value.String()
		}
	}
	return &MirrorHandler{inner: h.inner.WithAttrs(attrs), sink: h.sink, min: h.min, scope: scope}
}

func (h *MirrorHandler) WithGroup(name string) slog.Handler {
	return &MirrorHandler{inner: h.inner.WithGroup(name), sink: h.sink, min: h.min, scope: h.scope}
}
