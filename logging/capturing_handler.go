package logging

import (
	"context"
	"log/slog"
)

// CapturingHandler wraps an slog.Handler, storing every record in a
// Collector under a fixed activity name while passing it through to the
// underlying handler. The runner creates one per activity invocation.
type CapturingHandler struct {
	underlying   slog.Handler
	collector    *Collector
	activityName string
	attrs        []slog.Attr
}

// NewCapturingHandler creates a handler that captures records for the named
// activity while still emitting them through the underlying handler.
func NewCapturingHandler(underlying slog.Handler, collector *Collector, activityName string) *CapturingHandler {
	return &CapturingHandler{
		underlying:   underlying,
		collector:    collector,
		activityName: activityName,
	}
}

// Enabled always returns true so all levels are captured; the underlying
// handler still applies its own level filter in Handle.
func (h *CapturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

// Handle stores the record in the collector and forwards it.
func (h *CapturingHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := Entry{
		Time:       r.Time,
		Level:      r.Level.String(),
		Message:    r.Message,
		Attributes: make(map[string]any, r.NumAttrs()+len(h.attrs)),
	}

	for _, attr := range h.attrs {
		entry.Attributes[attr.Key] = resolveValue(attr.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.Attributes[a.Key] = resolveValue(a.Value)
		return true
	})

	h.collector.Add(h.activityName, entry)

	if h.underlying.Enabled(ctx, r.Level) {
		return h.underlying.Handle(ctx, r)
	}
	return nil
}

// WithAttrs must return a CapturingHandler, not the underlying handler, so
// capture survives .With() chains.
func (h *CapturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	return &CapturingHandler{
		underlying:   h.underlying.WithAttrs(attrs),
		collector:    h.collector,
		activityName: h.activityName,
		attrs:        merged,
	}
}

// WithGroup must likewise preserve the capturing wrapper.
func (h *CapturingHandler) WithGroup(name string) slog.Handler {
	return &CapturingHandler{
		underlying:   h.underlying.WithGroup(name),
		collector:    h.collector,
		activityName: h.activityName,
		attrs:        h.attrs,
	}
}

// resolveValue converts a slog.Value to a JSON-serializable value. Errors
// are stored as their message strings.
func resolveValue(v slog.Value) any {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time()
	case slog.KindGroup:
		attrs := v.Group()
		group := make(map[string]any, len(attrs))
		for _, attr := range attrs {
			group[attr.Key] = resolveValue(attr.Value)
		}
		return group
	default:
		any := v.Any()
		if err, ok := any.(error); ok {
			return err.Error()
		}
		return any
	}
}
