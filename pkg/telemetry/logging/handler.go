package logging

import (
	"context"
	"log/slog"
)

// redactingHandler redacts attributes and appends request-scoped context
// fields before delegating to the wrapped handler.
type redactingHandler struct {
	next     slog.Handler
	redactor *Redactor
}

// NewRedactingHandler wraps next. A nil redactor only adds context fields.
func NewRedactingHandler(next slog.Handler, redactor *Redactor) slog.Handler {
	return &redactingHandler{next: next, redactor: redactor}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, h.redactMessage(rec.Message), rec.PC)

	fields := ExtractContextFields(ctx)
	for i := 0; i+1 < len(fields); i += 2 {
		out.AddAttrs(slog.String(fields[i].(string), fields[i+1].(string)))
	}

	rec.Attrs(func(a slog.Attr) bool {
		if h.redactor != nil {
			a = h.redactor.RedactAttr(a)
		}
		out.AddAttrs(a)
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.redactor != nil {
		redactedAttrs := make([]slog.Attr, len(attrs))
		for i, a := range attrs {
			redactedAttrs[i] = h.redactor.RedactAttr(a)
		}
		attrs = redactedAttrs
	}
	return &redactingHandler{next: h.next.WithAttrs(attrs), redactor: h.redactor}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{next: h.next.WithGroup(name), redactor: h.redactor}
}

func (h *redactingHandler) redactMessage(msg string) string {
	if h.redactor == nil {
		return msg
	}
	return h.redactor.RedactString(msg)
}
