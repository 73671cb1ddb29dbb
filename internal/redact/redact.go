// Package redact wraps an slog handler so key material and passphrases never
// reach the log sink.
package redact

import (
	"context"
	"log/slog"
	"strings"
)

const redactedValue = "[REDACTED]"

var sensitiveKeyParts = []string{"private", "secret", "passphrase", "mnemonic"}

type handler struct {
	next slog.Handler
}

func Wrap(next slog.Handler) slog.Handler {
	if next == nil {
		return nil
	}
	return &handler{next: next}
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(sanitize(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		sanitized = append(sanitized, sanitize(attr))
	}
	return &handler{next: h.next.WithAttrs(sanitized)}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{next: h.next.WithGroup(name)}
}

func sanitize(attr slog.Attr) slog.Attr {
	key := strings.ToLower(attr.Key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return slog.String(attr.Key, redactedValue)
		}
	}
	return attr
}
