package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// NewFriendlyErrorHandler renders error records for a person reading a
// terminal: the message first, a suggestion when present, then the
// remaining attributes sorted by key.
func NewFriendlyErrorHandler(w io.Writer) slog.Handler {
	return &friendlyHandler{w: w}
}

type friendlyHandler struct {
	w      io.Writer
	fields []field
	prefix string
}

type field struct {
	key   string
	value string
}

func (h *friendlyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *friendlyHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, 0, len(h.fields)+record.NumAttrs())
	fields = append(fields, h.fields...)
	record.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify(a))
		return true
	})

	summary := strings.TrimSpace(record.Message)
	var suggestion string
	rest := fields[:0:0]
	for _, f := range fields {
		switch {
		case f.value == "":
		case f.key == "error":
			if summary == "" {
				summary = f.value
			}
		case f.key == "suggestion":
			suggestion = f.value
		default:
			rest = append(rest, f)
		}
	}
	if summary == "" {
		summary = "an unknown error occurred"
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].key < rest[j].key })

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", summary)
	if suggestion != "" {
		fmt.Fprintf(&sb, "  suggestion: %s\n", suggestion)
	}
	for _, f := range rest {
		lines := strings.Split(f.value, "\n")
		fmt.Fprintf(&sb, "  %s: %s\n", f.key, strings.TrimSpace(lines[0]))
		for _, line := range lines[1:] {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(&sb, "    %s\n", line)
			}
		}
	}

	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *friendlyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = make([]field, 0, len(h.fields)+len(attrs))
	next.fields = append(next.fields, h.fields...)
	for _, a := range attrs {
		next.fields = append(next.fields, h.qualify(a))
	}
	return &next
}

func (h *friendlyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *friendlyHandler) qualify(a slog.Attr) field {
	return field{key: h.prefix + a.Key, value: strings.TrimSpace(render(a.Value))}
}

func render(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, a.Key+"="+render(a.Value))
		}
		return strings.Join(parts, ", ")
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}
