package log

import (
	"context"
	"log/slog"
	"strings"
)

type httpLogContextKey struct{}

// HTTPLogContext is metadata attached to the trace logs of admin API calls.
type HTTPLogContext struct {
	CommandPath string
	CommandVerb string
	Resource    string
	// RequestToken is the fetch token that triggered the call, if any.
	RequestToken string
}

var HTTPLogContextKey = httpLogContextKey{}

// WithHTTPLogContext merges the non-empty fields of update into ctx.
func WithHTTPLogContext(ctx context.Context, update HTTPLogContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	current := HTTPLogContextFromContext(ctx)
	merge(&current.CommandPath, update.CommandPath)
	merge(&current.CommandVerb, update.CommandVerb)
	merge(&current.Resource, update.Resource)
	merge(&current.RequestToken, update.RequestToken)
	return context.WithValue(ctx, HTTPLogContextKey, current)
}

func HTTPLogContextFromContext(ctx context.Context) HTTPLogContext {
	if ctx == nil {
		return HTTPLogContext{}
	}
	if v, ok := ctx.Value(HTTPLogContextKey).(HTTPLogContext); ok {
		return v
	}
	return HTTPLogContext{}
}

// HTTPLogContextAttrs converts the metadata in ctx to slog attributes,
// skipping empty fields.
func HTTPLogContextAttrs(ctx context.Context) []slog.Attr {
	meta := HTTPLogContextFromContext(ctx)
	attrs := make([]slog.Attr, 0, 4)
	for _, kv := range [...][2]string{
		{"command_path", meta.CommandPath},
		{"command_verb", meta.CommandVerb},
		{"resource", meta.Resource},
		{"request_token", meta.RequestToken},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			attrs = append(attrs, slog.String(kv[0], v))
		}
	}
	return attrs
}

func merge(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}
