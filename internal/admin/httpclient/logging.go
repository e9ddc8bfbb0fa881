package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/happyjobs/happyctl/internal/log"
)

const (
	logTypeRequest  = "http_request"
	logTypeResponse = "http_response"
	redactedValue   = "[REDACTED]"
	maxLoggedBody   = 4096

	// RequestIDHeader correlates a request with its response in the logs.
	RequestIDHeader = "X-Request-ID"
)

var sensitiveKeys = []string{"authorization", "password", "token", "secret", "api_key", "apikey", "cookie"}

// LoggingHTTPClient logs admin API traffic. Request and response metadata
// is logged at debug level, bodies at trace level with sensitive fields
// redacted.
type LoggingHTTPClient struct {
	wrapped *http.Client
	logger  *slog.Logger
}

// NewLoggingHTTPClient wraps a client with no timeout; callers bound
// requests through their context.
func NewLoggingHTTPClient(logger *slog.Logger) *LoggingHTTPClient {
	return NewLoggingHTTPClientWithClient(&http.Client{}, logger)
}

func NewLoggingHTTPClientWithClient(client *http.Client, logger *slog.Logger) *LoggingHTTPClient {
	return &LoggingHTTPClient{
		wrapped: client,
		logger:  logger,
	}
}

func (c *LoggingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if c.logger == nil || !c.logger.Enabled(ctx, slog.LevelDebug) {
		return c.wrapped.Do(req)
	}
	trace := c.logger.Enabled(ctx, log.LevelTrace)

	requestID := req.Header.Get(RequestIDHeader)
	base := append(log.HTTPLogContextAttrs(ctx),
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("route", req.URL.Path),
	)

	attrs := append([]slog.Attr{slog.String("log_type", logTypeRequest)}, base...)
	attrs = append(attrs,
		slog.Any("query_params", redactQuery(req.URL.Query())),
		slog.Any("request_headers", redactHeaders(req.Header)),
	)
	if trace && req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
		attrs = append(attrs, slog.String("request_body", redactBody(body)))
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "admin API request", attrs...)

	start := time.Now()
	resp, err := c.wrapped.Do(req)
	elapsed := time.Since(start)

	attrs = append([]slog.Attr{slog.String("log_type", logTypeResponse)}, base...)
	attrs = append(attrs, slog.Duration("duration", elapsed))
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		c.logger.LogAttrs(ctx, slog.LevelDebug, "admin API request failed", attrs...)
		return nil, err
	}

	attrs = append(attrs,
		slog.Int("status_code", resp.StatusCode),
		slog.Any("response_headers", redactHeaders(resp.Header)),
	)
	if trace && resp.Body != nil {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
		if readErr == nil {
			attrs = append(attrs, slog.String("response_body", redactBody(body)))
		}
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "admin API response", attrs...)

	return resp, nil
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitive(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func redactQuery(q url.Values) map[string]string {
	out := make(map[string]string, len(q))
	for k, v := range q {
		if isSensitive(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(v, ",")
	}
	return out
}

// redactBody masks sensitive keys of a JSON body. Non-JSON bodies are
// logged as-is, truncated.
func redactBody(body []byte) string {
	var payload any
	if err := json.Unmarshal(body, &payload); err == nil {
		if masked, err := json.Marshal(redactValue(payload)); err == nil {
			body = masked
		}
	}
	if len(body) > maxLoggedBody {
		return fmt.Sprintf("%s... [truncated, total %d bytes]", body[:maxLoggedBody], len(body))
	}
	return string(body)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if isSensitive(k) {
				t[k] = redactedValue
				continue
			}
			t[k] = redactValue(val)
		}
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
	}
	return v
}
