package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/happyjobs/happyctl/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func jsonResponder(status int, body string, header http.Header) roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

func TestLoggingHTTPClientDebugLogsMetadataOnly(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := NewLoggingHTTPClientWithClient(&http.Client{
		Transport: jsonResponder(http.StatusOK, `{"success":true}`, http.Header{"Content-Type": {"application/json"}}),
	}, logger)

	ctx := log.WithHTTPLogContext(context.Background(), log.HTTPLogContext{Resource: "jobs"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"http://localhost:3000/api/admin/jobs?page=2&limit=10&token=secret", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-1")

	resp, err := client.Do(req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	logs := parseJSONLogs(t, logOutput.String())
	require.Len(t, logs, 2)

	requestLog := mustFindLogByType(t, logs, logTypeRequest)
	responseLog := mustFindLogByType(t, logs, logTypeResponse)

	assert.Equal(t, "GET", requestLog["method"])
	assert.Equal(t, "/api/admin/jobs", requestLog["route"])
	assert.Equal(t, "jobs", requestLog["resource"])

	query, ok := requestLog["query_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2", query["page"])
	assert.Equal(t, redactedValue, query["token"])

	assert.NotContains(t, requestLog, "request_body")
	assert.NotContains(t, responseLog, "response_body")
	assert.Equal(t, "req-1", responseLog["request_id"])
	assert.EqualValues(t, 200, responseLog["status_code"])
}

func TestLoggingHTTPClientTraceRedactsBodies(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: log.LevelTrace}))

	requestBody := `{"status":"shortlisted","password":"hunter2"}`
	responseBody := `{"success":true,"data":{"token":"abc","nested":[{"api_key":"k"}]}}`

	var seen string
	client := NewLoggingHTTPClientWithClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			b, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			seen = string(b)
			return jsonResponder(http.StatusOK, responseBody, http.Header{"Set-Cookie": {"sid=1"}})(req)
		}),
	}, logger)

	req, err := http.NewRequest(http.MethodPatch, "http://localhost:3000/api/admin/applications/1/status",
		strings.NewReader(requestBody))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := client.Do(req)
	require.NoError(t, err)

	assert.Equal(t, requestBody, seen)
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, responseBody, string(got))

	logs := parseJSONLogs(t, logOutput.String())
	requestLog := mustFindLogByType(t, logs, logTypeRequest)
	responseLog := mustFindLogByType(t, logs, logTypeResponse)

	assert.Contains(t, requestLog["request_body"], `"password":"`+redactedValue+`"`)
	assert.Contains(t, requestLog["request_body"], `"status":"shortlisted"`)
	headers := requestLog["request_headers"].(map[string]any)
	assert.Equal(t, redactedValue, headers["Authorization"])

	assert.NotContains(t, responseLog["response_body"], "abc")
	assert.Contains(t, responseLog["response_body"], `"api_key":"`+redactedValue+`"`)
	assert.Equal(t, redactedValue, responseLog["response_headers"].(map[string]any)["Set-Cookie"])
}

func TestLoggingHTTPClientSilentBelowDebug(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelInfo}))

	client := NewLoggingHTTPClientWithClient(&http.Client{
		Transport: jsonResponder(http.StatusNoContent, "", nil),
	}, logger)
	req, err := http.NewRequest(http.MethodGet, "http://localhost:3000/api/admin/jobs", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(logOutput.String()))
}

func parseJSONLogs(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var results []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &payload))
		results = append(results, payload)
	}
	return results
}

func mustFindLogByType(t *testing.T, logs []map[string]any, logType string) map[string]any {
	t.Helper()
	for _, entry := range logs {
		if entry["log_type"] == logType {
			return entry
		}
	}
	t.Fatalf("log type %q not found", logType)
	return nil
}
