package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/happyjobs/happyctl/internal/admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", WithToken("staff-token"))
}

func requireAPIError(t *testing.T, err error) *APIError {
	t.Helper()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
	return apiErr
}

func TestRequestReturnsEnvelopeData(t *testing.T) {
	var got *http.Request
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `{"success":true,"data":{"ok":1}}`)
	})

	data, err := c.Request(context.Background(), http.MethodGet, "/admin/jobs",
		url.Values{"page": {"2"}, "limit": {"10"}}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":1}`, string(data))

	assert.Equal(t, "/api/admin/jobs", got.URL.Path)
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "Bearer staff-token", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get(RequestIDHeader))
	assert.Empty(t, got.Header.Get("Content-Type"))
}

func TestRequestSendsJSONBody(t *testing.T) {
	var body map[string]string
	var contentType string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	require.NoError(t, c.UpdateApplicationStatus(context.Background(), "app1", models.StatusShortlisted))
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]string{"status": "shortlisted"}, body)
}

func TestRequestErrorNormalization(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantStatus int
		wantMsg    string
	}{
		{"server message", 404, `{"success":false,"message":"User not found"}`, KindHTTP, 404, "User not found"},
		{"status fallback", 502, `<html>bad gateway</html>`, KindHTTP, 502, "HTTP status 502"},
		{"empty error body", 500, ``, KindHTTP, 500, "HTTP status 500"},
		{"success false", 200, `{"success":false,"message":"Invalid status"}`, KindHTTP, 200, "Invalid status"},
		{"success false no message", 200, `{"success":false}`, KindHTTP, 200, "request was not successful"},
		{"malformed", 200, `<!doctype html>`, KindMalformed, 200, "malformed response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Request(context.Background(), http.MethodGet, "/admin/jobs", nil, nil)
			apiErr := requireAPIError(t, err)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestRequestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(base).Request(context.Background(), http.MethodGet, "/admin/jobs", nil, nil)
	apiErr := requireAPIError(t, err)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Equal(t, "unreachable", apiErr.Message)
	assert.NotNil(t, apiErr.Unwrap())
	assert.Contains(t, apiErr.UserMessage(), "Unable to connect")
}

func TestListDecodesCollectionAndPagination(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/applications", r.URL.Path)
		assert.Equal(t, "rejected", r.URL.Query().Get("status"))
		_, _ = io.WriteString(w, `{"success":true,"data":{
			"applications":[{"_id":"a1","status":"rejected","appliedAt":"2025-03-01T00:00:00Z",
				"job":{"_id":"j1","title":"Driver","company":"Acme"},
				"applicant":{"_id":"u1","fullName":"Asha"},"resume":{"url":"https://cdn/r.pdf"}}],
			"pagination":{"pages":3,"total":21,"page":1}}}`)
	})

	page, err := c.ListApplications(context.Background(), url.Values{"status": {"rejected"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, Pagination{Pages: 3, Total: 21, Page: 1}, page.Pagination)
	assert.Equal(t, "Driver", page.Items[0].JobTitle())
	assert.Equal(t, "u1", page.Items[0].ApplicantID())
	assert.Equal(t, "https://cdn/r.pdf", page.Items[0].ResumeURL())
}

func TestListMissingCollectionIsEmpty(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{"pagination":{"pages":0,"total":0,"page":1}}}`)
	})

	page, err := c.ListJobs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestListWrongShapeIsMalformed(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{"jobseekers":"nope"}}`)
	})

	_, err := c.ListJobseekers(context.Background(), nil)
	assert.Equal(t, KindMalformed, requireAPIError(t, err).Kind)
}

func TestToggleAndProfilePaths(t *testing.T) {
	var paths []string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"success":true,"data":{"_id":"u1","fullName":"Asha","skills":["cooking"]}}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"isActive":false}}`)
	})

	require.NoError(t, c.ToggleUserStatus(context.Background(), "u1"))
	profile, err := c.UserProfile(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PATCH /api/admin/users/u1/toggle-status",
		"GET /api/admin/users/u1/profile",
	}, paths)
	assert.Equal(t, "Asha", profile.FullName)
	assert.Equal(t, []string{"cooking"}, profile.Skills)
}

func TestDashboardStatsIgnoresCharts(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{
			"stats":{"totalJobs":{"count":12,"delta":2.5}},
			"charts":{"jobseekersGrowth":[1,2,3]},
			"recentActivity":{"signups":[{"fullName":"Ravi","email":"r@x.in"}],"applications":[]}}}`)
	})

	stats, err := c.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Stats.TotalJobs.Count)
	assert.InDelta(t, 2.5, stats.Stats.TotalJobs.Delta, 0.001)
	require.Len(t, stats.RecentActivity.Signups, 1)
	assert.Equal(t, "Ravi", stats.RecentActivity.Signups[0].Who())
}

func TestAPIErrorText(t *testing.T) {
	err := &APIError{Kind: KindHTTP, Status: 404, Message: "User not found"}
	assert.Equal(t, "User not found (status 404)", err.Error())
	assert.Equal(t, "User not found", err.UserMessage())

	malformed := &APIError{Kind: KindMalformed, Message: "malformed response", Err: errors.New("eof")}
	assert.Equal(t, "malformed response: eof", malformed.Error())
	assert.Contains(t, malformed.UserMessage(), "not responding correctly")
}
