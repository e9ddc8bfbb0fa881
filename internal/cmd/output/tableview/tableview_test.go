package tableview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyjobs/happyctl/internal/admin/apiclient"
	"github.com/happyjobs/happyctl/internal/admin/resources"
	"github.com/happyjobs/happyctl/internal/iostreams"
	"github.com/happyjobs/happyctl/internal/theme"
)

type fakeAdmin struct {
	mu        sync.Mutex
	statuses  map[string]string
	active    map[string]bool
	lists     []string
	profiles  int
	failPatch bool
}

func (f *fakeAdmin) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists)
}

func (f *fakeAdmin) profileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles
}

func (f *fakeAdmin) lastList() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists[len(f.lists)-1]
}

func (f *fakeAdmin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method == http.MethodPatch && f.failPatch {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"success":false,"message":"database unavailable"}`)
		return
	}

	switch {
	case r.URL.Path == "/admin/applications" || r.URL.Path == "/admin/jobseekers":
		f.lists = append(f.lists, r.URL.Path+"?"+r.URL.RawQuery)
		f.list(w, r)
	case strings.HasPrefix(r.URL.Path, "/admin/applications/"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/admin/applications/"), "/status")
		var body struct {
			Status string `json:"status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.statuses[id] = body.Status
		_, _ = io.WriteString(w, `{"success":true}`)
	case strings.HasSuffix(r.URL.Path, "/toggle-status"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/admin/users/"), "/toggle-status")
		f.active[id] = !f.active[id]
		_, _ = io.WriteString(w, `{"success":true}`)
	case strings.HasSuffix(r.URL.Path, "/profile"):
		f.profiles++
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/admin/users/"), "/profile")
		_, _ = fmt.Fprintf(w, `{"success":true,"data":{"_id":%q,"fullName":"Asha Rao","isActive":%t,"skills":["welding"]}}`,
			id, f.active[id])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAdmin) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := 1, 10
	_, _ = fmt.Sscan(q.Get("page"), &page)
	_, _ = fmt.Sscan(q.Get("limit"), &limit)

	var rows []map[string]any
	for i := range 12 {
		if r.URL.Path == "/admin/jobseekers" {
			id := fmt.Sprintf("js%02d", i)
			rows = append(rows, map[string]any{
				"_id": id, "fullName": fmt.Sprintf("Seeker %d", i), "email": id + "@example.com",
				"isActive": f.active[id], "createdAt": "2024-01-02T00:00:00Z",
			})
			continue
		}
		id := fmt.Sprintf("app%02d", i)
		if s := q.Get("status"); s != "" && s != f.statuses[id] {
			continue
		}
		rows = append(rows, map[string]any{
			"_id":       id,
			"job":       map[string]string{"title": "Welder", "company": "Acme"},
			"applicant": map[string]string{"_id": "js00", "fullName": "Asha Rao"},
			"status":    f.statuses[id],
			"appliedAt": "2024-03-05T10:00:00Z",
		})
	}
	start := min((page-1)*limit, len(rows))
	end := min(start+limit, len(rows))
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data": map[string]any{
			strings.TrimPrefix(r.URL.Path, "/admin/"): rows[start:end],
			"pagination": map[string]int{"pages": max((len(rows)+limit-1)/limit, 1), "total": len(rows), "page": page},
		},
	})
}

func newFakeAdmin(t *testing.T) (*fakeAdmin, *apiclient.Client) {
	t.Helper()
	f := &fakeAdmin{statuses: map[string]string{}, active: map[string]bool{}}
	for i := range 12 {
		f.statuses[fmt.Sprintf("app%02d", i)] = "pending"
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, apiclient.New(srv.URL)
}

func executeCmd(t *testing.T, mdl *model, cmd tea.Cmd) *model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil {
			continue
		}
		msg := current()
		switch m := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(m)...)
			continue
		case tea.QuitMsg, nil:
			continue
		}
		updated, next := mdl.Update(msg)
		bm, ok := updated.(*model)
		require.True(t, ok)
		mdl = bm
		if next != nil {
			queue = append(queue, next)
		}
	}
	return mdl
}

func press(t *testing.T, m *model, keys string) *model {
	t.Helper()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	}
	updated, cmd := m.Update(msg)
	return executeCmd(t, updated.(*model), cmd)
}

func startSession(t *testing.T, cfg Config) *model {
	t.Helper()
	m := newSession(context.Background(), cfg, 140, 40)
	return executeCmd(t, m, m.Init())
}

func plain(m *model) string {
	return ansi.Strip(m.View())
}

func TestViewerHomeOpensCollection(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, PageSize: 5})
	require.Equal(t, screenHome, m.screen)
	assert.Contains(t, plain(m), "Review and manage job applications")
	assert.Equal(t, 0, api.listCount())

	m = press(t, m, "j")
	m = press(t, m, "enter")
	require.Equal(t, screenList, m.screen)
	assert.Equal(t, resources.Companies, m.kind)

	m = press(t, m, "esc")
	assert.Equal(t, screenHome, m.screen)
}

func TestViewerPagesThroughApplications(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, PageSize: 5, Initial: resources.Applications})

	out := plain(m)
	assert.Contains(t, out, "HappyJobs admin › Applications")
	assert.Contains(t, out, "Page 1 of 3 · 12 total")
	assert.Contains(t, out, "app00")

	m = press(t, m, "n")
	assert.Contains(t, plain(m), "Page 2 of 3")
	assert.Contains(t, api.lastList(), "page=2")

	m = press(t, m, "p")
	m = press(t, m, "p")
	assert.Contains(t, plain(m), "Page 1 of 3")
	// prev on the first page is a no-op
	assert.Equal(t, 3, api.listCount())
}

func TestViewerStatusFilterResetsPage(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, PageSize: 5, Initial: resources.Applications})
	m = press(t, m, "n")

	m = press(t, m, "f")
	assert.Contains(t, api.lastList(), "status=pending")
	assert.Contains(t, api.lastList(), "page=1")
	assert.Contains(t, plain(m), "status: pending")
}

func TestViewerSearch(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, Initial: resources.Applications})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = updated.(*model)
	require.True(t, m.searching)
	m = press(t, m, "asha")
	m = press(t, m, "enter")

	assert.False(t, m.searching)
	assert.Contains(t, api.lastList(), "search=asha")
	assert.Contains(t, plain(m), `search: "asha"`)

	before := api.listCount()
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = updated.(*model)
	m = press(t, m, "enter")
	assert.Equal(t, before, api.listCount(), "unchanged search is not refetched")
}

func TestViewerSetStatusRefetchesOnce(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, Initial: resources.Applications})
	before := api.listCount()

	m = press(t, m, "s")
	assert.Equal(t, before+1, api.listCount())
	assert.Contains(t, plain(m), "Reviewed")
	assert.Equal(t, "Saved. Refreshing…", m.status)
}

func TestViewerMutationFailureKeepsRows(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, Initial: resources.Jobseekers})
	api.mu.Lock()
	api.failPatch = true
	api.mu.Unlock()
	before := api.listCount()

	m = press(t, m, "a")
	out := plain(m)
	assert.Contains(t, out, "Update failed")
	assert.Contains(t, out, "database unavailable")
	assert.Contains(t, out, "Seeker 0")
	assert.Equal(t, before, api.listCount())
}

func TestViewerActionNotAvailable(t *testing.T) {
	_, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, Initial: resources.Jobseekers})
	m = press(t, m, "s")
	assert.Contains(t, m.status, "No \"s\" action for Jobseekers")
}

func TestViewerProfileDrillDown(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, Initial: resources.Jobseekers})
	before := api.listCount()

	m = press(t, m, "enter")
	require.Equal(t, screenDetail, m.screen)
	profile, ok := m.nav.Detail()
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", profile.FullName)
	assert.Contains(t, plain(m), "Jobseekers › Profile")

	m = press(t, m, "esc")
	assert.Equal(t, screenList, m.screen)
	assert.Equal(t, before, api.listCount())
}

func TestViewerReopenedProfileIsFetchedAgain(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, Initial: resources.Jobseekers})

	m = press(t, m, "enter")
	profile, ok := m.nav.Detail()
	require.True(t, ok)
	assert.False(t, profile.IsActive)
	m = press(t, m, "esc")

	m = press(t, m, "a")
	m = press(t, m, "enter")
	require.Equal(t, screenDetail, m.screen)
	profile, ok = m.nav.Detail()
	require.True(t, ok)
	assert.True(t, profile.IsActive)
	assert.Equal(t, 2, api.profileCount())
}

func TestViewerRefreshOnBack(t *testing.T) {
	api, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, Initial: resources.Applications, RefreshOnBack: true})
	before := api.listCount()

	m = press(t, m, "enter")
	m = press(t, m, "esc")
	assert.Equal(t, before+1, api.listCount())
}

func TestViewerCopyRowID(t *testing.T) {
	var copied string
	original := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = original })

	_, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client, Initial: resources.Jobseekers})
	m = press(t, m, "c")
	assert.Equal(t, "js00", copied)
	assert.Equal(t, "Copied js00", m.status)

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	m = press(t, m, "c")
	assert.Contains(t, m.status, "no clipboard")
}

func TestViewerThemeCycle(t *testing.T) {
	t.Cleanup(func() { _ = theme.SetCurrent(theme.DefaultName) })
	_, client := newFakeAdmin(t)
	m := startSession(t, Config{Client: client})

	m = press(t, m, "t")
	assert.Equal(t, "happy-dark", m.palette.Name)
	assert.Equal(t, "happy-dark", theme.Current().Name)
	assert.Contains(t, m.status, "color-theme: happy-dark")
}

func TestRunWritesStaticTableWhenNotATerminal(t *testing.T) {
	_, client := newFakeAdmin(t)
	streams, _, out, _ := iostreams.NewTestIOStreams()

	err := Run(context.Background(), streams, Config{Client: client, PageSize: 5, Initial: resources.Applications})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Applications")
	assert.Contains(t, out.String(), "Job Title")
	assert.Contains(t, out.String(), "Page 1 of 3 · 12 total")
}

func TestRunWritesMenuWhenNotATerminal(t *testing.T) {
	_, client := newFakeAdmin(t)
	streams, _, out, _ := iostreams.NewTestIOStreams()

	require.NoError(t, Run(context.Background(), streams, Config{Client: client}))
	for _, k := range resources.Kinds() {
		assert.Contains(t, out.String(), k.String())
	}
}

func TestRunRejectsUnknownCollection(t *testing.T) {
	_, client := newFakeAdmin(t)
	streams, _, _, _ := iostreams.NewTestIOStreams()
	require.Error(t, Run(context.Background(), streams, Config{Client: client, Initial: "invoices"}))
}

func TestFitColumnsShrinksWidest(t *testing.T) {
	cols := fitColumns([]resources.Column{{Title: "ID", Width: 8}, {Title: "Name", Width: 40}}, 30)
	assert.Equal(t, 8, cols[0].Width)
	assert.Equal(t, 18, cols[1].Width)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "", errorText(nil))
	assert.Contains(t, errorText(&apiclient.APIError{Kind: apiclient.KindTransport}), "Unable to connect")
	assert.Equal(t, "boom", errorText(errors.New("boom")))
}
