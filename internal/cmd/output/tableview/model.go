package tableview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/happyjobs/happyctl/internal/admin/apiclient"
	"github.com/happyjobs/happyctl/internal/admin/models"
	"github.com/happyjobs/happyctl/internal/admin/resources"
	"github.com/happyjobs/happyctl/internal/browser"
	"github.com/happyjobs/happyctl/internal/render"
	"github.com/happyjobs/happyctl/internal/theme"
	"github.com/muesli/reflow/wordwrap"
)

type screen int

const (
	screenHome screen = iota
	screenList
	screenDetail
)

type fetchedMsg struct {
	kind resources.Kind
	res  resources.Fetched
}

type mutatedMsg struct {
	kind resources.Kind
	res  browser.MutationResult
}

type detailMsg struct {
	res browser.DetailResult[*models.ProfileDetail]
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// frame rows taken by the title, box borders, and the status area
const reservedRows = 9

type model struct {
	ctx    context.Context
	open   func(resources.Kind) (resources.Table, error)
	tables map[resources.Kind]resources.Table
	kind   resources.Kind
	nav    *browser.DrillDownNavigator[*models.ProfileDetail]

	screen    screen
	menu      int
	grid      table.Model
	search    textinput.Model
	searching bool
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	detail    viewport.Model

	palette     theme.Palette
	status      string
	profileName string
	width       int
	height      int
	initCmd     tea.Cmd
}

func newModel(ctx context.Context, open func(resources.Kind) (resources.Table, error), width, height int) *model {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "name, email, title…"
	search.CharLimit = 120

	m := &model{
		ctx:     ctx,
		open:    open,
		tables:  map[resources.Kind]resources.Table{},
		search:  search,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(),
		detail:  viewport.New(width, height),
		width:   width,
		height:  height,
		grid: table.New(
			table.WithFocused(true),
			table.WithHeight(max(height-reservedRows, 3)),
		),
	}
	m.applyPalette(theme.Current())
	return m
}

func (m *model) Init() tea.Cmd {
	return m.initCmd
}

func (m *model) active() resources.Table {
	return m.tables[m.kind]
}

func (m *model) fetch(kind resources.Kind, t resources.Table, req browser.FetchRequest) tea.Cmd {
	ctx := m.ctx
	return tea.Batch(func() tea.Msg {
		return fetchedMsg{kind: kind, res: t.Run(ctx, req)}
	}, m.spinner.Tick)
}

func (m *model) mutate(kind resources.Kind, t resources.Table, req browser.MutationRequest) tea.Cmd {
	ctx := m.ctx
	return tea.Batch(func() tea.Msg {
		return mutatedMsg{kind: kind, res: t.RunMutation(ctx, req)}
	}, m.spinner.Tick)
}

func (m *model) loadDetail(req browser.DetailRequest) tea.Cmd {
	ctx, nav := m.ctx, m.nav
	return tea.Batch(func() tea.Msg {
		return detailMsg{res: nav.RunDetail(ctx, req)}
	}, m.spinner.Tick)
}

func (m *model) busy() bool {
	if m.screen == screenDetail {
		return m.nav.Loading()
	}
	if t := m.active(); t != nil {
		return t.View().Loading
	}
	return false
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case fetchedMsg:
		t := m.tables[msg.kind]
		if t != nil && t.Apply(msg.res) && msg.kind == m.kind {
			m.refreshGrid()
		}
		return m, nil
	case mutatedMsg:
		return m, m.applyMutation(msg)
	case detailMsg:
		if m.nav.ApplyDetail(msg.res) {
			m.renderDetail()
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *model) applyMutation(msg mutatedMsg) tea.Cmd {
	t := m.tables[msg.kind]
	if t == nil {
		return nil
	}
	req, ok := t.ApplyMutation(msg.res)
	if msg.kind == m.kind {
		m.refreshGrid()
	}
	if !ok {
		m.status = ""
		return nil
	}
	m.status = "Saved. Refreshing…"
	return m.fetch(msg.kind, t, req)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Theme):
		next := theme.Next(m.palette.Name)
		if err := theme.SetCurrent(next.Name); err == nil {
			m.applyPalette(next)
			m.status = fmt.Sprintf("Theme: %s (set color-theme: %s in config to persist)", next.DisplayName, next.Name)
		}
		return nil
	}

	switch m.screen {
	case screenHome:
		return m.homeKey(msg)
	case screenDetail:
		return m.detailKey(msg)
	default:
		return m.listKey(msg)
	}
}

func (m *model) homeKey(msg tea.KeyMsg) tea.Cmd {
	kinds := resources.Kinds()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menu = (m.menu + len(kinds) - 1) % len(kinds)
	case key.Matches(msg, m.keys.Down):
		m.menu = (m.menu + 1) % len(kinds)
	case key.Matches(msg, m.keys.Open):
		return m.openKind(kinds[m.menu])
	case msg.String() == "esc":
		return tea.Quit
	}
	return nil
}

// openKind shows the browser for kind. A browser is built and started the
// first time its collection is opened and kept for the session.
func (m *model) openKind(kind resources.Kind) tea.Cmd {
	var cmd tea.Cmd
	t, ok := m.tables[kind]
	if !ok {
		var err error
		t, err = m.open(kind)
		if err != nil {
			m.status = err.Error()
			return nil
		}
		m.tables[kind] = t
		cmd = m.fetch(kind, t, t.Start())
	}
	m.kind = kind
	m.menu = slices.Index(resources.Kinds(), kind)
	m.screen = screenList
	m.status = ""
	m.grid.SetCursor(0)
	m.refreshGrid()
	return cmd
}

func (m *model) listKey(msg tea.KeyMsg) tea.Cmd {
	t := m.active()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenHome
		m.status = ""
		return nil
	case key.Matches(msg, m.keys.NextPage):
		if req, ok := t.NextPage(); ok {
			return m.fetch(m.kind, t, req)
		}
		return nil
	case key.Matches(msg, m.keys.PrevPage):
		if req, ok := t.PrevPage(); ok {
			return m.fetch(m.kind, t, req)
		}
		return nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(t.View().Query.Search)
		m.search.CursorEnd()
		m.status = ""
		return m.search.Focus()
	case key.Matches(msg, m.keys.Filter):
		return m.cycleFilter(t)
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Status):
		return m.runAction(t, msg.String())
	case key.Matches(msg, m.keys.Refresh):
		if req, ok := t.Retry(); ok {
			m.status = ""
			return m.fetch(m.kind, t, req)
		}
		return nil
	case key.Matches(msg, m.keys.Copy):
		m.copyRowID(t)
		return nil
	case key.Matches(msg, m.keys.Open):
		return m.openProfile(t)
	}
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return cmd
}

func (m *model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		t := m.active()
		req, ok := t.SetSearch(strings.TrimSpace(m.search.Value()))
		if !ok {
			return nil
		}
		return m.fetch(m.kind, t, req)
	case "esc":
		m.searching = false
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *model) cycleFilter(t resources.Table) tea.Cmd {
	filters := t.Filters()
	if len(filters) == 0 {
		m.status = fmt.Sprintf("%s cannot be filtered by status.", t.Kind().Title())
		return nil
	}
	// the empty filter comes first and means all statuses
	options := append([]string{""}, filters...)
	current := slices.Index(options, t.View().Query.StatusFilter)
	next := options[(current+1)%len(options)]
	m.status = ""
	return m.fetch(m.kind, t, t.SetStatusFilter(next))
}

func (m *model) runAction(t resources.Table, pressed string) tea.Cmd {
	idx := slices.IndexFunc(t.Actions(), func(a resources.Action) bool { return a.Key == pressed })
	if idx < 0 {
		m.status = fmt.Sprintf("No %q action for %s.", pressed, t.Kind().Title())
		return nil
	}
	action := t.Actions()[idx]
	req, err := t.Mutate(m.grid.Cursor(), action.Name)
	if err != nil {
		m.status = errorText(err)
		return nil
	}
	m.status = fmt.Sprintf("Updating %s…", req.RowID)
	m.refreshGrid()
	return m.mutate(m.kind, t, req)
}

func (m *model) copyRowID(t resources.Table) {
	ids := t.View().RowIDs
	cursor := m.grid.Cursor()
	if cursor < 0 || cursor >= len(ids) {
		return
	}
	if err := writeClipboard(ids[cursor]); err != nil {
		m.status = fmt.Sprintf("Unable to copy: %v", err)
		return
	}
	m.status = fmt.Sprintf("Copied %s", ids[cursor])
}

func (m *model) openProfile(t resources.Table) tea.Cmd {
	if !t.HasProfiles() {
		m.status = fmt.Sprintf("%s have no profile view.", t.Kind().Title())
		return nil
	}
	ids := t.View().ProfileIDs
	cursor := m.grid.Cursor()
	if cursor < 0 || cursor >= len(ids) || ids[cursor] == "" {
		m.status = "This row has no linked profile."
		return nil
	}
	req, ok := m.nav.Open(ids[cursor])
	m.screen = screenDetail
	m.status = ""
	m.renderDetail()
	if !ok {
		return nil
	}
	return m.loadDetail(req)
}

func (m *model) detailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenList
		m.status = ""
		if req, ok := m.nav.Close(); ok {
			return m.fetch(m.kind, m.active(), req)
		}
		return nil
	case key.Matches(msg, m.keys.Refresh):
		if req, ok := m.nav.Retry(); ok {
			m.renderDetail()
			return m.loadDetail(req)
		}
		return nil
	case key.Matches(msg, m.keys.Copy):
		if id := m.nav.CurrentID(); id != "" {
			if err := writeClipboard(id); err != nil {
				m.status = fmt.Sprintf("Unable to copy: %v", err)
			} else {
				m.status = fmt.Sprintf("Copied %s", id)
			}
		}
		return nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return cmd
}

func (m *model) applyPalette(p theme.Palette) {
	m.palette = p
	m.grid.SetStyles(tableStyles(p, true))
	m.spinner.Style = p.Foreground(theme.ColorAccent)
	m.search.PromptStyle = p.Foreground(theme.ColorAccent)
	m.help.Styles.ShortKey = p.Foreground(theme.ColorPrimary)
	m.help.Styles.FullKey = p.Foreground(theme.ColorPrimary)
	if m.nav != nil {
		m.renderDetail()
	}
}

func (m *model) resize() {
	m.grid.SetHeight(max(m.height-reservedRows, 3))
	m.detail.Width = max(m.width-4, 20)
	m.detail.Height = max(m.height-reservedRows+2, 3)
	m.help.Width = m.width
	m.refreshGrid()
	m.renderDetail()
}

// refreshGrid copies the active browser's snapshot into the table widget.
func (m *model) refreshGrid() {
	t := m.active()
	if t == nil {
		return
	}
	v := t.View()
	columns := fitColumns(t.Columns(), m.width-4)
	rows := make([][]string, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = r
		if v.Pending[i] && len(r) > 0 {
			rows[i] = append(slices.Clone(r[:len(r)-1]), r[len(r)-1]+" ⟳")
		}
	}
	// rows must shrink before columns change or the widget renders stale cells
	m.grid.SetRows(nil)
	m.grid.SetColumns(columns)
	m.grid.SetRows(toRows(columns, rows))
	if c := m.grid.Cursor(); c >= len(rows) {
		m.grid.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *model) renderDetail() {
	if m.nav == nil {
		return
	}
	profile, ok := m.nav.Detail()
	if !ok || profile == nil {
		m.detail.SetContent("")
		return
	}
	style := "light"
	if m.palette.Dark() {
		style = "dark"
	}
	md := render.ProfileMarkdown(profile)
	m.detail.SetContent(render.Markdown(md, render.Options{Width: max(m.width-6, 20), Style: style}))
	m.detail.GotoTop()
}

// errorText maps errors to the banner text shown to staff.
func errorText(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.UserMessage()
	case errors.Is(err, browser.ErrMutationInFlight):
		return "An update for this row is still in progress."
	default:
		return err.Error()
	}
}

func (m *model) View() string {
	var sections []string
	sections = append(sections, m.renderTitle())

	switch m.screen {
	case screenHome:
		sections = append(sections, m.renderHome())
	case screenDetail:
		sections = append(sections, m.renderDetailScreen()...)
	default:
		sections = append(sections, m.renderList()...)
	}

	if m.status != "" {
		sections = append(sections, m.palette.Foreground(theme.ColorTextMuted).Render(m.wrap(m.status)))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) wrap(s string) string {
	return wordwrap.String(s, max(m.width-2, 20))
}

func (m *model) banner(label, text string) string {
	return m.palette.Badge(theme.ColorDanger, label) + " " + m.wrap(text)
}

func (m *model) renderTitle() string {
	crumbs := []string{"HappyJobs admin"}
	if m.screen != screenHome {
		crumbs = append(crumbs, m.kind.Title())
	}
	if m.screen == screenDetail {
		crumbs = append(crumbs, "Profile")
	}
	left := m.palette.Foreground(theme.ColorPrimary).Bold(true).Render(strings.Join(crumbs, " › "))
	if m.profileName == "" {
		return left
	}
	right := m.palette.Foreground(theme.ColorTextMuted).Render("profile: " + m.profileName)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return ansi.Truncate(left+strings.Repeat(" ", gap)+right, max(m.width, 1), "…")
}

func (m *model) renderHome() string {
	var b strings.Builder
	for i, k := range resources.Kinds() {
		name := fmt.Sprintf("%-14s", k.Title())
		line := name + "  " + m.palette.Foreground(theme.ColorTextMuted).Render(k.Description())
		if i == m.menu {
			line = m.palette.Badge(theme.ColorPrimary, name) + "  " + k.Description()
		} else {
			line = " " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return boxStyle(m.palette).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *model) renderList() []string {
	t := m.active()
	if t == nil {
		return nil
	}
	v := t.View()
	var sections []string

	switch {
	case !v.Loaded && v.Loading:
		sections = append(sections, boxStyle(m.palette).Render(m.spinner.View()+" Loading "+t.Kind().String()+"…"))
	case v.Loaded && len(v.Rows) == 0:
		sections = append(sections, boxStyle(m.palette).Render("No records found."))
	case v.Loaded:
		sections = append(sections, boxStyle(m.palette).Render(m.grid.View()))
	}

	if v.Err != nil {
		sections = append(sections, m.banner("Error", errorText(v.Err)+" Press r to retry."))
	}
	if v.MutationErr != nil {
		sections = append(sections, m.banner("Update failed", errorText(v.MutationErr)))
	}

	info := []string{"Page " + v.Indicator, fmt.Sprintf("%d total", v.TotalCount)}
	if v.Query.Search != "" {
		info = append(info, fmt.Sprintf("search: %q", v.Query.Search))
	}
	if v.Query.StatusFilter != "" {
		info = append(info, "status: "+v.Query.StatusFilter)
	}
	if v.Loaded && v.Loading {
		info = append(info, m.spinner.View()+" refreshing")
	}
	sections = append(sections, m.palette.Foreground(theme.ColorTextMuted).Render(strings.Join(info, " · ")))

	if m.searching {
		sections = append(sections, m.search.View())
	}
	return sections
}

func (m *model) renderDetailScreen() []string {
	switch {
	case m.nav.Loading():
		return []string{boxStyle(m.palette).Render(m.spinner.View() + " Loading profile…")}
	case m.nav.Err() != nil:
		return []string{m.banner("Error", errorText(m.nav.Err())+" Press r to retry or esc to go back.")}
	}
	return []string{m.detail.View()}
}
