package resources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/happyjobs/happyctl/internal/browser"
	"github.com/happyjobs/happyctl/internal/log"
)

// Descriptor binds a row type to its columns, filters and actions.
type Descriptor[T any] struct {
	Kind    Kind
	Columns []Column
	Cells   func(T) []string
	RowID   func(T) string
	// ProfileID returns the user to drill into for a row, or "" when the
	// collection has no profile view.
	ProfileID func(T) string
	Filters   []string
	Actions   []Action
	// Arg computes the operation argument for an action on a row.
	Arg    func(action string, row T) string
	Load   browser.Loader[T]
	Mutate map[string]browser.MutationFunc
}

// Table is a ResourceBrowser with its row type erased, so the viewer and
// commands can treat all collections alike.
type Table interface {
	Kind() Kind
	Columns() []Column
	Filters() []string
	Actions() []Action
	HasProfiles() bool

	Start() browser.FetchRequest
	SetSearch(term string) (browser.FetchRequest, bool)
	SetStatusFilter(value string) browser.FetchRequest
	SetPage(n int) (browser.FetchRequest, bool)
	NextPage() (browser.FetchRequest, bool)
	PrevPage() (browser.FetchRequest, bool)
	Retry() (browser.FetchRequest, bool)
	Run(ctx context.Context, req browser.FetchRequest) Fetched
	Apply(f Fetched) bool

	Mutate(row int, action string) (browser.MutationRequest, error)
	RunMutation(ctx context.Context, req browser.MutationRequest) browser.MutationResult
	ApplyMutation(res browser.MutationResult) (browser.FetchRequest, bool)

	View() View
	// Records returns the current rows in their API shape.
	Records() any
	// Load fetches q and applies it synchronously.
	Load(ctx context.Context, q browser.QueryState) error
}

// Fetched is a finished list load waiting to be applied.
type Fetched struct {
	Token  browser.Token
	Err    error
	result any
}

// View is a rendered snapshot of a Table.
type View struct {
	Rows        [][]string
	RowIDs      []string
	ProfileIDs  []string
	Query       browser.QueryState
	Page        int
	TotalPages  int
	Indicator   string
	TotalCount  int
	Loaded      bool
	Loading     bool
	Err         error
	MutationErr error
	CanPrev     bool
	CanNext     bool
	Pending     []bool
}

var errNoRow = errors.New("no row selected")

type table[T any] struct {
	desc    Descriptor[T]
	browser *browser.ResourceBrowser[T]
}

// Bind builds a Table for desc with the given page size.
func Bind[T any](desc Descriptor[T], pageSize int, logger *slog.Logger, opts ...browser.Option) Table {
	load := desc.Load
	kind := desc.Kind
	wrapped := func(ctx context.Context, q browser.QueryState) (browser.PagedResult[T], error) {
		ctx = log.WithHTTPLogContext(ctx, log.HTTPLogContext{Resource: string(kind)})
		return load(ctx, q)
	}
	all := []browser.Option{browser.WithLogger(logger)}
	for name, fn := range desc.Mutate {
		all = append(all, browser.WithMutation(name, fn))
	}
	all = append(all, opts...)
	return &table[T]{desc: desc, browser: browser.New(wrapped, pageSize, all...)}
}

func (t *table[T]) Kind() Kind        { return t.desc.Kind }
func (t *table[T]) Columns() []Column { return t.desc.Columns }
func (t *table[T]) Filters() []string { return t.desc.Filters }
func (t *table[T]) Actions() []Action { return t.desc.Actions }
func (t *table[T]) HasProfiles() bool { return t.desc.ProfileID != nil }

func (t *table[T]) Start() browser.FetchRequest { return t.browser.Start() }

func (t *table[T]) SetSearch(term string) (browser.FetchRequest, bool) {
	return t.browser.SetSearch(term)
}

func (t *table[T]) SetStatusFilter(value string) browser.FetchRequest {
	return t.browser.SetStatusFilter(value)
}

func (t *table[T]) SetPage(n int) (browser.FetchRequest, bool) { return t.browser.SetPage(n) }
func (t *table[T]) NextPage() (browser.FetchRequest, bool)     { return t.browser.NextPage() }
func (t *table[T]) PrevPage() (browser.FetchRequest, bool)     { return t.browser.PrevPage() }
func (t *table[T]) Retry() (browser.FetchRequest, bool)        { return t.browser.Retry() }

func (t *table[T]) Run(ctx context.Context, req browser.FetchRequest) Fetched {
	res := t.browser.Run(ctx, req)
	return Fetched{Token: res.Token, Err: res.Err, result: res}
}

func (t *table[T]) Apply(f Fetched) bool {
	res, ok := f.result.(browser.FetchResult[T])
	if !ok {
		return false
	}
	return t.browser.Apply(res)
}

// Load fetches the page q names in one request. A page past the last one
// is reported as an error after the server answers with the page range.
func (t *table[T]) Load(ctx context.Context, q browser.QueryState) error {
	res := t.Run(ctx, t.browser.StartAt(q))
	t.Apply(res)
	if res.Err != nil {
		return res.Err
	}
	if total := t.browser.Snapshot().TotalPages; q.Page > total {
		return fmt.Errorf("page %d is out of range (1-%d)", q.Page, total)
	}
	return nil
}

func (t *table[T]) Mutate(row int, action string) (browser.MutationRequest, error) {
	snap := t.browser.Snapshot()
	if row < 0 || row >= len(snap.Rows) {
		return browser.MutationRequest{}, errNoRow
	}
	r := snap.Rows[row]
	op := browser.Operation{Name: action}
	if t.desc.Arg != nil {
		op.Arg = t.desc.Arg(action, r)
	}
	return t.browser.MutateRow(t.desc.RowID(r), op)
}

func (t *table[T]) RunMutation(ctx context.Context, req browser.MutationRequest) browser.MutationResult {
	ctx = log.WithHTTPLogContext(ctx, log.HTTPLogContext{Resource: string(t.desc.Kind)})
	return t.browser.RunMutation(ctx, req)
}

func (t *table[T]) ApplyMutation(res browser.MutationResult) (browser.FetchRequest, bool) {
	return t.browser.ApplyMutation(res)
}

func (t *table[T]) View() View {
	snap := t.browser.Snapshot()
	v := View{
		Rows:        make([][]string, len(snap.Rows)),
		RowIDs:      make([]string, len(snap.Rows)),
		ProfileIDs:  make([]string, len(snap.Rows)),
		Pending:     make([]bool, len(snap.Rows)),
		Query:       snap.Query,
		Page:        snap.Page,
		TotalPages:  snap.TotalPages,
		Indicator:   snap.Indicator,
		TotalCount:  snap.TotalCount,
		Loaded:      snap.Loaded,
		Loading:     snap.Loading,
		Err:         snap.Err,
		MutationErr: snap.MutationErr,
		CanPrev:     snap.CanPrev,
		CanNext:     snap.CanNext,
	}
	for i, r := range snap.Rows {
		v.Rows[i] = t.desc.Cells(r)
		v.RowIDs[i] = t.desc.RowID(r)
		if t.desc.ProfileID != nil {
			v.ProfileIDs[i] = t.desc.ProfileID(r)
		}
		v.Pending[i] = t.browser.MutationPending(v.RowIDs[i])
	}
	return v
}

func (t *table[T]) Records() any {
	rows := t.browser.Snapshot().Rows
	if rows == nil {
		return []T{}
	}
	return rows
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return "N/A"
	}
	return ts.Format(time.DateOnly)
}
