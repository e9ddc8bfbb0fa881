package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/happyjobs/happyctl/internal/util/pagination"
)

var (
	// ErrMutationInFlight rejects a mutation for a row whose previous
	// mutation, or the refetch that follows it, has not resolved yet.
	ErrMutationInFlight = errors.New("a change for this row is still in progress")
	// ErrUnknownOperation is returned for an operation the browser was not
	// built with.
	ErrUnknownOperation = errors.New("unknown row operation")
)

// Operation names a row mutation and its optional argument, such as the
// target status of an application.
type Operation struct {
	Name string
	Arg  string
}

// MutationFunc applies one operation to one row on the server.
type MutationFunc func(ctx context.Context, rowID string, arg string) error

type MutationRequest struct {
	RowID string
	Op    Operation
}

type MutationResult struct {
	Request MutationRequest
	Err     error
}

type options struct {
	logger    *slog.Logger
	mutations map[string]MutationFunc
	noGuard   bool
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMutation registers the operation name handled by fn.
func WithMutation(name string, fn MutationFunc) Option {
	return func(o *options) { o.mutations[name] = fn }
}

// WithoutMutationGuard allows overlapping mutations on the same row.
func WithoutMutationGuard() Option {
	return func(o *options) { o.noGuard = true }
}

// ResourceBrowser is a paginated, searchable, filterable view of one server
// collection with row mutations. Every mutation that succeeds is followed by
// a single refetch of the current query; rows are never patched locally.
//
// Like FetchController, its methods must be called from one goroutine.
// Run and RunMutation are the exceptions and may run anywhere.
type ResourceBrowser[T any] struct {
	fetch     *FetchController[T]
	query     QueryState
	mutations map[string]MutationFunc
	guard     bool
	logger    *slog.Logger

	// pending maps a row to the token of its follow-up refetch, or zero
	// while the mutation itself is still running.
	pending     map[string]Token
	mutationErr error
}

func New[T any](loader Loader[T], pageSize int, opts ...Option) *ResourceBrowser[T] {
	o := options{mutations: map[string]MutationFunc{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &ResourceBrowser[T]{
		fetch:     NewFetchController(loader, o.logger),
		query:     NewQueryState(pageSize),
		mutations: o.mutations,
		guard:     !o.noGuard,
		logger:    o.logger,
		pending:   map[string]Token{},
	}
}

// Start issues the first fetch for the default query.
func (b *ResourceBrowser[T]) Start() FetchRequest {
	return b.fetch.Begin(b.query)
}

// StartAt issues the first fetch for q as given, page included. The page
// range is unknown until the result arrives, so the page is not clamped; a
// page past the end comes back from the server as an empty result.
func (b *ResourceBrowser[T]) StartAt(q QueryState) FetchRequest {
	if q.PageSize < 1 {
		q.PageSize = b.query.PageSize
	}
	q.Page = max(q.Page, 1)
	b.query = q
	return b.fetch.Begin(b.query)
}

// SetSearch replaces the search term. Submitting the term already in use
// reports false and fetches nothing; Retry reloads the same query.
func (b *ResourceBrowser[T]) SetSearch(term string) (FetchRequest, bool) {
	if term == b.query.Search {
		return FetchRequest{}, false
	}
	b.query = b.query.WithSearch(term)
	return b.fetch.Begin(b.query), true
}

func (b *ResourceBrowser[T]) SetStatusFilter(value string) FetchRequest {
	b.query = b.query.WithStatusFilter(value)
	return b.fetch.Begin(b.query)
}

// SetPage moves to page n. It reports false, and fetches nothing, when n is
// outside the known page range or is already the current page.
func (b *ResourceBrowser[T]) SetPage(n int) (FetchRequest, bool) {
	next := b.query.WithPage(n, b.totalPages())
	if next == b.query {
		return FetchRequest{}, false
	}
	b.query = next
	return b.fetch.Begin(b.query), true
}

func (b *ResourceBrowser[T]) NextPage() (FetchRequest, bool) {
	return b.SetPage(b.query.Page + 1)
}

func (b *ResourceBrowser[T]) PrevPage() (FetchRequest, bool) {
	return b.SetPage(b.query.Page - 1)
}

func (b *ResourceBrowser[T]) CanPrev() bool {
	return b.query.Page > 1
}

func (b *ResourceBrowser[T]) CanNext() bool {
	return b.query.Page < b.totalPages()
}

// Retry re-issues the current query unchanged.
func (b *ResourceBrowser[T]) Retry() (FetchRequest, bool) {
	return b.fetch.Retry()
}

func (b *ResourceBrowser[T]) Run(ctx context.Context, req FetchRequest) FetchResult[T] {
	return b.fetch.Run(ctx, req)
}

// Apply records a list result. Stale results are dropped; any result at or
// after a row's follow-up refetch releases that row for new mutations.
func (b *ResourceBrowser[T]) Apply(res FetchResult[T]) bool {
	applied := b.fetch.Apply(res)
	for rowID, token := range b.pending {
		if token != 0 && res.Token >= token {
			delete(b.pending, rowID)
		}
	}
	return applied
}

// MutateRow validates and registers a mutation. The caller runs it with
// RunMutation and hands the outcome to ApplyMutation.
func (b *ResourceBrowser[T]) MutateRow(rowID string, op Operation) (MutationRequest, error) {
	if _, ok := b.mutations[op.Name]; !ok {
		return MutationRequest{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op.Name)
	}
	if b.guard {
		if _, busy := b.pending[rowID]; busy {
			return MutationRequest{}, ErrMutationInFlight
		}
		b.pending[rowID] = 0
	}
	b.mutationErr = nil
	return MutationRequest{RowID: rowID, Op: op}, nil
}

func (b *ResourceBrowser[T]) RunMutation(ctx context.Context, req MutationRequest) MutationResult {
	fn, ok := b.mutations[req.Op.Name]
	if !ok {
		return MutationResult{Request: req, Err: fmt.Errorf("%w: %q", ErrUnknownOperation, req.Op.Name)}
	}
	return MutationResult{Request: req, Err: fn(ctx, req.RowID, req.Op.Arg)}
}

// ApplyMutation records a mutation outcome. On success it returns the one
// refetch of the current query; on failure it keeps the rows and records
// the error separately from list errors.
func (b *ResourceBrowser[T]) ApplyMutation(res MutationResult) (FetchRequest, bool) {
	rowID := res.Request.RowID
	if res.Err != nil {
		b.logger.Debug("row mutation failed",
			slog.String("row", rowID), slog.String("op", res.Request.Op.Name), slog.Any("error", res.Err))
		b.mutationErr = res.Err
		delete(b.pending, rowID)
		return FetchRequest{}, false
	}
	b.mutationErr = nil
	req := b.fetch.Begin(b.query)
	if b.guard {
		b.pending[rowID] = req.Token
	}
	return req, true
}

// MutationPending reports whether rowID is blocked by the mutation guard.
func (b *ResourceBrowser[T]) MutationPending(rowID string) bool {
	_, ok := b.pending[rowID]
	return ok
}

func (b *ResourceBrowser[T]) Query() QueryState {
	return b.query
}

func (b *ResourceBrowser[T]) totalPages() int {
	if res, ok := b.fetch.Result(); ok {
		return res.TotalPages
	}
	return 1
}

// Snapshot is what a presentation layer renders.
type Snapshot[T any] struct {
	Rows        []T
	Query       QueryState
	Page        int
	TotalPages  int
	TotalCount  int
	Indicator   string
	Loaded      bool
	Loading     bool
	Err         error
	MutationErr error
	CanPrev     bool
	CanNext     bool
}

func (b *ResourceBrowser[T]) Snapshot() Snapshot[T] {
	res, loaded := b.fetch.Result()
	page, total := b.query.Page, 1
	if loaded {
		page, total = res.Page, res.TotalPages
	}
	return Snapshot[T]{
		Rows:        slices.Clone(res.Items),
		Query:       b.query,
		Page:        page,
		TotalPages:  total,
		TotalCount:  res.TotalCount,
		Indicator:   pagination.Indicator(page, total),
		Loaded:      loaded,
		Loading:     b.fetch.Loading(),
		Err:         b.fetch.Err(),
		MutationErr: b.mutationErr,
		CanPrev:     b.CanPrev(),
		CanNext:     b.CanNext(),
	}
}
