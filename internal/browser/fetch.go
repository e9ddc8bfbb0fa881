package browser

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/happyjobs/happyctl/internal/log"
)

// Token identifies one fetch. Tokens grow monotonically per controller and
// only the latest one may change state.
type Token uint64

func (t Token) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// Loader fetches one page for a query.
type Loader[T any] func(ctx context.Context, q QueryState) (PagedResult[T], error)

type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	return [...]string{"idle", "loading", "succeeded", "failed"}[s]
}

// FetchRequest is a load that has been started but not yet run.
type FetchRequest struct {
	Token Token
	Query QueryState
}

// FetchResult is the outcome of running a FetchRequest.
type FetchResult[T any] struct {
	Token  Token
	Query  QueryState
	Result PagedResult[T]
	Err    error
}

// FetchController owns the load lifecycle of one list. Begin and Apply must
// be called from a single goroutine; Run only reads the loader and may run
// anywhere.
type FetchController[T any] struct {
	loader Loader[T]
	logger *slog.Logger

	latest  Token
	status  Status
	query   QueryState
	started bool
	result  PagedResult[T]
	loaded  bool
	err     error
}

func NewFetchController[T any](loader Loader[T], logger *slog.Logger) *FetchController[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FetchController[T]{loader: loader, logger: logger}
}

// Begin supersedes any outstanding load with one for q.
func (c *FetchController[T]) Begin(q QueryState) FetchRequest {
	c.latest++
	c.status = Loading
	c.query = q
	c.started = true
	return FetchRequest{Token: c.latest, Query: q}
}

// Run performs the load for req. It does not touch controller state.
func (c *FetchController[T]) Run(ctx context.Context, req FetchRequest) FetchResult[T] {
	ctx = log.WithHTTPLogContext(ctx, log.HTTPLogContext{RequestToken: req.Token.String()})
	result, err := c.loader(ctx, req.Query)
	return FetchResult[T]{Token: req.Token, Query: req.Query, Result: result, Err: err}
}

// Apply records res if it belongs to the latest request and reports whether
// it did. Older results are dropped.
func (c *FetchController[T]) Apply(res FetchResult[T]) bool {
	if res.Token != c.latest {
		c.logger.Debug("dropping stale fetch result",
			slog.Uint64("token", uint64(res.Token)),
			slog.Uint64("latest", uint64(c.latest)))
		return false
	}
	if res.Err != nil {
		c.status = Failed
		c.err = res.Err
		return true
	}
	c.status = Succeeded
	c.result = res.Result
	c.loaded = true
	c.err = nil
	return true
}

// Retry re-issues the current query. It reports false before the first Begin.
func (c *FetchController[T]) Retry() (FetchRequest, bool) {
	if !c.started {
		return FetchRequest{}, false
	}
	return c.Begin(c.query), true
}

// Load runs a full Begin, Run, Apply cycle on the calling goroutine.
func (c *FetchController[T]) Load(ctx context.Context, q QueryState) error {
	res := c.Run(ctx, c.Begin(q))
	c.Apply(res)
	return res.Err
}

func (c *FetchController[T]) Status() Status    { return c.status }
func (c *FetchController[T]) Loading() bool     { return c.status == Loading }
func (c *FetchController[T]) Query() QueryState { return c.query }
func (c *FetchController[T]) Latest() Token     { return c.latest }
func (c *FetchController[T]) Err() error        { return c.err }

// Result returns the last successfully applied page.
func (c *FetchController[T]) Result() (PagedResult[T], bool) {
	return c.result, c.loaded
}
