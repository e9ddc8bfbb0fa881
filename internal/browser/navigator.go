package browser

import (
	"context"
	"log/slog"
)

// Mode is the view a DrillDownNavigator is in.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
)

// DetailLoader fetches the detail record for id.
type DetailLoader[D any] func(ctx context.Context, id string) (D, error)

type DetailRequest struct {
	Token Token
	ID    string
}

type DetailResult[D any] struct {
	Token  Token
	ID     string
	Detail D
	Err    error
}

type navigatorOptions struct {
	refresh func() (FetchRequest, bool)
	logger  *slog.Logger
}

type NavigatorOption func(*navigatorOptions)

// WithRefreshOnClose makes Close return the fetch produced by hook, so the
// list is reloaded when leaving a detail view.
func WithRefreshOnClose(hook func() (FetchRequest, bool)) NavigatorOption {
	return func(o *navigatorOptions) { o.refresh = hook }
}

func WithNavigatorLogger(logger *slog.Logger) NavigatorOption {
	return func(o *navigatorOptions) { o.logger = logger }
}

// DrillDownNavigator switches between a list and the detail of one of its
// rows. The list is left untouched while a detail is open. Detail loads
// carry their own tokens, separate from the list's.
type DrillDownNavigator[D any] struct {
	loader  DetailLoader[D]
	refresh func() (FetchRequest, bool)
	logger  *slog.Logger

	mode    Mode
	id      string
	latest  Token
	loading bool
	loaded  bool
	detail  D
	err     error
}

func NewNavigator[D any](loader DetailLoader[D], opts ...NavigatorOption) *DrillDownNavigator[D] {
	var o navigatorOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &DrillDownNavigator[D]{loader: loader, refresh: o.refresh, logger: o.logger}
}

// Open shows the detail for id. Every entry from the list loads the record
// again; while a detail is already shown, opening the same id is a no-op.
func (n *DrillDownNavigator[D]) Open(id string) (DetailRequest, bool) {
	if n.mode == ModeDetail && id == n.id {
		return DetailRequest{}, false
	}
	n.mode = ModeDetail
	return n.load(id), true
}

func (n *DrillDownNavigator[D]) load(id string) DetailRequest {
	var zero D
	n.id = id
	n.latest++
	n.loading = true
	n.loaded = false
	n.detail = zero
	n.err = nil
	return DetailRequest{Token: n.latest, ID: id}
}

// Close returns to the list. Without WithRefreshOnClose nothing is fetched.
func (n *DrillDownNavigator[D]) Close() (FetchRequest, bool) {
	n.mode = ModeList
	if n.refresh == nil {
		return FetchRequest{}, false
	}
	return n.refresh()
}

// RunDetail performs the load for req without touching navigator state.
func (n *DrillDownNavigator[D]) RunDetail(ctx context.Context, req DetailRequest) DetailResult[D] {
	detail, err := n.loader(ctx, req.ID)
	return DetailResult[D]{Token: req.Token, ID: req.ID, Detail: detail, Err: err}
}

// ApplyDetail records res if it answers the latest Open.
func (n *DrillDownNavigator[D]) ApplyDetail(res DetailResult[D]) bool {
	if res.Token != n.latest {
		n.logger.Debug("dropping stale detail result",
			slog.String("id", res.ID), slog.Uint64("token", uint64(res.Token)))
		return false
	}
	n.loading = false
	if res.Err != nil {
		n.err = res.Err
		return true
	}
	n.detail = res.Detail
	n.loaded = true
	n.err = nil
	return true
}

// Retry reloads the current detail.
func (n *DrillDownNavigator[D]) Retry() (DetailRequest, bool) {
	if n.id == "" {
		return DetailRequest{}, false
	}
	return n.load(n.id), true
}

func (n *DrillDownNavigator[D]) Mode() Mode { return n.mode }

func (n *DrillDownNavigator[D]) CurrentID() string { return n.id }

func (n *DrillDownNavigator[D]) Loading() bool { return n.loading }

func (n *DrillDownNavigator[D]) Err() error { return n.err }

func (n *DrillDownNavigator[D]) Detail() (D, bool) {
	return n.detail, n.loaded
}
