package browser

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/happyjobs/happyctl/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageOf(items ...string) PagedResult[string] {
	return NewPagedResult(items, 1, 1, len(items))
}

func TestFetchControllerLifecycle(t *testing.T) {
	c := NewFetchController(func(_ context.Context, _ QueryState) (PagedResult[string], error) {
		return pageOf("a", "b"), nil
	}, nil)
	assert.Equal(t, Idle, c.Status())

	req := c.Begin(NewQueryState(10))
	assert.Equal(t, Loading, c.Status())
	assert.Equal(t, Token(1), req.Token)

	require.True(t, c.Apply(c.Run(context.Background(), req)))
	assert.Equal(t, Succeeded, c.Status())
	res, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, res.Items)
}

func TestFetchControllerFailureKeepsPreviousResult(t *testing.T) {
	c := NewFetchController[string](nil, nil)
	q := NewQueryState(10)

	first := c.Begin(q)
	require.True(t, c.Apply(FetchResult[string]{Token: first.Token, Query: q, Result: pageOf("a")}))

	second := c.Begin(q)
	require.True(t, c.Apply(FetchResult[string]{Token: second.Token, Query: q, Err: errors.New("HTTP status 500")}))

	assert.Equal(t, Failed, c.Status())
	assert.EqualError(t, c.Err(), "HTTP status 500")
	res, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, res.Items)

	third := c.Begin(q)
	require.True(t, c.Apply(FetchResult[string]{Token: third.Token, Query: q, Result: pageOf("b")}))
	assert.NoError(t, c.Err(), "success clears the error")
}

func TestFetchControllerDropsStaleResultsQuietly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	c := NewFetchController[string](nil, logger)
	q := NewQueryState(10)

	old := c.Begin(q)
	latest := c.Begin(q.WithSearch("x"))
	assert.Equal(t, latest.Token, c.Latest())

	assert.False(t, c.Apply(FetchResult[string]{Token: old.Token, Err: errors.New("unreachable")}))
	assert.Equal(t, Loading, c.Status())
	assert.NoError(t, c.Err(), "a stale failure is never surfaced")
	assert.Empty(t, buf.String(), "a stale failure is not logged at info or above")

	assert.True(t, c.Apply(FetchResult[string]{Token: latest.Token, Result: pageOf("x")}))
}

func TestFetchControllerRunTagsRequestToken(t *testing.T) {
	var seen string
	c := NewFetchController(func(ctx context.Context, _ QueryState) (PagedResult[string], error) {
		seen = log.HTTPLogContextFromContext(ctx).RequestToken
		return pageOf(), nil
	}, nil)

	c.Begin(NewQueryState(10))
	req := c.Begin(NewQueryState(10))
	c.Run(context.Background(), req)

	assert.Equal(t, "2", seen)
}

func TestFetchControllerLoad(t *testing.T) {
	c := NewFetchController(func(_ context.Context, q QueryState) (PagedResult[string], error) {
		if q.Search == "bad" {
			return PagedResult[string]{}, errors.New("boom")
		}
		return pageOf(q.Search), nil
	}, nil)

	require.NoError(t, c.Load(context.Background(), NewQueryState(10).WithSearch("ok")))
	require.Error(t, c.Load(context.Background(), NewQueryState(10).WithSearch("bad")))

	res, _ := c.Result()
	assert.Equal(t, []string{"ok"}, res.Items)
	assert.Equal(t, "bad", c.Query().Search)
}
