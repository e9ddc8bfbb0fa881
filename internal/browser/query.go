package browser

import (
	"net/url"

	"github.com/ajg/form"
	"github.com/happyjobs/happyctl/internal/util/pagination"
)

// DefaultPageSize is used when a browser is built with a non-positive size.
const DefaultPageSize = 10

// QueryState is the list query a browser is showing. It is a value: every
// transition returns a new state.
type QueryState struct {
	Page         int
	PageSize     int
	Search       string
	StatusFilter string
}

func NewQueryState(pageSize int) QueryState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return QueryState{Page: 1, PageSize: pageSize}
}

// WithSearch replaces the search term and goes back to the first page.
func (q QueryState) WithSearch(term string) QueryState {
	q.Search = term
	q.Page = 1
	return q
}

// WithStatusFilter replaces the status filter and goes back to the first
// page. An empty value means no filter.
func (q QueryState) WithStatusFilter(value string) QueryState {
	q.StatusFilter = value
	q.Page = 1
	return q
}

// WithPage moves to page n when 1 <= n <= totalPages and returns q
// unchanged otherwise. A totalPages below 1 counts as 1.
func (q QueryState) WithPage(n, totalPages int) QueryState {
	if !pagination.InRange(n, totalPages) {
		return q
	}
	q.Page = n
	return q
}

type queryParams struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search,omitempty"`
	Status string `form:"status,omitempty"`
}

// Values encodes q as admin API list parameters: page, limit, and search
// and status when set.
func (q QueryState) Values() url.Values {
	values, err := form.EncodeToValues(queryParams{
		Page:   q.Page,
		Limit:  q.PageSize,
		Search: q.Search,
		Status: q.StatusFilter,
	})
	if err != nil {
		// flat struct of strings and ints; encoding cannot fail
		panic(err)
	}
	return values
}
