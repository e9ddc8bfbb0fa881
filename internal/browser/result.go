package browser

import (
	"slices"

	"github.com/happyjobs/happyctl/internal/util/pagination"
)

// PagedResult is one page of rows as reported by the server. It is built
// fresh for every successful fetch and never modified afterwards.
type PagedResult[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	TotalCount int
}

// NewPagedResult normalizes server paging values: a collection reported
// with zero pages has one (empty) page, and the page number is kept within
// 1..TotalPages.
func NewPagedResult[T any](items []T, page, totalPages, totalCount int) PagedResult[T] {
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)
	if totalCount < 0 {
		totalCount = 0
	}
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{
		Items:      slices.Clone(items),
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}
}

// Indicator renders the page position, for example "2 of 3".
func (r PagedResult[T]) Indicator() string {
	return pagination.Indicator(r.Page, r.TotalPages)
}
