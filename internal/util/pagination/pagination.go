package pagination

import "fmt"

// TotalPages returns the number of pages needed to hold total items. An empty
// collection still has one (empty) page so page controls stay consistent.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// InRange reports whether page is a valid 1-based page number for totalPages.
// A non-positive totalPages is treated as a single page.
func InRange(page, totalPages int) bool {
	if totalPages < 1 {
		totalPages = 1
	}
	return page >= 1 && page <= totalPages
}

// Indicator renders the "<page> of <pages>" label shown under tables.
func Indicator(page, totalPages int) string {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("%d of %d", page, totalPages)
}
