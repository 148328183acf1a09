// Package page provides paging requests and the paged-result envelope.
package page

import "math"

// Request selects a zero-based page of a listing.
type Request struct {
	Number int
	Size   int
}

// Offset returns the number of records preceding the requested page.
// The multiplication saturates at math.MaxInt, so an absurdly large
// page number reads as a page past the end of the data instead of
// wrapping into a negative offset.
func (r Request) Offset() int {
	if r.Number <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Number > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Number * r.Size
}

// Result wraps one page of items together with paging metadata.
type Result[T any] struct {
	Items      []T   `json:"items"`
	PageSize   int   `json:"pageSize"`
	PageNumber int   `json:"pageNumber"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
}

// NewResult builds the envelope for a store's (items, totalCount) pair.
// TotalPages is ceil(total/size); an empty result reports zero pages.
func NewResult[T any](items []T, req Request, total int64) Result[T] {
	totalPages := 0
	if total > 0 && req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Result[T]{
		Items:      items,
		PageSize:   req.Size,
		PageNumber: req.Number,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
