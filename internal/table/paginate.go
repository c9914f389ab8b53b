// internal/table/paginate.go
//
// Chorus – tabular engine: pagination metadata.
//
// Context
//   Given the total matching-row count and the requested window, Paginate
//   computes the navigation block returned beside every page of results.
//   Two behaviors here are deliberate compatibility requirements and must
//   not be "fixed": an empty result set reports totalPages 0 regardless of
//   the requested page, and an out-of-range request echoes the requested
//   currentPage and itemsPerPage back unclamped while reporting no next or
//   previous page.
//
//------------------------------------------------------------------------------

package table

// Pagination is the navigation block attached to list results.  NextPage and
// PrevPage are nil at the corresponding boundary.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	ItemsPerPage int  `json:"itemsPerPage"`
	NextPage     *int `json:"nextPage"`
	PrevPage     *int `json:"prevPage"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
}

// Paginate computes navigation metadata for a window of totalRecords rows.
// currentPage is 1-indexed; itemsPerPage is at least 1.
func Paginate(totalRecords, currentPage, itemsPerPage int) Pagination {
	totalPages := totalRecords / itemsPerPage
	if totalRecords%itemsPerPage != 0 {
		totalPages++
	}

	// Navigation is suppressed entirely on the last page, on an empty set,
	// and beyond the end.  prevPage vanishing on the last page is historical
	// behavior that downstream clients rely on.
	atEnd := totalPages == 0 || currentPage >= totalPages

	var next, prev *int
	if !atEnd {
		n := currentPage + 1
		next = &n
	}
	if !atEnd && currentPage > 1 {
		p := currentPage - 1
		prev = &p
	}

	return Pagination{
		CurrentPage:  currentPage,
		ItemsPerPage: itemsPerPage,
		NextPage:     next,
		PrevPage:     prev,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
	}
}
