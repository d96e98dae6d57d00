package domain

// VacationPageSize is the fixed number of vacations returned per listing page.
const VacationPageSize = 10

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds the params for a vacation listing page.
// Pages below 1 are clamped to 1 so the offset is never negative.
func NewPaginationParams(page int) PaginationParams {
	if page < 1 {
		page = 1
	}
	return PaginationParams{Page: page, Limit: VacationPageSize}
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
