// Package queryparams holds the typed pagination and filter structures
// shared by repositories, services and handlers.
package queryparams

// Pagination bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams is offset-based pagination input, parsed from the query string.
type ListParams struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Validate clamps the parameters into their legal ranges.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginationMeta is the meta object of the response envelope.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PaginatedResult couples a page of items with its pagination meta.
type PaginatedResult struct {
	Data interface{}
	Meta PaginationMeta
}

// CalculateTotalPages returns the page count for a total row count.
func CalculateTotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// PartyFilters is the typed filter set for party listings, so filter
// combinations stay enumerable instead of ad hoc query maps.
type PartyFilters struct {
	ListParams
	Status   string `query:"status"`
	HostID   uint   `query:"hostId"`
	Search   string `query:"search"`
	Upcoming bool   `query:"upcoming"`

	// ViewerID is the authenticated caller, if any. Private parties are
	// listed only when the viewer filters their own hosted parties.
	ViewerID uint `query:"-"`
}
