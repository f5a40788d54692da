// Package pagination implements the page/limit contract shared by every
// list endpoint: page starts at 1, limit is capped at 100 and the
// envelope reports totals computed from the unfiltered matching count.
package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// Normalize fills in defaults for zero values. Out-of-range values are
// rejected at the HTTP layer before this point.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Envelope is embedded into every list response.
type Envelope struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
}

func NewEnvelope(p Params, totalItems int64) Envelope {
	return Envelope{
		CurrentPage: p.Page,
		TotalPages:  totalPages(totalItems, p.Limit),
		TotalItems:  totalItems,
	}
}

func totalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((totalItems + int64(limit) - 1) / int64(limit))
}
