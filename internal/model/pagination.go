package model

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 200
	// MaxPage bounds Offset so an absurd page query cannot overflow it.
	MaxPage = 1_000_000
)

type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into usable values.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResult is the listing envelope used by admin tables.
type PageResult[T any] struct {
	List       []T   `json:"list"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPageResult[T any](list []T, total int64, p Pagination) PageResult[T] {
	if list == nil {
		list = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PageResult[T]{List: list, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
