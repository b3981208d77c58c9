package dto

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

type PageFilter struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// Normalize fills in the defaults used when the query string omits paging.
func (f *PageFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

func (f PageFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

func NewPaginationMeta(filter PageFilter, total int64) PaginationMeta {
	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	return PaginationMeta{
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       filter.Limit,
	}
}
