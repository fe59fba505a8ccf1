package dto

// Pagination describes the position of a page within a listing
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// ListResponse is the envelope for every paginated listing
type ListResponse[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewListResponse wraps items with pagination computed from the query bounds
func NewListResponse[T any](items []T, page, perPage int, total int64) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}

	pages := int(total) / perPage
	if int(total)%perPage > 0 {
		pages++
	}

	return ListResponse[T]{
		Items: items,
		Pagination: Pagination{
			Current: page,
			Pages:   pages,
			Total:   total,
		},
	}
}

// PageQuery holds the shared pagination query parameters
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize clamps the query to sane bounds and returns (page, limit, offset)
func (q PageQuery) Normalize() (int, int, int) {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}
