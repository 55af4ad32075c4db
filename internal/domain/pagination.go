package domain

// Pagination echoes the page window used by a list query.
type Pagination struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
	Total    int32 `json:"total"`
	Pages    int32 `json:"pages"`
}

// NewPagination normalizes the requested window and computes page count.
func NewPagination(page, pageSize, total int32) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, Pages: pages}
}
