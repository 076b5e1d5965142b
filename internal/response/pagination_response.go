package response

// Pagination describes one page of a listing. From and To are zero-based
// slice bounds into the full result set.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// NewPagination computes the envelope for a page over totalItems results.
// Page numbers start at 1; out-of-range pages yield an empty window.
func NewPagination(page, pageSize, totalItems int) *Pagination {
	from := (page - 1) * pageSize
	if from > totalItems {
		from = totalItems
	}
	to := from + pageSize
	if to > totalItems {
		to = totalItems
	}

	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int64((totalItems + pageSize - 1) / pageSize),
		TotalItems: int64(totalItems),
		HasMore:    to < totalItems,
		From:       from,
		To:         to,
	}
}
