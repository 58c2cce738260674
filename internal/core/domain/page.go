package domain

const (
	DefaultPerPage = 100
	MaxPerPage     = 100
)

// Page is one window over a listed collection.
type Page[T any] struct {
	Items        []T    `json:"items"`
	Total        int    `json:"total"`
	Page         int    `json:"page"`
	PerPage      int    `json:"per_page"`
	TotalPages   int    `json:"total_pages"`
	EmptyMessage string `json:"empty_message,omitempty"`
}

// Paginate cuts items into pages of perPage. Out-of-range values fall back to
// the defaults; a page past the end is empty but keeps the totals.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	// Compared before multiplying so a huge page cannot overflow.
	start, end := total, total
	if page <= totalPages {
		start = (page - 1) * perPage
		end = min(start+perPage, total)
	}

	window := make([]T, end-start)
	copy(window, items[start:end])

	return Page[T]{
		Items:      window,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
