package domain

import "strings"

// Search keeps the items where any of the given fields contains query,
// ignoring case. A blank query returns items unchanged. It never mutates
// items, so running it twice over the same slice gives the same result.
func Search[T any](items []T, query string, fields ...func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
