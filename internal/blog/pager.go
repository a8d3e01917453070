package blog

import (
	"strconv"
	"strings"
)

// PostsPerPage is the fixed window size for post listings.
const PostsPerPage = 4

// Page is a bounded window over an ordered sequence plus navigation metadata.
type Page[T any] struct {
	Items       []T
	Number      int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Paginate resolves an arbitrary page token against the sequence. Tokens that
// do not parse as a positive integer resolve to page 1; tokens beyond the last
// page resolve to the last page. An empty sequence yields a single empty page.
// Paginate never fails, regardless of input.
func Paginate[T any](items []T, perPage int, token string) Page[T] {
	if perPage <= 0 {
		perPage = 1
	}

	totalPages := (len(items) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	number := 1
	if parsed, err := strconv.Atoi(strings.TrimSpace(token)); err == nil && parsed > 0 {
		number = parsed
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * perPage
	if start > len(items) {
		start = len(items)
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:       items[start:end],
		Number:      number,
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}
