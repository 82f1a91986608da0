// Package positions holds the pure filter and sort functions applied to
// validated positions before they are rendered. Nothing here mutates its input.
package positions

import (
	"strings"

	"github.com/GeekNeuron/OpenPos/internal/domain"
)

// FilterAll disables type filtering
const FilterAll = "all"

// Filter keeps positions whose lowercased type equals typeFilter (unless it is
// "all" or empty) and whose symbol contains searchTerm case-insensitively
// (unless it is empty). It always returns a new slice.
func Filter(list []domain.Position, typeFilter, searchTerm string) []domain.Position {
	term := strings.ToLower(searchTerm)
	byType := typeFilter != "" && typeFilter != FilterAll

	out := make([]domain.Position, 0, len(list))
	for _, p := range list {
		if byType && strings.ToLower(p.Type) != typeFilter {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Symbol), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TypeFilters lists the values a type filter can take, "all" first
func TypeFilters() []string {
	return append([]string{FilterAll}, domain.PositionTypes...)
}

// NextTypeFilter cycles through TypeFilters
func NextTypeFilter(current string) string {
	filters := TypeFilters()
	for i, f := range filters {
		if f == current {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}
