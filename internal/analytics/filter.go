package analytics

import "strings"

// SelectAll is the categorical selection that disables a filter.
const SelectAll = "all"

// Categorical keeps items whose field equals Selected exactly. An empty
// selection or SelectAll lets everything through.
type Categorical[T any] struct {
	Field    func(T) string
	Selected string
}

func (c Categorical[T]) match(item T) bool {
	if c.Selected == "" || c.Selected == SelectAll || c.Field == nil {
		return true
	}
	return c.Field(item) == c.Selected
}

// Filter combines an optional free-text search with categorical filters.
type Filter[T any] struct {
	// Search is matched case-insensitively as a substring of any field
	// returned by SearchFields. Blank searches match everything.
	Search       string
	SearchFields func(T) []string
	Categorical  []Categorical[T]
}

// FilterItems returns the items passing the search and every categorical
// filter, in input order. The result never shares a backing array with items.
func FilterItems[T any](items []T, f Filter[T]) []T {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]T, 0, len(items))

	for _, item := range items {
		if term != "" && f.SearchFields != nil && !matchesSearch(f.SearchFields(item), term) {
			continue
		}
		passed := true
		for _, c := range f.Categorical {
			if !c.match(item) {
				passed = false
				break
			}
		}
		if passed {
			out = append(out, item)
		}
	}
	return out
}

func matchesSearch(fields []string, term string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
