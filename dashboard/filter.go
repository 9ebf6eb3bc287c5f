package dashboard

import (
	"strings"

	"github.com/arthur-debert/menuadmin/types"
	"golang.org/x/text/cases"
)

// Matches reports whether item is visible under f. The query matches name
// or description case-insensitively; an empty category means all.
func Matches(item types.MenuItem, f types.FilterState) bool {
	return matches(cases.Fold(), item, f)
}

// Apply returns the items visible under f, in their original order. The
// result is never nil.
func Apply(items []types.MenuItem, f types.FilterState) []types.MenuItem {
	folder := cases.Fold()
	out := make([]types.MenuItem, 0, len(items))
	for _, item := range items {
		if matches(folder, item, f) {
			out = append(out, item)
		}
	}
	return out
}

func matches(folder cases.Caser, item types.MenuItem, f types.FilterState) bool {
	if f.Category != "" && f.Category != types.AllCategories && string(item.Category) != f.Category {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := folder.String(f.Query)
	return strings.Contains(folder.String(item.Name), q) ||
		strings.Contains(folder.String(item.Description), q)
}

// Categories returns the facet values offered by the category filter, "All"
// first
func Categories() []string {
	out := make([]string, 0, len(types.Categories)+1)
	out = append(out, types.AllCategories)
	for _, c := range types.Categories {
		out = append(out, string(c))
	}
	return out
}
