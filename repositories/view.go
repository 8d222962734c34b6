package repositories

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey orders the derived repository view.
type SortKey string

const (
	SortUpdated SortKey = "updated"
	SortStars   SortKey = "stars"
	SortName    SortKey = "name"
)

// SortKeys lists the keys in the order the picker offers them.
var SortKeys = []SortKey{SortUpdated, SortStars, SortName}

// Label is the human readable option text.
func (k SortKey) Label() string {
	switch k {
	case SortStars:
		return "Most stars"
	case SortName:
		return "Name"
	default:
		return "Recently updated"
	}
}

// ParseSortKey maps user input to a SortKey; anything unknown is SortUpdated.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortStars:
		return SortStars
	case SortName:
		return SortName
	default:
		return SortUpdated
	}
}

// View derives the visible list from the full list. It keeps repositories whose
// name or description contains query (case-insensitive) and orders them by key.
// The sort is stable so ties keep their fetch order. list is not modified.
func View(list []Repository, query string, key SortKey) []Repository {
	needle := strings.ToLower(strings.TrimSpace(query))

	out := make([]Repository, 0, len(list))
	for _, r := range list {
		if Matches(r, needle) {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, compareFunc(key))
	return out
}

// Matches reports whether r matches an already lower-cased needle.
func Matches(r Repository, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), needle) {
		return true
	}
	return r.Description != nil && strings.Contains(strings.ToLower(*r.Description), needle)
}

func compareFunc(key SortKey) func(a, b Repository) int {
	switch key {
	case SortStars:
		return func(a, b Repository) int { return cmp.Compare(b.StarCount, a.StarCount) }
	case SortName:
		return func(a, b Repository) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	default:
		return func(a, b Repository) int { return b.UpdatedAt.Compare(a.UpdatedAt.Time) }
	}
}

// Recent returns the n most recently updated repositories.
func Recent(list []Repository, n int) []Repository {
	sorted := View(list, "", SortUpdated)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
