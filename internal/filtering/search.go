package filtering

import (
	"fmt"
	"strings"

	"github.com/milletmart/catalog-server/internal/catalog"
)

// searchTerm is a free-text search with its lowercased form computed once
type searchTerm struct {
	raw   string
	lower string
}

func newSearchTerm(raw string) searchTerm {
	return searchTerm{raw: raw, lower: strings.ToLower(raw)}
}

func (s searchTerm) isEmpty() bool {
	return s.raw == ""
}

// matches reports whether the product matches the term.
// Name and Type are compared lowercased; NameHi is compared as-is.
func (s searchTerm) matches(p *catalog.Product) bool {
	if s.isEmpty() {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), s.lower) ||
		strings.Contains(p.NameHi, s.raw) ||
		strings.Contains(strings.ToLower(p.Type), s.lower)
}

// matchWithReason is matches with an explanation of which field matched
func (s searchTerm) matchWithReason(p *catalog.Product) (bool, string) {
	switch {
	case s.isEmpty():
		return true, "no search term"
	case strings.Contains(strings.ToLower(p.Name), s.lower):
		return true, fmt.Sprintf("name contains '%s'", s.raw)
	case strings.Contains(p.NameHi, s.raw):
		return true, fmt.Sprintf("hindi name contains '%s'", s.raw)
	case strings.Contains(strings.ToLower(p.Type), s.lower):
		return true, fmt.Sprintf("type contains '%s'", s.raw)
	default:
		return false, fmt.Sprintf("'%s' not found in name, hindi name or type", s.raw)
	}
}
