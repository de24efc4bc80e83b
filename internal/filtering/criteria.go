package filtering

import (
	"fmt"
	"strings"

	"github.com/milletmart/catalog-server/internal/catalog"
)

// Predicate reports whether a product is kept
type Predicate func(p *catalog.Product) bool

// Criteria holds the four marketplace filter inputs
type Criteria struct {
	Search   string
	Type     Selection
	Category Selection
	Price    PriceRange
}

// ParseCriteria builds criteria from raw UI values. It never fails:
// unrecognized selections and malformed price ranges place no constraint.
func ParseCriteria(search, productType, category, priceRange string) Criteria {
	return Criteria{
		Search:   search,
		Type:     ParseSelection(productType),
		Category: ParseSelection(category),
		Price:    ParsePriceRange(priceRange),
	}
}

// Active reports whether any condition constrains the result
func (c Criteria) Active() bool {
	return c.Search != "" || !c.Type.IsAny() || !c.Category.IsAny() || !c.Price.IsAny()
}

// IsIdentity reports whether the criteria keep every product
func (c Criteria) IsIdentity() bool {
	return !c.Active()
}

// Predicate combines the four conditions with logical AND
func (c Criteria) Predicate() Predicate {
	term := newSearchTerm(c.Search)
	typ, category, price := c.Type, c.Category, c.Price
	return func(p *catalog.Product) bool {
		return term.matches(p) &&
			typ.Matches(p.Type) &&
			category.Matches(p.Category) &&
			price.Contains(p.Price)
	}
}

// Evaluate reports whether the product is kept and why.
// The reason names the first failing condition, or every active condition that passed.
func (c Criteria) Evaluate(p *catalog.Product) (bool, string) {
	term := newSearchTerm(c.Search)
	searchOK, searchReason := term.matchWithReason(p)
	if !searchOK {
		return false, fmt.Sprintf("search: %s", searchReason)
	}
	if !c.Type.Matches(p.Type) {
		return false, fmt.Sprintf("type: '%s' is not '%s'", p.Type, c.Type)
	}
	if !c.Category.Matches(p.Category) {
		return false, fmt.Sprintf("category: '%s' is not '%s'", p.Category, c.Category)
	}
	if !c.Price.Contains(p.Price) {
		return false, fmt.Sprintf("price: %v is outside %s", p.Price, c.Price)
	}

	if !c.Active() {
		return true, "no filters specified, default include"
	}

	reasons := []string{}
	if !term.isEmpty() {
		reasons = append(reasons, "search: "+searchReason)
	}
	if !c.Type.IsAny() {
		reasons = append(reasons, fmt.Sprintf("type '%s'", c.Type))
	}
	if !c.Category.IsAny() {
		reasons = append(reasons, fmt.Sprintf("category '%s'", c.Category))
	}
	if !c.Price.IsAny() {
		reasons = append(reasons, fmt.Sprintf("price %s", c.Price))
	}
	return true, "passed all filters: " + strings.Join(reasons, " AND ")
}

// Key returns a normalized form of the criteria. Criteria that select the
// same products by construction share a key.
func (c Criteria) Key() string {
	return strings.Join([]string{
		c.Search,
		selectionKey(c.Type),
		selectionKey(c.Category),
		c.Price.String(),
	}, "\x1f")
}

func selectionKey(s Selection) string {
	if v, ok := s.Value(); ok {
		return "=" + v
	}
	return "*"
}

// Apply returns the products satisfying pred, in their original relative
// order. The input is not modified.
func Apply(products []catalog.Product, pred Predicate) []catalog.Product {
	result := make([]catalog.Product, 0, len(products))
	for i := range products {
		if pred(&products[i]) {
			result = append(result, products[i].Clone())
		}
	}
	return result
}
