package filtering

import (
	"context"
	"log/slog"

	"github.com/milletmart/catalog-server/internal/catalog"
)

// FilterService applies marketplace criteria to a catalog
type FilterService interface {
	// ApplyFilters returns the catalog products matching criteria, in catalog order
	ApplyFilters(ctx context.Context, cat *catalog.Catalog, criteria Criteria) []catalog.Product
}

// defaultFilterService evaluates every product against the criteria
type defaultFilterService struct{}

var _ FilterService = (*defaultFilterService)(nil)

// NewDefaultFilterService creates a new defaultFilterService
func NewDefaultFilterService() FilterService {
	return &defaultFilterService{}
}

// ApplyFilters returns the catalog products matching criteria
//
// The filtering process:
// 1. If no condition is active, return every product
// 2. Evaluate each product against search, type, category and price
// 3. Keep products that pass all four, preserving catalog order
func (*defaultFilterService) ApplyFilters(
	ctx context.Context,
	cat *catalog.Catalog,
	criteria Criteria,
) []catalog.Product {
	if cat == nil {
		return []catalog.Product{}
	}

	if !criteria.Active() {
		slog.DebugContext(ctx, "No filter specified, returning full catalog",
			"productCount", cat.Len())
		return cat.Products()
	}

	slog.DebugContext(ctx, "Applying marketplace filters",
		"search", criteria.Search,
		"type", criteria.Type.String(),
		"category", criteria.Category.String(),
		"price", criteria.Price.String(),
		"originalProductCount", cat.Len())

	result := make([]catalog.Product, 0, cat.Len())
	excludedCount := 0

	cat.Each(func(p *catalog.Product) bool {
		included, reason := criteria.Evaluate(p)
		if included {
			result = append(result, p.Clone())
			slog.DebugContext(ctx, "Including product",
				"id", p.ID,
				"name", p.Name,
				"reason", reason)
		} else {
			excludedCount++
			slog.DebugContext(ctx, "Excluding product",
				"id", p.ID,
				"name", p.Name,
				"reason", reason)
		}
		return true
	})

	slog.DebugContext(ctx, "Marketplace filtering completed",
		"includedProducts", len(result),
		"excludedProducts", excludedCount)

	return result
}

// observedFilterService reports every evaluation of next to an observer
type observedFilterService struct {
	next     FilterService
	observer Observer
}

// NewObservedFilterService wraps next so that observer sees the size of
// every result. Evaluations are reported as cache misses.
func NewObservedFilterService(next FilterService, observer Observer) FilterService {
	if observer == nil {
		return next
	}
	return &observedFilterService{next: next, observer: observer}
}

// ApplyFilters implements FilterService.ApplyFilters
func (s *observedFilterService) ApplyFilters(
	ctx context.Context,
	cat *catalog.Catalog,
	criteria Criteria,
) []catalog.Product {
	result := s.next.ApplyFilters(ctx, cat, criteria)
	s.observer.ObserveFilter(ctx, len(result), false)
	return result
}
