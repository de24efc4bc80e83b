package filtering

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/milletmart/catalog-server/internal/catalog"
)

// DefaultCacheSize is the number of distinct criteria results kept per service
const DefaultCacheSize = 256

// Observer is notified after every filter evaluation
type Observer interface {
	ObserveFilter(ctx context.Context, resultCount int, cacheHit bool)
}

type cacheKey struct {
	cat      *catalog.Catalog
	criteria string
}

// CachedFilterService memoizes the results of another FilterService.
// Catalogs are immutable, so a result never goes stale for the catalog it was computed from.
type CachedFilterService struct {
	next     FilterService
	cache    *lru.Cache[cacheKey, []catalog.Product]
	observer Observer
}

var _ FilterService = (*CachedFilterService)(nil)

// CacheOption configures a CachedFilterService
type CacheOption func(*CachedFilterService)

// WithObserver registers an observer for filter evaluations
func WithObserver(o Observer) CacheOption {
	return func(s *CachedFilterService) {
		s.observer = o
	}
}

// NewCachedFilterService wraps next with an LRU cache holding up to size results
func NewCachedFilterService(next FilterService, size int, opts ...CacheOption) (*CachedFilterService, error) {
	if next == nil {
		return nil, fmt.Errorf("filter service is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[cacheKey, []catalog.Product](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter cache: %w", err)
	}

	s := &CachedFilterService{
		next:  next,
		cache: cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ApplyFilters returns a cached result when available and otherwise delegates.
// Callers always receive their own copy of the products.
func (s *CachedFilterService) ApplyFilters(
	ctx context.Context,
	cat *catalog.Catalog,
	criteria Criteria,
) []catalog.Product {
	key := cacheKey{cat: cat, criteria: criteria.Key()}

	if cached, ok := s.cache.Get(key); ok {
		slog.DebugContext(ctx, "Filter cache hit", "resultCount", len(cached))
		s.observe(ctx, len(cached), true)
		return cloneProducts(cached)
	}

	result := s.next.ApplyFilters(ctx, cat, criteria)
	s.cache.Add(key, cloneProducts(result))
	s.observe(ctx, len(result), false)
	return result
}

// Len returns the number of cached results
func (s *CachedFilterService) Len() int {
	return s.cache.Len()
}

// Purge drops every cached result
func (s *CachedFilterService) Purge() {
	s.cache.Purge()
}

func (s *CachedFilterService) observe(ctx context.Context, count int, hit bool) {
	if s.observer != nil {
		s.observer.ObserveFilter(ctx, count, hit)
	}
}

func cloneProducts(products []catalog.Product) []catalog.Product {
	result := make([]catalog.Product, len(products))
	for i := range products {
		result[i] = products[i].Clone()
	}
	return result
}
