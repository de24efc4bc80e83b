// Package filtering provides the marketplace product filter.
//
// A filter is described by four independent inputs, the same four the
// marketplace page exposes:
//
//   - Search: free text matched against the product name, its Hindi name
//     and its millet type
//   - Type: a millet variety, or no constraint
//   - Category: a product form such as Grains or Flour, or no constraint
//   - Price: a price range, or no constraint
//
// The inputs are combined into a single Predicate that holds only when all
// four conditions hold (logical AND). The executor applies a predicate to
// an ordered product sequence and returns the matching subsequence in the
// original relative order. It never sorts, deduplicates or paginates, and
// never mutates its input.
//
// # Search Matching
//
// The English name and the millet type are compared case-insensitively:
// both sides are lowercased before the substring test. The Hindi name is
// compared as-is, without case folding on either side:
//
//	"foxtail" matches Name "Foxtail Millet"
//	"FOXTAIL" matches Name "Foxtail Millet"
//	"कंगनी"   matches NameHi "जैविक कंगनी"
//
// An empty search term matches every product.
//
// # No-Constraint Selections
//
// The page encodes "no constraint" with the sentinel value "all". This
// package models it as a tagged Selection instead: Any() or Exactly(v).
// ParseSelection maps "" and "all" to Any().
//
// # Price Ranges
//
// ParsePriceRange accepts:
//
//   - "all" or "": no price constraint
//   - "{min}-{max}": min <= price <= max, inclusive on both ends
//   - "{min}+" (or a bare "{min}"): price >= min, no upper bound
//
// Malformed input (non-numeric or negative bounds, max below min) degrades
// to no price constraint. Filtering is a display refinement, so it fails
// open and never reports an error.
//
// # Usage Example
//
//	criteria := ParseCriteria("ragi", "all", "Grains", "100-150")
//	products := NewDefaultFilterService().ApplyFilters(ctx, cat, criteria)
//
// CachedFilterService memoizes results per catalog and normalized
// criteria in a bounded LRU cache.
package filtering
