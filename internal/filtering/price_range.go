package filtering

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

type rangeKind int

const (
	anyPrice rangeKind = iota
	atLeast
	between
)

// PriceRange is an optional constraint on a product price
type PriceRange struct {
	kind rangeKind
	min  float64
	max  float64
}

// AnyPrice returns a range that matches every price
func AnyPrice() PriceRange {
	return PriceRange{}
}

// AtLeast returns the range price >= lower with no upper bound
func AtLeast(lower float64) PriceRange {
	return PriceRange{kind: atLeast, min: lower}
}

// Between returns the closed range lower <= price <= upper
func Between(lower, upper float64) PriceRange {
	return PriceRange{kind: between, min: lower, max: upper}
}

// ParsePriceRange parses the wire form of a price range.
//
// Accepted shapes are "all", "", "{min}-{max}", "{min}+" and "{min}".
// The string is split on the first "-". Anything else degrades to AnyPrice.
func ParsePriceRange(raw string) PriceRange {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AllSentinel {
		return AnyPrice()
	}

	if lowerStr, ok := strings.CutSuffix(raw, "+"); ok {
		lower, err := parseBound(lowerStr)
		if err != nil {
			return degrade(raw, err)
		}
		return AtLeast(lower)
	}

	lowerStr, upperStr, _ := strings.Cut(raw, "-")
	lower, err := parseBound(lowerStr)
	if err != nil {
		return degrade(raw, err)
	}

	if strings.TrimSpace(upperStr) == "" {
		return AtLeast(lower)
	}

	upper, err := parseBound(upperStr)
	if err != nil {
		return degrade(raw, err)
	}
	if upper < lower {
		return degrade(raw, fmt.Errorf("upper bound %v is below lower bound %v", upper, lower))
	}

	return Between(lower, upper)
}

func parseBound(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing bound")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bound %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("bound %q out of range", s)
	}
	return v, nil
}

func degrade(raw string, err error) PriceRange {
	slog.Debug("Ignoring malformed price range", "price_range", raw, "error", err)
	return AnyPrice()
}

// IsAny reports whether the range places no constraint
func (r PriceRange) IsAny() bool {
	return r.kind == anyPrice
}

// Bounds returns the lower bound, the upper bound, and whether the upper bound is set
func (r PriceRange) Bounds() (lower, upper float64, bounded bool) {
	return r.min, r.max, r.kind == between
}

// Contains reports whether price lies within the range
func (r PriceRange) Contains(price float64) bool {
	switch r.kind {
	case atLeast:
		return price >= r.min
	case between:
		return price >= r.min && price <= r.max
	default:
		return true
	}
}

// String returns the wire form of the range
func (r PriceRange) String() string {
	switch r.kind {
	case atLeast:
		return formatBound(r.min) + "+"
	case between:
		return formatBound(r.min) + "-" + formatBound(r.max)
	default:
		return AllSentinel
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
