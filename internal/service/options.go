package service

import (
	"fmt"

	"github.com/milletmart/catalog-server/internal/filtering"
)

// Option is a function that sets an option for a service operation
type Option[
	T ListProductsOptions | ListFeaturedOptions | ListSchemesOptions | GetDashboardOptions,
] func(*T) error

// ListProductsOptions is the options for the ListProducts operation.
// Values are passed through unparsed; malformed filters degrade to "any".
type ListProductsOptions struct {
	Search     string
	Type       string
	Category   string
	PriceRange string
}

// Criteria parses the options into filter criteria
func (o *ListProductsOptions) Criteria() filtering.Criteria {
	return filtering.ParseCriteria(o.Search, o.Type, o.Category, o.PriceRange)
}

// ListFeaturedOptions is the options for the ListFeaturedProducts operation
type ListFeaturedOptions struct {
	Limit int
}

// ListSchemesOptions is the options for the ListSchemes operation
type ListSchemesOptions struct {
	Category string
}

// GetDashboardOptions is the options for the GetFarmerDashboard operation
type GetDashboardOptions struct {
	FarmerID string
}

// WithSearch sets the free-text search for the ListProducts operation
func WithSearch(search string) Option[ListProductsOptions] {
	return func(o *ListProductsOptions) error {
		o.Search = search
		return nil
	}
}

// WithType sets the millet type for the ListProducts operation
func WithType(milletType string) Option[ListProductsOptions] {
	return func(o *ListProductsOptions) error {
		o.Type = milletType
		return nil
	}
}

// WithPriceRange sets the price range token for the ListProducts operation
func WithPriceRange(priceRange string) Option[ListProductsOptions] {
	return func(o *ListProductsOptions) error {
		o.PriceRange = priceRange
		return nil
	}
}

// WithCategory sets the category for the ListProducts or ListSchemes operation
func WithCategory[T ListProductsOptions | ListSchemesOptions](category string) Option[T] {
	return func(o *T) error {
		switch o := any(o).(type) {
		case *ListProductsOptions:
			o.Category = category
		case *ListSchemesOptions:
			o.Category = category
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
		return nil
	}
}

// WithLimit sets the number of featured products
func WithLimit(limit int) Option[ListFeaturedOptions] {
	return func(o *ListFeaturedOptions) error {
		if limit <= 0 {
			return fmt.Errorf("invalid limit: %d", limit)
		}
		o.Limit = limit
		return nil
	}
}

// WithFarmerID selects the farmer whose dashboard is built
func WithFarmerID(id string) Option[GetDashboardOptions] {
	return func(o *GetDashboardOptions) error {
		if id == "" {
			return fmt.Errorf("invalid farmer id: %s", id)
		}
		o.FarmerID = id
		return nil
	}
}

// Apply applies opts to a zero T
func Apply[
	T ListProductsOptions | ListFeaturedOptions | ListSchemesOptions | GetDashboardOptions,
](opts ...Option[T]) (*T, error) {
	options := new(T)
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}
