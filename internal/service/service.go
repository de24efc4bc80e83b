// Package service provides the business logic behind the marketplace API
package service

import (
	"context"
	"errors"
	"time"

	"github.com/milletmart/catalog-server/internal/catalog"
	"github.com/milletmart/catalog-server/internal/dataset"
	"github.com/milletmart/catalog-server/internal/farmers"
	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/learn"
	"github.com/milletmart/catalog-server/internal/locale"
	"github.com/milletmart/catalog-server/internal/schemes"
)

// ErrNotReady is returned when no dataset has been loaded yet
var ErrNotReady = errors.New("catalog data not loaded")

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go CatalogService

// CatalogService defines the marketplace read operations
type CatalogService interface {
	// CheckReadiness reports whether a dataset is loaded and can be served
	CheckReadiness(ctx context.Context) error

	// GetInfo describes the dataset currently served
	GetInfo(ctx context.Context) (*Info, error)

	// Reload loads a fresh dataset and swaps it in. The previous dataset keeps
	// being served if the load fails.
	Reload(ctx context.Context) error

	// ListProducts runs the marketplace filter over the catalog
	ListProducts(ctx context.Context, opts ...Option[ListProductsOptions]) (*ProductList, error)

	// GetProduct returns a product by id
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)

	// ListFeaturedProducts returns the products shown on the home page
	ListFeaturedProducts(ctx context.Context, opts ...Option[ListFeaturedOptions]) ([]catalog.Product, error)

	// GetFilterOptions returns the localized choices for each filter control
	GetFilterOptions(ctx context.Context, loc locale.Locale) (*filtering.Options, error)

	// ListSchemes returns government schemes, optionally narrowed to a category
	ListSchemes(ctx context.Context, opts ...Option[ListSchemesOptions]) ([]schemes.Scheme, error)

	// GetLearnContent returns the educational content
	GetLearnContent(ctx context.Context) (*learn.Content, error)

	// GetFarmerDashboard builds the dashboard of a farmer, the demo farmer by default
	GetFarmerDashboard(ctx context.Context, opts ...Option[GetDashboardOptions]) (*farmers.Dashboard, error)
}

// Info describes the loaded dataset
type Info struct {
	SnapshotID string                               `json:"snapshotId"`
	LoadedAt   time.Time                            `json:"loadedAt"`
	Products   int                                  `json:"products"`
	Unlisted   int                                  `json:"unlistedProducts"`
	Schemes    int                                  `json:"schemes"`
	Sources    map[fixtures.Kind]dataset.SourceInfo `json:"sources"`
	Source     string                               `json:"source"`
}

// ProductList is the result of a marketplace filter
type ProductList struct {
	Products []catalog.Product
	Count    int
	Criteria filtering.Criteria
}

// DataProvider abstracts where datasets come from
type DataProvider interface {
	// Load fetches and assembles a complete dataset
	Load(ctx context.Context) (*dataset.Dataset, error)

	// Source describes where the data comes from, for diagnostics
	Source() string
}
