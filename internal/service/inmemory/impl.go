// Package inmemory provides an in-memory implementation of the CatalogService interface
package inmemory

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/milletmart/catalog-server/internal/catalog"
	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/dataset"
	"github.com/milletmart/catalog-server/internal/farmers"
	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/learn"
	"github.com/milletmart/catalog-server/internal/locale"
	"github.com/milletmart/catalog-server/internal/otel"
	"github.com/milletmart/catalog-server/internal/schemes"
	"github.com/milletmart/catalog-server/internal/service"
	"github.com/milletmart/catalog-server/internal/telemetry"
)

// catalogSvc implements the CatalogService interface
type catalogSvc struct {
	mu       sync.RWMutex // Protects data, lastLoad
	provider service.DataProvider

	data     *dataset.Dataset
	lastLoad time.Time

	filter          filtering.FilterService
	featuredCount   int
	refreshInterval time.Duration

	catalogMetrics *telemetry.CatalogMetrics
	loadMetrics    *telemetry.LoadMetrics
	tracer         trace.Tracer
}

var _ service.CatalogService = (*catalogSvc)(nil)

// Option is a functional option for configuring the catalogSvc
type Option func(*catalogSvc)

// WithFilterService replaces the filter executor
func WithFilterService(fs filtering.FilterService) Option {
	return func(s *catalogSvc) {
		s.filter = fs
	}
}

// WithFeaturedCount sets how many products the home page features
func WithFeaturedCount(n int) Option {
	return func(s *catalogSvc) {
		s.featuredCount = n
	}
}

// WithRefreshInterval reloads the dataset when it is older than d. Zero
// disables periodic reloads.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *catalogSvc) {
		s.refreshInterval = d
	}
}

// WithMetrics records catalog and load metrics
func WithMetrics(cm *telemetry.CatalogMetrics, lm *telemetry.LoadMetrics) Option {
	return func(s *catalogSvc) {
		s.catalogMetrics = cm
		s.loadMetrics = lm
	}
}

// WithTracer records spans for loads and product listings
func WithTracer(tracer trace.Tracer) Option {
	return func(s *catalogSvc) {
		s.tracer = tracer
	}
}

// New creates a catalog service backed by provider. A failed initial load
// does not fail construction; the service reports not ready until a load
// succeeds.
func New(
	ctx context.Context,
	provider service.DataProvider,
	opts ...Option,
) (service.CatalogService, error) {
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}

	s := &catalogSvc{
		provider:      provider,
		featuredCount: config.DefaultFeaturedCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.filter == nil {
		s.filter = filtering.NewDefaultFilterService()
	}

	if err := s.load(ctx); err != nil {
		slog.Warn("Failed to load initial catalog data", "error", err)
	}

	return s, nil
}

// loadLocked fetches a dataset and swaps it in. Caller must hold s.mu write lock.
func (s *catalogSvc) loadLocked(ctx context.Context) error {
	ctx, span := otel.StartSpan(ctx, s.tracer, "catalog.Load")
	defer span.End()

	start := time.Now()
	data, err := s.provider.Load(ctx)
	s.loadMetrics.RecordLoadDuration(ctx, time.Since(start), err == nil)
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to load catalog data: %w", err)
	}
	span.SetAttributes(otel.AttrSnapshotID.String(data.SnapshotID))

	s.data = data
	s.lastLoad = time.Now()
	s.catalogMetrics.RecordProductsTotal(ctx, int64(data.Catalog.Len()))

	slog.InfoContext(ctx, "Loaded catalog data",
		"snapshotId", data.SnapshotID,
		"products", data.Catalog.Len(),
		"source", s.provider.Source())
	return nil
}

func (s *catalogSvc) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// refreshIfNeeded reloads the dataset once the refresh interval has passed.
// A failed refresh keeps the stale dataset.
func (s *catalogSvc) refreshIfNeeded(ctx context.Context) {
	if s.refreshInterval <= 0 {
		return
	}

	s.mu.RLock()
	stale := time.Since(s.lastLoad) > s.refreshInterval
	s.mu.RUnlock()
	if !stale {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another request may have refreshed while we waited for the lock
	if time.Since(s.lastLoad) > s.refreshInterval {
		if err := s.loadLocked(ctx); err != nil {
			slog.WarnContext(ctx, "Failed to refresh catalog data", "error", err)
			// retry after another interval rather than on every request
			s.lastLoad = time.Now()
		}
	}
}

// snapshot returns the current dataset. Datasets are immutable, so the
// caller may use it without holding the lock.
func (s *catalogSvc) snapshot(ctx context.Context) (*dataset.Dataset, error) {
	s.refreshIfNeeded(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, service.ErrNotReady
	}
	return s.data, nil
}

// CheckReadiness implements CatalogService.CheckReadiness
func (s *catalogSvc) CheckReadiness(ctx context.Context) error {
	s.mu.RLock()
	hasData := s.data != nil
	s.mu.RUnlock()

	if !hasData {
		if err := s.load(ctx); err != nil {
			return fmt.Errorf("%w: %w", service.ErrNotReady, err)
		}
	}
	return nil
}

// GetInfo implements CatalogService.GetInfo
func (s *catalogSvc) GetInfo(ctx context.Context) (*service.Info, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &service.Info{
		SnapshotID: data.SnapshotID,
		LoadedAt:   data.LoadedAt,
		Products:   data.Catalog.Len(),
		Unlisted:   data.Unlisted,
		Schemes:    data.Schemes.Len(),
		Sources:    maps.Clone(data.Sources),
		Source:     s.provider.Source(),
	}, nil
}

// Reload implements CatalogService.Reload
func (s *catalogSvc) Reload(ctx context.Context) error {
	return s.load(ctx)
}

// ListProducts implements CatalogService.ListProducts
func (s *catalogSvc) ListProducts(
	ctx context.Context,
	opts ...service.Option[service.ListProductsOptions],
) (*service.ProductList, error) {
	options, err := service.Apply(opts...)
	if err != nil {
		return nil, err
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "catalog.ListProducts",
		trace.WithAttributes(
			otel.AttrFilterSearch.String(options.Search),
			otel.AttrFilterType.String(options.Type),
			otel.AttrFilterCategory.String(options.Category),
			otel.AttrFilterPrice.String(options.PriceRange),
		),
	)
	defer span.End()

	data, err := s.snapshot(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	criteria := options.Criteria()
	products := s.filter.ApplyFilters(ctx, data.Catalog, criteria)
	span.SetAttributes(
		otel.AttrSnapshotID.String(data.SnapshotID),
		otel.AttrResultCount.Int(len(products)),
	)

	return &service.ProductList{
		Products: products,
		Count:    len(products),
		Criteria: criteria,
	}, nil
}

// GetProduct implements CatalogService.GetProduct
func (s *catalogSvc) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "catalog.GetProduct",
		trace.WithAttributes(otel.AttrProductID.String(id)))
	defer span.End()

	data, err := s.snapshot(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	product, err := data.Catalog.Get(id)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	return &product, nil
}

// ListFeaturedProducts implements CatalogService.ListFeaturedProducts
func (s *catalogSvc) ListFeaturedProducts(
	ctx context.Context,
	opts ...service.Option[service.ListFeaturedOptions],
) ([]catalog.Product, error) {
	options, err := service.Apply(opts...)
	if err != nil {
		return nil, err
	}

	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	limit := options.Limit
	if limit == 0 {
		limit = s.featuredCount
	}
	return data.Catalog.Featured(limit), nil
}

// GetFilterOptions implements CatalogService.GetFilterOptions
func (s *catalogSvc) GetFilterOptions(ctx context.Context, loc locale.Locale) (*filtering.Options, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	options := filtering.BuildOptions(loc, data.Catalog.Types(), data.Catalog.Categories())
	return &options, nil
}

// ListSchemes implements CatalogService.ListSchemes
func (s *catalogSvc) ListSchemes(
	ctx context.Context,
	opts ...service.Option[service.ListSchemesOptions],
) ([]schemes.Scheme, error) {
	options, err := service.Apply(opts...)
	if err != nil {
		return nil, err
	}

	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return data.Schemes.List(filtering.ParseSelection(options.Category)), nil
}

// GetLearnContent implements CatalogService.GetLearnContent
func (s *catalogSvc) GetLearnContent(ctx context.Context) (*learn.Content, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return data.Learn, nil
}

// GetFarmerDashboard implements CatalogService.GetFarmerDashboard
func (s *catalogSvc) GetFarmerDashboard(
	ctx context.Context,
	opts ...service.Option[service.GetDashboardOptions],
) (*farmers.Dashboard, error) {
	options, err := service.Apply(opts...)
	if err != nil {
		return nil, err
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "catalog.GetFarmerDashboard",
		trace.WithAttributes(otel.AttrFarmerID.String(options.FarmerID)))
	defer span.End()

	data, err := s.snapshot(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	var farmer farmers.User
	if options.FarmerID == "" {
		farmer, err = data.Farmers.DemoFarmer()
	} else {
		farmer, err = data.Farmers.Get(options.FarmerID)
	}
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	dashboard := farmers.BuildDashboard(farmer, data.Farmers, data.Catalog)
	return &dashboard, nil
}
