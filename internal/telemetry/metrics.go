package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// CatalogMetricsMeterName is the name used for the catalog metrics meter
	CatalogMetricsMeterName = "github.com/milletmart/catalog-server/catalog"

	// LoadMetricsMeterName is the name used for the dataset load metrics meter
	LoadMetricsMeterName = "github.com/milletmart/catalog-server/dataset"
)

// CatalogMetrics holds the OpenTelemetry instruments for catalog and filter metrics
type CatalogMetrics struct {
	productsTotal  metric.Int64Gauge
	filterResults  metric.Int64Histogram
	filterRequests metric.Int64Counter
}

// NewCatalogMetrics creates a new CatalogMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewCatalogMetrics(provider metric.MeterProvider) (*CatalogMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(CatalogMetricsMeterName)

	productsTotal, err := meter.Int64Gauge(
		"milletmart_catalog_products_total",
		metric.WithDescription("Number of listed products in the served catalog"),
		metric.WithUnit("{product}"),
	)
	if err != nil {
		return nil, err
	}

	filterResults, err := meter.Int64Histogram(
		"milletmart_filter_result_size",
		metric.WithDescription("Number of products returned by a marketplace filter"),
		metric.WithUnit("{product}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 25, 50, 100),
	)
	if err != nil {
		return nil, err
	}

	filterRequests, err := meter.Int64Counter(
		"milletmart_filter_requests_total",
		metric.WithDescription("Total number of marketplace filter evaluations"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &CatalogMetrics{
		productsTotal:  productsTotal,
		filterResults:  filterResults,
		filterRequests: filterRequests,
	}, nil
}

// RecordProductsTotal records the number of products in a loaded snapshot
func (m *CatalogMetrics) RecordProductsTotal(ctx context.Context, count int64) {
	if m == nil || m.productsTotal == nil {
		return
	}
	m.productsTotal.Record(ctx, count)
}

// ObserveFilter records one filter evaluation and whether it was served from cache
func (m *CatalogMetrics) ObserveFilter(ctx context.Context, resultCount int, cacheHit bool) {
	if m == nil || m.filterResults == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("cache_hit", cacheHit))
	m.filterResults.Record(ctx, int64(resultCount), attrs)
	m.filterRequests.Add(ctx, 1, attrs)
}

// LoadMetrics holds the OpenTelemetry instruments for dataset load metrics
type LoadMetrics struct {
	loadDuration metric.Float64Histogram
}

// NewLoadMetrics creates a new LoadMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewLoadMetrics(provider metric.MeterProvider) (*LoadMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(LoadMetricsMeterName)

	loadDuration, err := meter.Float64Histogram(
		"milletmart_dataset_load_duration_seconds",
		metric.WithDescription("Duration of dataset loads in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	return &LoadMetrics{
		loadDuration: loadDuration,
	}, nil
}

// RecordLoadDuration records how long a dataset load took
func (m *LoadMetrics) RecordLoadDuration(ctx context.Context, duration time.Duration, success bool) {
	if m == nil || m.loadDuration == nil {
		return
	}

	m.loadDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
}
