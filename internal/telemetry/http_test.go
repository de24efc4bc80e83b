package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/milletmart/catalog-server/internal/api"
	"github.com/milletmart/catalog-server/internal/dataset"
	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/service"
	"github.com/milletmart/catalog-server/internal/service/inmemory"
	"github.com/milletmart/catalog-server/internal/sources"
	"github.com/milletmart/catalog-server/internal/telemetry"
)

// instrumentedCatalog is the embedded catalog served through api.NewServer
// with tracing and metrics recorded in memory.
type instrumentedCatalog struct {
	router http.Handler
	svc    service.CatalogService
	spans  *tracetest.InMemoryExporter
	reader *sdkmetric.ManualReader
}

func newInstrumentedCatalog(t *testing.T) *instrumentedCatalog {
	t.Helper()
	ctx := context.Background()

	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
	})

	catalogMetrics, err := telemetry.NewCatalogMetrics(mp)
	require.NoError(t, err)
	loadMetrics, err := telemetry.NewLoadMetrics(mp)
	require.NoError(t, err)
	filter, err := filtering.NewCachedFilterService(filtering.NewDefaultFilterService(), 16,
		filtering.WithObserver(catalogMetrics))
	require.NoError(t, err)

	provider := service.NewDatasetProvider(dataset.NewLoader(sources.NewSourceHandlerFactory()), nil)
	svc, err := inmemory.New(ctx, provider,
		inmemory.WithFilterService(filter),
		inmemory.WithMetrics(catalogMetrics, loadMetrics),
		inmemory.WithTracer(tp.Tracer("catalog")),
	)
	require.NoError(t, err)

	metricsMiddleware, err := telemetry.MetricsMiddleware(mp)
	require.NoError(t, err)

	return &instrumentedCatalog{
		router: api.NewServer(svc, api.WithMiddlewares(
			telemetry.TracingMiddleware(tp),
			metricsMiddleware,
		)),
		svc:    svc,
		spans:  spans,
		reader: reader,
	}
}

func (c *instrumentedCatalog) get(t *testing.T, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	return rr
}

func (c *instrumentedCatalog) serverSpans() []tracetest.SpanStub {
	var out []tracetest.SpanStub
	for _, s := range c.spans.GetSpans() {
		if s.SpanKind == trace.SpanKindServer {
			out = append(out, s)
		}
	}
	return out
}

func (c *instrumentedCatalog) collect(t *testing.T) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, c.reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func spanAttr(s tracetest.SpanStub, key attribute.Key) string {
	for _, kv := range s.Attributes {
		if kv.Key == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestTracingMiddleware_CatalogRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		header     http.Header
		wantName   string
		wantStatus string
		wantLocale string
		wantCode   codes.Code
	}{
		{
			name:       "product detail in hindi",
			target:     "/api/v1/products/1?lang=hi",
			wantName:   "GET /api/v1/products/{id}",
			wantStatus: "200",
			wantLocale: "hi",
			wantCode:   codes.Ok,
		},
		{
			name:       "unknown product leaves status unset",
			target:     "/api/v1/products/404",
			wantName:   "GET /api/v1/products/{id}",
			wantStatus: "404",
			wantLocale: "en",
			wantCode:   codes.Unset,
		},
		{
			name:       "filter options follow Accept-Language",
			target:     "/api/v1/filters",
			header:     http.Header{"Accept-Language": {"hi-IN,hi;q=0.9"}},
			wantName:   "GET /api/v1/filters",
			wantStatus: "200",
			wantLocale: "hi",
			wantCode:   codes.Ok,
		},
		{
			name:       "farmer dashboard",
			target:     "/api/v1/farmers/dashboard",
			wantName:   "GET /api/v1/farmers/dashboard",
			wantStatus: "200",
			wantLocale: "en",
			wantCode:   codes.Ok,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalog := newInstrumentedCatalog(t)
			rr := catalog.get(t, tt.target, tt.header)
			require.Equal(t, tt.wantStatus, strconv.Itoa(rr.Code))

			spans := catalog.serverSpans()
			require.Len(t, spans, 1)
			span := spans[0]
			assert.Equal(t, tt.wantName, span.Name)
			assert.Equal(t, tt.wantName[len("GET "):], spanAttr(span, "http.route"))
			assert.Equal(t, tt.wantStatus, spanAttr(span, "http.response.status_code"))
			assert.Equal(t, tt.wantLocale, spanAttr(span, telemetry.AttrLocale))
			assert.Equal(t, tt.wantCode, span.Status.Code)
		})
	}
}

func TestTracingMiddleware_ServiceSpansNestUnderRequest(t *testing.T) {
	t.Parallel()

	catalog := newInstrumentedCatalog(t)
	catalog.spans.Reset()

	rr := catalog.get(t, "/api/v1/products?type=Finger%20Millet", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var server, list *tracetest.SpanStub
	for _, s := range catalog.spans.GetSpans() {
		switch s.Name {
		case "GET /api/v1/products":
			server = &s
		case "catalog.ListProducts":
			list = &s
		}
	}
	require.NotNil(t, server)
	require.NotNil(t, list)
	assert.Equal(t, server.SpanContext.SpanID(), list.Parent.SpanID())
	assert.Equal(t, server.SpanContext.TraceID(), list.SpanContext.TraceID())
}

func TestTracingMiddleware_SkipsHealthAndReadiness(t *testing.T) {
	t.Parallel()

	catalog := newInstrumentedCatalog(t)
	for _, path := range []string{"/health", "/readiness"} {
		rr := catalog.get(t, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
	assert.Empty(t, catalog.serverSpans())
}

// Not parallel: installs a global propagator.
func TestTracingMiddleware_ContinuesIncomingTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	catalog := newInstrumentedCatalog(t)
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	catalog.get(t, "/api/v1/schemes", http.Header{"Traceparent": {traceparent}})

	spans := catalog.serverSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())
	assert.True(t, spans[0].Parent.IsRemote())
}

func TestHTTPMetrics_CatalogRoutes(t *testing.T) {
	t.Parallel()

	catalog := newInstrumentedCatalog(t)
	catalog.get(t, "/api/v1/products?type=Finger%20Millet&lang=hi", nil)
	catalog.get(t, "/api/v1/products/1", nil)
	catalog.get(t, "/api/v1/products/404", nil)
	catalog.get(t, "/api/v1/products/404", nil)

	metrics := catalog.collect(t)
	requests, ok := metrics["milletmart_http_requests_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)

	got := map[string]int64{}
	for _, dp := range requests.DataPoints {
		route, _ := dp.Attributes.Value(telemetry.AttrRoute)
		class, _ := dp.Attributes.Value(telemetry.AttrStatusClass)
		loc, _ := dp.Attributes.Value(telemetry.AttrLocale)
		got[route.AsString()+" "+class.AsString()+" "+loc.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{
		"/api/v1/products 2xx hi":      1,
		"/api/v1/products/{id} 2xx en": 1,
		"/api/v1/products/{id} 4xx en": 2,
	}, got)

	sizes, ok := metrics["milletmart_http_response_size_bytes"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sizes.DataPoints {
		total += dp.Sum
	}
	assert.Positive(t, total)

	_, ok = metrics["milletmart_http_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestCatalogMetrics_RecordedByService(t *testing.T) {
	t.Parallel()

	catalog := newInstrumentedCatalog(t)
	list, err := catalog.svc.ListProducts(context.Background())
	require.NoError(t, err)

	// the same filter twice: one miss, then one cache hit
	catalog.get(t, "/api/v1/products?category=Grains", nil)
	catalog.get(t, "/api/v1/products?category=Grains", nil)

	metrics := catalog.collect(t)

	products, ok := metrics["milletmart_catalog_products_total"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, products.DataPoints, 1)
	assert.Equal(t, int64(list.Count), products.DataPoints[0].Value)

	loads, ok := metrics["milletmart_dataset_load_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, loads.DataPoints, 1)
	assert.Equal(t, uint64(1), loads.DataPoints[0].Count)
	success, _ := loads.DataPoints[0].Attributes.Value("success")
	assert.True(t, success.AsBool())

	requests, ok := metrics["milletmart_filter_requests_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byHit := map[bool]int64{}
	for _, dp := range requests.DataPoints {
		hit, _ := dp.Attributes.Value("cache_hit")
		byHit[hit.AsBool()] = dp.Value
	}
	// the unfiltered listing above is the first miss
	assert.Equal(t, map[bool]int64{false: 2, true: 1}, byHit)
}

func TestMiddlewares_NilProvidersPassThrough(t *testing.T) {
	t.Parallel()

	metricsMiddleware, err := telemetry.MetricsMiddleware(nil)
	require.NoError(t, err)

	provider := service.NewDatasetProvider(dataset.NewLoader(sources.NewSourceHandlerFactory()), nil)
	svc, err := inmemory.New(context.Background(), provider)
	require.NoError(t, err)
	router := api.NewServer(svc, api.WithMiddlewares(telemetry.TracingMiddleware(nil), metricsMiddleware))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "en", rr.Header().Get("Content-Language"))
}
