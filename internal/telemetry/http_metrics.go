package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMeterName is the meter the request instruments are created on
const HTTPMeterName = "github.com/milletmart/catalog-server/http"

// HTTP metric attribute keys
const (
	AttrMethod      = attribute.Key("method")
	AttrRoute       = attribute.Key("route")
	AttrStatusClass = attribute.Key("status_class")
	AttrLocale      = attribute.Key("locale")
)

// HTTPMetrics counts catalog API requests by route, status class and the
// locale the response was rendered in.
type HTTPMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	bytes    metric.Int64Histogram
}

// NewHTTPMetrics creates the request instruments. A nil provider yields nil,
// whose Middleware passes requests through.
func NewHTTPMetrics(provider metric.MeterProvider) (*HTTPMetrics, error) {
	if provider == nil {
		return nil, nil
	}
	meter := provider.Meter(HTTPMeterName)

	duration, err := meter.Float64Histogram(
		"milletmart_http_request_duration_seconds",
		metric.WithDescription("Duration of catalog API requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, err
	}
	requests, err := meter.Int64Counter(
		"milletmart_http_requests_total",
		metric.WithDescription("Total number of catalog API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	bytes, err := meter.Int64Histogram(
		"milletmart_http_response_size_bytes",
		metric.WithDescription("Size of catalog API response bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(256, 1024, 4096, 16384, 65536),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{duration: duration, requests: requests, bytes: bytes}, nil
}

// Middleware records one observation per request
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// r.Context() may be cancelled once ServeHTTP returns
		ctx := r.Context()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		attrs := metric.WithAttributes(
			AttrMethod.String(r.Method),
			AttrRoute.String(routePattern(r)),
			AttrStatusClass.String(statusClass(ww.Status())),
			AttrLocale.String(responseLocale(ww)),
		)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		m.requests.Add(ctx, 1, attrs)
		m.bytes.Record(ctx, int64(ww.BytesWritten()), attrs)
	})
}

// MetricsMiddleware creates the request instruments on provider and returns their middleware
func MetricsMiddleware(provider metric.MeterProvider) (func(http.Handler) http.Handler, error) {
	m, err := NewHTTPMetrics(provider)
	if err != nil {
		return nil, err
	}
	return m.Middleware, nil
}

// statusClass folds a status code into "2xx", "4xx" and so on
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
