package telemetry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer server spans are started on
	TracerName = "github.com/milletmart/catalog-server/http"

	// MaxUserAgentLength caps the user agent recorded on a span
	MaxUserAgentLength = 256

	// unknownRoute is reported when chi matched no route
	unknownRoute = "unknown_route"
)

// untracedPaths are health, readiness and scrape endpoints
var untracedPaths = map[string]struct{}{
	"/health":    {},
	"/readiness": {},
	"/metrics":   {},
}

// TracingMiddleware starts a server span per catalog API request. The span
// is named after the chi route, e.g. "GET /api/v1/products/{id}", and
// carries the locale the response was rendered in. A nil provider disables
// tracing.
func TracingMiddleware(provider trace.TracerProvider) func(http.Handler) http.Handler {
	if provider == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	tracer := provider.Tracer(TracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := untracedPaths[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
					semconv.UserAgentOriginal(truncateUserAgent(r.UserAgent())),
				),
			)
			defer span.End()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))
			finishServerSpan(span, r, ww)
		})
	}
}

// finishServerSpan renames span once chi has routed r and records the outcome.
// Client errors leave the status unset.
func finishServerSpan(span trace.Span, r *http.Request, ww middleware.WrapResponseWriter) {
	route := routePattern(r)
	status := ww.Status()

	span.SetName(r.Method + " " + route)
	span.SetAttributes(
		semconv.HTTPRouteKey.String(route),
		semconv.HTTPResponseStatusCode(status),
		AttrLocale.String(responseLocale(ww)),
	)

	switch {
	case status >= http.StatusInternalServerError:
		span.SetStatus(codes.Error, http.StatusText(status))
	case status < http.StatusBadRequest:
		span.SetStatus(codes.Ok, "")
	}
}

// routePattern returns the matched chi pattern so that product and farmer
// IDs never become labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unknownRoute
}

// responseLocale is the Content-Language the locale middleware set, or
// "none" for responses written before it ran.
func responseLocale(w http.ResponseWriter) string {
	if lang := w.Header().Get("Content-Language"); lang != "" {
		return lang
	}
	return "none"
}

func truncateUserAgent(ua string) string {
	if len(ua) > MaxUserAgentLength {
		return ua[:MaxUserAgentLength]
	}
	return ua
}
