// Package api provides the REST API server for the marketplace catalog.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	v1 "github.com/milletmart/catalog-server/internal/api/v1"
	"github.com/milletmart/catalog-server/internal/locale"
	"github.com/milletmart/catalog-server/internal/service"
)

// ServerOption configures the catalog API server
type ServerOption func(*serverConfig)

type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	metricsHandler http.Handler
	defaultLocale  locale.Locale
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithMetricsHandler serves h on /metrics. A nil handler leaves the route unmounted.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metricsHandler = h
	}
}

// WithDefaultLocale sets the language used when a request names none
func WithDefaultLocale(loc locale.Locale) ServerOption {
	return func(cfg *serverConfig) {
		cfg.defaultLocale = loc
	}
}

// NewServer creates and configures the HTTP router with the given service and options
func NewServer(svc service.CatalogService, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		defaultLocale: locale.English,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}
	r.Use(LocaleMiddleware(cfg.defaultLocale))

	r.Mount("/", HealthRouter(svc))
	if cfg.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metricsHandler)
	}
	r.Mount("/api/v1", v1.Router(svc))

	return r
}

// LocaleMiddleware resolves the display language of a request and stores it
// on the request context. The "lang" query parameter wins over the
// Accept-Language header; fallback applies when neither names a supported
// language.
func LocaleMiddleware(fallback locale.Locale) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc, err := locale.Parse(r.URL.Query().Get("lang"))
			if err != nil {
				loc = locale.FromAcceptLanguage(r.Header.Get("Accept-Language"), fallback)
			}

			w.Header().Set("Content-Language", loc.String())
			next.ServeHTTP(w, r.WithContext(locale.WithLocale(r.Context(), loc)))
		})
	}
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.DebugContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestId", middleware.GetReqID(r.Context()),
		)
	})
}
