package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/milletmart/catalog-server/internal/api"
	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/dataset"
	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/service"
	"github.com/milletmart/catalog-server/internal/service/inmemory"
	"github.com/milletmart/catalog-server/internal/sources"
	pkgsync "github.com/milletmart/catalog-server/internal/sync"
	"github.com/milletmart/catalog-server/internal/sync/coordinator"
	"github.com/milletmart/catalog-server/internal/sync/watcher"
	"github.com/milletmart/catalog-server/internal/telemetry"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second

	// CatalogTracerName names the tracer used for catalog service spans
	CatalogTracerName = "github.com/milletmart/catalog-server/catalog"
)

// CatalogAppOptions is a function that configures the catalog app builder
type CatalogAppOptions func(*catalogAppConfig) error

// catalogAppConfig collects the builder inputs. Component overrides are
// mainly for tests; production uses the defaults derived from config.
type catalogAppConfig struct {
	config *config.Config

	sourceHandlerFactory sources.SourceHandlerFactory
	dataProvider         service.DataProvider
	refreshManager       pkgsync.Manager

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...CatalogAppOptions) (*catalogAppConfig, error) {
	cfg := &catalogAppConfig{
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		idleTimeout:  defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		cfg.config = config.Default()
	}
	if cfg.address == "" {
		cfg.address = cfg.config.GetAddress()
	}
	if cfg.requestTimeout == 0 {
		cfg.requestTimeout = cfg.config.GetRequestTimeout()
	}
	if cfg.requestTimeout == 0 {
		cfg.requestTimeout = defaultRequestTimeout
	}

	return cfg, nil
}

// NewCatalogApp builds the catalog server from the given options
func NewCatalogApp(
	ctx context.Context,
	opts ...CatalogAppOptions,
) (*CatalogApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	catalogService, err := buildServiceComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	refreshCoordinator, err := buildRefreshComponents(cfg, catalogService)
	if err != nil {
		return nil, fmt.Errorf("failed to build refresh components: %w", err)
	}

	fileWatcher, err := buildFileWatcher(cfg, catalogService)
	if err != nil {
		return nil, fmt.Errorf("failed to build file watcher: %w", err)
	}

	httpServer, err := buildHTTPServer(ctx, cfg, catalogService)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	return &CatalogApp{
		config: cfg.config,
		components: &AppComponents{
			RefreshCoordinator: refreshCoordinator,
			FileWatcher:        fileWatcher,
			CatalogService:     catalogService,
		},
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address, overriding the configured one
func WithAddress(addr string) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("address is not a valid host:port: %w", err)
		}
		if port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host != "" && host != "localhost" && net.ParseIP(host) == nil {
			return fmt.Errorf("address is not a valid host: %s", host)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithRequestTimeout bounds the handling of a single request
func WithRequestTimeout(d time.Duration) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be positive, got %s", d)
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithSourceHandlerFactory allows injecting a custom source handler factory (for testing)
func WithSourceHandlerFactory(f sources.SourceHandlerFactory) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.sourceHandlerFactory = f
		return nil
	}
}

// WithDataProvider allows injecting a custom data provider (for testing)
func WithDataProvider(p service.DataProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.dataProvider = p
		return nil
	}
}

// WithRefreshManager allows injecting a custom refresh manager (for testing)
func WithRefreshManager(m pkgsync.Manager) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.refreshManager = m
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for HTTP and catalog metrics
func WithMeterProvider(mp metric.MeterProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for request tracing
func WithTracerProvider(tp trace.TracerProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler mounts h at /metrics
func WithMetricsHandler(h http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildServiceComponents builds the data provider and the catalog service
func buildServiceComponents(
	ctx context.Context,
	b *catalogAppConfig,
) (service.CatalogService, error) {
	slog.Info("Initializing service components")

	if b.sourceHandlerFactory == nil {
		b.sourceHandlerFactory = sources.NewSourceHandlerFactory()
	}
	if b.dataProvider == nil {
		b.dataProvider = service.NewDatasetProvider(dataset.NewLoader(b.sourceHandlerFactory), b.config)
	}

	catalogMetrics, err := telemetry.NewCatalogMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog metrics: %w", err)
	}
	loadMetrics, err := telemetry.NewLoadMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create load metrics: %w", err)
	}

	filter := filtering.NewDefaultFilterService()
	if size := b.config.GetFilterCacheSize(); size > 0 {
		var cacheOpts []filtering.CacheOption
		if catalogMetrics != nil {
			cacheOpts = append(cacheOpts, filtering.WithObserver(catalogMetrics))
		}
		filter, err = filtering.NewCachedFilterService(filter, size, cacheOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create filter cache: %w", err)
		}
		slog.Info("Filter cache enabled", "size", size)
	} else if catalogMetrics != nil {
		filter = filtering.NewObservedFilterService(filter, catalogMetrics)
	}

	svcOpts := []inmemory.Option{
		inmemory.WithFilterService(filter),
		inmemory.WithFeaturedCount(b.config.GetFeaturedCount()),
		inmemory.WithMetrics(catalogMetrics, loadMetrics),
	}
	if b.tracerProvider != nil {
		svcOpts = append(svcOpts, inmemory.WithTracer(b.tracerProvider.Tracer(CatalogTracerName)))
	}

	svc, err := inmemory.New(ctx, b.dataProvider, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}

	slog.Info("Service components initialized successfully", "source", b.dataProvider.Source())
	return svc, nil
}

// buildRefreshComponents builds the refresh coordinator. It returns nil
// when no refresh interval is configured.
func buildRefreshComponents(
	b *catalogAppConfig,
	svc service.CatalogService,
) (coordinator.Coordinator, error) {
	interval := b.config.GetRefreshInterval()
	if interval <= 0 {
		slog.Info("Background refresh disabled")
		return nil, nil
	}

	if b.refreshManager == nil {
		detector := pkgsync.NewDataChangeDetector(b.sourceHandlerFactory)
		b.refreshManager = pkgsync.NewDefaultManager(svc, detector, b.config)
	}

	c, err := coordinator.New(b.refreshManager, interval)
	if err != nil {
		return nil, err
	}

	slog.Info("Background refresh enabled", "interval", interval)
	return c, nil
}

// buildFileWatcher builds the watcher for file sources. It returns nil
// when watching is disabled or no fixture comes from a file.
func buildFileWatcher(b *catalogAppConfig, svc service.CatalogService) (watcher.Watcher, error) {
	paths := b.config.GetWatchedFiles()
	if len(paths) == 0 {
		return nil, nil
	}

	w, err := watcher.New(svc, paths)
	if err != nil {
		return nil, err
	}

	slog.Info("Fixture file watching enabled", "files", paths)
	return w, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *catalogAppConfig,
	svc service.CatalogService,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Telemetry goes first so rejected and timed out requests are still observed
	var telemetryMiddlewares []func(http.Handler) http.Handler
	if b.tracerProvider != nil {
		telemetryMiddlewares = append(telemetryMiddlewares, telemetry.TracingMiddleware(b.tracerProvider))
		slog.Info("HTTP tracing middleware enabled")
	}
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			telemetryMiddlewares = append(telemetryMiddlewares, metricsMiddleware)
			slog.Info("HTTP metrics middleware enabled")
		}
	}
	middlewares := append(telemetryMiddlewares, b.middlewares...)

	router := api.NewServer(svc,
		api.WithMiddlewares(middlewares...),
		api.WithMetricsHandler(b.metricsHandler),
		api.WithDefaultLocale(b.config.GetDefaultLanguage()),
	)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
