package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	catalogapp "github.com/milletmart/catalog-server/internal/app"
	"github.com/milletmart/catalog-server/internal/telemetry"
	"github.com/milletmart/catalog-server/internal/versions"
)

const defaultGracefulTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog API server",
		Long: `Start the catalog API server.

Without --config every fixture is served from the data compiled into the binary.
A configuration file can point individual fixtures at local files or HTTP
endpoints, enable background refresh and turn on telemetry.

See examples/ for sample configurations.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	cmd.Flags().Duration("shutdown-timeout", defaultGracefulTimeout, "Time allowed for in-flight requests on shutdown")
	if err := viper.BindPFlag("address", cmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
	}
	if err := viper.BindPFlag("shutdown-timeout", cmd.Flags().Lookup("shutdown-timeout")); err != nil {
		slog.Error("Failed to bind shutdown-timeout flag", "error", err)
	}

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	telemetryCfg := cfg.Telemetry
	if telemetryCfg != nil && telemetryCfg.ServiceVersion == "" {
		telemetryCfg.ServiceVersion = versions.Get().Version
	}
	tel, err := telemetry.New(ctx,
		telemetry.WithTelemetryConfig(telemetryCfg),
		telemetry.WithCatalogInfo(telemetry.CatalogInfo{
			Sources:       cfg.SourceSummary(),
			DefaultLocale: cfg.GetDefaultLanguage().String(),
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	opts := []catalogapp.CatalogAppOptions{
		catalogapp.WithConfig(cfg),
		catalogapp.WithMetricsHandler(tel.MetricsHandler()),
	}
	if cfg.Telemetry != nil && cfg.Telemetry.Enabled {
		opts = append(opts,
			catalogapp.WithMeterProvider(tel.MeterProvider()),
			catalogapp.WithTracerProvider(tel.TracerProvider()),
		)
	}
	if address := viper.GetString("address"); address != "" {
		opts = append(opts, catalogapp.WithAddress(address))
	}

	app, err := catalogapp.NewCatalogApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := app.Stop(viper.GetDuration("shutdown-timeout")); err != nil {
		return err
	}
	return <-errCh
}
