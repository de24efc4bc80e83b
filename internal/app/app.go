// Package app provides application lifecycle management for the catalog server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/milletmart/catalog-server/internal/config"
)

// CatalogApp encapsulates all components needed to run the catalog API server.
// It provides lifecycle management and graceful shutdown.
type CatalogApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the refresh coordinator and file watcher, if any, and the HTTP server.
// It blocks until the HTTP server stops or fails.
func (app *CatalogApp) Start() error {
	listener, err := net.Listen("tcp", app.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.httpServer.Addr, err)
	}
	return app.Serve(listener)
}

// Serve is Start on an existing listener
func (app *CatalogApp) Serve(listener net.Listener) error {
	if c := app.components.RefreshCoordinator; c != nil {
		go func() {
			if err := c.Start(app.ctx); err != nil {
				slog.Error("Refresh coordinator failed", "error", err)
			}
		}()
	}

	if w := app.components.FileWatcher; w != nil {
		go func() {
			if err := w.Watch(app.ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Fixture file watcher failed", "error", err)
			}
		}()
	}

	slog.Info("Server listening", "address", listener.Addr().String())
	if err := app.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// It stops the background reloaders and then shuts down the HTTP server.
func (app *CatalogApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	if c := app.components.RefreshCoordinator; c != nil {
		if err := c.Stop(); err != nil {
			slog.Error("Failed to stop refresh coordinator", "error", err)
		}
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	if w := app.components.FileWatcher; w != nil {
		if err := w.Close(); err != nil {
			slog.Error("Failed to close fixture file watcher", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *CatalogApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server
func (app *CatalogApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
