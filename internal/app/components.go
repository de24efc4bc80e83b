package app

import (
	"github.com/milletmart/catalog-server/internal/service"
	"github.com/milletmart/catalog-server/internal/sync/coordinator"
	"github.com/milletmart/catalog-server/internal/sync/watcher"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// RefreshCoordinator reloads the catalog when its sources change.
	// Nil when background refresh is disabled.
	RefreshCoordinator coordinator.Coordinator

	// FileWatcher reloads the catalog when a file source changes.
	// Nil unless catalog.watchFiles is set.
	FileWatcher watcher.Watcher

	// CatalogService provides marketplace business logic
	CatalogService service.CatalogService
}
