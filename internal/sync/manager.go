package sync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/service"
)

//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks -source=manager.go Manager

// Manager decides whether to reload the catalog and performs the reload
type Manager interface {
	// ShouldReload checks the served snapshot against its sources
	ShouldReload(ctx context.Context) Reason

	// Reload loads a fresh snapshot and returns its id
	Reload(ctx context.Context) (string, error)
}

// DefaultManager reloads a catalog service when its sources change
type DefaultManager struct {
	svc      service.CatalogService
	detector DataChangeDetector
	config   *config.Config
}

var _ Manager = (*DefaultManager)(nil)

// NewDefaultManager creates a manager for svc. A nil cfg means the default configuration.
func NewDefaultManager(svc service.CatalogService, detector DataChangeDetector, cfg *config.Config) *DefaultManager {
	if cfg == nil {
		cfg = config.Default()
	}
	return &DefaultManager{svc: svc, detector: detector, config: cfg}
}

// ShouldReload implements Manager.ShouldReload
func (m *DefaultManager) ShouldReload(ctx context.Context) Reason {
	info, err := m.svc.GetInfo(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNotReady) {
			return ReasonNotLoaded
		}
		slog.WarnContext(ctx, "Failed to read catalog info", "error", err)
		return ReasonErrorCheckingChanges
	}

	changed, err := m.detector.ChangedKinds(ctx, m.config, info.Sources)
	if len(changed) > 0 {
		slog.InfoContext(ctx, "Fixture sources changed", "kinds", changed)
		return ReasonSourceDataChanged
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to check fixture sources", "error", err)
		return ReasonErrorCheckingChanges
	}
	return ReasonUpToDate
}

// Reload implements Manager.Reload
func (m *DefaultManager) Reload(ctx context.Context) (string, error) {
	if err := m.svc.Reload(ctx); err != nil {
		return "", err
	}
	info, err := m.svc.GetInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.SnapshotID, nil
}
