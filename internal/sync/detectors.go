package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/dataset"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/sources"
)

// DataChangeDetector finds fixtures whose source content no longer matches a loaded snapshot
type DataChangeDetector interface {
	// ChangedKinds returns the kinds whose current hash differs from loaded.
	// Kinds that could not be checked are reported through the error and
	// are not included in the result.
	ChangedKinds(
		ctx context.Context,
		cfg *config.Config,
		loaded map[fixtures.Kind]dataset.SourceInfo,
	) ([]fixtures.Kind, error)
}

// DefaultDataChangeDetector compares source hashes through the source handlers
type DefaultDataChangeDetector struct {
	sourceHandlerFactory sources.SourceHandlerFactory
}

var _ DataChangeDetector = (*DefaultDataChangeDetector)(nil)

// NewDataChangeDetector creates a detector using factory to reach each source
func NewDataChangeDetector(factory sources.SourceHandlerFactory) *DefaultDataChangeDetector {
	return &DefaultDataChangeDetector{sourceHandlerFactory: factory}
}

// ChangedKinds implements DataChangeDetector.ChangedKinds
func (d *DefaultDataChangeDetector) ChangedKinds(
	ctx context.Context,
	cfg *config.Config,
	loaded map[fixtures.Kind]dataset.SourceInfo,
) ([]fixtures.Kind, error) {
	var (
		changed []fixtures.Kind
		errs    []error
	)

	for _, kind := range fixtures.AllKinds {
		previous, ok := loaded[kind]
		if !ok || previous.Hash == "" {
			changed = append(changed, kind)
			continue
		}

		src := cfg.GetSource(kind)
		handler, err := d.sourceHandlerFactory.CreateHandler(src.GetType())
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}

		current, err := handler.CurrentHash(ctx, kind, &src)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}

		if current != previous.Hash {
			changed = append(changed, kind)
		}
	}

	return changed, errors.Join(errs...)
}
