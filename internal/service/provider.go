package service

import (
	"context"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/dataset"
)

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks -source=provider.go DataProvider

// DatasetProvider loads datasets from the sources named in the configuration
type DatasetProvider struct {
	loader *dataset.Loader
	config *config.Config
}

var _ DataProvider = (*DatasetProvider)(nil)

// NewDatasetProvider creates a provider that loads with loader using cfg
func NewDatasetProvider(loader *dataset.Loader, cfg *config.Config) *DatasetProvider {
	if cfg == nil {
		cfg = config.Default()
	}
	return &DatasetProvider{loader: loader, config: cfg}
}

// Load implements DataProvider.Load
func (p *DatasetProvider) Load(ctx context.Context) (*dataset.Dataset, error) {
	return p.loader.Load(ctx, p.config)
}

// Source implements DataProvider.Source. It lists each fixture with its
// source type, e.g. "products=file,users=embedded,...".
func (p *DatasetProvider) Source() string {
	return p.config.SourceSummary()
}
