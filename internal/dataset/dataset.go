// Package dataset loads every marketplace fixture and assembles the
// immutable snapshot the service serves from.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/milletmart/catalog-server/internal/catalog"
	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/farmers"
	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/learn"
	"github.com/milletmart/catalog-server/internal/schemes"
	"github.com/milletmart/catalog-server/internal/sources"
)

// SourceInfo records where a fixture was loaded from
type SourceInfo struct {
	Origin string `json:"origin"`
	Hash   string `json:"hash"`
	Bytes  int    `json:"bytes"`
}

// Dataset is one loaded snapshot of all fixtures. It is never modified after Load returns.
type Dataset struct {
	SnapshotID string
	LoadedAt   time.Time
	Catalog    *catalog.Catalog
	Farmers    *farmers.Directory
	Schemes    *schemes.Directory
	Learn      *learn.Content
	Sources    map[fixtures.Kind]SourceInfo

	// Unlisted is the number of loaded products dropped by the listing policy
	Unlisted int
}

// Loader fetches and assembles datasets
type Loader struct {
	factory      sources.SourceHandlerFactory
	policyFilter *filtering.PolicyFilter
	now          func() time.Time
}

// NewLoader creates a loader that resolves sources through factory
func NewLoader(factory sources.SourceHandlerFactory) *Loader {
	return &Loader{
		factory:      factory,
		policyFilter: filtering.NewPolicyFilter(),
		now:          time.Now,
	}
}

// Load fetches every fixture with the default source handlers
func Load(ctx context.Context, cfg *config.Config) (*Dataset, error) {
	return NewLoader(sources.NewSourceHandlerFactory()).Load(ctx, cfg)
}

// Load fetches every fixture kind concurrently, then decodes and assembles them.
// Any fetch, validation or decode failure fails the whole load.
func (l *Loader) Load(ctx context.Context, cfg *config.Config) (*Dataset, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	results := make([]*sources.FetchResult, len(fixtures.AllKinds))
	g, gctx := errgroup.WithContext(ctx)

	for i, kind := range fixtures.AllKinds {
		src := cfg.GetSource(kind)
		g.Go(func() error {
			handler, err := l.factory.CreateHandler(src.GetType())
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			result, err := handler.Fetch(gctx, kind, &src)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	byKind := make(map[fixtures.Kind]*sources.FetchResult, len(results))
	ds := &Dataset{
		SnapshotID: uuid.NewString(),
		LoadedAt:   l.now().UTC(),
		Sources:    make(map[fixtures.Kind]SourceInfo, len(results)),
	}
	for _, r := range results {
		byKind[r.Kind] = r
		ds.Sources[r.Kind] = SourceInfo{Origin: r.Origin, Hash: r.Hash, Bytes: len(r.Data)}
	}

	if err := l.assemble(ctx, ds, byKind, cfg.GetListingPolicy()); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Dataset loaded",
		"snapshotId", ds.SnapshotID,
		"products", ds.Catalog.Len(),
		"unlistedProducts", ds.Unlisted,
		"schemes", ds.Schemes.Len())

	return ds, nil
}

func (l *Loader) assemble(
	ctx context.Context,
	ds *Dataset,
	byKind map[fixtures.Kind]*sources.FetchResult,
	policy filtering.ListingPolicy,
) error {
	var products []catalog.Product
	if err := json.Unmarshal(byKind[fixtures.KindProducts].Data, &products); err != nil {
		return fmt.Errorf("failed to parse products: %w", err)
	}
	listed := l.policyFilter.Apply(ctx, products, policy)
	ds.Unlisted = len(products) - len(listed)

	cat, err := catalog.New(listed)
	if err != nil {
		return err
	}
	ds.Catalog = cat

	dir, err := farmers.ParseDirectory(byKind[fixtures.KindUsers].Data, byKind[fixtures.KindTransactions].Data)
	if err != nil {
		return err
	}
	ds.Farmers = dir

	sch, err := schemes.Parse(byKind[fixtures.KindSchemes].Data)
	if err != nil {
		return err
	}
	ds.Schemes = sch

	content, err := learn.Parse(byKind[fixtures.KindLearn].Data)
	if err != nil {
		return err
	}
	ds.Learn = content

	return nil
}
