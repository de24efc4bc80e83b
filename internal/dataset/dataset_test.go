package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/sources"
	"github.com/milletmart/catalog-server/internal/sources/mocks"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	t.Parallel()

	ds, err := Load(context.Background(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, ds.SnapshotID)
	assert.False(t, ds.LoadedAt.IsZero())
	assert.Equal(t, 12, ds.Catalog.Len())
	assert.Equal(t, 6, ds.Schemes.Len())
	assert.Len(t, ds.Learn.Varieties, 4)
	assert.Zero(t, ds.Unlisted)

	farmer, err := ds.Farmers.DemoFarmer()
	require.NoError(t, err)
	assert.Equal(t, "u1", farmer.ID)

	require.Len(t, ds.Sources, len(fixtures.AllKinds))
	for _, kind := range fixtures.AllKinds {
		info := ds.Sources[kind]
		assert.Equal(t, sources.OriginEmbedded, info.Origin)
		assert.Len(t, info.Hash, 64)
		assert.Positive(t, info.Bytes)
	}
}

func TestLoad_SnapshotIDsDiffer(t *testing.T) {
	t.Parallel()

	a, err := Load(context.Background(), config.Default())
	require.NoError(t, err)
	b, err := Load(context.Background(), config.Default())
	require.NoError(t, err)

	assert.NotEqual(t, a.SnapshotID, b.SnapshotID)
	assert.Equal(t, a.Sources, b.Sources)
}

func TestLoad_FileSourceAndListingPolicy(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"id":"a","name":"Organic Ragi","nameHi":"रागी","type":"Finger Millet","category":"Grains","price":90,"unit":"kg",
   "farmer":{"name":"Ramesh Kumar","location":"Anantapur"},"certifications":["Organic"],"rating":4.5,"reviews":2},
  {"id":"b","name":"Millet Cookies","nameHi":"कुकीज़","type":"Mixed Millets","category":"Snacks","price":150,"unit":"pack",
   "farmer":{"name":"Sita Devi","location":"Jodhpur"},"certifications":["FSSAI"],"rating":4.1,"reviews":8}
]`), 0600))

	cfg := &config.Config{
		Catalog: config.CatalogConfig{
			Listing: &config.ListingConfig{
				Names: &config.NameFilterConfig{Exclude: []string{"*Cookies"}},
			},
		},
		Sources: map[string]config.SourceConfig{
			"products": {Type: config.SourceTypeFile, File: &config.FileConfig{Path: path}},
		},
	}

	ds, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Catalog.Len())
	assert.Equal(t, 1, ds.Unlisted)
	assert.Equal(t, path, ds.Sources[fixtures.KindProducts].Origin)

	_, err = ds.Catalog.Get("a")
	require.NoError(t, err)
}

func TestLoader_FetchFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	factory := mocks.NewMockSourceHandlerFactory(ctrl)
	failing := mocks.NewMockSourceHandler(ctrl)
	embedded := sources.NewEmbeddedSourceHandler()

	cfg := &config.Config{
		Sources: map[string]config.SourceConfig{
			"schemes": {Type: config.SourceTypeAPI, API: &config.APIConfig{Endpoint: "http://schemes.invalid/s.json"}},
		},
	}

	factory.EXPECT().CreateHandler(config.SourceTypeEmbedded).Return(embedded, nil).AnyTimes()
	factory.EXPECT().CreateHandler(config.SourceTypeAPI).Return(failing, nil)
	failing.EXPECT().
		Fetch(gomock.Any(), fixtures.KindSchemes, gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := NewLoader(factory).Load(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load fixtures")
	assert.Contains(t, err.Error(), "schemes: connection refused")
}

func TestLoader_UnsupportedSourceType(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	factory := mocks.NewMockSourceHandlerFactory(ctrl)
	factory.EXPECT().CreateHandler(gomock.Any()).Return(nil, errors.New("unsupported source type: git")).AnyTimes()

	_, err := NewLoader(factory).Load(context.Background(), config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported source type")
}

func TestLoader_InvalidCatalog(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	factory := mocks.NewMockSourceHandlerFactory(ctrl)
	products := mocks.NewMockSourceHandler(ctrl)
	embedded := sources.NewEmbeddedSourceHandler()

	cfg := &config.Config{
		Sources: map[string]config.SourceConfig{
			"products": {Type: config.SourceTypeFile, File: &config.FileConfig{Path: "products.json"}},
		},
	}

	duplicate := []byte(`[{"id":"1","name":"A","price":1},{"id":"1","name":"B","price":2}]`)
	factory.EXPECT().CreateHandler(config.SourceTypeEmbedded).Return(embedded, nil).AnyTimes()
	factory.EXPECT().CreateHandler(config.SourceTypeFile).Return(products, nil)
	products.EXPECT().
		Fetch(gomock.Any(), fixtures.KindProducts, gomock.Any()).
		Return(sources.NewFetchResult(fixtures.KindProducts, duplicate, "products.json"), nil)

	loader := NewLoader(factory)
	loader.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	_, err := loader.Load(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "1"`)
}
