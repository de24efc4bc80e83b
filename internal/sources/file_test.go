package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
)

func TestNewFileSourceHandler(t *testing.T) {
	t.Parallel()

	handler := NewFileSourceHandler()
	assert.NotNil(t, handler, "NewFileSourceHandler should return a non-nil handler")
}

func TestFileSourceHandler_Validate(t *testing.T) {
	t.Parallel()

	handler := NewFileSourceHandler()

	tests := []struct {
		name    string
		source  *config.SourceConfig
		wantErr string
	}{
		{name: "nil source", source: nil, wantErr: "cannot be nil"},
		{name: "wrong type", source: &config.SourceConfig{Type: config.SourceTypeAPI}, wantErr: "invalid source type"},
		{name: "missing file block", source: &config.SourceConfig{Type: config.SourceTypeFile}, wantErr: "file configuration is required"},
		{name: "empty path", source: &config.SourceConfig{Type: config.SourceTypeFile, File: &config.FileConfig{}}, wantErr: "file path cannot be empty"},
		{name: "valid", source: &config.SourceConfig{Type: config.SourceTypeFile, File: &config.FileConfig{Path: "p.json"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := handler.Validate(tt.source)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFileSourceHandler_Fetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	validPath := filepath.Join(dir, "products.json")
	embedded, err := fixtures.Data(fixtures.KindProducts)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(validPath, embedded, 0600))

	invalidPath := filepath.Join(dir, "bad-products.json")
	require.NoError(t, os.WriteFile(invalidPath, []byte(`[{"id":"1","name":"x","price":-5}]`), 0600))

	handler := NewFileSourceHandler()
	ctx := context.Background()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		src := &config.SourceConfig{Type: config.SourceTypeFile, File: &config.FileConfig{Path: validPath}}
		result, err := handler.Fetch(ctx, fixtures.KindProducts, src)
		require.NoError(t, err)
		assert.Equal(t, embedded, result.Data)
		assert.Equal(t, Hash(embedded), result.Hash)
		assert.Equal(t, validPath, result.Origin)
		assert.Equal(t, fixtures.KindProducts, result.Kind)

		hash, err := handler.CurrentHash(ctx, fixtures.KindProducts, src)
		require.NoError(t, err)
		assert.Equal(t, result.Hash, hash)
	})

	t.Run("schema violation", func(t *testing.T) {
		t.Parallel()

		src := &config.SourceConfig{Type: config.SourceTypeFile, File: &config.FileConfig{Path: invalidPath}}
		_, err := handler.Fetch(ctx, fixtures.KindProducts, src)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		src := &config.SourceConfig{Type: config.SourceTypeFile, File: &config.FileConfig{Path: filepath.Join(dir, "nope.json")}}
		_, err := handler.Fetch(ctx, fixtures.KindProducts, src)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file not found")
	})
}

func TestEmbeddedSourceHandler_Fetch(t *testing.T) {
	t.Parallel()

	handler := NewEmbeddedSourceHandler()
	ctx := context.Background()

	for _, kind := range fixtures.AllKinds {
		result, err := handler.Fetch(ctx, kind, &config.SourceConfig{})
		require.NoError(t, err, "kind %s", kind)
		assert.Equal(t, OriginEmbedded, result.Origin)
		assert.Len(t, result.Hash, 64)

		hash, err := handler.CurrentHash(ctx, kind, nil)
		require.NoError(t, err)
		assert.Equal(t, result.Hash, hash)
	}

	_, err := handler.Fetch(ctx, fixtures.KindProducts, &config.SourceConfig{Type: config.SourceTypeFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source type")
}
