package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
)

// fileSourceHandler handles fixture data from local files
type fileSourceHandler struct {
	validator FixtureValidator
}

// NewFileSourceHandler creates a new file source handler
func NewFileSourceHandler() SourceHandler {
	return &fileSourceHandler{
		validator: NewSchemaValidator(),
	}
}

// Validate validates the file source configuration
func (*fileSourceHandler) Validate(source *config.SourceConfig) error {
	if source == nil {
		return fmt.Errorf("source configuration cannot be nil")
	}

	if source.GetType() != config.SourceTypeFile {
		return fmt.Errorf("invalid source type: expected %s, got %s", config.SourceTypeFile, source.Type)
	}

	if source.File == nil {
		return fmt.Errorf("file configuration is required")
	}

	if source.File.Path == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	return nil
}

// Fetch retrieves fixture data from the local file
func (h *fileSourceHandler) Fetch(
	ctx context.Context,
	kind fixtures.Kind,
	source *config.SourceConfig,
) (*FetchResult, error) {
	data, err := h.fetchFileData(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file data: %w", err)
	}

	if err := h.validator.ValidateData(kind, data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return NewFetchResult(kind, data, source.File.Path), nil
}

// fetchFileData reads the file
func (h *fileSourceHandler) fetchFileData(_ context.Context, source *config.SourceConfig) ([]byte, error) {
	if err := h.Validate(source); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	filePath := source.File.Path

	//nolint:gosec // File path comes from user configuration, this is expected behavior
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return data, nil
}

// CurrentHash returns the current hash of the file without validating it
func (h *fileSourceHandler) CurrentHash(
	ctx context.Context,
	_ fixtures.Kind,
	source *config.SourceConfig,
) (string, error) {
	data, err := h.fetchFileData(ctx, source)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
