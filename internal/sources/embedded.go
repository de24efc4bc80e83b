package sources

import (
	"context"
	"fmt"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
)

// OriginEmbedded marks data compiled into the binary
const OriginEmbedded = "embedded"

// embeddedSourceHandler serves the fixtures compiled into the binary
type embeddedSourceHandler struct {
	validator FixtureValidator
}

// NewEmbeddedSourceHandler creates a new embedded source handler
func NewEmbeddedSourceHandler() SourceHandler {
	return &embeddedSourceHandler{
		validator: NewSchemaValidator(),
	}
}

// Validate validates the embedded source configuration
func (*embeddedSourceHandler) Validate(source *config.SourceConfig) error {
	if source == nil {
		return fmt.Errorf("source configuration cannot be nil")
	}
	if source.GetType() != config.SourceTypeEmbedded {
		return fmt.Errorf("invalid source type: expected %s, got %s", config.SourceTypeEmbedded, source.Type)
	}
	return nil
}

// Fetch returns the embedded fixture of the given kind
func (h *embeddedSourceHandler) Fetch(
	_ context.Context,
	kind fixtures.Kind,
	source *config.SourceConfig,
) (*FetchResult, error) {
	if err := h.Validate(source); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	data, err := fixtures.Data(kind)
	if err != nil {
		return nil, err
	}

	if err := h.validator.ValidateData(kind, data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return NewFetchResult(kind, data, OriginEmbedded), nil
}

// CurrentHash returns the hash of the embedded fixture
func (*embeddedSourceHandler) CurrentHash(
	_ context.Context,
	kind fixtures.Kind,
	_ *config.SourceConfig,
) (string, error) {
	data, err := fixtures.Data(kind)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
