package sources

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
)

//go:generate mockgen -destination=mocks/mock_source_handler.go -package=mocks -source=types.go SourceHandler,SourceHandlerFactory

// SourceHandler is an interface with methods to fetch fixture data from a source
type SourceHandler interface {
	// Fetch retrieves and validates the fixture of the given kind
	Fetch(ctx context.Context, kind fixtures.Kind, source *config.SourceConfig) (*FetchResult, error)

	// Validate validates the source configuration
	Validate(source *config.SourceConfig) error

	// CurrentHash returns the current hash of the source data
	CurrentHash(ctx context.Context, kind fixtures.Kind, source *config.SourceConfig) (string, error)
}

// SourceHandlerFactory creates source handlers based on source type
type SourceHandlerFactory interface {
	// CreateHandler creates a source handler for the given source type
	CreateHandler(sourceType string) (SourceHandler, error)
}

// FetchResult contains the result of a fetch operation
type FetchResult struct {
	// Kind is the fixture that was fetched
	Kind fixtures.Kind

	// Data is the raw, schema-validated JSON document
	Data []byte

	// Hash is the SHA256 hash of Data for change detection
	Hash string

	// Origin describes where the data came from (a path, a URL, or "embedded")
	Origin string
}

// NewFetchResult creates a new FetchResult, hashing data
func NewFetchResult(kind fixtures.Kind, data []byte, origin string) *FetchResult {
	return &FetchResult{
		Kind:   kind,
		Data:   data,
		Hash:   Hash(data),
		Origin: origin,
	}
}

// Hash returns the hex SHA256 of data
func Hash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
