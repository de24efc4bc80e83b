package sources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/httpclient"
)

// apiSourceHandler handles fixture data served over HTTP
type apiSourceHandler struct {
	newClient func(api *config.APIConfig) httpclient.Client
	validator FixtureValidator
}

// NewAPISourceHandler creates a new API source handler
func NewAPISourceHandler() SourceHandler {
	return &apiSourceHandler{
		newClient: func(api *config.APIConfig) httpclient.Client {
			return httpclient.NewDefaultClient(api.GetTimeout(), httpclient.WithMaxAttempts(api.MaxAttempts))
		},
		validator: NewSchemaValidator(),
	}
}

// NewAPISourceHandlerWithClient creates an API source handler that uses client for every request
func NewAPISourceHandlerWithClient(client httpclient.Client) SourceHandler {
	return &apiSourceHandler{
		newClient: func(*config.APIConfig) httpclient.Client { return client },
		validator: NewSchemaValidator(),
	}
}

// Validate validates the API source configuration
func (*apiSourceHandler) Validate(source *config.SourceConfig) error {
	if source == nil {
		return fmt.Errorf("source configuration cannot be nil")
	}

	if source.GetType() != config.SourceTypeAPI {
		return fmt.Errorf("invalid source type: expected %s, got %s",
			config.SourceTypeAPI, source.Type)
	}

	if source.API == nil {
		return fmt.Errorf("api configuration is required for source type %s",
			config.SourceTypeAPI)
	}

	if source.API.Endpoint == "" {
		return fmt.Errorf("api endpoint cannot be empty")
	}

	return nil
}

// Fetch retrieves fixture data from the API endpoint
func (h *apiSourceHandler) Fetch(
	ctx context.Context,
	kind fixtures.Kind,
	source *config.SourceConfig,
) (*FetchResult, error) {
	data, err := h.fetchData(ctx, source)
	if err != nil {
		return nil, err
	}

	if err := h.validator.ValidateData(kind, data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slog.InfoContext(ctx, "Fetched fixture from API",
		"kind", kind,
		"endpoint", source.API.Endpoint,
		"bytes", len(data))

	return NewFetchResult(kind, data, source.API.Endpoint), nil
}

// CurrentHash returns the current hash of the API response
func (h *apiSourceHandler) CurrentHash(
	ctx context.Context,
	_ fixtures.Kind,
	source *config.SourceConfig,
) (string, error) {
	data, err := h.fetchData(ctx, source)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

func (h *apiSourceHandler) fetchData(ctx context.Context, source *config.SourceConfig) ([]byte, error) {
	if err := h.Validate(source); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	data, err := h.newClient(source.API).Get(ctx, source.API.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source.API.Endpoint, err)
	}
	return data, nil
}
