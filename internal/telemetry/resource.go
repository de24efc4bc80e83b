package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Resource attribute keys describing the catalog a server instance serves.
const (
	AttrCatalogSources       = attribute.Key("milletmart.catalog.sources")
	AttrCatalogDefaultLocale = attribute.Key("milletmart.catalog.default_locale")
)

// CatalogInfo identifies the catalog behind the exported telemetry
type CatalogInfo struct {
	// Sources lists each fixture with its source type, e.g. "products=file,users=embedded"
	Sources string
	// DefaultLocale is the language served when a request names none
	DefaultLocale string
}

func (i CatalogInfo) attributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if i.Sources != "" {
		attrs = append(attrs, AttrCatalogSources.String(i.Sources))
	}
	if i.DefaultLocale != "" {
		attrs = append(attrs, AttrCatalogDefaultLocale.String(i.DefaultLocale))
	}
	return attrs
}

// NewResource describes the service and its catalog. Traces and metrics
// share the one resource.
func NewResource(ctx context.Context, cfg *Config, info CatalogInfo) (*resource.Resource, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	attrs := append([]attribute.KeyValue{
		semconv.ServiceName(cfg.GetServiceName()),
		semconv.ServiceVersion(cfg.GetServiceVersion()),
	}, info.attributes()...)

	res, err := resource.New(ctx,
		resource.WithAttributes(attrs...),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
