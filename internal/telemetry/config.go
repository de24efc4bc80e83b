// Package telemetry wires OpenTelemetry into the catalog server. Traces go out
// over OTLP; metrics are pushed over OTLP or scraped from /metrics.
package telemetry

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultServiceName names the service when the configuration does not
	DefaultServiceName = "milletmart-api"

	// DefaultEndpoint is the OTLP/HTTP collector address
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling samples 5% of catalog requests
	DefaultSampling = 0.05

	// DefaultMetricsInterval is how often OTLP metrics are pushed
	DefaultMetricsInterval = 60 * time.Second

	// ExporterOTLP pushes metrics to the OTLP endpoint
	ExporterOTLP = "otlp"

	// ExporterPrometheus exposes metrics on the server's /metrics route
	ExporterPrometheus = "prometheus"
)

// Config is the telemetry section of the server configuration
type Config struct {
	// Enabled turns telemetry on. Tracing and metrics are then enabled separately.
	Enabled bool `yaml:"enabled"`

	// ServiceName defaults to DefaultServiceName
	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to the binary version
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the OTLP/HTTP collector as "host:port"
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure sends OTLP over plain HTTP
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig configures span export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the ratio of traces kept, in (0.0, 1.0]
	Sampling *float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig configures metric export
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporter is "otlp" (default) or "prometheus"
	Exporter string `yaml:"exporter,omitempty"`
}

// TracingEnabled reports whether spans are exported
func (c *Config) TracingEnabled() bool {
	return c != nil && c.Enabled && c.Tracing != nil && c.Tracing.Enabled
}

// MetricsEnabled reports whether metrics are exported
func (c *Config) MetricsEnabled() bool {
	return c != nil && c.Enabled && c.Metrics != nil && c.Metrics.Enabled
}

// ScrapesMetrics reports whether metrics are served for Prometheus scraping
func (c *Config) ScrapesMetrics() bool {
	return c.MetricsEnabled() && c.Metrics.GetExporter() == ExporterPrometheus
}

// GetExporter returns the metrics exporter, defaulting to OTLP
func (c *MetricsConfig) GetExporter() string {
	if c == nil || c.Exporter == "" {
		return ExporterOTLP
	}
	return c.Exporter
}

// GetServiceName returns the service name, using default if not specified
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the service version, using "unknown" if not specified
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// GetEndpoint returns the endpoint, using default if not specified
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetSampling returns the sampling ratio, or DefaultSampling when unset
func (c *TracingConfig) GetSampling() float64 {
	if c == nil || c.Sampling == nil {
		return DefaultSampling
	}
	return *c.Sampling
}

// Validate checks the enabled parts of the configuration. A nil or disabled
// configuration is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if c.TracingEnabled() {
		if s := c.Tracing.GetSampling(); s <= 0 || s > 1.0 {
			errs = append(errs, fmt.Errorf("tracing: sampling must be greater than 0.0 and at most 1.0, got %g", s))
		}
	}
	if c.MetricsEnabled() {
		switch exp := c.Metrics.GetExporter(); exp {
		case ExporterOTLP, ExporterPrometheus:
		default:
			errs = append(errs, fmt.Errorf("metrics: exporter must be %q or %q, got %q",
				ExporterOTLP, ExporterPrometheus, exp))
		}
	}
	return errors.Join(errs...)
}
