package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfig_FromYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		yaml         string
		wantTracing  bool
		wantMetrics  bool
		wantScrape   bool
		wantSampling float64
		wantErr      string
	}{
		{
			name: "disabled section turns everything off",
			yaml: `
enabled: false
tracing: {enabled: true}
metrics: {enabled: true, exporter: prometheus}`,
			wantSampling: DefaultSampling,
		},
		{
			name: "prometheus scrape without tracing",
			yaml: `
enabled: true
metrics: {enabled: true, exporter: prometheus}`,
			wantMetrics:  true,
			wantScrape:   true,
			wantSampling: DefaultSampling,
		},
		{
			name: "otlp push with full sampling",
			yaml: `
enabled: true
endpoint: otel-collector:4318
insecure: true
tracing: {enabled: true, sampling: 1.0}
metrics: {enabled: true}`,
			wantTracing:  true,
			wantMetrics:  true,
			wantSampling: 1.0,
		},
		{
			name: "zero sampling is rejected",
			yaml: `
enabled: true
tracing: {enabled: true, sampling: 0}`,
			wantTracing: true,
			wantErr:     "sampling must be greater than 0.0",
		},
		{
			name: "unknown exporter is rejected",
			yaml: `
enabled: true
metrics: {enabled: true, exporter: statsd}`,
			wantMetrics:  true,
			wantSampling: DefaultSampling,
			wantErr:      `got "statsd"`,
		},
		{
			name: "invalid values in a disabled tracing block are ignored",
			yaml: `
enabled: true
tracing: {enabled: false, sampling: 5}`,
			wantSampling: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg Config
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &cfg))

			assert.Equal(t, tt.wantTracing, cfg.TracingEnabled())
			assert.Equal(t, tt.wantMetrics, cfg.MetricsEnabled())
			assert.Equal(t, tt.wantScrape, cfg.ScrapesMetrics())
			if tt.wantSampling != 0 {
				assert.InDelta(t, tt.wantSampling, cfg.Tracing.GetSampling(), 1e-9)
			}

			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	assert.Equal(t, DefaultServiceName, cfg.GetServiceName())
	assert.Equal(t, "unknown", cfg.GetServiceVersion())
	assert.Equal(t, DefaultEndpoint, cfg.GetEndpoint())
	assert.Equal(t, ExporterOTLP, cfg.Metrics.GetExporter())

	var nilCfg *Config
	assert.False(t, nilCfg.TracingEnabled())
	assert.False(t, nilCfg.MetricsEnabled())
	assert.NoError(t, nilCfg.Validate())

	named := Config{ServiceName: "milletmart-staging", ServiceVersion: "v1.4.0", Endpoint: "collector:4318"}
	assert.Equal(t, "milletmart-staging", named.GetServiceName())
	assert.Equal(t, "v1.4.0", named.GetServiceVersion())
	assert.Equal(t, "collector:4318", named.GetEndpoint())
}
