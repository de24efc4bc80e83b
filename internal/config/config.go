// Package config provides configuration loading and management for the catalog server.
package config

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/locale"
	"github.com/milletmart/catalog-server/internal/telemetry"
)

const (
	// SourceTypeEmbedded serves the fixture compiled into the binary
	SourceTypeEmbedded = "embedded"

	// SourceTypeFile is the type for fixture data stored in local files
	SourceTypeFile = "file"

	// SourceTypeAPI is the type for fixture data fetched from HTTP endpoints
	SourceTypeAPI = "api"

	// SourceTypeGit is the type for fixture data stored in Git repositories
	SourceTypeGit = "git"
)

// EnvPrefix is the prefix of environment variables read by the server
const EnvPrefix = "MILLETMART"

const (
	// DefaultAddress is the listen address used when none is configured
	DefaultAddress = ":8080"

	// DefaultFeaturedCount is the number of products on the home page
	DefaultFeaturedCount = 6

	// DefaultFilterCacheSize is the number of cached filter results
	DefaultFilterCacheSize = filtering.DefaultCacheSize

	// DefaultAPITimeout bounds a single fixture request
	DefaultAPITimeout = 30 * time.Second

	// MinRefreshInterval is the shortest accepted background refresh interval
	MinRefreshInterval = 10 * time.Second
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	Catalog CatalogConfig `yaml:"catalog,omitempty"`

	// Sources maps a fixture kind (products, users, transactions, schemes, learn)
	// to where it is loaded from. Kinds not listed use the embedded fixture.
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`

	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// ServerConfig defines HTTP server settings
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address,omitempty"`

	// RequestTimeout bounds the handling of a single request (e.g., "10s")
	RequestTimeout string `yaml:"requestTimeout,omitempty"`
}

// CatalogConfig defines marketplace behaviour
type CatalogConfig struct {
	// DefaultLanguage is used when a request names no language ("en" or "hi")
	DefaultLanguage string `yaml:"defaultLanguage,omitempty"`

	// FeaturedCount is the number of products returned as featured
	FeaturedCount *int `yaml:"featuredCount,omitempty"`

	// FilterCacheSize is the number of filter results kept in memory.
	// A negative value disables the cache.
	FilterCacheSize int `yaml:"filterCacheSize,omitempty"`

	// Listing decides which loaded products are listed at all
	Listing *ListingConfig `yaml:"listing,omitempty"`

	// RefreshInterval is how often sources are checked for changed
	// fixtures (e.g., "5m"). Empty disables background refresh.
	RefreshInterval string `yaml:"refreshInterval,omitempty"`

	// WatchFiles reloads the catalog as soon as a file source changes on disk
	WatchFiles bool `yaml:"watchFiles,omitempty"`
}

// ListingConfig defines load-time listing rules
type ListingConfig struct {
	Names          *NameFilterConfig          `yaml:"names,omitempty"`
	Certifications *CertificationFilterConfig `yaml:"certifications,omitempty"`
}

// NameFilterConfig defines glob rules on product names
type NameFilterConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// CertificationFilterConfig defines exact rules on product certifications
type CertificationFilterConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// SourceConfig defines where one fixture is loaded from
type SourceConfig struct {
	// Type is embedded, file, api or git. Empty means embedded.
	Type string `yaml:"type,omitempty"`

	File *FileConfig `yaml:"file,omitempty"`
	API  *APIConfig  `yaml:"api,omitempty"`
	Git  *GitConfig  `yaml:"git,omitempty"`
}

// FileConfig defines file source settings
type FileConfig struct {
	// Path is the path to the JSON fixture file
	Path string `yaml:"path"`
}

// GitConfig defines Git source settings
type GitConfig struct {
	// Repository is the Git repository URL (HTTP/HTTPS or a local path)
	Repository string `yaml:"repository"`

	// Branch, Tag and Commit are mutually exclusive; none means the default branch
	Branch string `yaml:"branch,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Commit string `yaml:"commit,omitempty"`

	// Path is the fixture file within the repository. Defaults to the
	// conventional file name of the fixture, e.g. products.json.
	Path string `yaml:"path,omitempty"`
}

// GetPath returns the fixture path within the repository
func (g *GitConfig) GetPath(kind fixtures.Kind) string {
	if g.Path == "" {
		return kind.FileName()
	}
	return g.Path
}

// APIConfig defines HTTP source settings
type APIConfig struct {
	// Endpoint is the URL of the JSON fixture
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds a single request (e.g., "30s")
	Timeout string `yaml:"timeout,omitempty"`

	// MaxAttempts is the number of tries for retryable failures
	MaxAttempts uint `yaml:"maxAttempts,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{}
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetAddress returns the listen address, using DefaultAddress if not specified
func (c *Config) GetAddress() string {
	if c.Server.Address == "" {
		return DefaultAddress
	}
	return c.Server.Address
}

// GetRequestTimeout returns the per-request timeout, or zero when unset
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 0
	}
	return d
}

// GetDefaultLanguage returns the fallback locale, English if not specified
func (c *Config) GetDefaultLanguage() locale.Locale {
	return locale.MustParse(c.Catalog.DefaultLanguage)
}

// GetFeaturedCount returns the featured product count, using DefaultFeaturedCount if not specified
func (c *Config) GetFeaturedCount() int {
	if c.Catalog.FeaturedCount == nil {
		return DefaultFeaturedCount
	}
	return *c.Catalog.FeaturedCount
}

// GetFilterCacheSize returns the filter cache size. Zero means the cache is disabled.
func (c *Config) GetFilterCacheSize() int {
	switch {
	case c.Catalog.FilterCacheSize < 0:
		return 0
	case c.Catalog.FilterCacheSize == 0:
		return DefaultFilterCacheSize
	default:
		return c.Catalog.FilterCacheSize
	}
}

// GetRefreshInterval returns the background refresh interval, or zero when disabled
func (c *Config) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Catalog.RefreshInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// GetWatchedFiles returns the paths of file sources to watch, sorted and
// deduplicated. It is empty unless catalog.watchFiles is set.
func (c *Config) GetWatchedFiles() []string {
	if !c.Catalog.WatchFiles {
		return nil
	}
	var paths []string
	for _, src := range c.Sources {
		if src.GetType() == SourceTypeFile && src.File != nil && src.File.Path != "" {
			paths = append(paths, src.File.Path)
		}
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}

// GetSource returns the source for kind, defaulting to the embedded fixture
func (c *Config) GetSource(kind fixtures.Kind) SourceConfig {
	if src, ok := c.Sources[string(kind)]; ok {
		return src
	}
	return SourceConfig{Type: SourceTypeEmbedded}
}

// SourceSummary lists each fixture with its source type, sorted by fixture,
// e.g. "learn=embedded,products=file,..."
func (c *Config) SourceSummary() string {
	parts := make([]string, 0, len(fixtures.AllKinds))
	for _, kind := range fixtures.AllKinds {
		src := c.GetSource(kind)
		parts = append(parts, fmt.Sprintf("%s=%s", kind, src.GetType()))
	}
	slices.Sort(parts)
	return strings.Join(parts, ",")
}

// GetListingPolicy converts the listing configuration into a filtering policy
func (c *Config) GetListingPolicy() filtering.ListingPolicy {
	var policy filtering.ListingPolicy
	if c.Catalog.Listing == nil {
		return policy
	}
	if names := c.Catalog.Listing.Names; names != nil {
		policy.Names = filtering.Rules{Include: names.Include, Exclude: names.Exclude}
	}
	if certs := c.Catalog.Listing.Certifications; certs != nil {
		policy.Certifications = filtering.Rules{Include: certs.Include, Exclude: certs.Exclude}
	}
	return policy
}

// GetType returns the source type, treating empty as embedded
func (s *SourceConfig) GetType() string {
	if s.Type == "" {
		return SourceTypeEmbedded
	}
	return s.Type
}

// GetTimeout returns the request timeout, using DefaultAPITimeout if not specified
func (a *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return DefaultAPITimeout
	}
	return d
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	return c.validate()
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	if c.Server.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
			errs = append(errs, fmt.Errorf("server.requestTimeout must be a valid duration (e.g., '10s'): %w", err))
		}
	}

	if c.Catalog.DefaultLanguage != "" {
		if _, err := locale.Parse(c.Catalog.DefaultLanguage); err != nil {
			errs = append(errs, fmt.Errorf("catalog.defaultLanguage: %w", err))
		}
	}

	if c.Catalog.FeaturedCount != nil && *c.Catalog.FeaturedCount < 0 {
		errs = append(errs, fmt.Errorf("catalog.featuredCount must be non-negative, got %d", *c.Catalog.FeaturedCount))
	}

	if c.Catalog.RefreshInterval != "" {
		if d, err := time.ParseDuration(c.Catalog.RefreshInterval); err != nil {
			errs = append(errs, fmt.Errorf("catalog.refreshInterval must be a valid duration (e.g., '5m'): %w", err))
		} else if d < MinRefreshInterval {
			errs = append(errs, fmt.Errorf("catalog.refreshInterval must be at least %s, got %s", MinRefreshInterval, d))
		}
	}

	if err := c.GetListingPolicy().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("catalog.listing: %w", err))
	}

	for _, name := range slices.Sorted(maps.Keys(c.Sources)) {
		src := c.Sources[name]
		if err := validateSource(name, &src); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

// validateSource validates a single fixture source
func validateSource(name string, src *SourceConfig) error {
	prefix := fmt.Sprintf("sources.%s", name)

	if !fixtures.Kind(name).IsValid() {
		return fmt.Errorf("%s: unknown fixture kind", prefix)
	}

	switch src.GetType() {
	case SourceTypeEmbedded:
		if src.File != nil || src.API != nil || src.Git != nil {
			return fmt.Errorf("%s: embedded source takes no file, api or git configuration", prefix)
		}
	case SourceTypeFile:
		if src.File == nil || src.File.Path == "" {
			return fmt.Errorf("%s: file.path is required", prefix)
		}
		if src.API != nil || src.Git != nil {
			return fmt.Errorf("%s: only one of file, api or git configuration may be specified", prefix)
		}
	case SourceTypeAPI:
		if src.API == nil || src.API.Endpoint == "" {
			return fmt.Errorf("%s: api.endpoint is required", prefix)
		}
		if src.File != nil || src.Git != nil {
			return fmt.Errorf("%s: only one of file, api or git configuration may be specified", prefix)
		}
		return validateAPIConfig(src.API, prefix)
	case SourceTypeGit:
		if src.Git == nil || src.Git.Repository == "" {
			return fmt.Errorf("%s: git.repository is required", prefix)
		}
		if src.File != nil || src.API != nil {
			return fmt.Errorf("%s: only one of file, api or git configuration may be specified", prefix)
		}
		return validateGitConfig(src.Git, prefix)
	default:
		return fmt.Errorf("%s: unsupported source type '%s'", prefix, src.Type)
	}

	return nil
}

// validateGitConfig validates Git-specific configuration
func validateGitConfig(git *GitConfig, prefix string) error {
	refs := 0
	for _, ref := range []string{git.Branch, git.Tag, git.Commit} {
		if ref != "" {
			refs++
		}
	}
	if refs > 1 {
		return fmt.Errorf("%s: only one of git.branch, git.tag or git.commit may be specified", prefix)
	}
	return nil
}

// validateAPIConfig validates API-specific configuration
func validateAPIConfig(api *APIConfig, prefix string) error {
	u, err := url.Parse(api.Endpoint)
	if err != nil {
		return fmt.Errorf("%s: api.endpoint is not a valid URL: %w", prefix, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: api.endpoint must use http or https, got '%s'", prefix, u.Scheme)
	}
	if api.Timeout != "" {
		if _, err := time.ParseDuration(api.Timeout); err != nil {
			return fmt.Errorf("%s: api.timeout must be a valid duration (e.g., '30s'): %w", prefix, err)
		}
	}
	return nil
}
