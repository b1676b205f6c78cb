package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Data       DataConfig       `mapstructure:"data"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Instrument InstrumentConfig `mapstructure:"instrument"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// DataConfig holds the on-disk layout: raw lightcurve files, the derived
// lightcurve cache, and the catalog index CSVs.
type DataConfig struct {
	RawDir   string `mapstructure:"raw_dir"`
	CacheDir string `mapstructure:"cache_dir"`
	IndexDir string `mapstructure:"index_dir"`
}

// CatalogConfig represents the public archive endpoints
type CatalogConfig struct {
	IndexURL string        `mapstructure:"index_url"` // Galaxy index CSV base URL
	DataURL  string        `mapstructure:"data_url"`  // Lightcurve repository URL template
	Timeout  time.Duration `mapstructure:"timeout"`   // Per-request HTTP timeout
}

// InstrumentConfig carries the telescope constants the derivation depends on
type InstrumentConfig struct {
	BinSeconds  float64 `mapstructure:"bin_seconds"`  // Sampling interval in seconds
	PeriodScale float64 `mapstructure:"period_scale"` // Dominant-period unit conversion
}

// AnalysisConfig holds the default scan parameters
type AnalysisConfig struct {
	FlareBinSize        int     `mapstructure:"flare_bin_size"`       // Samples per flare regression bin
	FlareSigma          float64 `mapstructure:"flare_sigma"`          // Outlier threshold in standard deviations
	ClusterThreshold    float64 `mapstructure:"cluster_threshold"`    // Flagged fraction for a flare event
	EclipseBinSize      int     `mapstructure:"eclipse_bin_size"`     // Samples per eclipse regression bin
	EclipseMaxSlope     float64 `mapstructure:"eclipse_max_slope"`    // Slope ceiling for eclipse bins
	RateBinning         float64 `mapstructure:"rate_binning"`         // Default binned-rate interval in seconds
	DownsampleThreshold int     `mapstructure:"downsample_threshold"` // Target points for series responses
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Data.Validate(); err != nil {
		return fmt.Errorf("data config: %w", err)
	}

	if err := c.Instrument.Validate(); err != nil {
		return fmt.Errorf("instrument config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates the data directory configuration
func (c *DataConfig) Validate() error {
	if c.RawDir == "" {
		return fmt.Errorf("raw_dir is required")
	}

	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir is required")
	}

	if c.IndexDir == "" {
		return fmt.Errorf("index_dir is required")
	}

	return nil
}

// Validate validates instrument configuration
func (c *InstrumentConfig) Validate() error {
	if c.BinSeconds <= 0 {
		return fmt.Errorf("instrument.bin_seconds must be positive")
	}

	if c.PeriodScale <= 0 {
		return fmt.Errorf("instrument.period_scale must be positive")
	}

	return nil
}

// Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if c.FlareBinSize < 1 {
		return fmt.Errorf("analysis.flare_bin_size must be at least 1")
	}

	if c.FlareSigma <= 0 {
		return fmt.Errorf("analysis.flare_sigma must be positive")
	}

	if c.ClusterThreshold <= 0 || c.ClusterThreshold > 1 {
		return fmt.Errorf("analysis.cluster_threshold must be in (0, 1]")
	}

	if c.EclipseBinSize < 1 {
		return fmt.Errorf("analysis.eclipse_bin_size must be at least 1")
	}

	if c.RateBinning <= 0 {
		return fmt.Errorf("analysis.rate_binning must be positive")
	}

	if c.DownsampleThreshold < 2 {
		return fmt.Errorf("analysis.downsample_threshold must be at least 2")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
