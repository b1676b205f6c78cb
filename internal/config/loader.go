package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/fluxlc/fluxlc/internal/analytics/eclipse"
	"github.com/fluxlc/fluxlc/internal/analytics/flare"
	"github.com/fluxlc/fluxlc/internal/analytics/spectral"
	"github.com/fluxlc/fluxlc/internal/catalog"
	"github.com/fluxlc/fluxlc/internal/downsampling"
	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")           // Current directory
		v.AddConfigPath("./configs")   // Project configs directory
		v.AddConfigPath("./config")    // Alternative config directory
		v.AddConfigPath("/etc/fluxlc") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("FLUXLC")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 5555)

	// Data defaults
	v.SetDefault("data.raw_dir", "./data/raw")
	v.SetDefault("data.cache_dir", "./data/cache")
	v.SetDefault("data.index_dir", "./data/index")

	// Catalog defaults
	v.SetDefault("catalog.index_url", catalog.DefaultIndexURL)
	v.SetDefault("catalog.data_url", catalog.DefaultDataURL)
	v.SetDefault("catalog.timeout", "30s")

	// Instrument defaults
	v.SetDefault("instrument.bin_seconds", lightcurve.DefaultBinSeconds)
	v.SetDefault("instrument.period_scale", spectral.DefaultPeriodScale)

	// Analysis defaults
	v.SetDefault("analysis.flare_bin_size", 10)
	v.SetDefault("analysis.flare_sigma", 2.0)
	v.SetDefault("analysis.cluster_threshold", 0.3)
	v.SetDefault("analysis.eclipse_bin_size", 300)
	v.SetDefault("analysis.eclipse_max_slope", 1.0)
	v.SetDefault("analysis.rate_binning", 500.0)
	v.SetDefault("analysis.downsample_threshold", downsampling.DefaultAutoThreshold)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	flareCfg := flare.DefaultConfig()
	eclipseCfg := eclipse.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 5555,
		},
		Data: DataConfig{
			RawDir:   "./data/raw",
			CacheDir: "./data/cache",
			IndexDir: "./data/index",
		},
		Catalog: CatalogConfig{
			IndexURL: catalog.DefaultIndexURL,
			DataURL:  catalog.DefaultDataURL,
			Timeout:  30 * time.Second,
		},
		Instrument: InstrumentConfig{
			BinSeconds:  lightcurve.DefaultBinSeconds,
			PeriodScale: spectral.DefaultPeriodScale,
		},
		Analysis: AnalysisConfig{
			FlareBinSize:        flareCfg.BinSize,
			FlareSigma:          flareCfg.Sigma,
			ClusterThreshold:    flareCfg.ClusterThreshold,
			EclipseBinSize:      eclipseCfg.BinSize,
			EclipseMaxSlope:     eclipseCfg.MaxSlope,
			RateBinning:         500,
			DownsampleThreshold: downsampling.DefaultAutoThreshold,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
