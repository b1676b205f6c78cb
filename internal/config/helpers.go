package config

import (
	"fmt"
	"os"
)

// EnsureDirectories ensures all required data directories exist
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Data.RawDir,
		c.Data.CacheDir,
		c.Data.IndexDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// GetServerAddress returns the HTTP server listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// FlareDefaults returns the configured flare scan parameters
func (c *AnalysisConfig) FlareDefaults() (binSize int, sigma, clusterThreshold float64) {
	return c.FlareBinSize, c.FlareSigma, c.ClusterThreshold
}

// EclipseDefaults returns the configured eclipse scan parameters
func (c *AnalysisConfig) EclipseDefaults() (binSize int, maxSlope float64) {
	return c.EclipseBinSize, c.EclipseMaxSlope
}
