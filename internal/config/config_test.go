package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5555, cfg.Server.HTTPPort)
	assert.Equal(t, lightcurve.DefaultBinSeconds, cfg.Instrument.BinSeconds)
	assert.Equal(t, 10, cfg.Analysis.FlareBinSize)
	assert.Equal(t, 2.0, cfg.Analysis.FlareSigma)
	assert.Equal(t, 0.3, cfg.Analysis.ClusterThreshold)
	assert.Equal(t, 300, cfg.Analysis.EclipseBinSize)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.HTTPPort, cfg.Server.HTTPPort)
	assert.Equal(t, DefaultConfig().Analysis.FlareSigma, cfg.Analysis.FlareSigma)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: 127.0.0.1
  http_port: 8080
analysis:
  flare_sigma: 3.0
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 3.0, cfg.Analysis.FlareSigma)
	// Unset keys keep their defaults.
	assert.Equal(t, 10, cfg.Analysis.FlareBinSize)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http_port: 99999
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: -1\n"), 0o644))

	cfg := LoadOrDefault(path)
	assert.Equal(t, DefaultConfig().Server.HTTPPort, cfg.Server.HTTPPort)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"missing raw dir", func(c *Config) { c.Data.RawDir = "" }},
		{"zero bin seconds", func(c *Config) { c.Instrument.BinSeconds = 0 }},
		{"zero flare bin size", func(c *Config) { c.Analysis.FlareBinSize = 0 }},
		{"negative sigma", func(c *Config) { c.Analysis.FlareSigma = -1 }},
		{"cluster threshold above 1", func(c *Config) { c.Analysis.ClusterThreshold = 1.5 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Data.RawDir = filepath.Join(dir, "raw")
	cfg.Data.CacheDir = filepath.Join(dir, "cache")
	cfg.Data.IndexDir = filepath.Join(dir, "index")

	require.NoError(t, cfg.EnsureDirectories())
	for _, d := range []string{cfg.Data.RawDir, cfg.Data.CacheDir, cfg.Data.IndexDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestGetServerAddress(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "0.0.0.0:5555", cfg.GetServerAddress())
}
