package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/concave/internal/blob"
	"github.com/MeKo-Tech/concave/internal/concave"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, concave.DefaultParams(), cfg.ToDetectorParams())
	assert.Equal(t, blob.DefaultOptions(), cfg.ToBlobOptions())
	assert.True(t, cfg.Batch.ContinueOnError)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format"},
		{"empty format allowed", func(c *Config) { c.Output.Format = "" }, ""},
		{"k zero", func(c *Config) { c.Detector.K = 0 }, "invalid detector settings"},
		{"max below min", func(c *Config) { c.Detector.MaxLength = 1 }, "invalid detector settings"},
		{"negative epsilon", func(c *Config) { c.Detector.Epsilon = -1 }, "invalid detector settings"},
		{"negative contour workers", func(c *Config) { c.Detector.ContourWorkers = -1 }, "contour workers"},
		{"threshold above gray range", func(c *Config) { c.Blob.Threshold = 256 }, "invalid blob threshold"},
		{"negative min area", func(c *Config) { c.Blob.MinArea = -1 }, "min area"},
		{"no batch workers", func(c *Config) { c.Batch.Workers = 0 }, "invalid batch workers"},
		{"metrics textfile extension", func(c *Config) { c.Metrics.Textfile = "out.txt" }, "metrics textfile"},
		{"metrics textfile ok", func(c *Config) { c.Metrics.Textfile = "/tmp/concave.prom" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToBlobOptions_ClampsThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Blob.Threshold = 300
	assert.Equal(t, uint8(255), cfg.ToBlobOptions().Threshold)
	cfg.Blob.Threshold = -4
	assert.Equal(t, uint8(0), cfg.ToBlobOptions().Threshold)
}

func TestToBatchConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector.K = 5
	cfg.Detector.ContourWorkers = 3
	cfg.Batch.Workers = 2
	cfg.Batch.Recursive = true
	cfg.Batch.Include = []string{"*.png"}
	cfg.Output.Format = "json"
	cfg.Output.OverlayDir = "overlays"
	cfg.Output.Debug = true

	bc := cfg.ToBatchConfig()
	assert.Equal(t, 5, bc.Params.K)
	assert.Equal(t, 3, bc.ContourWorkers)
	assert.Equal(t, 2, bc.Workers)
	assert.True(t, bc.Recursive)
	assert.Equal(t, []string{"*.png"}, bc.IncludePatterns)
	assert.Equal(t, "json", bc.Format)
	assert.Equal(t, "overlays", bc.OverlayDir)
	assert.True(t, bc.Debug)
	assert.True(t, bc.ContinueOnError)
	assert.Nil(t, bc.Metrics)
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Batch.Include = []string{"*.png"}
	cfg.Detector.K = 5

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "min_length: 2")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
}
