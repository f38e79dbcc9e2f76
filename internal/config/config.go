package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MeKo-Tech/concave/internal/batch"
	"github.com/MeKo-Tech/concave/internal/blob"
	"github.com/MeKo-Tech/concave/internal/concave"
)

// Valid values for enumerated settings.
var (
	ValidLogLevels     = []string{"debug", "info", "warn", "error"}
	ValidOutputFormats = []string{"text", "json", "csv", "yaml"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Detector: defaultDetectorConfig(),
		Blob:     defaultBlobConfig(),
		Output: OutputConfig{
			Format: "text",
		},
		Batch: BatchConfig{
			Workers:         4,
			Recursive:       false,
			Include:         []string{},
			Exclude:         []string{},
			ContinueOnError: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// defaultDetectorConfig returns default detector configuration.
func defaultDetectorConfig() DetectorConfig {
	p := concave.DefaultParams()
	return DetectorConfig{
		K:                   p.K,
		MinLength:           p.MinLength,
		MaxLength:           p.MaxLength,
		Epsilon:             p.Epsilon,
		MaxRefineIterations: p.MaxRefineIterations,
		RefinePercentile:    p.RefinePercentile,
		ContourWorkers:      1,
	}
}

// defaultBlobConfig returns default blob extraction configuration.
func defaultBlobConfig() BlobConfig {
	o := blob.DefaultOptions()
	return BlobConfig{
		Threshold: int(o.Threshold),
		Otsu:      o.Otsu,
		Invert:    o.Invert,
		MinArea:   o.MinArea,
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	if !slices.Contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(ValidLogLevels, ", "))
	}
	if c.Output.Format != "" && !slices.Contains(ValidOutputFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)",
			c.Output.Format, strings.Join(ValidOutputFormats, ", "))
	}

	if err := c.ToDetectorParams().Validate(); err != nil {
		return fmt.Errorf("invalid detector settings: %w", err)
	}
	if c.Detector.ContourWorkers < 0 {
		return fmt.Errorf("invalid detector contour workers: %d (must not be negative)", c.Detector.ContourWorkers)
	}

	if c.Blob.Threshold < 0 || c.Blob.Threshold > 255 {
		return fmt.Errorf("invalid blob threshold: %d (must be between 0 and 255)", c.Blob.Threshold)
	}
	if c.Blob.MinArea < 0 {
		return fmt.Errorf("invalid blob min area: %d (must not be negative)", c.Blob.MinArea)
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}
	if c.Metrics.Textfile != "" && !strings.HasSuffix(c.Metrics.Textfile, ".prom") {
		return fmt.Errorf("invalid metrics textfile: %s (must end in .prom)", c.Metrics.Textfile)
	}

	return nil
}

// ToDetectorParams converts the detector section to concave.Params.
func (c *Config) ToDetectorParams() concave.Params {
	return concave.Params{
		K:                   c.Detector.K,
		MinLength:           c.Detector.MinLength,
		MaxLength:           c.Detector.MaxLength,
		Epsilon:             c.Detector.Epsilon,
		MaxRefineIterations: c.Detector.MaxRefineIterations,
		RefinePercentile:    c.Detector.RefinePercentile,
	}
}

// ToBlobOptions converts the blob section to blob.Options. The threshold is
// clamped to the gray range.
func (c *Config) ToBlobOptions() blob.Options {
	return blob.Options{
		Threshold: uint8(min(max(c.Blob.Threshold, 0), 255)), //nolint:gosec // clamped to [0, 255]
		Otsu:      c.Blob.Otsu,
		Invert:    c.Blob.Invert,
		MinArea:   c.Blob.MinArea,
	}
}

// ToBatchConfig converts the configuration to a batch.Config. Progress,
// metrics and logging are left for the caller to set.
func (c *Config) ToBatchConfig() *batch.Config {
	bc := batch.DefaultConfig()
	bc.Params = c.ToDetectorParams()
	bc.Blob = c.ToBlobOptions()
	bc.Workers = c.Batch.Workers
	bc.ContourWorkers = c.Detector.ContourWorkers
	bc.Recursive = c.Batch.Recursive
	bc.IncludePatterns = c.Batch.Include
	bc.ExcludePatterns = c.Batch.Exclude
	bc.ContinueOnError = c.Batch.ContinueOnError
	bc.Format = c.Output.Format
	bc.OutputFile = c.Output.File
	bc.OverlayDir = c.Output.OverlayDir
	bc.Debug = c.Output.Debug
	return bc
}
