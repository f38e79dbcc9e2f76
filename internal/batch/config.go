package batch

import (
	"log/slog"
	"time"

	"github.com/MeKo-Tech/concave/internal/blob"
	"github.com/MeKo-Tech/concave/internal/concave"
	"github.com/MeKo-Tech/concave/internal/metrics"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Detection settings
	Params concave.Params
	Blob   blob.Options

	// Parallel processing settings
	Workers        int // images processed concurrently
	ContourWorkers int // contours of one image processed concurrently

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// ContinueOnError keeps going when an image cannot be processed.
	ContinueOnError bool

	// Output settings
	Format     string
	OutputFile string
	OverlayDir string
	Debug      bool

	// Progress settings
	ShowProgress     bool
	Quiet            bool
	ProgressInterval time.Duration

	Metrics *metrics.Recorder
	Logger  *slog.Logger
}

// DefaultConfig returns a configuration with the default detection
// parameters.
func DefaultConfig() *Config {
	return &Config{
		Params:           concave.DefaultParams(),
		Blob:             blob.DefaultOptions(),
		Workers:          4,
		ContourWorkers:   1,
		ContinueOnError:  true,
		Format:           "text",
		ProgressInterval: 100 * time.Millisecond,
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
