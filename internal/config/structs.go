package config

// Config represents the complete configuration of the concave application.
// It is loaded from configuration files, environment variables and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Concave point detection
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`

	// Blob extraction from images
	Blob BlobConfig `mapstructure:"blob" yaml:"blob" json:"blob"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Prometheus metrics
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// DetectorConfig contains the concave point detection parameters.
type DetectorConfig struct {
	K                   int     `mapstructure:"k" yaml:"k" json:"k"`
	MinLength           int     `mapstructure:"min_length" yaml:"min_length" json:"min_length"`
	MaxLength           int     `mapstructure:"max_length" yaml:"max_length" json:"max_length"`
	Epsilon             float64 `mapstructure:"epsilon" yaml:"epsilon" json:"epsilon"`
	MaxRefineIterations int     `mapstructure:"max_refine_iterations" yaml:"max_refine_iterations" json:"max_refine_iterations"`
	RefinePercentile    float64 `mapstructure:"refine_percentile" yaml:"refine_percentile" json:"refine_percentile"`
	// ContourWorkers bounds the goroutines used for the contours of one image.
	ContourWorkers int `mapstructure:"contour_workers" yaml:"contour_workers" json:"contour_workers"`
}

// BlobConfig contains the image thresholding settings.
type BlobConfig struct {
	Threshold int  `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	Otsu      bool `mapstructure:"otsu" yaml:"otsu" json:"otsu"`
	Invert    bool `mapstructure:"invert" yaml:"invert" json:"invert"`
	MinArea   int  `mapstructure:"min_area" yaml:"min_area" json:"min_area"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	File       string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
	// Debug adds the intermediate pipeline data to structured output.
	Debug bool `mapstructure:"debug" yaml:"debug" json:"debug"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	Include         []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude         []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	ContinueOnError bool     `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// MetricsConfig contains metrics export settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	// Textfile is written in the Prometheus text format after a run.
	Textfile string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
}
