package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/concave/internal/config"
	"github.com/MeKo-Tech/concave/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by one command tree: its viper instance, the
// configuration resolved before a subcommand runs, and the logger built from
// it.
type app struct {
	v       *viper.Viper
	loader  *config.Loader
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// flagKeys maps command-line flags to configuration keys. A flag is bound only
// when the executing command defines it.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"verbose":   "verbose",

	"k":                     "detector.k",
	"min-length":            "detector.min_length",
	"max-length":            "detector.max_length",
	"epsilon":               "detector.epsilon",
	"max-refine-iterations": "detector.max_refine_iterations",
	"refine-percentile":     "detector.refine_percentile",
	"contour-workers":       "detector.contour_workers",

	"threshold": "blob.threshold",
	"otsu":      "blob.otsu",
	"invert":    "blob.invert",
	"min-area":  "blob.min_area",

	"format":      "output.format",
	"output":      "output.file",
	"overlay-dir": "output.overlay_dir",
	"debug":       "output.debug",

	"workers":           "batch.workers",
	"recursive":         "batch.recursive",
	"include":           "batch.include",
	"exclude":           "batch.exclude",
	"continue-on-error": "batch.continue_on_error",

	"metrics-file": "metrics.textfile",
}

// NewRootCommand builds the complete command tree.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	a := &app{v: v, loader: config.NewLoaderWithViper(v)}

	rootCmd := &cobra.Command{
		Use:   "concave",
		Short: "Concave point detection on blob contours",
		Long: `Detects concave points on the boundary of blobs: the places where a contour
bends inward, typically where two touching objects meet.

Each contour is simplified, a k-curvature is estimated per point, low-curvature
regions are refined into candidates, and only candidates whose chord leaves the
blob are reported, mapped back onto the original contour.

Examples:
  concave detect cells.png
  concave detect cells.png --format json --overlay-dir overlays
  concave batch images/ --recursive --workers 8 --format csv -o points.csv
  concave contour outline.json --width 640 --height 480`,
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: a.initialize,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/concave, /etc/concave)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newDetectCommand(a),
		newBatchCommand(a),
		newContourCommand(a),
		newConfigCommand(a),
	)
	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// initialize binds the executing command's flags, loads the configuration and
// installs the JSON logger on stderr. Stdout carries results only.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg, err := a.loader.LoadWithFile(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg

	a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel(cfg),
	}))
	slog.SetDefault(a.logger)

	if used := a.loader.GetConfigFileUsed(); used != "" {
		a.logger.Debug("configuration loaded", "file", used)
	}
	return nil
}

func logLevel(cfg *config.Config) slog.Level {
	if cfg.Verbose {
		return slog.LevelDebug
	}
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func addDetectorFlags(cmd *cobra.Command) {
	d := config.DefaultConfig().Detector
	cmd.Flags().Int("k", d.K, "curvature step: chords join each point to the point k ahead")
	cmd.Flags().Int("min-length", d.MinLength, "minimum length of a candidate region")
	cmd.Flags().Int("max-length", d.MaxLength, "maximum length of a candidate region before refinement")
	cmd.Flags().Float64("epsilon", d.Epsilon, "Douglas-Peucker tolerance in pixels")
	cmd.Flags().Int("max-refine-iterations", d.MaxRefineIterations, "cap on refinement steps per contour")
	cmd.Flags().Float64("refine-percentile", d.RefinePercentile, "percentile used for local refinement thresholds")
	cmd.Flags().Int("contour-workers", d.ContourWorkers, "contours of one image processed concurrently (0 = all CPUs)")
}

func addBlobFlags(cmd *cobra.Command) {
	b := config.DefaultConfig().Blob
	cmd.Flags().Int("threshold", b.Threshold, "gray level at or above which a pixel is foreground")
	cmd.Flags().Bool("otsu", b.Otsu, "pick the threshold per image with Otsu's method")
	cmd.Flags().Bool("invert", b.Invert, "treat dark pixels as foreground")
	cmd.Flags().Int("min-area", b.MinArea, "ignore blobs with fewer pixels")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format: text, json, csv, yaml")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().String("overlay-dir", "", "directory to save overlay images")
	cmd.Flags().Bool("debug", false, "include intermediate detection data in json/yaml output")
}
