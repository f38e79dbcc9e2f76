package cmd

import (
	"fmt"
	"time"

	"github.com/MeKo-Tech/concave/internal/batch"
	"github.com/MeKo-Tech/concave/internal/config"
	"github.com/MeKo-Tech/concave/internal/metrics"
	"github.com/spf13/cobra"
)

func newBatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <path>...",
		Short: "Detect concave points on many images in parallel",
		Long: `Processes image files and directories with a pool of workers. A contour
or image that cannot be processed is reported in the results and the run
continues, unless --continue-on-error=false is given.

Examples:
  concave batch *.png
  concave batch images/ --recursive --workers 8
  concave batch images/ --format json --output results.json --stats
  concave batch images/ --metrics-file /var/lib/node_exporter/concave.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runBatch,
	}

	addDetectorFlags(cmd)
	addBlobFlags(cmd)
	addOutputFlags(cmd)

	b := config.DefaultConfig().Batch
	cmd.Flags().IntP("workers", "w", b.Workers, "number of images processed in parallel")
	cmd.Flags().BoolP("recursive", "r", b.Recursive, "recursively scan directories")
	cmd.Flags().StringSlice("include", b.Include, "file patterns to include")
	cmd.Flags().StringSlice("exclude", b.Exclude, "file patterns to exclude")
	cmd.Flags().Bool("continue-on-error", b.ContinueOnError, "keep going when an image fails")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics to this .prom file after the run")

	cmd.Flags().Bool("progress", false, "show progress bar")
	cmd.Flags().Bool("quiet", false, "suppress progress output")
	cmd.Flags().Bool("stats", false, "show processing statistics")
	cmd.Flags().Duration("progress-interval", 500*time.Millisecond, "progress update interval")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, args []string) error {
	bc := a.cfg.ToBatchConfig()
	bc.Logger = a.logger

	// Progress settings are command-line only.
	bc.ShowProgress, _ = cmd.Flags().GetBool("progress")
	bc.Quiet, _ = cmd.Flags().GetBool("quiet")
	bc.ProgressInterval, _ = cmd.Flags().GetDuration("progress-interval")
	showStats, _ := cmd.Flags().GetBool("stats")

	if a.cfg.Metrics.Enabled || a.cfg.Metrics.Textfile != "" {
		bc.Metrics = metrics.NewRecorder()
	}

	result, err := batch.ProcessBatch(cmd.Context(), args, bc)
	if err != nil {
		return err
	}

	if err := result.WriteResults(cmd.OutOrStdout(), bc.OutputFile, bc.Format); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := bc.Metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if showStats && !bc.Quiet {
		result.PrintStats(cmd.ErrOrStderr())
	}
	return nil
}
