package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/concave/internal/batch"
	"github.com/MeKo-Tech/concave/internal/concave"
	"github.com/spf13/cobra"
)

func newDetectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <image>...",
		Short: "Detect concave points on the blobs of images",
		Long: `Loads each image, thresholds it into foreground blobs, traces the outer
boundary of every blob and reports its concave points.

Supported formats: JPEG, PNG, BMP

Examples:
  concave detect cells.png
  concave detect a.png b.png --format json
  concave detect dark-on-light.jpg --invert --otsu --overlay-dir overlays`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runDetect,
	}
	addDetectorFlags(cmd)
	addBlobFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func (a *app) runDetect(cmd *cobra.Command, args []string) error {
	bc := a.cfg.ToBatchConfig()
	bc.Logger = a.logger

	det, err := concave.NewDetector(bc.Params)
	if err != nil {
		return fmt.Errorf("invalid detector settings: %w", err)
	}
	det = det.WithLogger(a.logger)

	images := make([]*batch.ImageResult, 0, len(args))
	for _, path := range args {
		res, err := batch.ProcessImage(cmd.Context(), det, path, bc)
		if err != nil {
			return err
		}
		images = append(images, res)
	}

	out, err := batch.FormatImages(images, bc.Format)
	if err != nil {
		return err
	}
	return batch.WriteOutput(cmd.OutOrStdout(), bc.OutputFile, out)
}
