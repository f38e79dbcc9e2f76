package cmd

import (
	"fmt"
	"os"

	"github.com/MeKo-Tech/concave/internal/batch"
	"github.com/MeKo-Tech/concave/internal/concave"
	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/spf13/cobra"
)

func newContourCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contour <file.json>",
		Short: "Detect concave points on a contour given as JSON",
		Long: `Runs the detector directly on one closed contour stored as [[x,y],...].
The image shape is needed to rasterize the blob and must be given explicitly.

Examples:
  concave contour outline.json --width 640 --height 480
  concave contour outline.json --width 640 --height 480 --format json --debug`,
		Args: cobra.ExactArgs(1),
		RunE: a.runContour,
	}
	addDetectorFlags(cmd)
	addOutputFlags(cmd)
	cmd.Flags().Int("width", 0, "width of the image the contour belongs to")
	cmd.Flags().Int("height", 0, "height of the image the contour belongs to")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func (a *app) runContour(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path) //nolint:gosec // G304: reading a user-provided contour file is expected
	if err != nil {
		return fmt.Errorf("failed to open contour: %w", err)
	}
	orig, err := contour.ReadJSON(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var shape concave.Shape
	shape.Width, _ = cmd.Flags().GetInt("width")
	shape.Height, _ = cmd.Flags().GetInt("height")

	det, err := concave.NewDetector(a.cfg.ToDetectorParams())
	if err != nil {
		return fmt.Errorf("invalid detector settings: %w", err)
	}
	res, err := det.WithLogger(a.logger).Detect(orig, shape)
	if err != nil {
		return err
	}

	out, err := batch.FormatImages([]*batch.ImageResult{{
		File:     path,
		Width:    shape.Width,
		Height:   shape.Height,
		Contours: []batch.ContourResult{batch.NewContourResult(0, orig, res, nil, a.cfg.Output.Debug)},
	}}, a.cfg.Output.Format)
	if err != nil {
		return err
	}
	return batch.WriteOutput(cmd.OutOrStdout(), a.cfg.Output.File, out)
}
