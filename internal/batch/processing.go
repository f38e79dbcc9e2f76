package batch

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/concave/internal/blob"
	"github.com/MeKo-Tech/concave/internal/concave"
	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/MeKo-Tech/concave/internal/utils"
)

// Point is a pixel position in formatted output.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Box is an axis-aligned pixel rectangle.
type Box struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// ContourResult is the detection outcome for one blob of an image.
type ContourResult struct {
	Index           int             `json:"index" yaml:"index"`
	Area            int             `json:"area" yaml:"area"`
	Box             Box             `json:"box" yaml:"box"`
	ContourLength   int             `json:"contour_length" yaml:"contour_length"`
	Points          []Point         `json:"points" yaml:"points"`
	OriginalIndices []int           `json:"original_indices" yaml:"original_indices"`
	Error           string          `json:"error,omitempty" yaml:"error,omitempty"`
	Detail          *concave.Result `json:"detail,omitempty" yaml:"detail,omitempty"`

	contour contour.Original
}

// ImageResult is the detection outcome for one image.
type ImageResult struct {
	File       string          `json:"file" yaml:"file"`
	Width      int             `json:"width" yaml:"width"`
	Height     int             `json:"height" yaml:"height"`
	Threshold  int             `json:"threshold" yaml:"threshold"`
	Contours   []ContourResult `json:"contours" yaml:"contours"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMs float64         `json:"duration_ms" yaml:"duration_ms"`
}

// PointCount returns the number of concave points over all contours.
func (r *ImageResult) PointCount() int {
	n := 0
	for _, c := range r.Contours {
		n += len(c.Points)
	}
	return n
}

// FailedContours returns the number of contours that could not be processed.
func (r *ImageResult) FailedContours() int {
	n := 0
	for _, c := range r.Contours {
		if c.Error != "" {
			n++
		}
	}
	return n
}

// DetectImage extracts the blobs of img and detects the concave points of
// every blob. A contour the detector rejects is reported in its own entry
// and does not fail the image.
func DetectImage(ctx context.Context, det *concave.Detector, img image.Image, cfg *Config) (*ImageResult, error) {
	start := time.Now()

	mask, err := blob.Binarize(img, cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}
	blobs := blob.FromMask(mask, cfg.Blob.MinArea)
	cfg.Metrics.ObserveStage("blob", time.Since(start))

	contours := make([]contour.Original, len(blobs))
	for i, b := range blobs {
		contours[i] = b.Contour
	}

	shape := concave.ShapeOf(img)
	results, errs, err := det.DetectAll(ctx, contours, shape, cfg.ContourWorkers)
	if err != nil {
		return nil, err
	}

	out := &ImageResult{
		Width:     shape.Width,
		Height:    shape.Height,
		Threshold: int(mask.Threshold),
		Contours:  make([]ContourResult, len(blobs)),
	}
	for i, b := range blobs {
		cfg.Metrics.ObserveContour(results[i], errs[i])
		if errs[i] != nil {
			cfg.logger().Warn("skipping contour", "contour", i, "points", len(b.Contour), "error", errs[i])
		}
		cr := NewContourResult(i, b.Contour, results[i], errs[i], cfg.Debug)
		cr.Area = b.Area
		out.Contours[i] = cr
	}
	out.DurationMs = float64(time.Since(start).Microseconds()) / 1000

	cfg.logger().Debug("image processed",
		"contours", len(out.Contours),
		"concave_points", out.PointCount(),
		"failed_contours", out.FailedContours())
	return out, nil
}

// NewContourResult converts the outcome of one detection run into its
// output form. With debug set the full detection result is attached.
func NewContourResult(index int, orig contour.Original, res *concave.Result, err error, debug bool) ContourResult {
	r := orig.Bounds()
	cr := ContourResult{
		Index:           index,
		Box:             Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()},
		ContourLength:   len(orig),
		Points:          []Point{},
		OriginalIndices: []int{},
		contour:         orig,
	}
	if err != nil {
		cr.Error = err.Error()
		return cr
	}
	for j, p := range res.Points {
		cr.Points = append(cr.Points, Point{X: p.X, Y: p.Y})
		cr.OriginalIndices = append(cr.OriginalIndices, int(res.OriginalIndices[j]))
	}
	if debug {
		cr.Detail = res
	}
	return cr
}

// ProcessImage loads the image at path and runs DetectImage on it. When an
// overlay directory is configured the contours and concave points are drawn
// onto a copy of the image and saved there.
func ProcessImage(ctx context.Context, det *concave.Detector, path string, cfg *Config) (*ImageResult, error) {
	img, meta, err := utils.LoadImage(path)
	if err != nil {
		cfg.Metrics.ObserveImage(err)
		return nil, err
	}

	res, err := DetectImage(ctx, det, img, cfg)
	cfg.Metrics.ObserveImage(err)
	if err != nil {
		return nil, fmt.Errorf("detection failed for %s: %w", path, err)
	}
	res.File = path

	if cfg.OverlayDir != "" {
		if err := saveOverlay(img, res, meta, cfg.OverlayDir); err != nil {
			cfg.logger().Warn("failed to save overlay", "file", path, "error", err)
		}
	}
	return res, nil
}

// RenderOverlay draws every contour and a cross on every concave point.
func RenderOverlay(img image.Image, res *ImageResult) *image.RGBA {
	dst := utils.ToRGBA(img)
	for _, c := range res.Contours {
		utils.DrawPolyline(dst, c.contour, utils.ContourColor, 1)
	}
	for _, c := range res.Contours {
		for _, p := range c.Points {
			utils.DrawCross(dst, image.Pt(p.X, p.Y), 3, utils.PointColor, 1)
		}
	}
	return dst
}

func saveOverlay(img image.Image, res *ImageResult, meta utils.ImageMetadata, overlayDir string) error {
	base := filepath.Base(meta.Path)
	outPath := filepath.Join(overlayDir, strings.TrimSuffix(base, filepath.Ext(base))+"_concave.png")
	return utils.SaveImage(RenderOverlay(img, res), outPath)
}
