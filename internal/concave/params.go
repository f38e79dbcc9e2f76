package concave

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/concave/internal/regions"
)

// Params holds the tuning knobs of a detection run.
type Params struct {
	// K is the forward offset of the chords used for k-slopes: point i is
	// joined to point i+k.
	K int `json:"k" yaml:"k"`
	// MinLength and MaxLength bound the length of candidate regions.
	MinLength int `json:"min_length" yaml:"min_length"`
	MaxLength int `json:"max_length" yaml:"max_length"`
	// Epsilon is the Douglas-Peucker tolerance applied to the contour.
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
	// MaxRefineIterations caps region refinement (0 = regions.DefaultMaxIterations).
	MaxRefineIterations int `json:"max_refine_iterations" yaml:"max_refine_iterations"`
	// RefinePercentile is the local percentile used to tighten thresholds.
	RefinePercentile float64 `json:"refine_percentile" yaml:"refine_percentile"`
}

// DefaultParams returns the parameters used for cell clump images.
func DefaultParams() Params {
	return Params{
		K:                   7,
		MinLength:           2,
		MaxLength:           11,
		Epsilon:             0.2,
		MaxRefineIterations: regions.DefaultMaxIterations,
		RefinePercentile:    25,
	}
}

// Validate checks the parameters for consistency.
func (p Params) Validate() error {
	switch {
	case p.K < 1:
		return fmt.Errorf("k must be positive, got %d", p.K)
	case p.MinLength < 1:
		return fmt.Errorf("min length must be positive, got %d", p.MinLength)
	case p.MaxLength < p.MinLength:
		return fmt.Errorf("max length %d is below min length %d", p.MaxLength, p.MinLength)
	case p.Epsilon < 0:
		return fmt.Errorf("epsilon must not be negative, got %g", p.Epsilon)
	case p.MaxRefineIterations < 0:
		return fmt.Errorf("max refine iterations must not be negative, got %d", p.MaxRefineIterations)
	case p.RefinePercentile < 0 || p.RefinePercentile > 100:
		return fmt.Errorf("refine percentile must be within [0, 100], got %g", p.RefinePercentile)
	}
	return nil
}

// Shape is the size of the source image.
type Shape struct {
	Height int `json:"height" yaml:"height"`
	Width  int `json:"width" yaml:"width"`
}

// ShapeOf returns the shape of img.
func ShapeOf(img image.Image) Shape {
	b := img.Bounds()
	return Shape{Height: b.Dy(), Width: b.Dx()}
}

// Rect is the pixel rectangle of the image, anchored at the origin.
func (s Shape) Rect() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// Validate checks that the shape is non-empty.
func (s Shape) Validate() error {
	if s.Height <= 0 || s.Width <= 0 {
		return errors.New("image shape must be positive")
	}
	return nil
}
