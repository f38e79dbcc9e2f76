// Package concave detects concave points on the boundary of a blob: points
// where the contour bends inward, typically where two touching objects meet.
//
// A run simplifies the contour, estimates a k-curvature per point, thresholds
// it into candidate regions, refines oversized regions, picks one
// representative per region by weighted median, drops convex bends and maps
// the survivors back onto the original contour.
package concave

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/concave/internal/common"
	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/MeKo-Tech/concave/internal/curvature"
	"github.com/MeKo-Tech/concave/internal/regions"
)

// Pipeline stage names used in errors and timings.
const (
	StageValidate     = "validate"
	StageSimplify     = "simplify"
	StageCurvature    = "curvature"
	StageRegions      = "regions"
	StageSelect       = "select"
	StageDiscriminate = "discriminate"
	StageRemap        = "remap"
)

// Result is the outcome of a detection run on one contour.
type Result struct {
	// Points are the concave points on the original contour, in region
	// discovery order.
	Points []image.Point `json:"points" yaml:"points"`
	// OriginalIndices are the positions of Points in the original contour.
	OriginalIndices []contour.OriginalIndex `json:"original_indices" yaml:"original_indices"`
	// Apexes are the concave points as indices of the simplified contour.
	// A bend selected at interest point i is reported at its apex i+k, so
	// Apexes[j] is generally not InterestPoints[j], and the apex may lie
	// outside the region the interest point came from.
	Apexes []contour.Index `json:"apexes" yaml:"apexes"`

	Simplified       contour.Simplified `json:"simplified" yaml:"simplified"`
	Curvature        curvature.Sequence `json:"curvature" yaml:"curvature"`
	Threshold        float64            `json:"threshold" yaml:"threshold"`
	Regions          []regions.Region   `json:"regions" yaml:"regions"`
	// InterestPoints holds one weighted-median index per region, before the
	// concavity test.
	InterestPoints   []contour.Index    `json:"interest_points" yaml:"interest_points"`
	RefineIterations int                `json:"refine_iterations" yaml:"refine_iterations"`
	CapExhausted     bool               `json:"cap_exhausted" yaml:"cap_exhausted"`

	Timings map[string]time.Duration `json:"timings" yaml:"timings"`
}

// Detector runs the concave point pipeline with fixed parameters. It holds no
// per-run state and is safe for concurrent use.
type Detector struct {
	params Params
	logger *slog.Logger
}

// NewDetector validates params and returns a Detector.
func NewDetector(params Params) (*Detector, error) {
	if err := params.Validate(); err != nil {
		return nil, invalid(StageValidate, err)
	}
	return &Detector{params: params, logger: slog.Default()}, nil
}

// WithLogger returns a copy of d logging to logger.
func (d *Detector) WithLogger(logger *slog.Logger) *Detector {
	cp := *d
	if logger != nil {
		cp.logger = logger
	}
	return &cp
}

// Params returns the detector parameters.
func (d *Detector) Params() Params { return d.params }

// Detect finds the concave points of one contour. shape is the size of the
// image the contour was extracted from. A contour without any concavity
// yields an empty result and no error.
func (d *Detector) Detect(orig contour.Original, shape Shape) (*Result, error) {
	p := d.params
	if len(orig) < 3 {
		return nil, invalid(StageValidate, fmt.Errorf("contour has %d points, need at least 3", len(orig)))
	}
	if len(orig) < p.K+1 {
		return nil, invalid(StageValidate, fmt.Errorf("contour has %d points, need at least k+1=%d", len(orig), p.K+1))
	}
	if err := shape.Validate(); err != nil {
		return nil, invalid(StageValidate, err)
	}
	if b := orig.Bounds(); !b.In(shape.Rect()) {
		return nil, invalid(StageValidate, fmt.Errorf("contour bounds %v exceed the %dx%d image", b, shape.Width, shape.Height))
	}

	timer := common.NewStageTimer()
	res := &Result{
		Points:          []image.Point{},
		OriginalIndices: []contour.OriginalIndex{},
		Apexes:          []contour.Index{},
		Timings:         map[string]time.Duration{},
	}
	defer func() { timer.CopyTo(res.Timings) }()

	simplified := contour.Simplify(orig, p.Epsilon)
	timer.Lap(StageSimplify)
	res.Simplified = simplified

	curv, err := curvature.KCurvature(simplified, p.K)
	if err != nil {
		return nil, invalid(StageCurvature, err)
	}
	timer.Lap(StageCurvature)
	res.Curvature = curv

	res.Threshold = curvature.GlobalThreshold(curv)
	mask := regions.Binarize(curv, res.Threshold)
	if !mask.Any() {
		d.logger.Debug("no concavity candidates", "points", len(simplified), "threshold", res.Threshold)
		return res, nil
	}

	refined := regions.Refine(
		regions.Extract(mask, p.MinLength), curv, res.Threshold, p.MinLength, p.MaxLength,
		regions.RefineOptions{
			MaxIterations: p.MaxRefineIterations,
			Percentile:    p.RefinePercentile,
			Logger:        d.logger,
		},
	)
	timer.Lap(StageRegions)
	res.Regions = refined.Regions
	res.RefineIterations = refined.Iterations
	res.CapExhausted = refined.CapExhausted

	res.InterestPoints = make([]contour.Index, 0, len(refined.Regions))
	for _, r := range refined.Regions {
		off := regions.WeightedMedian(curv.Slice(r.Start, r.Length))
		if off < 0 {
			continue
		}
		res.InterestPoints = append(res.InterestPoints, simplified.Wrap(r.Start+off))
	}
	timer.Lap(StageSelect)

	res.Apexes = NewDiscriminator(simplified, p.K, shape).Filter(res.InterestPoints)
	timer.Lap(StageDiscriminate)

	res.Points, res.OriginalIndices, err = contour.NearestOriginal(orig, simplified.Points(res.Apexes))
	if err != nil {
		return nil, &StageError{Stage: StageRemap, Err: err}
	}
	timer.Lap(StageRemap)

	d.logger.Debug("concave points detected",
		"contour_points", len(orig),
		"simplified_points", len(simplified),
		"threshold", res.Threshold,
		"regions", len(res.Regions),
		"interest_points", len(res.InterestPoints),
		"concave_points", len(res.Points),
		"orientation", contour.Orientation(simplified),
	)
	return res, nil
}

// DetectConcavePoints is the one-call form of the pipeline: it returns the
// concave points of orig on the original contour.
func DetectConcavePoints(orig contour.Original, k, minLen, maxLen int, epsilon float64,
	shape Shape,
) ([]image.Point, error) {
	params := DefaultParams()
	params.K = k
	params.MinLength = minLen
	params.MaxLength = maxLen
	params.Epsilon = epsilon

	d, err := NewDetector(params)
	if err != nil {
		return nil, err
	}
	res, err := d.Detect(orig, shape)
	if err != nil {
		return nil, err
	}
	return res.Points, nil
}
