// Package curvature estimates a signed bending value for every point of a
// simplified contour from the slopes of chords k points apart.
package curvature

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/MeKo-Tech/concave/internal/mempool"
)

var (
	// ErrInvalidK is returned for a chord offset below one.
	ErrInvalidK = errors.New("curvature: k must be at least 1")
	// ErrTooFewPoints is returned when the contour cannot carry a k-slope.
	ErrTooFewPoints = errors.New("curvature: too few contour points")
)

// Sequence holds one curvature value per simplified contour point.
type Sequence []float64

// Slope returns the k-slope of point i: the slope of the chord from i to the
// point k steps ahead. The axis with the larger span is used as the
// denominator so near-vertical chords do not blow up. A zero-length chord has
// slope 0.
func Slope(s contour.Simplified, i contour.Index, k int) float64 {
	p := s.At(i)
	q := s.At(s.Offset(i, k))
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)

	switch {
	case dx != 0 && math.Abs(dx) >= math.Abs(dy):
		return dy / dx
	case dy != 0:
		return dx / dy
	default:
		return 0
	}
}

// KCurvature computes curvature[i] = slope(i) - slope(i+k) for every index of
// the simplified contour. The returned sequence is index-aligned with s.
func KCurvature(s contour.Simplified, k int) (Sequence, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	n := s.Len()
	if n < 3 || n < k+1 {
		return nil, fmt.Errorf("%w: %d points for k=%d", ErrTooFewPoints, n, k)
	}

	slopes := mempool.GetFloat64(n)
	defer mempool.PutFloat64(slopes)
	for i := range n {
		slopes[i] = Slope(s, contour.Index(i), k)
	}

	out := make(Sequence, n)
	for i := range n {
		out[i] = slopes[i] - slopes[contour.Wrap(i+k, n)]
	}
	return out, nil
}

// Slice returns length values starting at start, wrapping around the end of
// the sequence.
func (c Sequence) Slice(start, length int) []float64 {
	n := len(c)
	if n == 0 || length <= 0 {
		return nil
	}
	out := make([]float64, length)
	for i := range length {
		out[i] = c[contour.Wrap(start+i, n)]
	}
	return out
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between the closest ranks. An empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// GlobalThreshold is the default binarization policy for a whole contour:
// the 25th percentile truncated towards zero, plus one.
func GlobalThreshold(c Sequence) float64 {
	return math.Trunc(Percentile(c, 25)) + 1
}
