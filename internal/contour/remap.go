package contour

import (
	"image"

	"github.com/paulmach/orb/planar"
)

// NearestOriginal maps every point of the simplified space back onto the
// original contour: for each input point it returns the original point with
// the smallest Euclidean distance, together with its index. Ties keep the
// first minimum in contour order.
func NearestOriginal(orig Original, pts []image.Point) ([]image.Point, []OriginalIndex, error) {
	if len(pts) == 0 {
		return []image.Point{}, []OriginalIndex{}, nil
	}
	if len(orig) == 0 {
		return nil, nil, ErrEmpty
	}

	outPts := make([]image.Point, len(pts))
	outIdx := make([]OriginalIndex, len(pts))
	for i, p := range pts {
		q := toOrb(p)
		best := 0
		bestD := planar.DistanceSquared(q, toOrb(orig[0]))
		for j := 1; j < len(orig) && bestD > 0; j++ {
			if d := planar.DistanceSquared(q, toOrb(orig[j])); d < bestD {
				best, bestD = j, d
			}
		}
		outPts[i] = orig[best]
		outIdx[i] = OriginalIndex(best)
	}
	return outPts, outIdx, nil
}
