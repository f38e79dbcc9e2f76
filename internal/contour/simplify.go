package contour

import (
	"image"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplify reduces the number of points of a closed contour with the
// Douglas-Peucker algorithm at tolerance epsilon. The ring is closed before
// simplification so the segment joining the last and the first point is taken
// into account, and the closing duplicate is removed again afterwards. The
// first point of the input is always kept and the order of the surviving
// points is preserved.
func Simplify(c Original, epsilon float64) Simplified {
	if len(c) < 3 || epsilon < 0 {
		return append(Simplified(nil), c...)
	}

	ls := make(orb.LineString, 0, len(c)+1)
	for _, p := range c {
		ls = append(ls, toOrb(p))
	}
	ls = append(ls, toOrb(c[0]))

	reduced, ok := simplify.DouglasPeucker(epsilon).Simplify(ls.Clone()).(orb.LineString)
	if !ok || len(reduced) == 0 {
		return append(Simplified(nil), c...)
	}

	out := make(Simplified, 0, len(reduced))
	for _, p := range reduced {
		out = append(out, fromOrb(p))
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// Orientation reports the winding of the simplified polygon in orb's
// convention (y axis pointing up). Image coordinates have y pointing down, so
// a polygon that looks clockwise on screen is reported as orb.CCW.
func Orientation(s Simplified) orb.Orientation {
	if len(s) < 3 {
		return 0
	}
	ring := make(orb.Ring, 0, len(s)+1)
	for _, p := range s {
		ring = append(ring, toOrb(p))
	}
	ring = append(ring, toOrb(s[0]))
	return ring.Orientation()
}

func toOrb(p image.Point) orb.Point {
	return orb.Point{float64(p.X), float64(p.Y)}
}

func fromOrb(p orb.Point) image.Point {
	return image.Point{X: int(math.Round(p.X())), Y: int(math.Round(p.Y()))}
}
