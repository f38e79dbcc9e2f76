package testutil

import (
	"image"
	"math"
)

// NotchSize is the canvas the notched rectangle is drawn on.
var NotchSize = image.Pt(50, 70)

// NotchVertices returns a 40x60 rectangle whose left edge has a triangular
// notch pointing inward; the notch tip at (15, 30) is the only concave corner.
func NotchVertices() []image.Point {
	return []image.Point{
		{0, 0}, {40, 0}, {40, 60}, {0, 60},
		{0, 35}, {15, 30}, {0, 25},
	}
}

// NotchTip is the concave corner of NotchVertices.
var NotchTip = image.Pt(15, 30)

// SquareVertices returns the corners of an axis-aligned square.
func SquareVertices(x, y, size int) []image.Point {
	return []image.Point{
		{x, y}, {x, y + size}, {x + size, y + size}, {x + size, y},
	}
}

// DenseRing inserts every lattice point lying exactly on the edges of the
// closed polygon, so a tolerant simplification recovers the vertices. The
// first vertex stays first.
func DenseRing(vertices []image.Point) []image.Point {
	var out []image.Point
	for i, a := range vertices {
		b := vertices[(i+1)%len(vertices)]
		d := b.Sub(a)
		g := gcd(abs(d.X), abs(d.Y))
		if g == 0 {
			out = append(out, a)
			continue
		}
		step := image.Pt(d.X/g, d.Y/g)
		for j := range g {
			out = append(out, a.Add(step.Mul(j)))
		}
	}
	return out
}

// Circle returns n points on a circle, clockwise on screen.
func Circle(center image.Point, radius float64, n int) []image.Point {
	out := make([]image.Point, 0, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		p := image.Pt(
			center.X+int(math.Round(radius*math.Cos(a))),
			center.Y+int(math.Round(radius*math.Sin(a))),
		)
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
