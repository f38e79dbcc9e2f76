package concave

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/MeKo-Tech/concave/internal/contour"
)

// coveredAlpha is the coverage from which a pixel counts as part of the blob.
const coveredAlpha = 0x80

// Discriminator separates concave bends from convex ones. It renders the
// simplified contour as a filled blob on a canvas the size of the source
// image and tests where the chord across each candidate bend falls.
type Discriminator struct {
	s    contour.Simplified
	k    int
	mask *image.Alpha
}

// NewDiscriminator rasterizes s on a canvas of the given shape.
func NewDiscriminator(s contour.Simplified, k int, shape Shape) *Discriminator {
	mask := image.NewAlpha(image.Rect(0, 0, shape.Width, shape.Height))
	if len(s) > 0 {
		z := vector.NewRasterizer(shape.Width, shape.Height)
		z.DrawOp = draw.Src
		// integer coordinates address pixel centres
		z.MoveTo(float32(s[0].X)+0.5, float32(s[0].Y)+0.5)
		for _, p := range s[1:] {
			z.LineTo(float32(p.X)+0.5, float32(p.Y)+0.5)
		}
		z.ClosePath()
		z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

		// The outline itself belongs to the blob, also for degenerate
		// polygons without interior.
		for i := range s {
			strokeLine(mask, s[i], s[(i+1)%len(s)])
		}
	}
	return &Discriminator{s: s, k: k, mask: mask}
}

// Covered reports whether pixel p belongs to the rendered blob. Pixels outside
// the canvas never do.
func (d *Discriminator) Covered(p image.Point) bool {
	if !p.In(d.mask.Rect) {
		return false
	}
	return d.mask.AlphaAt(p.X, p.Y).A >= coveredAlpha
}

// Concave reports whether the bend measured at curvature index i is concave.
// curvature[i] compares the chords i→i+k and i+k→i+2k, so the bend's apex is
// i+k; the bend is concave when the midpoint of the chord joining i and i+2k
// lies outside the blob.
func (d *Discriminator) Concave(i contour.Index) bool {
	a := d.s.At(i)
	b := d.s.At(d.s.Offset(i, 2*d.k))
	return !d.Covered(midpoint(a, b))
}

// Apex returns the contour index a bend measured at curvature index i is
// centred on.
func (d *Discriminator) Apex(i contour.Index) contour.Index {
	return d.s.Offset(i, d.k)
}

// Filter keeps the concave candidates and returns their apex indices in input
// order.
func (d *Discriminator) Filter(candidates []contour.Index) []contour.Index {
	out := make([]contour.Index, 0, len(candidates))
	for _, c := range candidates {
		if d.Concave(c) {
			out = append(out, d.Apex(c))
		}
	}
	return out
}

// midpoint rounds half away from zero, like the pixel lookup of the mask.
func midpoint(a, b image.Point) image.Point {
	return image.Point{X: roundHalf(a.X + b.X), Y: roundHalf(a.Y + b.Y)}
}

func roundHalf(twice int) int {
	if twice >= 0 {
		return (twice + 1) / 2
	}
	return -((-twice + 1) / 2)
}

// strokeLine marks the pixels of the segment a-b with a DDA walk.
func strokeLine(dst *image.Alpha, a, b image.Point) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		setOpaque(dst, a)
		return
	}
	for i := 0; i <= steps; i++ {
		p := image.Point{
			X: a.X + roundHalf(2*dx*i/steps),
			Y: a.Y + roundHalf(2*dy*i/steps),
		}
		setOpaque(dst, p)
	}
}

func setOpaque(dst *image.Alpha, p image.Point) {
	if p.In(dst.Rect) {
		dst.Pix[dst.PixOffset(p.X, p.Y)] = 0xff
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
