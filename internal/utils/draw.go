package utils

import (
	"image"
	"image/color"
	"image/draw"
)

// Overlay colours.
var (
	ContourColor = color.RGBA{R: 0, G: 200, B: 255, A: 255}
	PointColor   = color.RGBA{R: 255, G: 40, B: 40, A: 255}
)

// ToRGBA returns a drawable copy of img with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// DrawPolyline draws the closed polygon through pts.
func DrawPolyline(dst *image.RGBA, pts []image.Point, col color.Color, thickness int) {
	if len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		drawThickPoint(dst, pts[0].X, pts[0].Y, col, thickness)
		return
	}
	for i := range pts {
		drawLine(dst, pts[i], pts[(i+1)%len(pts)], col, thickness)
	}
}

// DrawCross draws a diagonal cross of the given radius centred on p.
func DrawCross(dst *image.RGBA, p image.Point, radius int, col color.Color, thickness int) {
	drawLine(dst, p.Add(image.Pt(-radius, -radius)), p.Add(image.Pt(radius, radius)), col, thickness)
	drawLine(dst, p.Add(image.Pt(-radius, radius)), p.Add(image.Pt(radius, -radius)), col, thickness)
}

// drawLine draws a line between two points using a simple Bresenham variant.
func drawLine(dst *image.RGBA, a, b image.Point, col color.Color, thickness int) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		drawThickPoint(dst, x0, y0, col, thickness)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawThickPoint(dst *image.RGBA, x, y int, col color.Color, thickness int) {
	r := (max(thickness, 1) - 1) / 2
	for yy := y - r; yy <= y+r; yy++ {
		for xx := x - r; xx <= x+r; xx++ {
			if image.Pt(xx, yy).In(dst.Bounds()) {
				dst.Set(xx, yy, col)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
