// Package contour holds the two coordinate spaces a detection run works in:
// the original pixel boundary of a blob and its simplified polygon. Indices of
// the two spaces have distinct types so they cannot be mixed by accident.
package contour

import (
	"errors"
	"image"
)

// ErrEmpty is returned when an operation needs at least one point.
var ErrEmpty = errors.New("contour: empty contour")

// Original is the closed, unsimplified boundary of a blob in pixel coordinates.
type Original []image.Point

// OriginalIndex addresses a point of an Original contour.
type OriginalIndex int

// Simplified is the closed polygon obtained by simplifying an Original contour.
type Simplified []image.Point

// Index addresses a point of a Simplified contour. All curvature, mask and
// region positions live in this space.
type Index int

// Wrap reduces i modulo n into [0, n). n must be positive.
func Wrap(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// Len returns the number of points.
func (c Original) Len() int { return len(c) }

// At returns the point at i with circular wraparound.
func (c Original) At(i OriginalIndex) image.Point {
	return c[Wrap(int(i), len(c))]
}

// Len returns the number of points.
func (s Simplified) Len() int { return len(s) }

// Wrap converts any integer offset into a valid index of s.
func (s Simplified) Wrap(i int) Index {
	return Index(Wrap(i, len(s)))
}

// At returns the point at i with circular wraparound.
func (s Simplified) At(i Index) image.Point {
	return s[Wrap(int(i), len(s))]
}

// Offset returns the index k steps after i (k may be negative).
func (s Simplified) Offset(i Index, k int) Index {
	return s.Wrap(int(i) + k)
}

// Points returns the points at the given indices.
func (s Simplified) Points(idx []Index) []image.Point {
	out := make([]image.Point, len(idx))
	for i, j := range idx {
		out[i] = s.At(j)
	}
	return out
}

// Bounds returns the smallest rectangle containing every point. The
// rectangle is pixel-inclusive, so Max is one past the largest coordinate.
func (c Original) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0].Add(image.Pt(1, 1))}
	for _, p := range c[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}
