// Package blob turns an image into the outer boundaries of its foreground
// blobs: grayscale conversion, thresholding, 4-connected component labelling
// and Moore-neighbour boundary tracing.
package blob

import (
	"errors"
	"image"
	"log/slog"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/MeKo-Tech/concave/internal/mempool"
)

// DefaultThreshold is the gray level from which a pixel is foreground.
const DefaultThreshold = 127

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("blob: empty image")

// Options controls blob extraction.
type Options struct {
	// Threshold is the gray level (0-255) from which a pixel is foreground.
	Threshold uint8 `json:"threshold" yaml:"threshold"`
	// Otsu replaces Threshold by a per-image Otsu threshold.
	Otsu bool `json:"otsu" yaml:"otsu"`
	// Invert treats dark pixels as foreground.
	Invert bool `json:"invert" yaml:"invert"`
	// MinArea drops blobs with fewer pixels.
	MinArea int `json:"min_area" yaml:"min_area"`
}

// DefaultOptions returns the options used for bright blobs on a dark
// background.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		MinArea:   20,
	}
}

// Blob is one foreground component.
type Blob struct {
	Label   int              `json:"label" yaml:"label"`
	Contour contour.Original `json:"contour" yaml:"contour"`
	Area    int              `json:"area" yaml:"area"`
	Bounds  image.Rectangle  `json:"bounds" yaml:"bounds"`
}

// Mask is a binary image in row-major order.
type Mask struct {
	Pix           []bool
	Width, Height int
	// Threshold is the gray level that was applied.
	Threshold uint8
}

// At reports whether (x, y) is foreground; outside pixels are not.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Binarize converts img to grayscale and thresholds it.
func Binarize(img image.Image, opts Options) (*Mask, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	gray := imaging.Grayscale(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	levels := make([]uint8, w*h)
	for i := range levels {
		levels[i] = gray.Pix[i*4]
	}

	threshold := opts.Threshold
	if opts.Otsu {
		threshold = otsuThreshold(levels)
	}

	m := &Mask{Pix: make([]bool, w*h), Width: w, Height: h, Threshold: threshold}
	for i, v := range levels {
		fg := v >= threshold
		if opts.Invert {
			fg = !fg
		}
		m.Pix[i] = fg
	}
	return m, nil
}

// Extract finds the blobs of img. Blobs are ordered by their top-left pixel
// in raster order. Contour coordinates are relative to the image origin.
func Extract(img image.Image, opts Options) ([]Blob, error) {
	m, err := Binarize(img, opts)
	if err != nil {
		return nil, err
	}
	return FromMask(m, opts.MinArea), nil
}

// FromMask labels the components of m and traces their outer boundaries.
// Components smaller than minArea are dropped.
func FromMask(m *Mask, minArea int) []Blob {
	comps, labels := connectedComponents(m)
	defer mempool.PutInts(labels)

	blobs := make([]Blob, 0, len(comps))
	dropped := 0
	for i, c := range comps {
		if c.count < minArea {
			dropped++
			continue
		}
		label := i + 1
		pts := traceBoundary(labels, m.Width, m.Height, label, c)
		if len(pts) == 0 {
			continue
		}
		blobs = append(blobs, Blob{
			Label:   label,
			Contour: pts,
			Area:    c.count,
			Bounds:  image.Rect(c.minX, c.minY, c.maxX+1, c.maxY+1),
		})
	}

	sort.SliceStable(blobs, func(i, j int) bool {
		a, b := blobs[i].Bounds.Min, blobs[j].Bounds.Min
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	slog.Debug("blobs extracted",
		"components", len(comps),
		"blobs", len(blobs),
		"dropped_small", dropped,
		"threshold", m.Threshold)
	return blobs
}
