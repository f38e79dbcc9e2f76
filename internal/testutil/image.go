package testutil

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/vector"
)

// FillPolygons renders closed polygons white on a black canvas of the given
// size. Overlapping polygons merge into one blob.
func FillPolygons(size image.Point, polygons ...[]image.Point) *image.Gray {
	mask := image.NewAlpha(image.Rect(0, 0, size.X, size.Y))
	z := vector.NewRasterizer(size.X, size.Y)
	for _, poly := range polygons {
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X)+0.5, float32(poly[0].Y)+0.5)
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X)+0.5, float32(p.Y)+0.5)
		}
		z.ClosePath()
	}
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	gray := image.NewGray(mask.Rect)
	for i, a := range mask.Pix {
		if a >= 0x80 {
			gray.Pix[i] = 0xff
		}
	}
	return gray
}

// TwoDiscsSize is the canvas TwoDiscs is drawn on.
var TwoDiscsSize = image.Pt(92, 60)

// TwoDiscsWaist holds the pinch points of TwoDiscs, lower one first.
var TwoDiscsWaist = []image.Point{{46, 42}, {46, 18}}

// TwoDiscs renders two overlapping discs of radius 20 that merge into one
// blob pinched at x=46.
func TwoDiscs() *image.Gray {
	return FillPolygons(TwoDiscsSize,
		Circle(image.Pt(30, 30), 20, 96),
		Circle(image.Pt(62, 30), 20, 96),
	)
}

// NotchImageTip is where the notch tip lands once NotchVertices is rendered
// with FillPolygons and traced back.
var NotchImageTip = image.Pt(14, 31)

// Invert swaps black and white.
func Invert(img *image.Gray) *image.Gray {
	out := image.NewGray(img.Rect)
	for i, v := range img.Pix {
		out.Pix[i] = 0xff - v
	}
	return out
}

// Colorize paints the white pixels of img in fg on a bg background.
func Colorize(img *image.Gray, fg, bg color.Color) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y >= 0x80 {
				out.Set(x, y, fg)
			} else {
				out.Set(x, y, bg)
			}
		}
	}
	return out
}

// SaveImage writes img into dir under name; the format follows the extension.
func SaveImage(t *testing.T, img image.Image, dir, name string) string {
	t.Helper()

	require.NoError(t, EnsureDir(dir))
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path), "Failed to save image: %s", path)
	return path
}

// SaveContourJSON writes points as [[x,y],...] into dir under name.
func SaveContourJSON(t *testing.T, points []image.Point, dir, name string) string {
	t.Helper()

	pairs := make([][2]int, len(points))
	for i, p := range points {
		pairs[i] = [2]int{p.X, p.Y}
	}
	data, err := json.Marshal(pairs)
	require.NoError(t, err)

	require.NoError(t, EnsureDir(dir))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600), "Failed to write contour file: %s", path)
	return path
}
