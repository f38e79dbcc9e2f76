package blob

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/MeKo-Tech/concave/internal/testutil"
)

func maskFromRows(rows ...string) *Mask {
	h, w := len(rows), len(rows[0])
	m := &Mask{Pix: make([]bool, w*h), Width: w, Height: h}
	for y, row := range rows {
		for x, c := range row {
			m.Pix[y*w+x] = c == '#'
		}
	}
	return m
}

func TestFromMask_Square(t *testing.T) {
	m := maskFromRows(
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	)

	blobs := FromMask(m, 1)
	require.Len(t, blobs, 1)

	b := blobs[0]
	assert.Equal(t, 9, b.Area)
	assert.Equal(t, image.Rect(1, 1, 4, 4), b.Bounds)
	assert.Equal(t, contour.Original{
		{1, 1}, {2, 1}, {3, 1},
		{3, 2}, {3, 3},
		{2, 3}, {1, 3},
		{1, 2},
	}, b.Contour)
}

func TestFromMask_ThinShapes(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want contour.Original
	}{
		{"single pixel", []string{"...", ".#.", "..."}, contour.Original{{1, 1}}},
		{"horizontal pair", []string{"##"}, contour.Original{{0, 0}, {1, 0}}},
		{"vertical line", []string{"#", "#", "#"}, contour.Original{{0, 0}, {0, 1}, {0, 2}, {0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := FromMask(maskFromRows(tt.rows...), 1)
			require.Len(t, blobs, 1)
			assert.Equal(t, tt.want, blobs[0].Contour)
		})
	}
}

func TestFromMask_SeparateComponents(t *testing.T) {
	m := maskFromRows(
		"##..#",
		"##..#",
		".....",
		"#....",
	)

	blobs := FromMask(m, 1)
	require.Len(t, blobs, 3)
	assert.Equal(t, 4, blobs[0].Area)
	assert.Equal(t, 2, blobs[1].Area)
	assert.Equal(t, 1, blobs[2].Area)

	// diagonal neighbours are separate components
	diag := FromMask(maskFromRows("#.", ".#"), 1)
	assert.Len(t, diag, 2)
}

func TestFromMask_MinArea(t *testing.T) {
	m := maskFromRows(
		"##..#",
		"##...",
	)
	blobs := FromMask(m, 2)
	require.Len(t, blobs, 1)
	assert.Equal(t, 4, blobs[0].Area)
}

func TestFromMask_ContourIsOnBoundary(t *testing.T) {
	img := testutil.FillPolygons(testutil.NotchSize, testutil.NotchVertices())
	blobs, err := Extract(img, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, blobs, 1)

	m, err := Binarize(img, DefaultOptions())
	require.NoError(t, err)

	seen := map[image.Point]bool{}
	for _, p := range blobs[0].Contour {
		assert.True(t, m.At(p.X, p.Y), "contour pixel %v must be foreground", p)
		onEdge := !m.At(p.X+1, p.Y) || !m.At(p.X-1, p.Y) || !m.At(p.X, p.Y+1) || !m.At(p.X, p.Y-1) ||
			!m.At(p.X+1, p.Y+1) || !m.At(p.X-1, p.Y-1) || !m.At(p.X+1, p.Y-1) || !m.At(p.X-1, p.Y+1)
		assert.True(t, onEdge, "contour pixel %v must touch the background", p)
		seen[p] = true
	}
	assert.True(t, seen[testutil.NotchTip], "the notch tip lies on the boundary")

	// consecutive pixels are 8-neighbours, including the closing step
	c := blobs[0].Contour
	for i := range c {
		d := c[(i+1)%len(c)].Sub(c[i])
		assert.LessOrEqual(t, max(abs(d.X), abs(d.Y)), 1, "step %d", i)
	}
}

func TestBinarize(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(0, 0, color.Gray{Y: 126})
	img.SetGray(1, 0, color.Gray{Y: 127})
	img.SetGray(2, 0, color.Gray{Y: 255})

	m, err := Binarize(img, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, m.Pix)
	assert.Equal(t, uint8(127), m.Threshold)

	opts := DefaultOptions()
	opts.Invert = true
	m, err = Binarize(img, opts)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, m.Pix)
}

func TestBinarize_Otsu(t *testing.T) {
	// dark blob (40) on a mid-gray background (100): the fixed threshold sees
	// nothing, Otsu separates the two levels
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	for y := 3; y < 7; y++ {
		for x := 3; x < 7; x++ {
			img.SetGray(x, y, color.Gray{Y: 40})
		}
	}

	opts := Options{Otsu: true, Invert: true, MinArea: 1}
	blobs, err := Extract(img, opts)
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, 16, blobs[0].Area)

	none, err := Extract(img, Options{Threshold: DefaultThreshold, MinArea: 1})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBinarize_ColorImage(t *testing.T) {
	img := testutil.Colorize(
		testutil.FillPolygons(image.Pt(20, 20), testutil.SquareVertices(4, 4, 8)),
		color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		color.NRGBA{R: 0, G: 0, B: 40, A: 255},
	)

	blobs, err := Extract(img, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	// edge pixels are half covered, so the outermost ring may go either way
	b := blobs[0].Bounds
	assert.True(t, image.Rect(5, 5, 12, 12).In(b), "bounds %v", b)
	assert.True(t, b.In(image.Rect(4, 4, 13, 13)), "bounds %v", b)
}

func TestExtract_EmptyImage(t *testing.T) {
	_, err := Extract(image.NewGray(image.Rectangle{}), DefaultOptions())
	require.ErrorIs(t, err, ErrEmptyImage)
}

func TestOtsuThreshold(t *testing.T) {
	assert.Equal(t, uint8(DefaultThreshold), otsuThreshold(nil))
	assert.Equal(t, uint8(1), otsuThreshold([]uint8{0, 0, 255, 255}))
	assert.Equal(t, uint8(51), otsuThreshold([]uint8{50, 50, 50, 200, 200}))
	// a flat image has no separation; the level above it is used
	assert.Equal(t, uint8(1), otsuThreshold([]uint8{0, 0, 0}))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
