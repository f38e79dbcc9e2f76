package testutil

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDenseRing(t *testing.T) {
	ring := DenseRing([]image.Point{{0, 0}, {4, 0}, {4, 2}})

	assert.Equal(t, []image.Point{
		{0, 0}, {1, 0}, {2, 0}, {3, 0},
		{4, 0}, {4, 1},
		{4, 2}, {2, 1},
	}, ring)
}

func TestCircle_NoConsecutiveDuplicates(t *testing.T) {
	c := Circle(image.Pt(20, 20), 5, 64)
	for i := 1; i < len(c); i++ {
		assert.NotEqual(t, c[i-1], c[i])
	}
}

func TestFillPolygons(t *testing.T) {
	img := FillPolygons(image.Pt(20, 20), SquareVertices(2, 2, 10))

	assert.Equal(t, uint8(0xff), img.GrayAt(7, 7).Y)
	assert.Equal(t, uint8(0), img.GrayAt(15, 15).Y)
	assert.Equal(t, uint8(0xff), Invert(img).GrayAt(15, 15).Y)
}

func TestTwoDiscs(t *testing.T) {
	img := TwoDiscs()

	assert.Equal(t, TwoDiscsSize, img.Bounds().Size())
	assert.Equal(t, uint8(0xff), img.GrayAt(46, 30).Y, "the discs overlap at the waist")
	for _, p := range TwoDiscsWaist {
		assert.Equal(t, uint8(0xff), img.GrayAt(p.X, p.Y).Y)
	}
	assert.Equal(t, uint8(0), img.GrayAt(46, 10).Y)
	assert.Equal(t, uint8(0), img.GrayAt(46, 50).Y)
}
