package batch

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/concave/internal/concave"
	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/MeKo-Tech/concave/internal/metrics"
	"github.com/MeKo-Tech/concave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(t *testing.T, cfg *Config) *concave.Detector {
	t.Helper()
	det, err := concave.NewDetector(cfg.Params)
	require.NoError(t, err)
	return det
}

func TestDetectImage_SquareContourTooShort(t *testing.T) {
	cfg := DefaultConfig()
	img := testutil.FillPolygons(image.Pt(40, 40), testutil.SquareVertices(10, 10, 20))

	res, err := DetectImage(context.Background(), newTestDetector(t, cfg), img, cfg)
	require.NoError(t, err)

	require.Len(t, res.Contours, 1)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 40, res.Height)
	assert.Equal(t, 127, res.Threshold)

	c := res.Contours[0]
	assert.Contains(t, c.Error, "invalid input")
	assert.Empty(t, c.Points)
	assert.Positive(t, c.Area)
	assert.Equal(t, 1, res.FailedContours())
	assert.Equal(t, 0, res.PointCount())
}

func points(ps []image.Point) []Point {
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func TestDetectImage_NotchTip(t *testing.T) {
	cfg := DefaultConfig()
	img := testutil.FillPolygons(testutil.NotchSize, testutil.NotchVertices())

	res, err := DetectImage(context.Background(), newTestDetector(t, cfg), img, cfg)
	require.NoError(t, err)
	require.Len(t, res.Contours, 1)

	c := res.Contours[0]
	require.Empty(t, c.Error)
	assert.Equal(t, points([]image.Point{testutil.NotchImageTip}), c.Points)
}

func TestDetectImage_TwoDiscsWaist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.K = 10
	cfg.Params.Epsilon = 1
	cfg.Debug = true

	res, err := DetectImage(context.Background(), newTestDetector(t, cfg), testutil.TwoDiscs(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Contours, 1)

	c := res.Contours[0]
	require.Empty(t, c.Error)
	require.NotNil(t, c.Detail)
	require.NotEmpty(t, c.Points, "the pinch between the discs is concave")
	assert.Equal(t, points(testutil.TwoDiscsWaist), c.Points)

	require.Len(t, c.OriginalIndices, len(c.Points))
	assert.Equal(t, c.ContourLength, len(c.contour))
	for i, p := range c.Points {
		assert.Equal(t, image.Pt(p.X, p.Y), c.contour[c.OriginalIndices[i]])
	}
}

func TestDetectImage_TwoDiscsDefaultsMissWaist(t *testing.T) {
	cfg := DefaultConfig()

	res, err := DetectImage(context.Background(), newTestDetector(t, cfg), testutil.TwoDiscs(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Contours, 1)

	// The default k and epsilon do not resolve the waist of these discs.
	assert.Empty(t, res.Contours[0].Error)
	assert.Empty(t, res.Contours[0].Points)
}

func TestDetectImage_EmptyImage(t *testing.T) {
	cfg := DefaultConfig()
	img := image.NewGray(image.Rect(0, 0, 10, 10))

	res, err := DetectImage(context.Background(), newTestDetector(t, cfg), img, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Contours)
}

func TestDetectImage_CanceledContext(t *testing.T) {
	cfg := DefaultConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DetectImage(ctx, newTestDetector(t, cfg), testutil.TwoDiscs(), cfg)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcessImage_WritesOverlayAndMetrics(t *testing.T) {
	dir := t.TempDir()
	path := testutil.SaveImage(t, testutil.TwoDiscs(), dir, "discs.png")

	cfg := DefaultConfig()
	cfg.OverlayDir = filepath.Join(dir, "overlays")
	cfg.Metrics = metrics.NewRecorder()

	res, err := ProcessImage(context.Background(), newTestDetector(t, cfg), path, cfg)
	require.NoError(t, err)
	assert.Equal(t, path, res.File)
	assert.Nil(t, res.Contours[0].Detail)
	assert.True(t, testutil.FileExists(filepath.Join(cfg.OverlayDir, "discs_concave.png")))
}

func TestProcessImage_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	_, err := ProcessImage(context.Background(), newTestDetector(t, cfg), "/nonexistent/file.png", cfg)
	require.Error(t, err)
}

func TestRenderOverlay(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	res := &ImageResult{Contours: []ContourResult{{
		Points:  []Point{{X: 10, Y: 10}},
		contour: []image.Point{{2, 2}, {2, 17}, {17, 17}, {17, 2}},
	}}}

	ov := RenderOverlay(img, res)
	require.Equal(t, img.Bounds(), ov.Bounds())

	r, g, b, _ := ov.At(10, 10).RGBA()
	assert.NotEqual(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, b})
	r, g, b, _ = ov.At(2, 10).RGBA()
	assert.NotEqual(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, b})
}

func TestNewContourResult(t *testing.T) {
	orig := testutil.DenseRing(testutil.NotchVertices())
	res := &concave.Result{
		Points:          []image.Point{testutil.NotchTip},
		OriginalIndices: []contour.OriginalIndex{7},
	}

	cr := NewContourResult(2, orig, res, nil, false)
	assert.Equal(t, 2, cr.Index)
	assert.Equal(t, len(orig), cr.ContourLength)
	assert.Equal(t, Box{X: 0, Y: 0, W: 41, H: 61}, cr.Box)
	assert.Equal(t, []Point{{X: 15, Y: 30}}, cr.Points)
	assert.Equal(t, []int{7}, cr.OriginalIndices)
	assert.Nil(t, cr.Detail)

	assert.Same(t, res, NewContourResult(0, orig, res, nil, true).Detail)

	failed := NewContourResult(0, orig, nil, errors.New("boom"), true)
	assert.Equal(t, "boom", failed.Error)
	assert.Empty(t, failed.Points)
	assert.Nil(t, failed.Detail)
}
