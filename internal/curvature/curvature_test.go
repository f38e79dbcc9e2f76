package curvature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/concave/internal/contour"
)

// notch is a rectangle with one inward notch on its left edge.
var notch = contour.Simplified{
	{0, 0}, {40, 0}, {40, 60}, {0, 60},
	{0, 35}, {15, 30}, {0, 25},
}

func TestSlope(t *testing.T) {
	s := contour.Simplified{{0, 0}, {10, 0}, {10, 10}, {4, 12}, {0, 12}, {0, 6}}

	tests := []struct {
		name string
		i    contour.Index
		k    int
		want float64
	}{
		{"horizontal chord", 0, 1, 0},
		{"vertical chord uses dx/dy", 1, 1, 0},
		{"diagonal chord", 0, 2, 1},
		{"mostly horizontal", 2, 1, -2.0 / 6.0},
		{"wraps around", 5, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Slope(s, tt.i, tt.k), 1e-12)
		})
	}
}

func TestSlope_ZeroLengthChord(t *testing.T) {
	s := contour.Simplified{{3, 3}, {3, 3}, {5, 3}}
	assert.Zero(t, Slope(s, 0, 1))
}

func TestKCurvature_Notch(t *testing.T) {
	c, err := KCurvature(notch, 1)
	require.NoError(t, err)

	want := []float64{0, 0, 0, 1.0 / 3, -2.0 / 3, 1.0 / 3, 0}
	require.Len(t, c, len(want))
	for i := range want {
		assert.InDelta(t, want[i], c[i], 1e-12, "index %d", i)
	}
	assert.InDelta(t, 1.0, GlobalThreshold(c), 1e-12)
}

func TestKCurvature_SquareIsFlat(t *testing.T) {
	s := contour.Simplified{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	c, err := KCurvature(s, 1)
	require.NoError(t, err)
	assert.Equal(t, Sequence{0, 0, 0, 0}, c)
}

func TestKCurvature_Errors(t *testing.T) {
	_, err := KCurvature(notch, 0)
	require.ErrorIs(t, err, ErrInvalidK)

	_, err = KCurvature(contour.Simplified{{0, 0}, {1, 1}}, 1)
	require.ErrorIs(t, err, ErrTooFewPoints)

	_, err = KCurvature(contour.Simplified{{0, 0}, {1, 1}, {2, 0}}, 3)
	require.ErrorIs(t, err, ErrTooFewPoints)
}

func TestSequence_Slice(t *testing.T) {
	c := Sequence{0, 1, 2, 3, 4}

	assert.Equal(t, []float64{3, 4, 0, 1}, c.Slice(3, 4))
	assert.Equal(t, []float64{1}, c.Slice(6, 1))
	assert.Nil(t, c.Slice(0, 0))
	assert.Nil(t, Sequence{}.Slice(0, 3))
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 25, 0},
		{"single", []float64{7}, 25, 7},
		{"interpolated", []float64{4, 1, 3, 2}, 25, 1.75},
		{"exact rank", []float64{-3, -2, -1, 0, 1}, 25, -2},
		{"minimum", []float64{5, 2, 9}, 0, 2},
		{"maximum", []float64{5, 2, 9}, 100, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(tt.values, tt.p), 1e-12)
		})
	}
}

func TestPercentile_DoesNotSortInput(t *testing.T) {
	in := []float64{3, 1, 2}
	_ = Percentile(in, 50)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestGlobalThreshold(t *testing.T) {
	assert.InDelta(t, -1.0, GlobalThreshold(Sequence{-3, -2, -1, 0, 1}), 1e-12)
	// truncation goes towards zero
	assert.InDelta(t, 1.0, GlobalThreshold(Sequence{-0.6, -0.6, -0.6, -0.6, 5}), 1e-12)
	assert.InDelta(t, -1.0, GlobalThreshold(Sequence{-2.5, -2.5, 4, 4, 4}), 1e-12)
}
