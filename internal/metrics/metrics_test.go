package metrics

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/concave/internal/concave"
)

func TestRecorder_ObserveContour(t *testing.T) {
	r := NewRecorder()

	r.ObserveContour(&concave.Result{
		Points:       []image.Point{{1, 2}, {3, 4}},
		CapExhausted: true,
		Timings:      map[string]time.Duration{concave.StageCurvature: time.Millisecond},
	}, nil)
	r.ObserveContour(&concave.Result{Points: []image.Point{}}, nil)
	r.ObserveContour(nil, errors.New("too few points"))

	assert.InDelta(t, 2.0, promtest.ToFloat64(r.contoursTotal.WithLabelValues(StatusOK)), 0)
	assert.InDelta(t, 1.0, promtest.ToFloat64(r.contoursTotal.WithLabelValues(StatusFailed)), 0)
	assert.InDelta(t, 2.0, promtest.ToFloat64(r.concavePoints), 0)
	assert.InDelta(t, 1.0, promtest.ToFloat64(r.capExhausted), 0)
	assert.Equal(t, 1, promtest.CollectAndCount(r.stageDuration))
}

func TestRecorder_ObserveImage(t *testing.T) {
	r := NewRecorder()
	r.ObserveImage(nil)
	r.ObserveImage(nil)
	r.ObserveImage(errors.New("decode"))
	r.ObserveStage("blob", 2*time.Millisecond)

	assert.InDelta(t, 2.0, promtest.ToFloat64(r.imagesTotal.WithLabelValues(StatusOK)), 0)
	assert.InDelta(t, 1.0, promtest.ToFloat64(r.imagesTotal.WithLabelValues(StatusFailed)), 0)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveContour(&concave.Result{Points: []image.Point{{0, 0}}}, nil)

	path := filepath.Join(t.TempDir(), "concave.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path) //nolint:gosec // test file in temp dir
	require.NoError(t, err)
	assert.Contains(t, string(data), `concave_contours_total{status="ok"} 1`)
	assert.Contains(t, string(data), "concave_points_total 1")
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveContour(nil, nil)
	r.ObserveImage(nil)
	r.ObserveStage("blob", time.Second)
	assert.NoError(t, r.WriteTextfile("ignored.prom"))
	assert.Nil(t, r.Registry())
}
