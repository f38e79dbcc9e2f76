// Package metrics records detection statistics in a Prometheus registry that
// can be written out in the text exposition format after a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MeKo-Tech/concave/internal/concave"
)

// Status label values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Recorder holds the detection metrics. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	registry *prometheus.Registry

	contoursTotal    *prometheus.CounterVec
	imagesTotal      *prometheus.CounterVec
	concavePoints    prometheus.Counter
	capExhausted     prometheus.Counter
	stageDuration    *prometheus.HistogramVec
	pointsPerContour prometheus.Histogram
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		contoursTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concave_contours_total",
				Help: "Total number of contours processed",
			},
			[]string{"status"},
		),
		imagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concave_images_total",
				Help: "Total number of images processed",
			},
			[]string{"status"},
		),
		concavePoints: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "concave_points_total",
				Help: "Total number of concave points found",
			},
		),
		capExhausted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "concave_refine_cap_exhausted_total",
				Help: "Number of contours whose region refinement hit the iteration cap",
			},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "concave_stage_duration_seconds",
				Help:    "Duration of the detection stages in seconds",
				Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"stage"},
		),
		pointsPerContour: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concave_points_per_contour",
				Help:    "Number of concave points found per contour",
				Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
			},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveContour records the outcome of one detection run.
func (r *Recorder) ObserveContour(res *concave.Result, err error) {
	if r == nil {
		return
	}
	if err != nil || res == nil {
		r.contoursTotal.WithLabelValues(StatusFailed).Inc()
		return
	}
	r.contoursTotal.WithLabelValues(StatusOK).Inc()
	r.concavePoints.Add(float64(len(res.Points)))
	r.pointsPerContour.Observe(float64(len(res.Points)))
	if res.CapExhausted {
		r.capExhausted.Inc()
	}
	for stage, d := range res.Timings {
		r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// ObserveImage records whether an image could be processed.
func (r *Recorder) ObserveImage(err error) {
	if r == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	r.imagesTotal.WithLabelValues(status).Inc()
}

// ObserveStage records a duration outside a detection run, such as blob
// extraction.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
