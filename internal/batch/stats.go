package batch

import (
	"fmt"
	"io"
	"time"
)

// Stats summarizes a batch run.
type Stats struct {
	Images         int           `json:"images" yaml:"images"`
	Processed      int           `json:"processed" yaml:"processed"`
	Failed         int           `json:"failed" yaml:"failed"`
	Contours       int           `json:"contours" yaml:"contours"`
	FailedContours int           `json:"failed_contours" yaml:"failed_contours"`
	Points         int           `json:"points" yaml:"points"`
	Workers        int           `json:"workers" yaml:"workers"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
	AvgPerImage    time.Duration `json:"avg_per_image" yaml:"avg_per_image"`
	Throughput     float64       `json:"throughput" yaml:"throughput"`
}

// Stats computes summary statistics for the run.
func (r *Result) Stats() Stats {
	s := Stats{
		Images:   len(r.Images),
		Workers:  r.WorkerCount,
		Duration: r.Duration,
	}
	for _, img := range r.Images {
		if img == nil || img.Error != "" {
			s.Failed++
			continue
		}
		s.Processed++
		s.Contours += len(img.Contours)
		s.FailedContours += img.FailedContours()
		s.Points += img.PointCount()
	}
	if s.Images > 0 {
		s.AvgPerImage = r.Duration / time.Duration(s.Images)
	}
	if secs := r.Duration.Seconds(); secs > 0 {
		s.Throughput = float64(s.Images) / secs
	}
	return s
}

// PrintStats writes a human readable summary of the run to w.
func (r *Result) PrintStats(w io.Writer) {
	s := r.Stats()
	_, _ = fmt.Fprintf(w, "\nBatch processing completed:\n")
	_, _ = fmt.Fprintf(w, "  Images: %d (%d processed, %d failed)\n", s.Images, s.Processed, s.Failed)
	_, _ = fmt.Fprintf(w, "  Contours: %d (%d failed)\n", s.Contours, s.FailedContours)
	_, _ = fmt.Fprintf(w, "  Concave points: %d\n", s.Points)
	_, _ = fmt.Fprintf(w, "  Workers: %d\n", s.Workers)
	_, _ = fmt.Fprintf(w, "  Total time: %v\n", s.Duration.Round(time.Millisecond))
	if s.Images > 0 {
		_, _ = fmt.Fprintf(w, "  Average per image: %v\n", s.AvgPerImage.Round(time.Millisecond))
		_, _ = fmt.Fprintf(w, "  Throughput: %.2f images/sec\n", s.Throughput)
	}
}
