package concave

import (
	"context"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/concave/internal/contour"
)

// contourJob represents a single contour waiting for detection.
type contourJob struct {
	index   int
	contour contour.Original
}

// contourResult carries the outcome for one contour.
type contourResult struct {
	index  int
	result *Result
	err    error
}

// DetectAll runs Detect on every contour using up to workers goroutines
// (0 = runtime.NumCPU()). Contours are independent, so a failing contour only
// sets its own entry in errs. Results are returned in input order. The
// returned error is non-nil only when ctx is cancelled.
func (d *Detector) DetectAll(ctx context.Context, contours []contour.Original, shape Shape,
	workers int,
) ([]*Result, []error, error) {
	results := make([]*Result, len(contours))
	errs := make([]error, len(contours))
	if len(contours) == 0 {
		return results, errs, nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(contours))

	// Sequential fast path
	if workers == 1 {
		for i, c := range contours {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			results[i], errs[i] = d.Detect(c, shape)
		}
		return results, errs, nil
	}

	jobs := make(chan contourJob, len(contours))
	out := make(chan contourResult, len(contours))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go d.worker(ctx, jobs, out, shape, &wg)
	}

	go func() {
		defer close(jobs)
		for i, c := range contours {
			select {
			case jobs <- contourJob{index: i, contour: c}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	for r := range out {
		results[r.index] = r.result
		errs[r.index] = r.err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return results, errs, nil
}

func (d *Detector) worker(ctx context.Context, jobs <-chan contourJob, out chan<- contourResult,
	shape Shape, wg *sync.WaitGroup,
) {
	defer wg.Done()
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			res, err := d.Detect(job.contour, shape)
			select {
			case out <- contourResult{index: job.index, result: res, err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// FirstError returns the first non-nil error of errs.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
