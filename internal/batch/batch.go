package batch

// Package batch runs concave point detection over many images.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/MeKo-Tech/concave/internal/concave"
)

// ErrNoImages is returned when discovery finds nothing to process.
var ErrNoImages = errors.New("no image files found")

// Result holds the outcome of a batch run. Images is in discovery order.
type Result struct {
	Images      []*ImageResult
	ImagePaths  []string
	Duration    time.Duration
	WorkerCount int
}

type imageJob struct {
	index int
	path  string
}

type imageOutcome struct {
	index int
	res   *ImageResult
	err   error
}

// ProcessBatch discovers the images named by paths and processes them with
// cfg.Workers goroutines. Unless cfg.ContinueOnError is set the first failed
// image cancels the run and its error is returned.
func ProcessBatch(ctx context.Context, paths []string, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	files, err := DiscoverImageFiles(paths, cfg.Recursive, cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	det, err := concave.NewDetector(cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to create detector: %w", err)
	}
	det = det.WithLogger(cfg.logger())

	var progress ProgressCallback = NoOpProgressCallback{}
	switch {
	case cfg.Quiet:
	case cfg.ShowProgress:
		progress = NewConsoleProgressCallback(os.Stderr, "Processing: ").WithUpdateInterval(cfg.ProgressInterval)
	default:
		progress = NewLogProgressCallback(cfg.logger(), slog.LevelDebug)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	cfg.logger().Info("starting batch", "images", len(files), "workers", workers)

	start := time.Now()
	images, err := processImagesParallel(ctx, det, files, workers, cfg, progress)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("batch processing failed: %w", err)
	}

	return &Result{
		Images:      images,
		ImagePaths:  files,
		Duration:    duration,
		WorkerCount: workers,
	}, nil
}

func processImagesParallel(ctx context.Context, det *concave.Detector, files []string, workers int,
	cfg *Config, progress ProgressCallback,
) ([]*ImageResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan imageJob)
	outcomes := make(chan imageOutcome, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res, err := ProcessImage(ctx, det, job.path, cfg)
				outcomes <- imageOutcome{index: job.index, res: res, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, path := range files {
			select {
			case jobs <- imageJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	progress.OnStart(len(files))
	images := make([]*ImageResult, len(files))
	var firstErr error
	done := 0
	for out := range outcomes {
		done++
		if out.err != nil {
			progress.OnError(done, out.err)
			cfg.logger().Warn("image failed", "file", files[out.index], "error", out.err)
			if !cfg.ContinueOnError && firstErr == nil {
				firstErr = out.err
				cancel()
			}
			images[out.index] = &ImageResult{File: files[out.index], Error: out.err.Error(), Contours: []ContourResult{}}
		} else {
			images[out.index] = out.res
		}
		progress.OnProgress(done, len(files))
	}
	progress.OnComplete()

	if firstErr != nil {
		return nil, firstErr
	}
	// Only the parent context can be done at this point.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return images, nil
}
