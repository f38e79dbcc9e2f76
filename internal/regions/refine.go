package regions

import (
	"log/slog"

	"github.com/MeKo-Tech/concave/internal/curvature"
)

// DefaultMaxIterations bounds the refinement loop.
const DefaultMaxIterations = 1000

// RefineOptions tunes Refine.
type RefineOptions struct {
	// MaxIterations caps the number of regions examined. Zero selects
	// DefaultMaxIterations.
	MaxIterations int
	// Percentile used to tighten the threshold inside an oversized region.
	// Zero selects 25.
	Percentile float64
	Logger     *slog.Logger
}

// RefineResult is the outcome of Refine.
type RefineResult struct {
	Regions      []Region
	Iterations   int
	CapExhausted bool
}

type pending struct {
	region    Region
	threshold float64
	depth     int
}

// Refine splits regions longer than maxLen. The curvature of an oversized
// region is re-thresholded at the region's own percentile (never looser than
// the threshold that produced it) and the resulting runs replace it. A region
// is accepted as-is when it fits, when the tighter threshold leaves nothing of
// at least minLen, when it stops shrinking, or when the iteration cap runs
// out. Accepted regions keep discovery order.
func Refine(initial []Region, curv curvature.Sequence, threshold float64,
	minLen, maxLen int, opts RefineOptions,
) RefineResult {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	pct := opts.Percentile
	if pct <= 0 {
		pct = 25
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	n := len(curv)
	res := RefineResult{Regions: make([]Region, 0, len(initial))}
	if n == 0 {
		return res
	}

	// Work stack; the top is the last element. Pushing children in reverse
	// keeps the output in discovery order.
	stack := make([]pending, 0, len(initial))
	for i := len(initial) - 1; i >= 0; i-- {
		stack = append(stack, pending{region: initial[i], threshold: threshold})
	}

	for len(stack) > 0 {
		if res.Iterations >= maxIter {
			res.CapExhausted = true
			logger.Warn("region refinement hit iteration cap; accepting current segmentation",
				"cap", maxIter, "pending", len(stack))
			for i := len(stack) - 1; i >= 0; i-- {
				res.Regions = append(res.Regions, stack[i].region)
			}
			break
		}
		res.Iterations++

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.region.Length <= maxLen {
			res.Regions = append(res.Regions, cur.region)
			continue
		}

		slice := curv.Slice(cur.region.Start, cur.region.Length)
		tighter := curvature.Percentile(slice, pct)
		if tighter > cur.threshold {
			tighter = cur.threshold
		}
		subs := ExtractLinear(Binarize(slice, tighter), minLen)

		if len(subs) == 0 || (len(subs) == 1 && subs[0].Length == cur.region.Length) {
			logger.Debug("region cannot be refined further",
				"start", cur.region.Start, "length", cur.region.Length,
				"threshold", tighter, "depth", cur.depth)
			res.Regions = append(res.Regions, cur.region)
			continue
		}

		logger.Debug("region split",
			"start", cur.region.Start, "length", cur.region.Length,
			"threshold", tighter, "parts", len(subs), "depth", cur.depth)
		for i := len(subs) - 1; i >= 0; i-- {
			sub := subs[i]
			stack = append(stack, pending{
				region: Region{
					Start:  (cur.region.Start + sub.Start) % n,
					Length: sub.Length,
				},
				threshold: tighter,
				depth:     cur.depth + 1,
			})
		}
	}

	return res
}
