package regions

import "math"

// WeightedMedian returns the offset inside values that splits the cumulative
// sum into two halves as evenly as possible: the first index whose running
// sum is closest to half the total. It returns -1 for an empty slice.
func WeightedMedian(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	cum := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		cum[i] = sum
	}

	target := sum / 2
	best := 0
	bestD := math.Abs(cum[0] - target)
	for i := 1; i < len(cum); i++ {
		if d := math.Abs(cum[i] - target); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
