package blob

// otsuThreshold returns the gray level maximising the between-class variance
// of levels, expressed as the first foreground level.
func otsuThreshold(levels []uint8) uint8 {
	if len(levels) == 0 {
		return DefaultThreshold
	}

	const bins = 256
	var histogram [bins]int
	for _, v := range levels {
		histogram[v]++
	}

	total := len(levels)
	totalSum := 0.0
	for i, c := range histogram {
		totalSum += float64(i) * float64(c)
	}

	var (
		maxVariance float64
		best        int
		sumB        float64
		wB          int
	)
	for t := range bins {
		wB += histogram[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		sumB += float64(t) * float64(histogram[t])
		meanB := sumB / float64(wB)
		meanF := (totalSum - sumB) / float64(wF)

		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}

	// levels above the background class are foreground
	if best >= bins-1 {
		return bins - 1
	}
	return uint8(best + 1)
}
