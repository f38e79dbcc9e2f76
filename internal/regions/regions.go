// Package regions turns a curvature signal into candidate concavity regions:
// thresholding, run extraction with circular wraparound, refinement of
// oversized runs and selection of one representative point per run.
package regions

// Mask flags the curvature values that are concavity candidates.
type Mask []bool

// Region is a maximal run of candidates. Start is a position in [0, N) of the
// sequence it was extracted from; a region may wrap past the end.
type Region struct {
	Start  int `json:"start" yaml:"start"`
	Length int `json:"length" yaml:"length"`
}

// End returns the position one past the last element, without wrapping.
func (r Region) End() int { return r.Start + r.Length }

// Contains reports whether position i of a sequence of length n falls inside
// the region, taking wraparound into account.
func (r Region) Contains(i, n int) bool {
	if n <= 0 || r.Length <= 0 {
		return false
	}
	off := (i - r.Start) % n
	if off < 0 {
		off += n
	}
	return off < r.Length
}

// Binarize flags every value less than or equal to threshold.
func Binarize(values []float64, threshold float64) Mask {
	m := make(Mask, len(values))
	for i, v := range values {
		m[i] = v <= threshold
	}
	return m
}

// Any reports whether at least one element is set.
func (m Mask) Any() bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// Extract collects the runs of set elements of a circular mask whose length
// is at least minLen. A run touching both ends is reported once, starting near
// the end and wrapping to the beginning. A mask with every element set yields
// a single region starting at 0. Regions are ordered by start position.
func Extract(m Mask, minLen int) []Region {
	n := len(m)
	if n == 0 {
		return nil
	}

	// Rotate the scan so it begins right after an unset element; then no run
	// is split by the end of the slice.
	first := -1
	for i, v := range m {
		if !v {
			first = i
			break
		}
	}
	if first == -1 {
		if n >= minLen {
			return []Region{{Start: 0, Length: n}}
		}
		return nil
	}

	var (
		out   []Region
		start = -1
	)
	for step := 1; step <= n; step++ {
		i := (first + step) % n
		if m[i] {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			length := (i - start + n) % n
			if length >= minLen {
				out = append(out, Region{Start: start, Length: length})
			}
			start = -1
		}
	}

	sortByStart(out)
	return out
}

// ExtractLinear is Extract without wraparound: runs end at the slice
// boundaries.
func ExtractLinear(m Mask, minLen int) []Region {
	var out []Region
	start := -1
	for i := 0; i <= len(m); i++ {
		if i < len(m) && m[i] {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start >= minLen {
				out = append(out, Region{Start: start, Length: i - start})
			}
			start = -1
		}
	}
	return out
}

func sortByStart(rs []Region) {
	// insertion sort: region lists are short and mostly ordered already
	for i := 1; i < len(rs); i++ {
		v := rs[i]
		j := i - 1
		for j >= 0 && rs[j].Start > v.Start {
			rs[j+1] = rs[j]
			j--
		}
		rs[j+1] = v
	}
}
