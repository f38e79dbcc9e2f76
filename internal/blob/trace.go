package blob

import (
	"image"

	"github.com/MeKo-Tech/concave/internal/contour"
)

// 8-neighbourhood in clockwise screen order: E, SE, S, SW, W, NW, N, NE.
var (
	ndx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// traceBoundary walks the outer boundary of the labelled component with
// Moore-neighbour tracing and returns every boundary pixel in clockwise
// screen order, starting at the top-left pixel. No points are dropped, so the
// result is the full pixel contour.
func traceBoundary(labels []int, w, h, label int, st compStats) contour.Original {
	isLabel := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && labels[y*w+x] == label
	}

	start := image.Point{X: -1}
	for x := st.minX; x <= st.maxX; x++ {
		if isLabel(x, st.minY) {
			start = image.Pt(x, st.minY)
			break
		}
	}
	if start.X < 0 {
		return nil
	}

	pts := contour.Original{start}
	// The pixel west of the top-left pixel is background.
	cur, back := start, image.Pt(start.X-1, start.Y)
	var second image.Point
	maxSteps := 4*(st.count+1) + 8

	for step := 0; step < maxSteps; step++ {
		next, nextBack, ok := nextBoundaryPixel(isLabel, cur, back)
		if !ok {
			// isolated pixel
			return pts
		}
		if step == 0 {
			second = next
		} else if cur == start && next == second {
			// back at the start, about to repeat the first move
			break
		}
		cur, back = next, nextBack
		pts = append(pts, cur)
	}

	// the walk ends on the start pixel
	if len(pts) > 1 && pts[len(pts)-1] == start {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// nextBoundaryPixel scans the neighbours of cur clockwise, beginning right
// after the backtrack pixel, and returns the first one of the component along
// with the background pixel examined just before it.
func nextBoundaryPixel(isLabel func(x, y int) bool, cur, back image.Point) (image.Point, image.Point, bool) {
	startDir := (dirIndex(back.X-cur.X, back.Y-cur.Y) + 1) % 8
	prev := back
	for k := range 8 {
		i := (startDir + k) % 8
		p := image.Pt(cur.X+ndx[i], cur.Y+ndy[i])
		if isLabel(p.X, p.Y) {
			return p, prev, true
		}
		prev = p
	}
	return image.Point{}, image.Point{}, false
}

func dirIndex(dx, dy int) int {
	for i := range 8 {
		if ndx[i] == dx && ndy[i] == dy {
			return i
		}
	}
	return 0
}
