package blob

import (
	"container/list"

	"github.com/MeKo-Tech/concave/internal/mempool"
)

// compStats holds the size and extent of a connected component.
type compStats struct {
	count int
	minX  int
	minY  int
	maxX  int
	maxY  int
}

// connectedComponents finds the 4-connected components of the mask and
// returns their stats together with a label image (0 = background, label i+1
// for comps[i]). The label image is pooled; release it with mempool.PutInts.
func connectedComponents(m *Mask) ([]compStats, []int) {
	w, h := m.Width, m.Height
	labels := mempool.GetInts(w * h)
	var comps []compStats
	label := 1

	for y := range h {
		for x := range w {
			idx := y*w + x
			if m.Pix[idx] && labels[idx] == 0 {
				comps = append(comps, floodComponent(m, labels, x, y, label))
				label++
			}
		}
	}

	return comps, labels
}

// floodComponent labels every pixel reachable from the seed with a BFS.
func floodComponent(m *Mask, labels []int, startX, startY, label int) compStats {
	w := m.Width
	st := compStats{minX: startX, minY: startY, maxX: startX, maxY: startY}

	q := list.New()
	q.PushBack(startY*w + startX)
	labels[startY*w+startX] = label

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w
		st.add(cx, cy)

		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if m.At(nx, ny) && labels[ny*w+nx] == 0 {
				labels[ny*w+nx] = label
				q.PushBack(ny*w + nx)
			}
		}
	}
	return st
}

func (st *compStats) add(x, y int) {
	st.count++
	st.minX = min(st.minX, x)
	st.minY = min(st.minY, y)
	st.maxX = max(st.maxX, x)
	st.maxY = max(st.maxY, y)
}
