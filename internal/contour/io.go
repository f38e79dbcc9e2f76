package contour

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
)

// ErrMalformedContour is returned for contour documents that are not a list
// of [x, y] pairs.
var ErrMalformedContour = errors.New("malformed contour")

// ReadJSON decodes a contour given as [[x, y], ...].
func ReadJSON(r io.Reader) (Original, error) {
	var pairs [][]int
	if err := json.NewDecoder(r).Decode(&pairs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedContour, err)
	}
	out := make(Original, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: point %d has %d coordinates", ErrMalformedContour, i, len(p))
		}
		out[i] = image.Pt(p[0], p[1])
	}
	return out, nil
}

// WriteJSON encodes points as [[x, y], ...].
func WriteJSON(w io.Writer, pts []image.Point) error {
	pairs := make([][2]int, len(pts))
	for i, p := range pts {
		pairs[i] = [2]int{p.X, p.Y}
	}
	return json.NewEncoder(w).Encode(pairs)
}
