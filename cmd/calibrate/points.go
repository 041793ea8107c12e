package main

import (
	"fmt"
	"strconv"
	"strings"

	"dart-scorer/pkg/geometry"
)

// parsePoints reads whitespace-separated "x,y" pairs.
func parsePoints(s string) ([]geometry.Point2D, error) {
	var pts []geometry.Point2D
	for _, field := range strings.Fields(s) {
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("point %q is not x,y", field)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", field, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", field, err)
		}
		pts = append(pts, geometry.Point2D{X: x, Y: y})
	}
	return pts, nil
}
