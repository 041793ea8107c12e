package tip

import (
	"fmt"

	"dart-scorer/pkg/geometry"
)

// Orientation is where a camera is mounted relative to the board.
type Orientation string

const (
	Right  Orientation = "right"
	Left   Orientation = "left"
	Center Orientation = "center"
)

// ParseOrientation validates a configured orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(s); o {
	case Right, Left, Center:
		return o, nil
	default:
		return "", fmt.Errorf("unknown camera orientation %q", s)
	}
}

// Selector picks the extremal feature that best approximates the tip when
// skeleton refinement fails.
type Selector interface {
	Select(points []geometry.Point2D) (geometry.Point2D, bool)
}

// MaxX picks the right-most point. The dart points right in the image of a
// camera mounted to the right of the board.
type MaxX struct{}

func (MaxX) Select(points []geometry.Point2D) (geometry.Point2D, bool) {
	if len(points) == 0 {
		return geometry.Point2D{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.X > best.X {
			best = p
		}
	}
	return best, true
}

// MinX picks the left-most point.
type MinX struct{}

func (MinX) Select(points []geometry.Point2D) (geometry.Point2D, bool) {
	if len(points) == 0 {
		return geometry.Point2D{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.X < best.X {
			best = p
		}
	}
	return best, true
}

// SelectorFor returns the strategy for a mounting orientation.
func SelectorFor(o Orientation) Selector {
	if o == Right {
		return MaxX{}
	}
	return MinX{}
}
