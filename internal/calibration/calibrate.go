package calibration

import (
	"fmt"

	"dart-scorer/internal/board"
	"dart-scorer/pkg/geometry"
)

// ReferencePoints returns the canonical drawn-board targets the operator
// marks in each camera: top, right, bottom and left of the outer double
// ring.
func ReferencePoints(g board.Geometry) []geometry.Point2D {
	pts := g.CompassPoints()
	return pts[:]
}

// Calibrate computes a camera's matrix from the four live-image positions of
// the compass targets, given in ReferencePoints order. The resulting matrix
// maps the drawn board into the camera image.
func Calibrate(g board.Geometry, live []geometry.Point2D) (geometry.Homography, error) {
	if len(live) != 4 {
		return geometry.Homography{}, fmt.Errorf("%w: need 4 live points, got %d", ErrDegenerate, len(live))
	}
	return ComputeHomography(ReferencePoints(g), live)
}

// CalibrateCamera calibrates one camera and persists the result. Nothing is
// written when the points are degenerate.
func (s *Store) CalibrateCamera(g board.Geometry, camera int, live []geometry.Point2D) (geometry.Homography, error) {
	h, err := Calibrate(g, live)
	if err != nil {
		return geometry.Homography{}, fmt.Errorf("camera %d: %w", camera, err)
	}
	if err := s.Save(camera, h); err != nil {
		return geometry.Homography{}, err
	}
	return h, nil
}
