package board

import (
	"fmt"

	"dart-scorer/pkg/geometry"
)

// Transforms supplies one drawn-board to live-pixel homography per camera.
type Transforms interface {
	Len() int
	Matrix(camera int) (geometry.Homography, bool)
}

// Mapper converts tip positions between a camera's live image and the board.
type Mapper struct {
	geom    Geometry
	forward []geometry.Homography
	inverse []geometry.Homography
}

// NewMapper inverts every camera's matrix up front; a singular matrix is an
// error.
func NewMapper(geom Geometry, t Transforms) (*Mapper, error) {
	m := &Mapper{
		geom:    geom,
		forward: make([]geometry.Homography, t.Len()),
		inverse: make([]geometry.Homography, t.Len()),
	}
	for i := 0; i < t.Len(); i++ {
		h, ok := t.Matrix(i)
		if !ok {
			return nil, fmt.Errorf("no calibration matrix for camera %d", i)
		}
		inv, ok := h.Inverse()
		if !ok {
			return nil, fmt.Errorf("calibration matrix for camera %d is singular", i)
		}
		m.forward[i] = h
		m.inverse[i] = inv
	}
	return m, nil
}

// Geometry returns the board geometry the mapper scores against.
func (m *Mapper) Geometry() Geometry {
	return m.geom
}

// Cameras returns the number of mapped cameras.
func (m *Mapper) Cameras() int {
	return len(m.forward)
}

// PixelToBoard unwarps a live pixel of the given camera into board
// coordinates centred on the bullseye.
func (m *Mapper) PixelToBoard(camera int, p geometry.Point2D) (geometry.Point2D, error) {
	if camera < 0 || camera >= len(m.inverse) {
		return geometry.Point2D{}, fmt.Errorf("unknown camera %d", camera)
	}
	drawn, ok := m.inverse[camera].Apply(p)
	if !ok {
		return geometry.Point2D{}, fmt.Errorf("camera %d: point %v maps to infinity", camera, p)
	}
	return m.geom.ToBoard(drawn), nil
}

// BoardToPixel maps a board point into the camera's live image.
func (m *Mapper) BoardToPixel(camera int, p geometry.Point2D) (geometry.Point2D, error) {
	if camera < 0 || camera >= len(m.forward) {
		return geometry.Point2D{}, fmt.Errorf("unknown camera %d", camera)
	}
	px, ok := m.forward[camera].Apply(m.geom.ToDrawn(p))
	if !ok {
		return geometry.Point2D{}, fmt.Errorf("camera %d: point %v maps to infinity", camera, p)
	}
	return px, nil
}

// ScorePixel unwarps and scores a live pixel.
func (m *Mapper) ScorePixel(camera int, p geometry.Point2D) (Score, geometry.Point2D, error) {
	bp, err := m.PixelToBoard(camera, p)
	if err != nil {
		return Score{}, geometry.Point2D{}, err
	}
	return m.geom.ScoreFromBoard(bp), bp, nil
}
