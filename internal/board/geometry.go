// Package board holds the dartboard model: ring and sector geometry in the
// canonical drawn-board image, scoring, and the per-camera mapping from live
// pixels into board space.
package board

import (
	"fmt"

	"dart-scorer/pkg/geometry"
)

// Dimensions are the physical board measurements and the size of the
// canonical board image they are drawn into.
type Dimensions struct {
	ImageWidth  int
	ImageHeight int
	DiameterMM  float64

	BullseyeRadiusMM        float64
	OuterBullRadiusMM       float64
	TripleRingInnerRadiusMM float64
	TripleRingOuterRadiusMM float64
	DoubleRingInnerRadiusMM float64
	DoubleRingOuterRadiusMM float64
}

// Regulation returns the measurements of a standard steel-tip board drawn
// into a 1280x720 image.
func Regulation() Dimensions {
	return Dimensions{
		ImageWidth:              1280,
		ImageHeight:             720,
		DiameterMM:              451,
		BullseyeRadiusMM:        6.35,
		OuterBullRadiusMM:       15.9,
		TripleRingInnerRadiusMM: 99,
		TripleRingOuterRadiusMM: 107,
		DoubleRingInnerRadiusMM: 162,
		DoubleRingOuterRadiusMM: 170,
	}
}

// Geometry is the board in pixel units of the canonical drawn board. Radii
// are whole pixels; Center is the bullseye. A Geometry is a value and is
// never mutated after NewGeometry.
type Geometry struct {
	Width       int
	Height      int
	PixelsPerMM float64
	Center      geometry.Point2D

	BullseyeRadius    float64
	OuterBullRadius   float64
	TripleInnerRadius float64
	TripleOuterRadius float64
	DoubleInnerRadius float64
	DoubleOuterRadius float64
}

// NewGeometry derives the pixel geometry from d. The scale is the image
// height over the board diameter and every radius is truncated to a pixel.
func NewGeometry(d Dimensions) (Geometry, error) {
	if d.ImageWidth <= 0 || d.ImageHeight <= 0 {
		return Geometry{}, fmt.Errorf("image dimensions must be positive, got %dx%d", d.ImageWidth, d.ImageHeight)
	}
	if d.DiameterMM <= 0 {
		return Geometry{}, fmt.Errorf("board diameter must be positive, got %f", d.DiameterMM)
	}

	ppm := float64(d.ImageHeight) / d.DiameterMM
	px := func(mm float64) float64 { return float64(int(mm * ppm)) }

	g := Geometry{
		Width:             d.ImageWidth,
		Height:            d.ImageHeight,
		PixelsPerMM:       ppm,
		Center:            geometry.Point2D{X: float64(d.ImageWidth / 2), Y: float64(d.ImageHeight / 2)},
		BullseyeRadius:    px(d.BullseyeRadiusMM),
		OuterBullRadius:   px(d.OuterBullRadiusMM),
		TripleInnerRadius: px(d.TripleRingInnerRadiusMM),
		TripleOuterRadius: px(d.TripleRingOuterRadiusMM),
		DoubleInnerRadius: px(d.DoubleRingInnerRadiusMM),
		DoubleOuterRadius: px(d.DoubleRingOuterRadiusMM),
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Validate checks that the ring radii are strictly increasing from the
// bullseye outwards.
func (g Geometry) Validate() error {
	radii := g.Radii()
	if radii[0] <= 0 {
		return fmt.Errorf("board radii must be positive, bullseye is %.0fpx", radii[0])
	}
	for i := 1; i < len(radii); i++ {
		if radii[i] <= radii[i-1] {
			return fmt.Errorf("board radii must be strictly increasing, got %v", radii)
		}
	}
	return nil
}

// Radii returns the six ring radii from the bullseye outwards.
func (g Geometry) Radii() [6]float64 {
	return [6]float64{
		g.BullseyeRadius,
		g.OuterBullRadius,
		g.TripleInnerRadius,
		g.TripleOuterRadius,
		g.DoubleInnerRadius,
		g.DoubleOuterRadius,
	}
}

// ToBoard converts a point of the drawn board image to board coordinates
// (relative to the bullseye, y down).
func (g Geometry) ToBoard(drawn geometry.Point2D) geometry.Point2D {
	return drawn.Sub(g.Center)
}

// ToDrawn converts board coordinates back to the drawn board image.
func (g Geometry) ToDrawn(p geometry.Point2D) geometry.Point2D {
	return p.Add(g.Center)
}

// CompassPoints returns the drawn-board positions of the top, right, bottom
// and left points of the outer double ring, in that order.
func (g Geometry) CompassPoints() [4]geometry.Point2D {
	r := g.DoubleOuterRadius
	c := g.Center
	return [4]geometry.Point2D{
		{X: c.X, Y: c.Y - r},
		{X: c.X + r, Y: c.Y},
		{X: c.X, Y: c.Y + r},
		{X: c.X - r, Y: c.Y},
	}
}
