package render

import (
	"image"
	"math"

	"dart-scorer/internal/board"
	"dart-scorer/pkg/colorutil"
	"dart-scorer/pkg/geometry"

	"gocv.io/x/gocv"
)

// CompassLabels name the calibration targets in board.CompassPoints order.
var CompassLabels = []string{"top (20)", "right (6)", "bottom (3)", "left (11)"}

// DrawTargets marks points on a camera frame with their labels.
func DrawTargets(img *gocv.Mat, pts []geometry.Point2D, labels []string) {
	for i, p := range pts {
		ip := p.ImagePoint()
		gocv.Circle(img, ip, 8, colorutil.Magenta, 2)
		gocv.Line(img, ip.Add(image.Pt(-12, 0)), ip.Add(image.Pt(12, 0)), colorutil.Magenta, 1)
		gocv.Line(img, ip.Add(image.Pt(0, -12)), ip.Add(image.Pt(0, 12)), colorutil.Magenta, 1)
		if i < len(labels) {
			gocv.PutText(img, labels[i], ip.Add(image.Pt(12, -12)), gocv.FontHersheySimplex, 0.6, colorutil.Yellow, 2)
		}
	}
}

// DrawRings projects the board's rings and sector wires into a camera frame
// through h, the drawn-board to camera matrix, so an operator can check a
// calibration by eye.
func DrawRings(img *gocv.Mat, g board.Geometry, h geometry.Homography) {
	const steps = 120
	project := func(r, phi float64) (image.Point, bool) {
		p, ok := h.Apply(onBoard(g, r, phi))
		return p.ImagePoint(), ok
	}

	for _, r := range g.Radii() {
		var ring []image.Point
		for s := 0; s < steps; s++ {
			if p, ok := project(r, 2*math.Pi*float64(s)/steps); ok {
				ring = append(ring, p)
			}
		}
		if len(ring) < 2 {
			continue
		}
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{ring})
		gocv.Polylines(img, pv, true, colorutil.Cyan, 1)
		pv.Close()
	}

	for i := 0; i < 20; i++ {
		phi := float64(i)*2*math.Pi/20 - math.Pi/20
		a, ok1 := project(g.OuterBullRadius, phi)
		b, ok2 := project(g.DoubleOuterRadius, phi)
		if ok1 && ok2 {
			gocv.Line(img, a, b, colorutil.Cyan, 1)
		}
	}
}
