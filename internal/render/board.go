// Package render draws the canonical board, scored throws and calibration
// overlays.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"dart-scorer/internal/board"
	"dart-scorer/internal/throw"
	"dart-scorer/pkg/colorutil"
	"dart-scorer/pkg/geometry"

	"gocv.io/x/gocv"
)

// arcSteps is the number of polygon edges per sector arc.
const arcSteps = 8

// onBoard returns the drawn-board point at radius r and clockwise angle phi
// from 12 o'clock.
func onBoard(g board.Geometry, r, phi float64) geometry.Point2D {
	return g.ToDrawn(geometry.Point2D{X: r * math.Sin(phi), Y: -r * math.Cos(phi)})
}

// wedge approximates the annular sector between radii r0 and r1.
func wedge(g board.Geometry, sector int, r0, r1 float64) []image.Point {
	width := 2 * math.Pi / 20
	start := float64(sector)*width - width/2

	pts := make([]image.Point, 0, 2*(arcSteps+1))
	for s := 0; s <= arcSteps; s++ {
		phi := start + width*float64(s)/arcSteps
		pts = append(pts, onBoard(g, r1, phi).ImagePoint())
	}
	for s := arcSteps; s >= 0; s-- {
		phi := start + width*float64(s)/arcSteps
		pts = append(pts, onBoard(g, r0, phi).ImagePoint())
	}
	return pts
}

// DrawBoard renders the canonical board at the geometry's image size. The
// caller owns the returned Mat.
func DrawBoard(g board.Geometry) gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(scalar(colorutil.Surround), g.Height, g.Width, gocv.MatTypeCV8UC3)

	bands := []struct {
		r0, r1  float64
		scoring bool
	}{
		{g.DoubleInnerRadius, g.DoubleOuterRadius, true},
		{g.TripleOuterRadius, g.DoubleInnerRadius, false},
		{g.TripleInnerRadius, g.TripleOuterRadius, true},
		{g.OuterBullRadius, g.TripleInnerRadius, false},
	}
	for i := 0; i < 20; i++ {
		for _, b := range bands {
			poly := gocv.NewPointsVectorFromPoints([][]image.Point{wedge(g, i, b.r0, b.r1)})
			gocv.FillPoly(&img, poly, colorutil.SegmentColor(i, b.scoring))
			poly.Close()
		}
	}

	center := g.Center.ImagePoint()
	gocv.Circle(&img, center, int(g.OuterBullRadius), colorutil.BoardGreen, -1)
	gocv.Circle(&img, center, int(g.BullseyeRadius), colorutil.BoardRed, -1)

	for _, r := range g.Radii() {
		gocv.Circle(&img, center, int(r), colorutil.Wire, 1)
	}
	for i := 0; i < 20; i++ {
		phi := float64(i)*2*math.Pi/20 - math.Pi/20
		gocv.Line(&img, onBoard(g, g.OuterBullRadius, phi).ImagePoint(), onBoard(g, g.DoubleOuterRadius, phi).ImagePoint(), colorutil.Wire, 1)
	}

	labelRadius := g.DoubleOuterRadius + 0.06*float64(g.Height)
	for i, seg := range board.SectorOrder {
		label := fmt.Sprintf("%d", seg)
		size := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.6, 2)
		p := onBoard(g, labelRadius, float64(i)*2*math.Pi/20).ImagePoint()
		p = p.Add(image.Pt(-size.X/2, size.Y/2))
		gocv.PutText(&img, label, p, gocv.FontHersheySimplex, 0.6, colorutil.White, 2)
	}
	return img
}

// MarkThrow draws a throw's position and score onto a board drawing.
func MarkThrow(img *gocv.Mat, g board.Geometry, r throw.Record, c color.RGBA) {
	p := g.ToDrawn(r.Position).ImagePoint()
	gocv.Circle(img, p, 6, c, -1)
	gocv.Circle(img, p, 7, colorutil.Black, 1)
	gocv.PutText(img, fmt.Sprintf("%s (%d)", r.Score(), r.Value()), image.Pt(30, 40),
		gocv.FontHersheySimplex, 1, colorutil.Yellow, 2)
}

// scalar converts a color to a BGR scalar.
func scalar(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), float64(c.A))
}
