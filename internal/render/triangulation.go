package render

import (
	"image"
	"math"

	"dart-scorer/internal/triangulate"
	"dart-scorer/pkg/colorutil"
	"dart-scorer/pkg/geometry"

	"gocv.io/x/gocv"
)

// DrawTriangulation plots the camera ring, each camera's view lines and the
// located darts on a size×size canvas. Scoring darts are red, darts outside
// the scoring area yellow.
func DrawTriangulation(f *triangulate.Finder, readings [][]float64, darts []geometry.Point2D, size int) gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(scalar(colorutil.White), size, size, gocv.MatTypeCV8UC3)

	cfg := f.Config()
	ring := cfg.BoardRadius * cfg.CameraDistanceFactor
	scale := float64(size) / (2.2 * ring)
	c := float64(size) / 2
	// millimetres, y up, to canvas pixels
	toPx := func(p geometry.Point2D) image.Point {
		return geometry.Point2D{X: c + p.X*scale, Y: c - p.Y*scale}.ImagePoint()
	}
	center := toPx(geometry.Point2D{})

	gocv.Circle(&img, center, int(cfg.BoardRadius*scale), colorutil.Wire, -1)
	gocv.Circle(&img, center, int(cfg.ScoringRadius*scale), colorutil.White, -1)
	gocv.Circle(&img, center, int(cfg.ScoringRadius*scale), colorutil.Black, 1)
	gocv.Circle(&img, center, int(ring*scale), colorutil.Wire, 1)

	for i := 0; i < cfg.NumCameras; i++ {
		cam := f.CameraPosition(i)
		cp := toPx(cam)
		gocv.Rectangle(&img, image.Rect(cp.X-6, cp.Y-6, cp.X+6, cp.Y+6), colorutil.Blue, -1)

		if i >= len(readings) {
			continue
		}
		for _, r := range readings[i] {
			l := f.ViewLine(i, r)
			dir := l.Dir.Scale(1 / math.Max(l.Dir.Norm(), 1e-12))
			a := l.Origin.Add(dir.Scale(2 * ring))
			b := l.Origin.Sub(dir.Scale(2 * ring))
			gocv.Line(&img, toPx(a), toPx(b), colorutil.Green, 1)
		}
	}

	for _, d := range darts {
		col := colorutil.Yellow
		if f.InScoringArea(d) {
			col = colorutil.Red
		}
		gocv.Circle(&img, toPx(d), 7, col, -1)
		gocv.Circle(&img, toPx(d), 8, colorutil.Black, 1)
	}
	return img
}
