package tip

import (
	"image"
	"image/color"

	"dart-scorer/pkg/geometry"

	"gocv.io/x/gocv"
)

// skeletonize thins a binary mask to its morphological skeleton: each pass
// keeps what an opening with element removes, then erodes the working copy.
// An empty mask yields an empty skeleton. The caller owns the result.
func skeletonize(mask gocv.Mat, element gocv.Mat) gocv.Mat {
	skeleton := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), mask.Rows(), mask.Cols(), gocv.MatTypeCV8U)
	if gocv.CountNonZero(mask) == 0 {
		return skeleton
	}

	work := mask.Clone()
	defer work.Close()
	opened := gocv.NewMat()
	defer opened.Close()
	residue := gocv.NewMat()
	defer residue.Close()

	// a pass erodes at least one pixel off every side
	passes := max(mask.Rows(), mask.Cols())
	for i := 0; i < passes && gocv.CountNonZero(work) > 0; i++ {
		gocv.MorphologyEx(work, &opened, gocv.MorphOpen, element)
		gocv.Subtract(work, opened, &residue)
		gocv.BitwiseOr(skeleton, residue, &skeleton)
		gocv.Erode(work, &work, element)
	}
	return skeleton
}

// refineTip fills the convex hull of the dart features, skeletonizes it and
// returns the lowest point of the dominant skeleton contour.
func refineTip(points []geometry.Point2D, rows, cols int) (geometry.Point2D, bool) {
	hull := geometry.ConvexHull(points)
	if len(hull) < 3 {
		return geometry.Point2D{}, false
	}

	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8U)
	defer mask.Close()
	poly := gocv.NewPointsVectorFromPoints([][]image.Point{geometry.ToImagePoints(hull)})
	defer poly.Close()
	gocv.FillPoly(&mask, poly, color.RGBA{255, 255, 255, 255})

	cross := gocv.GetStructuringElement(gocv.MorphCross, image.Point{X: 3, Y: 3})
	defer cross.Close()
	skeleton := skeletonize(mask, cross)
	defer skeleton.Close()

	// the erosion skeleton breaks up on diagonals; bridge one-pixel gaps
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{3, 3})
	defer kernel.Close()
	bridged := gocv.NewMat()
	defer bridged.Close()
	gocv.Dilate(skeleton, &bridged, kernel)

	contours := gocv.FindContours(bridged, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return geometry.Point2D{}, false
	}

	best := -1
	var bestArea float64
	var bestLen int
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		if best < 0 || area > bestArea || (area == bestArea && c.Size() > bestLen) {
			best, bestArea, bestLen = i, area, c.Size()
		}
	}

	pts := contours.At(best).ToPoints()
	if len(pts) == 0 {
		return geometry.Point2D{}, false
	}
	lowest := pts[0]
	for _, p := range pts[1:] {
		if p.Y > lowest.Y {
			lowest = p
		}
	}
	return geometry.FromImagePoint(lowest), true
}
