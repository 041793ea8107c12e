package tip

import (
	"image"
	"math"

	"dart-scorer/pkg/geometry"

	"gocv.io/x/gocv"
)

// detectFeatures finds strong corners in the blurred difference image.
func detectFeatures(blur gocv.Mat, p Params) []geometry.Point2D {
	corners := gocv.NewMat()
	defer corners.Close()
	gocv.GoodFeaturesToTrack(blur, &corners, p.MaxFeatures, p.Quality, p.MinDistance)

	pts := make([]geometry.Point2D, 0, corners.Rows())
	for i := 0; i < corners.Rows(); i++ {
		v := corners.GetVecfAt(i, 0)
		// whole pixels, as the features index into the frame
		pts = append(pts, geometry.Point2D{X: math.Floor(float64(v[0])), Y: math.Floor(float64(v[1]))})
	}
	return pts
}

// filterWindow keeps points within the window around their mean.
func filterWindow(points []geometry.Point2D, wx, wy float64) []geometry.Point2D {
	mean := geometry.Centroid(points)
	out := make([]geometry.Point2D, 0, len(points))
	for _, p := range points {
		if math.Abs(p.X-mean.X) <= wx && math.Abs(p.Y-mean.Y) <= wy {
			out = append(out, p)
		}
	}
	return out
}

// fitAxis fits a robust (Huber) line through the points.
func fitAxis(points []geometry.Point2D) geometry.Line {
	pv := gocv.NewPointVectorFromPoints(geometry.ToImagePoints(points))
	defer pv.Close()

	line := gocv.NewMat()
	defer line.Close()
	gocv.FitLine(pv, &line, gocv.DistHuber, 0, 0.1, 0.1)

	return geometry.Line{
		Dir:    geometry.Point2D{X: float64(line.GetFloatAt(0, 0)), Y: float64(line.GetFloatAt(1, 0))},
		Origin: geometry.Point2D{X: float64(line.GetFloatAt(2, 0)), Y: float64(line.GetFloatAt(3, 0))},
	}
}

// filterLine keeps points within maxDist of the dart axis.
func filterLine(points []geometry.Point2D, maxDist float64) []geometry.Point2D {
	if len(points) < 2 {
		return points
	}
	axis := fitAxis(points)
	out := make([]geometry.Point2D, 0, len(points))
	for _, p := range points {
		if axis.Distance(p) <= maxDist {
			out = append(out, p)
		}
	}
	return out
}

// changedArea counts the pixels of blur above threshold.
func changedArea(blur gocv.Mat, threshold float32) int {
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(blur, &mask, threshold, 255, gocv.ThresholdBinary)
	return gocv.CountNonZero(mask)
}

// diffBlur returns the 5x5 box-blurred absolute difference of two frames.
func diffBlur(reference, frame gocv.Mat) gocv.Mat {
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(reference, frame, &diff)

	blur := gocv.NewMat()
	gocv.Blur(diff, &blur, image.Pt(5, 5))
	return blur
}
