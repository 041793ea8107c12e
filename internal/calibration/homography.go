// Package calibration computes and stores the per-camera perspective
// matrices that relate the canonical drawn board to each camera's view.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"dart-scorer/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when a set of correspondences cannot define a
// perspective transform.
var ErrDegenerate = errors.New("degenerate calibration points")

// collinearTolerance is the minimum doubled triangle area, in square pixels,
// for three calibration points to count as non-collinear.
const collinearTolerance = 1e-6

// ComputeHomography solves the perspective transform that maps each src
// point onto the matching dst point. Exactly four pairs are required and no
// three points of either set may be collinear.
func ComputeHomography(src, dst []geometry.Point2D) (geometry.Homography, error) {
	if len(src) != 4 || len(dst) != 4 {
		return geometry.Homography{}, fmt.Errorf("%w: need exactly 4 point pairs, got %d and %d", ErrDegenerate, len(src), len(dst))
	}
	if err := checkCollinear(src); err != nil {
		return geometry.Homography{}, fmt.Errorf("source %w", err)
	}
	if err := checkCollinear(dst); err != nil {
		return geometry.Homography{}, fmt.Errorf("destination %w", err)
	}

	// With h8 fixed at 1, each pair gives two linear equations:
	//   x' = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
	//   y' = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.SetRow(i*2, []float64{x, y, 1, 0, 0, 0, -x * xp, -y * xp})
		B.SetVec(i*2, xp)

		A.SetRow(i*2+1, []float64{0, 0, 0, x, y, 1, -x * yp, -y * yp})
		B.SetVec(i*2+1, yp)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return geometry.Homography{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	var h geometry.Homography
	for i := 0; i < 8; i++ {
		v := params.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geometry.Homography{}, fmt.Errorf("%w: solution is not finite", ErrDegenerate)
		}
		h[i] = v
	}
	h[8] = 1

	if _, ok := h.Inverse(); !ok {
		return geometry.Homography{}, fmt.Errorf("%w: matrix is singular", ErrDegenerate)
	}
	return h, nil
}

func checkCollinear(pts []geometry.Point2D) error {
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			for k := j + 1; k < len(pts); k++ {
				if geometry.Collinear(pts[i], pts[j], pts[k], collinearTolerance) {
					return fmt.Errorf("%w: points %d, %d and %d are collinear", ErrDegenerate, i, j, k)
				}
			}
		}
	}
	return nil
}

// ReprojectionError returns the mean distance between h applied to src and
// dst.
func ReprojectionError(h geometry.Homography, src, dst []geometry.Point2D) float64 {
	if len(src) == 0 || len(src) != len(dst) {
		return 0
	}
	var total float64
	for i := range src {
		p, ok := h.Apply(src[i])
		if !ok {
			return math.Inf(1)
		}
		total += p.Distance(dst[i])
	}
	return total / float64(len(src))
}
