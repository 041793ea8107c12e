package calibration

import "dart-scorer/pkg/geometry"

// MatrixSet is the ordered set of per-camera calibration matrices. It is a
// value: With returns a modified copy and the receiver is never changed.
type MatrixSet struct {
	matrices []geometry.Homography
}

// NewMatrixSet builds a set from matrices indexed by camera.
func NewMatrixSet(matrices ...geometry.Homography) MatrixSet {
	return MatrixSet{matrices: append([]geometry.Homography(nil), matrices...)}
}

// Len returns the number of cameras in the set.
func (s MatrixSet) Len() int {
	return len(s.matrices)
}

// Matrix returns the calibration matrix of the given camera.
func (s MatrixSet) Matrix(camera int) (geometry.Homography, bool) {
	if camera < 0 || camera >= len(s.matrices) {
		return geometry.Homography{}, false
	}
	return s.matrices[camera], true
}

// With returns a copy of the set with the camera's matrix replaced. Cameras
// beyond the current length are appended, with identity matrices filling any
// gap.
func (s MatrixSet) With(camera int, h geometry.Homography) MatrixSet {
	n := len(s.matrices)
	if camera >= n {
		n = camera + 1
	}
	out := make([]geometry.Homography, n)
	copy(out, s.matrices)
	for i := len(s.matrices); i < n; i++ {
		out[i] = geometry.IdentityHomography()
	}
	out[camera] = h
	return MatrixSet{matrices: out}
}
