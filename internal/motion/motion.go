// Package motion detects dart-sized changes between a camera's reference
// frame and its live frames.
package motion

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Band is the open interval of changed-pixel counts that signals a dart.
// Counts below Lower are noise; counts above Upper are a hand or a body.
type Band struct {
	Lower int
	Upper int
}

// DefaultBand returns the band used for 1280x720 frames.
func DefaultBand() Band {
	return Band{Lower: 1000, Upper: 7500}
}

// Contains reports whether n lies strictly inside the band.
func (b Band) Contains(n int) bool {
	return b.Lower < n && n < b.Upper
}

// DefaultThreshold is the binary threshold applied to the filtered
// difference image.
const DefaultThreshold = 60

// Reading is the result of comparing one live frame against the reference.
type Reading struct {
	Count  int
	InBand bool
	// Mask is the thresholded difference image, set only by Measure. The
	// caller must Close the reading.
	Mask    gocv.Mat
	hasMask bool
}

// Close releases the mask.
func (r *Reading) Close() {
	if r.hasMask {
		r.Mask.Close()
		r.hasMask = false
	}
}

// AnyInBand reports whether at least one camera saw a dart-sized change.
func AnyInBand(readings []Reading) bool {
	for _, r := range readings {
		if r.InBand {
			return true
		}
	}
	return false
}

// Counts returns the changed-pixel counts of the readings.
func Counts(readings []Reading) []int {
	out := make([]int, len(readings))
	for i, r := range readings {
		out[i] = r.Count
	}
	return out
}

// Detector holds one camera's reference frame.
type Detector struct {
	Band      Band
	Threshold float32

	reference gocv.Mat
	hasRef    bool
}

// NewDetector returns a detector with no reference; SetReference must be
// called before Measure.
func NewDetector(band Band, threshold float32) *Detector {
	return &Detector{Band: band, Threshold: threshold}
}

// SetReference replaces the reference frame with a copy of frame.
func (d *Detector) SetReference(frame gocv.Mat) {
	if d.hasRef {
		d.reference.Close()
	}
	d.reference = frame.Clone()
	d.hasRef = true
}

// Reference returns the current reference frame. It remains owned by the
// detector.
func (d *Detector) Reference() gocv.Mat {
	return d.reference
}

// HasReference reports whether a reference frame has been captured.
func (d *Detector) HasReference() bool {
	return d.hasRef
}

// Measure thresholds the difference between the reference and frame:
// absolute difference, 5x5 Gaussian blur, bilateral filter, then a binary
// threshold.
func (d *Detector) Measure(frame gocv.Mat) (Reading, error) {
	if !d.hasRef {
		return Reading{}, fmt.Errorf("motion: no reference frame")
	}
	if frame.Rows() != d.reference.Rows() || frame.Cols() != d.reference.Cols() {
		return Reading{}, fmt.Errorf("motion: frame is %dx%d, reference is %dx%d",
			frame.Cols(), frame.Rows(), d.reference.Cols(), d.reference.Rows())
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(d.reference, frame, &diff)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(diff, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	smoothed := gocv.NewMat()
	defer smoothed.Close()
	gocv.BilateralFilter(blurred, &smoothed, 9, 75, 75)

	mask := gocv.NewMat()
	gocv.Threshold(smoothed, &mask, d.Threshold, 255, gocv.ThresholdBinary)

	n := gocv.CountNonZero(mask)
	return Reading{Count: n, InBand: d.Band.Contains(n), Mask: mask, hasMask: true}, nil
}

// Close releases the reference frame.
func (d *Detector) Close() {
	if d.hasRef {
		d.reference.Close()
		d.hasRef = false
	}
}
