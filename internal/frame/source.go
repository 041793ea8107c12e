// Package frame adapts cameras and recorded frame sequences to a common
// Source interface.
package frame

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrReadFailed is returned when a source cannot deliver a frame. It is not
// retried by the scorer.
var ErrReadFailed = errors.New("frame read failed")

// Source yields frames from one camera. The caller owns and must close every
// returned Mat.
type Source interface {
	Read() (gocv.Mat, error)
	Close() error
}

// ReadGray reads one frame and converts it to a single-channel image.
func ReadGray(src Source) (gocv.Mat, error) {
	m, err := src.Read()
	if err != nil {
		return gocv.Mat{}, err
	}
	gray, err := ToGray(m)
	m.Close()
	if err != nil {
		return gocv.Mat{}, err
	}
	return gray, nil
}

// ToGray returns a single-channel copy of m.
func ToGray(m gocv.Mat) (gocv.Mat, error) {
	gray := gocv.NewMat()
	switch m.Channels() {
	case 1:
		m.CopyTo(&gray)
	case 3:
		gocv.CvtColor(m, &gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(m, &gray, gocv.ColorBGRAToGray)
	default:
		gray.Close()
		return gocv.Mat{}, fmt.Errorf("%w: unsupported channel count %d", ErrReadFailed, m.Channels())
	}
	return gray, nil
}
