package frame

import (
	"fmt"
	"os"
	"strconv"

	"gocv.io/x/gocv"
)

// Capture reads frames from a camera device or a video file.
type Capture struct {
	id  string
	cap *gocv.VideoCapture
}

// OpenCapture opens id as a video file when such a file exists, otherwise as
// a numeric camera device index.
func OpenCapture(id string) (*Capture, error) {
	var (
		vc  *gocv.VideoCapture
		err error
	)
	if _, statErr := os.Stat(id); statErr == nil {
		vc, err = gocv.VideoCaptureFile(id)
	} else {
		n, convErr := strconv.Atoi(id)
		if convErr != nil {
			return nil, fmt.Errorf("camera %q is neither a file nor a device index", id)
		}
		vc, err = gocv.VideoCaptureDevice(n)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %q: %w", id, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("failed to open camera %q", id)
	}
	return &Capture{id: id, cap: vc}, nil
}

// SetSize requests a capture resolution. Devices may ignore it.
func (c *Capture) SetSize(width, height int) {
	c.cap.Set(gocv.VideoCaptureFrameWidth, float64(width))
	c.cap.Set(gocv.VideoCaptureFrameHeight, float64(height))
}

// Read grabs the next frame.
func (c *Capture) Read() (gocv.Mat, error) {
	m := gocv.NewMat()
	if ok := c.cap.Read(&m); !ok || m.Empty() {
		m.Close()
		return gocv.Mat{}, fmt.Errorf("%w: camera %q", ErrReadFailed, c.id)
	}
	return m, nil
}

// Close releases the device.
func (c *Capture) Close() error {
	return c.cap.Close()
}
