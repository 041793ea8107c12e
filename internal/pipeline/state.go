// Package pipeline runs the detection loop: wait for a dart, localize it in
// every camera, arbitrate a score and wait for the board to settle again.
package pipeline

import (
	"errors"
	"fmt"
	"time"
)

// State is the detection loop's state.
type State int

const (
	Quiescent State = iota
	DartDetected
	Scored
	AwaitingTakeout
)

func (s State) String() string {
	switch s {
	case Quiescent:
		return "quiescent"
	case DartDetected:
		return "dart detected"
	case Scored:
		return "scored"
	case AwaitingTakeout:
		return "awaiting takeout"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrCameraFailed is returned when a camera stops delivering frames. The
// loop does not retry.
var ErrCameraFailed = errors.New("camera failed")

// CameraError identifies the failing camera.
type CameraError struct {
	Camera int
	Err    error
}

func (e *CameraError) Error() string {
	return fmt.Sprintf("camera %d failed: %v", e.Camera, e.Err)
}

// Unwrap matches both ErrCameraFailed and the underlying read error.
func (e *CameraError) Unwrap() []error {
	return []error{ErrCameraFailed, e.Err}
}

// Clock abstracts wall time so the settle and takeout delays can be driven
// by tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
