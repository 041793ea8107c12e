// Package tip locates the tip of a freshly thrown dart in one camera's view.
package tip

import "time"

// Params configures tip localization. Pixel values assume 1280x720 frames.
type Params struct {
	MaxFeatures   int     // corner detector feature cap
	Quality       float64 // corner detector quality level
	MinDistance   float64 // minimum distance between corners
	MinFeatures   int     // fewer corners than this means no dart
	MinFiltered   int     // corners required after the window filter
	WindowX       float64 // max horizontal distance from the corner mean
	WindowY       float64 // max vertical distance from the corner mean
	LineDistance  float64 // max distance from the fitted dart axis
	AreaThreshold float32 // binary threshold for the changed-area check
	MaxArea       int     // changed pixels above this are a hand, not a dart

	Settle time.Duration // wait after the motion event before the burst
	Burst  int           // frames localized per event
}

// DefaultParams returns the tuning used for 1280x720 frames.
func DefaultParams() Params {
	return Params{
		MaxFeatures:   640,
		Quality:       0.0008,
		MinDistance:   1,
		MinFeatures:   40,
		MinFiltered:   30,
		WindowX:       180,
		WindowY:       120,
		LineDistance:  40,
		AreaThreshold: 60,
		MaxArea:       15000,
		Settle:        200 * time.Millisecond,
		Burst:         3,
	}
}
