package track

import (
	"dart-scorer/pkg/geometry"
)

// State is one camera's tracking memory between observations of a dart.
// It is owned by the camera's detection goroutine.
type State struct {
	filter      *Filter
	prevTip     geometry.Point2D
	initialized bool
}

// NewState returns an empty track.
func NewState(p Params) (*State, error) {
	f, err := NewFilter(p)
	if err != nil {
		return nil, err
	}
	return &State{filter: f}, nil
}

// Observe feeds a measured tip through predict and update and returns the
// corrected tip. The first observation after a reset initializes the track
// at the measurement.
func (s *State) Observe(tip geometry.Point2D) (geometry.Point2D, error) {
	if !s.initialized {
		s.filter.Reset(tip)
		s.initialized = true
		s.prevTip = tip
		return tip, nil
	}

	s.filter.Predict()
	corrected, err := s.filter.Update(tip)
	if err != nil {
		return tip, err
	}
	s.prevTip = corrected
	return corrected, nil
}

// PrevTip returns the last reported tip and whether the track has one.
func (s *State) PrevTip() (geometry.Point2D, bool) {
	return s.prevTip, s.initialized
}

// Reset forgets the previous tip and filter state.
func (s *State) Reset() {
	s.initialized = false
	s.prevTip = geometry.Point2D{}
	s.filter.Reset(geometry.Point2D{})
}
