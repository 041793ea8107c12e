package frame

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Memory serves a fixed list of frames, handing out clones.
type Memory struct {
	frames []gocv.Mat
	next   int
	// Hold keeps returning the last frame once the list is exhausted.
	Hold bool
}

// NewMemory takes ownership of frames; Close releases them.
func NewMemory(frames ...gocv.Mat) *Memory {
	return &Memory{frames: frames}
}

// Append queues more frames.
func (m *Memory) Append(frames ...gocv.Mat) {
	m.frames = append(m.frames, frames...)
}

// Read returns a clone of the next frame.
func (m *Memory) Read() (gocv.Mat, error) {
	if m.next >= len(m.frames) {
		if !m.Hold || len(m.frames) == 0 {
			return gocv.Mat{}, fmt.Errorf("%w: no frames left", ErrReadFailed)
		}
		return m.frames[len(m.frames)-1].Clone(), nil
	}
	f := m.frames[m.next]
	m.next++
	return f.Clone(), nil
}

// Close releases all frames.
func (m *Memory) Close() error {
	for _, f := range m.frames {
		f.Close()
	}
	m.frames = nil
	return nil
}
