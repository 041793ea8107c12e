// Package throw defines the scored-throw record handed to consumers such as
// the game server.
package throw

import (
	"errors"
	"fmt"
	"time"

	"dart-scorer/internal/board"
	"dart-scorer/internal/monitoring"
	"dart-scorer/pkg/geometry"

	"github.com/google/uuid"
)

// Record is one scored throw. Position is in board pixels relative to the
// bullseye with y growing downward.
//
// A dart outside the double ring is still reported: it carries Segment 0 and
// Multiplier 0 and is worth nothing. Consumers must accept a zero multiplier
// alongside 1, 2 and 3.
type Record struct {
	ID         string           `json:"id"`
	Position   geometry.Point2D `json:"position"`
	Segment    int              `json:"segment"`
	Multiplier int              `json:"multiplier"`
	Bull       bool             `json:"bull"`
	Camera     int              `json:"camera"`
	Timestamp  time.Time        `json:"timestamp"`
}

// NewRecord builds a record with a fresh ID.
func NewRecord(score board.Score, position geometry.Point2D, camera int, at time.Time) Record {
	return Record{
		ID:         uuid.NewString(),
		Position:   position,
		Segment:    score.Segment,
		Multiplier: score.Multiplier,
		Bull:       score.Bull,
		Camera:     camera,
		Timestamp:  at,
	}
}

// Score returns the record's score.
func (r Record) Score() board.Score {
	return board.Score{Segment: r.Segment, Multiplier: r.Multiplier, Bull: r.Bull}
}

// Value returns the points scored.
func (r Record) Value() int {
	return r.Segment * r.Multiplier
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%d) at (%.1f, %.1f) from camera %d", r.Score(), r.Value(), r.Position.X, r.Position.Y, r.Camera)
}

// Sink receives scored throws, one synchronous call per throw.
type Sink interface {
	Record(r Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(r Record) error

func (f SinkFunc) Record(r Record) error {
	return f(r)
}

// MultiSink fans a record out to every sink. All sinks are called; their
// errors are joined.
type MultiSink []Sink

func (m MultiSink) Record(r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes each throw to the diagnostic log.
type LogSink struct{}

func (LogSink) Record(r Record) error {
	monitoring.Logf("throw %s: %s", r.ID, r)
	return nil
}
