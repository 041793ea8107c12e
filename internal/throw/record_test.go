package throw

import (
	"errors"
	"testing"
	"time"

	"dart-scorer/internal/board"
	"dart-scorer/internal/monitoring"
	"dart-scorer/pkg/geometry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	at := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	r := NewRecord(board.Score{Segment: 20, Multiplier: 3}, geometry.Point2D{X: 1, Y: -165}, 0, at)

	_, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, r.Value())
	assert.Equal(t, board.Score{Segment: 20, Multiplier: 3}, r.Score())
	assert.Equal(t, at, r.Timestamp)
	assert.Equal(t, "T20 (60) at (1.0, -165.0) from camera 0", r.String())

	other := NewRecord(board.Miss, geometry.Point2D{}, 1, at)
	assert.NotEqual(t, r.ID, other.ID)
}

func TestMissRecord(t *testing.T) {
	r := NewRecord(board.Miss, geometry.Point2D{X: 300, Y: 0}, 2, time.Now())
	assert.Equal(t, 0, r.Segment)
	assert.Equal(t, 0, r.Multiplier)
	assert.False(t, r.Bull)
	assert.Equal(t, 0, r.Value())
	assert.True(t, r.Score().IsMiss())
}

func TestMultiSinkCallsEverySink(t *testing.T) {
	var got []string
	failing := SinkFunc(func(r Record) error { return errors.New("journal down") })
	collect := SinkFunc(func(r Record) error {
		got = append(got, r.ID)
		return nil
	})

	r := Record{ID: "abc"}
	err := MultiSink{failing, collect}.Record(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal down")
	assert.Equal(t, []string{"abc"}, got)

	assert.NoError(t, MultiSink{collect}.Record(r))
	assert.NoError(t, MultiSink{}.Record(r))
}

func TestLogSink(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()

	var lines int
	monitoring.SetLogger(func(string, ...interface{}) { lines++ })
	require.NoError(t, LogSink{}.Record(Record{ID: "x"}))
	assert.Equal(t, 1, lines)
}
