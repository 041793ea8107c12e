package journal

import (
	"path/filepath"
	"testing"
	"time"

	"dart-scorer/internal/board"
	"dart-scorer/internal/throw"
	"dart-scorer/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "throws.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndRecent(t *testing.T) {
	db := openTemp(t)
	base := time.Date(2024, 5, 4, 21, 0, 0, 0, time.UTC)

	first := throw.NewRecord(board.Score{Segment: 20, Multiplier: 3}, geometry.Point2D{X: 1.5, Y: -165}, 0, base)
	second := throw.NewRecord(board.Score{Segment: 25, Multiplier: 2, Bull: true}, geometry.Point2D{X: 2, Y: 3}, 2, base.Add(time.Second))
	third := throw.NewRecord(board.Miss, geometry.Point2D{X: 300, Y: 0}, 1, base.Add(2*time.Second))
	for _, r := range []throw.Record{first, second, third} {
		require.NoError(t, db.Record(r))
	}

	got, err := db.Recent(2)
	require.NoError(t, err)
	want := []throw.Record{third, second}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordRejectsDuplicateID(t *testing.T) {
	db := openTemp(t)
	r := throw.NewRecord(board.Score{Segment: 1, Multiplier: 1}, geometry.Point2D{}, 0, time.Now())
	require.NoError(t, db.Record(r))
	assert.Error(t, db.Record(r))
}

func TestSummarize(t *testing.T) {
	db := openTemp(t)
	base := time.Date(2024, 5, 4, 21, 0, 0, 0, time.UTC)

	records := []throw.Record{
		throw.NewRecord(board.Score{Segment: 20, Multiplier: 3}, geometry.Point2D{}, 0, base.Add(-time.Hour)),
		throw.NewRecord(board.Score{Segment: 20, Multiplier: 3}, geometry.Point2D{}, 0, base),
		throw.NewRecord(board.Score{Segment: 25, Multiplier: 1, Bull: true}, geometry.Point2D{}, 0, base.Add(time.Minute)),
		throw.NewRecord(board.Miss, geometry.Point2D{}, 0, base.Add(2*time.Minute)),
	}
	for _, r := range records {
		require.NoError(t, db.Record(r))
	}

	s, err := db.Summarize(base)
	require.NoError(t, err)
	assert.Equal(t, Summary{Throws: 3, Points: 85, Misses: 1, Bulls: 1}, s)
	assert.Equal(t, "throws: 3, points: 85, average: 28.33, bulls: 1, misses: 1", s.String())

	empty, err := db.Summarize(base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Summary{}, empty)
}

func TestReopenKeepsThrows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "throws.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Record(throw.NewRecord(board.Score{Segment: 5, Multiplier: 2}, geometry.Point2D{}, 1, time.Now())))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].Value())
}
