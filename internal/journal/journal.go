// Package journal keeps a sqlite record of every scored throw.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"dart-scorer/internal/throw"
	"dart-scorer/pkg/geometry"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the journal at path. Use ":memory:" for a
// throwaway journal.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS throws (
			throw_id          TEXT PRIMARY KEY,
			segment           INTEGER NOT NULL,
			multiplier        INTEGER NOT NULL,
			bull              BOOLEAN NOT NULL,
			score             INTEGER NOT NULL,
			camera            INTEGER NOT NULL,
			position_x        DOUBLE,
			position_y        DOUBLE,
			thrown_at         BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_throws_thrown_at ON throws (thrown_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}

	return &DB{db}, nil
}

// Record stores a throw. It makes DB a throw.Sink.
func (db *DB) Record(r throw.Record) error {
	_, err := db.Exec(`
		INSERT INTO throws (throw_id, segment, multiplier, bull, score, camera, position_x, position_y, thrown_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Segment, r.Multiplier, r.Bull, r.Value(), r.Camera, r.Position.X, r.Position.Y, r.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to journal throw %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to limit throws, newest first.
func (db *DB) Recent(limit int) ([]throw.Record, error) {
	rows, err := db.Query(`
		SELECT throw_id, segment, multiplier, bull, camera, position_x, position_y, thrown_at
		FROM throws ORDER BY thrown_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []throw.Record
	for rows.Next() {
		var (
			r      throw.Record
			x, y   float64
			thrown int64
		)
		if err := rows.Scan(&r.ID, &r.Segment, &r.Multiplier, &r.Bull, &r.Camera, &x, &y, &thrown); err != nil {
			return nil, err
		}
		r.Position = geometry.Point2D{X: x, Y: y}
		r.Timestamp = time.Unix(0, thrown).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary aggregates the journal.
type Summary struct {
	Throws int
	Points int
	Misses int
	Bulls  int
}

func (s Summary) String() string {
	avg := 0.0
	if s.Throws > 0 {
		avg = float64(s.Points) / float64(s.Throws)
	}
	return fmt.Sprintf("throws: %d, points: %d, average: %.2f, bulls: %d, misses: %d", s.Throws, s.Points, avg, s.Bulls, s.Misses)
}

// Summarize totals every throw thrown at or after since.
func (db *DB) Summarize(since time.Time) (Summary, error) {
	var s Summary
	err := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(score), 0),
		       COALESCE(SUM(CASE WHEN multiplier = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN bull THEN 1 ELSE 0 END), 0)
		FROM throws WHERE thrown_at >= ?`, since.UnixNano()).Scan(&s.Throws, &s.Points, &s.Misses, &s.Bulls)
	if err != nil {
		return Summary{}, err
	}
	return s, nil
}
