package render

import (
	"fmt"
	"os"
	"path/filepath"

	"dart-scorer/internal/board"
	"dart-scorer/internal/throw"
	"dart-scorer/pkg/colorutil"

	"gocv.io/x/gocv"
)

// SnapshotSink saves a board drawing with the throw marked for every scored
// throw.
type SnapshotSink struct {
	Dir      string
	Geometry board.Geometry
}

// Path returns the image file for a record.
func (s *SnapshotSink) Path(r throw.Record) string {
	id := r.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return filepath.Join(s.Dir, fmt.Sprintf("throw_%s_%s.png", r.Timestamp.UTC().Format("20060102T150405.000"), id))
}

// Record draws and writes the snapshot.
func (s *SnapshotSink) Record(r throw.Record) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	img := DrawBoard(s.Geometry)
	defer img.Close()
	MarkThrow(&img, s.Geometry, r, colorutil.Cyan)

	path := s.Path(r)
	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("failed to write snapshot %s", path)
	}
	return nil
}
