// Package triangulate locates darts from one-dimensional camera readings.
// Cameras sit on a circle around the board, each reporting where along its
// field of view a dart appears. Positions are millimetres from the
// bullseye with x to the right and y up.
package triangulate

import (
	"errors"
	"fmt"
	"math"

	"dart-scorer/pkg/geometry"
)

// MaxDarts is the number of darts in a turn.
const MaxDarts = 3

var (
	ErrCameraCount  = errors.New("wrong number of cameras")
	ErrTooManyDarts = errors.New("too many darts")
	ErrReadingCount = errors.New("cameras disagree on the number of darts")
	ErrReadingRange = errors.New("reading outside [0, 1]")
)

// Config describes the camera ring.
type Config struct {
	NumCameras           int
	AngleSpacingDeg      float64
	BoardRadius          float64 // physical board radius, mm
	ScoringRadius        float64 // outer edge of the double ring, mm
	CameraDistanceFactor float64 // camera ring radius as a multiple of BoardRadius
	// Distortion corrects a normalized reading; nil means identity.
	Distortion func(float64) float64
}

// DefaultConfig returns four cameras 36° apart around a regulation board.
func DefaultConfig() Config {
	return Config{
		NumCameras:           4,
		AngleSpacingDeg:      36,
		BoardRadius:          225.5,
		ScoringRadius:        170.5,
		CameraDistanceFactor: 1.9,
	}
}

// Finder intersects camera view lines.
type Finder struct {
	cfg       Config
	positions []geometry.Point2D
	angles    []float64
}

// New places the cameras: camera i sits at angle i×spacing on the camera
// ring and faces the bullseye.
func New(cfg Config) (*Finder, error) {
	if cfg.NumCameras < 2 {
		return nil, fmt.Errorf("triangulation needs at least 2 cameras, got %d", cfg.NumCameras)
	}
	if cfg.BoardRadius <= 0 || cfg.CameraDistanceFactor <= 0 {
		return nil, fmt.Errorf("board radius and camera distance must be positive")
	}
	if cfg.Distortion == nil {
		cfg.Distortion = func(x float64) float64 { return x }
	}

	f := &Finder{cfg: cfg}
	ring := cfg.BoardRadius * cfg.CameraDistanceFactor
	spacing := cfg.AngleSpacingDeg * math.Pi / 180
	for i := 0; i < cfg.NumCameras; i++ {
		a := float64(i) * spacing
		f.positions = append(f.positions, geometry.Point2D{X: ring * math.Cos(a), Y: ring * math.Sin(a)})
		f.angles = append(f.angles, a+math.Pi)
	}
	return f, nil
}

// Config returns the finder's configuration.
func (f *Finder) Config() Config {
	return f.cfg
}

// CameraPosition returns where camera i sits.
func (f *Finder) CameraPosition(i int) geometry.Point2D {
	return f.positions[i]
}

// Lateral converts a normalized reading into a signed offset from the
// camera's centre line.
func (f *Finder) Lateral(reading float64) float64 {
	return (2*f.cfg.Distortion(reading) - 1) * f.cfg.BoardRadius
}

// InBoard reports whether p lies on the physical board.
func (f *Finder) InBoard(p geometry.Point2D) bool {
	return p.Norm() <= f.cfg.BoardRadius
}

// InScoringArea reports whether p lies inside the double ring.
func (f *Finder) InScoringArea(p geometry.Point2D) bool {
	return p.Norm() <= f.cfg.ScoringRadius
}

// line is a*x + b*y + c = 0.
type line struct{ a, b, c float64 }

// ViewLine returns camera i's line of sight for a reading, as the point it
// passes through next to the camera and its direction.
func (f *Finder) ViewLine(i int, reading float64) geometry.Line {
	l := f.viewLine(i, reading)
	// (a, b) is the line's normal
	return geometry.Line{
		Origin: geometry.Point2D{X: -l.a * l.c, Y: -l.b * l.c},
		Dir:    geometry.Point2D{X: -l.b, Y: l.a},
	}
}

func (f *Finder) viewLine(i int, reading float64) line {
	angle := f.angles[i]
	cam := f.positions[i]
	lateral := f.Lateral(reading)

	dx := -math.Sin(angle)
	dy := math.Cos(angle)
	px := cam.X + lateral*dx
	py := cam.Y + lateral*dy

	return line{a: dx, b: dy, c: -(dx*px + dy*py)}
}

func intersect(l1, l2 line) (geometry.Point2D, bool) {
	det := l1.a*l2.b - l2.a*l1.b
	if math.Abs(det) < 1e-10 {
		return geometry.Point2D{}, false
	}
	return geometry.Point2D{
		X: (l1.b*l2.c - l2.b*l1.c) / det,
		Y: (l2.a*l1.c - l1.a*l2.c) / det,
	}, true
}

// Validate checks the shape and range of the readings: one list per camera,
// the same number of darts in every list, at most MaxDarts, each reading in
// [0, 1]. An empty first list means no darts.
func (f *Finder) Validate(readings [][]float64) error {
	if len(readings) != f.cfg.NumCameras {
		return fmt.Errorf("%w: expected %d, got %d", ErrCameraCount, f.cfg.NumCameras, len(readings))
	}
	darts := len(readings[0])
	if darts == 0 {
		return nil
	}
	if darts > MaxDarts {
		return fmt.Errorf("%w: maximum %d, got %d", ErrTooManyDarts, MaxDarts, darts)
	}
	for i, r := range readings {
		if len(r) != darts {
			return fmt.Errorf("%w: camera %d has %d readings, expected %d", ErrReadingCount, i, len(r), darts)
		}
		for j, v := range r {
			if v < 0 || v > 1 || math.IsNaN(v) {
				return fmt.Errorf("%w: camera %d, reading %d is %.3f", ErrReadingRange, i, j, v)
			}
		}
	}
	return nil
}

// Locate returns one position per dart whose pairwise view-line
// intersections land on the board. Each position is the mean of those
// intersections.
func (f *Finder) Locate(readings [][]float64) ([]geometry.Point2D, error) {
	if err := f.Validate(readings); err != nil {
		return nil, err
	}

	var out []geometry.Point2D
	for d := range readings[0] {
		var hits []geometry.Point2D
		for i := 0; i < f.cfg.NumCameras; i++ {
			for j := i + 1; j < f.cfg.NumCameras; j++ {
				p, ok := intersect(f.viewLine(i, readings[i][d]), f.viewLine(j, readings[j][d]))
				if ok && f.InBoard(p) {
					hits = append(hits, p)
				}
			}
		}
		if len(hits) == 0 {
			continue
		}
		if avg := geometry.Centroid(hits); f.InBoard(avg) {
			out = append(out, avg)
		}
	}
	return out, nil
}

// Reading returns what camera i would report for a dart at p; the inverse
// of the view line. Distortion is not applied.
func (f *Finder) Reading(i int, p geometry.Point2D) float64 {
	angle := f.angles[i]
	dx := -math.Sin(angle)
	dy := math.Cos(angle)
	lateral := (p.X-f.positions[i].X)*dx + (p.Y-f.positions[i].Y)*dy
	return (lateral/f.cfg.BoardRadius + 1) / 2
}
