package board

import (
	"fmt"
	"math"

	"dart-scorer/pkg/geometry"
)

// SectorOrder lists the segment numbers clockwise from 12 o'clock.
var SectorOrder = [20]int{20, 1, 18, 4, 13, 6, 10, 15, 2, 17, 3, 19, 7, 16, 8, 11, 14, 9, 12, 5}

const (
	// BullSegment is the segment number reported for both bull rings.
	BullSegment = 25

	sectorCount = 20
	sectorWidth = 2 * math.Pi / sectorCount
	// sector 20 is centred on 12 o'clock, so boundaries sit half a sector off
	sectorOffset = sectorWidth / 2
)

// Score is a scored throw. A miss has Segment 0 and Multiplier 0.
type Score struct {
	Segment    int  `json:"segment"`
	Multiplier int  `json:"multiplier"`
	Bull       bool `json:"bull"`
}

// Miss is the zero-point score.
var Miss = Score{}

// Value returns the points the throw is worth.
func (s Score) Value() int {
	return s.Segment * s.Multiplier
}

// IsMiss reports whether the throw landed outside the scoring area.
func (s Score) IsMiss() bool {
	return s.Multiplier == 0
}

func (s Score) String() string {
	switch {
	case s.IsMiss():
		return "MISS"
	case s.Bull && s.Multiplier == 2:
		return "D-BULL"
	case s.Bull:
		return "BULL"
	}
	prefix := map[int]string{1: "S", 2: "D", 3: "T"}[s.Multiplier]
	return fmt.Sprintf("%s%d", prefix, s.Segment)
}

// Angle returns the clockwise angle of p from 12 o'clock, shifted by half a
// sector so that sector boundaries fall on multiples of the sector width.
func Angle(p geometry.Point2D) float64 {
	return math.Atan2(p.X, -p.Y) + sectorOffset
}

// SectorIndex maps a shifted angle (see Angle) to an index into SectorOrder.
// The angle is normalized into [0, 2π) and each sector includes its lower
// boundary.
func SectorIndex(theta float64) int {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	idx := int(math.Floor(theta / sectorWidth))
	if idx >= sectorCount {
		idx = sectorCount - 1
	}
	return idx
}

// ScoreFromBoard scores a board point in pixels relative to the bullseye
// (y grows downward). Ring outer edges are inclusive.
func (g Geometry) ScoreFromBoard(p geometry.Point2D) Score {
	r := p.Norm()

	switch {
	case r <= g.BullseyeRadius:
		return Score{Segment: BullSegment, Multiplier: 2, Bull: true}
	case r <= g.OuterBullRadius:
		return Score{Segment: BullSegment, Multiplier: 1, Bull: true}
	case r > g.DoubleOuterRadius:
		return Miss
	}

	segment := SectorOrder[SectorIndex(Angle(p))]
	multiplier := 1
	switch {
	case r <= g.TripleInnerRadius:
	case r <= g.TripleOuterRadius:
		multiplier = 3
	case r <= g.DoubleInnerRadius:
	default:
		multiplier = 2
	}
	return Score{Segment: segment, Multiplier: multiplier}
}

// Score scores a point of the drawn board image.
func (g Geometry) Score(drawn geometry.Point2D) Score {
	return g.ScoreFromBoard(g.ToBoard(drawn))
}

// ScoreFromMM scores a board point given in millimetres relative to the
// bullseye.
func (g Geometry) ScoreFromMM(p geometry.Point2D) Score {
	return g.ScoreFromBoard(p.Scale(g.PixelsPerMM))
}
