package board

import (
	"math"
	"testing"

	"dart-scorer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regulationGeometry(t *testing.T) Geometry {
	t.Helper()
	g, err := NewGeometry(Regulation())
	require.NoError(t, err)
	return g
}

// polar builds a board point at the given clockwise angle from 12 o'clock.
func polar(r, degrees float64) geometry.Point2D {
	a := degrees * math.Pi / 180
	return geometry.Point2D{X: r * math.Sin(a), Y: -r * math.Cos(a)}
}

func TestNewGeometry(t *testing.T) {
	g := regulationGeometry(t)
	assert.InDelta(t, 720.0/451.0, g.PixelsPerMM, 1e-12)
	assert.Equal(t, [6]float64{10, 25, 158, 170, 258, 271}, g.Radii())
	assert.Equal(t, geometry.Point2D{X: 640, Y: 360}, g.Center)
}

func TestNewGeometryRejectsBadRadii(t *testing.T) {
	d := Regulation()
	d.DoubleRingInnerRadiusMM = d.DoubleRingOuterRadiusMM
	_, err := NewGeometry(d)
	require.Error(t, err)

	d = Regulation()
	d.BullseyeRadiusMM = 0
	_, err = NewGeometry(d)
	require.Error(t, err)

	d = Regulation()
	d.DiameterMM = 0
	_, err = NewGeometry(d)
	require.Error(t, err)
}

func TestScoreFromBoard(t *testing.T) {
	g := regulationGeometry(t)
	tests := []struct {
		name string
		p    geometry.Point2D
		want Score
	}{
		{"centre", geometry.Point2D{}, Score{25, 2, true}},
		{"bullseye edge inclusive", geometry.Point2D{X: 0, Y: 10}, Score{25, 2, true}},
		{"outer bull", geometry.Point2D{X: 0, Y: -11}, Score{25, 1, true}},
		{"outer bull edge", geometry.Point2D{X: 25, Y: 0}, Score{25, 1, true}},
		{"single 20 inner", polar(100, 0), Score{20, 1, false}},
		{"treble 20", polar(165, 0), Score{20, 3, false}},
		{"treble edge inclusive", polar(170, 0), Score{20, 3, false}},
		{"single 20 outer", polar(200, 0), Score{20, 1, false}},
		{"double 6", geometry.Point2D{X: 265, Y: 0}, Score{6, 2, false}},
		{"single 3", geometry.Point2D{X: 0, Y: 200}, Score{3, 1, false}},
		{"double 11", geometry.Point2D{X: -260, Y: 0}, Score{11, 2, false}},
		{"double edge inclusive", polar(271, 0), Score{20, 2, false}},
		{"just past 9 degrees", polar(200, 9.5), Score{1, 1, false}},
		{"just before 9 degrees", polar(200, 8.5), Score{20, 1, false}},
		{"just before -9 degrees", polar(200, -9.5), Score{5, 1, false}},
		{"miss", polar(271.5, 0), Miss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.ScoreFromBoard(tt.p))
		})
	}
}

func TestInsideBullseyeIsDoubleBullAtAnyAngle(t *testing.T) {
	g := regulationGeometry(t)
	for deg := 0.0; deg < 360; deg += 7.5 {
		for _, r := range []float64{0, 3, 9.9} {
			s := g.ScoreFromBoard(polar(r, deg))
			assert.Equal(t, Score{25, 2, true}, s)
			assert.Equal(t, 50, s.Value())
		}
	}
}

func TestOutsideDoubleIsMissAtAnyAngle(t *testing.T) {
	g := regulationGeometry(t)
	for deg := 0.0; deg < 360; deg += 3 {
		for _, r := range []float64{272, 300, 1000} {
			s := g.ScoreFromBoard(polar(r, deg))
			assert.True(t, s.IsMiss())
			assert.Equal(t, 0, s.Value())
		}
	}
}

func TestSectorIndexPartition(t *testing.T) {
	counts := make([]int, 20)
	const steps = 36000
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * (float64(i) + 0.5) / steps
		idx := SectorIndex(theta)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 20)
		counts[idx]++
	}
	for i, c := range counts {
		assert.Equal(t, steps/20, c, "sector %d", i)
	}

	for k := 0; k < 20; k++ {
		mid := (float64(k) + 0.5) * 2 * math.Pi / 20
		assert.Equal(t, k, SectorIndex(mid))
	}
	assert.Equal(t, 0, SectorIndex(2*math.Pi))
	assert.Equal(t, 19, SectorIndex(-0.01))
	assert.Equal(t, 19, SectorIndex(math.Nextafter(2*math.Pi, 0)))
}

func TestScoreFromMM(t *testing.T) {
	g := regulationGeometry(t)
	assert.Equal(t, Score{20, 3, false}, g.ScoreFromMM(geometry.Point2D{X: 0, Y: -103}))
	assert.Equal(t, Score{25, 2, true}, g.ScoreFromMM(geometry.Point2D{X: 1, Y: 1}))
	assert.Equal(t, Miss, g.ScoreFromMM(geometry.Point2D{X: 0, Y: 180}))
}

func TestScoreString(t *testing.T) {
	assert.Equal(t, "T20", Score{20, 3, false}.String())
	assert.Equal(t, "D-BULL", Score{25, 2, true}.String())
	assert.Equal(t, "BULL", Score{25, 1, true}.String())
	assert.Equal(t, "S5", Score{5, 1, false}.String())
	assert.Equal(t, "MISS", Miss.String())
}

type fakeTransforms []geometry.Homography

func (f fakeTransforms) Len() int { return len(f) }

func (f fakeTransforms) Matrix(camera int) (geometry.Homography, bool) {
	if camera < 0 || camera >= len(f) {
		return geometry.Homography{}, false
	}
	return f[camera], true
}

func TestMapper(t *testing.T) {
	g := regulationGeometry(t)
	shift := geometry.Homography{1, 0, 15, 0, 1, -20, 0, 0, 1}
	scale := geometry.Homography{2, 0, 0, 0, 2, 0, 0, 0, 1}

	m, err := NewMapper(g, fakeTransforms{shift, scale})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Cameras())

	// the live bullseye of camera 0 is shifted by (15, -20)
	bp, err := m.PixelToBoard(0, geometry.Point2D{X: 655, Y: 340})
	require.NoError(t, err)
	assert.InDelta(t, 0, bp.X, 1e-9)
	assert.InDelta(t, 0, bp.Y, 1e-9)

	bp, err = m.PixelToBoard(1, geometry.Point2D{X: 1280, Y: 720 - 330})
	require.NoError(t, err)
	assert.InDelta(t, 0, bp.X, 1e-9)
	assert.InDelta(t, -165, bp.Y, 1e-9)

	s, _, err := m.ScorePixel(1, geometry.Point2D{X: 1280, Y: 720 - 330})
	require.NoError(t, err)
	assert.Equal(t, Score{20, 3, false}, s)

	px, err := m.BoardToPixel(0, geometry.Point2D{X: 10, Y: 10})
	require.NoError(t, err)
	back, err := m.PixelToBoard(0, px)
	require.NoError(t, err)
	assert.InDelta(t, 10, back.X, 1e-9)
	assert.InDelta(t, 10, back.Y, 1e-9)

	_, err = m.PixelToBoard(2, geometry.Point2D{})
	require.Error(t, err)
	_, err = m.BoardToPixel(-1, geometry.Point2D{})
	require.Error(t, err)
}

func TestMapperRejectsSingular(t *testing.T) {
	g := regulationGeometry(t)
	_, err := NewMapper(g, fakeTransforms{{1, 2, 3, 2, 4, 6, 0, 0, 1}})
	require.Error(t, err)
}

func TestCompassPoints(t *testing.T) {
	g := regulationGeometry(t)
	pts := g.CompassPoints()
	assert.Equal(t, geometry.Point2D{X: 640, Y: 89}, pts[0])
	assert.Equal(t, geometry.Point2D{X: 911, Y: 360}, pts[1])
	assert.Equal(t, geometry.Point2D{X: 640, Y: 631}, pts[2])
	assert.Equal(t, geometry.Point2D{X: 369, Y: 360}, pts[3])
	for _, p := range pts {
		assert.Equal(t, Score{SectorOrder[SectorIndex(Angle(g.ToBoard(p)))], 2, false}, g.Score(p))
	}
}
