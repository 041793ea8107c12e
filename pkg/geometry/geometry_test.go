package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineDistance(t *testing.T) {
	l := Line{Origin: Point2D{X: 0, Y: 0}, Dir: Point2D{X: 1, Y: 0}}
	assert.InDelta(t, 5.0, l.Distance(Point2D{X: 12, Y: -5}), 1e-12)

	diag := Line{Origin: Point2D{X: 1, Y: 1}, Dir: Point2D{X: 1, Y: 1}}
	assert.InDelta(t, math.Sqrt2, diag.Distance(Point2D{X: 2, Y: 0}), 1e-12)

	degenerate := Line{Origin: Point2D{X: 3, Y: 4}}
	assert.InDelta(t, 5.0, degenerate.Distance(Point2D{}), 1e-12)
}

func TestConvexHull(t *testing.T) {
	pts := []Point2D{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{5, 5}, {2, 3}, {7, 8},
	}
	hull := ConvexHull(pts)
	require.Len(t, hull, 4)
	assert.ElementsMatch(t, []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, hull)

	// input untouched
	assert.Equal(t, Point2D{5, 5}, pts[4])
}

func TestConvexHullSmallInputs(t *testing.T) {
	assert.Empty(t, ConvexHull(nil))
	assert.Len(t, ConvexHull([]Point2D{{1, 1}, {2, 2}}), 2)
}

func TestCollinear(t *testing.T) {
	assert.True(t, Collinear(Point2D{0, 0}, Point2D{1, 1}, Point2D{5, 5}, 1e-9))
	assert.False(t, Collinear(Point2D{0, 0}, Point2D{1, 0}, Point2D{0, 1}, 1e-9))
}

func TestHomographyInverseRoundTrip(t *testing.T) {
	h := Homography{
		1.2, 0.1, 30,
		-0.05, 0.9, 12,
		0.0004, -0.0002, 1,
	}
	inv, ok := h.Inverse()
	require.True(t, ok)

	for _, p := range []Point2D{{0, 0}, {100, 50}, {-40, 220}, {640, 360}} {
		fwd, ok := h.Apply(p)
		require.True(t, ok)
		back, ok := inv.Apply(fwd)
		require.True(t, ok)
		assert.InDelta(t, p.X, back.X, 1e-6)
		assert.InDelta(t, p.Y, back.Y, 1e-6)
	}

	twice, ok := inv.Inverse()
	require.True(t, ok)
	for i, v := range h {
		assert.InDelta(t, v, twice[i], 1e-9)
	}
}

func TestHomographySingular(t *testing.T) {
	_, ok := Homography{1, 2, 3, 2, 4, 6, 0, 0, 1}.Inverse()
	assert.False(t, ok)
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, Point2D{}, Centroid(nil))
	assert.Equal(t, Point2D{X: 2, Y: 3}, Centroid([]Point2D{{1, 2}, {3, 4}}))
}
