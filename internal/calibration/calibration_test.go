package calibration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dart-scorer/internal/board"
	"dart-scorer/internal/monitoring"
	"dart-scorer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func regulation(t *testing.T) board.Geometry {
	t.Helper()
	g, err := board.NewGeometry(board.Regulation())
	require.NoError(t, err)
	return g
}

// A camera looking at the board from low and to the right.
var liveCompass = []geometry.Point2D{
	{X: 700, Y: 140},
	{X: 980, Y: 330},
	{X: 690, Y: 560},
	{X: 420, Y: 350},
}

func TestComputeHomographyMapsCorrespondences(t *testing.T) {
	g := regulation(t)
	src := ReferencePoints(g)

	h, err := ComputeHomography(src, liveCompass)
	require.NoError(t, err)
	assert.InDelta(t, 0, ReprojectionError(h, src, liveCompass), 1e-6)

	inv, ok := h.Inverse()
	require.True(t, ok)
	for _, p := range []geometry.Point2D{{X: 640, Y: 360}, {X: 600, Y: 200}, {X: 800, Y: 500}} {
		fwd, ok := h.Apply(p)
		require.True(t, ok)
		back, ok := inv.Apply(fwd)
		require.True(t, ok)
		assert.InDelta(t, p.X, back.X, 1e-6)
		assert.InDelta(t, p.Y, back.Y, 1e-6)
	}
}

func TestComputeHomographyDegenerate(t *testing.T) {
	square := []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	tests := []struct {
		name     string
		src, dst []geometry.Point2D
	}{
		{"three points", square[:3], square[:3]},
		{"five points", append(square, geometry.Point2D{X: 2, Y: 2}), append(square, geometry.Point2D{X: 2, Y: 2})},
		{"collinear source", []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 0, Y: 5}}, square},
		{"collinear destination", square, []geometry.Point2D{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 0, Y: 1}, {X: 9, Y: 0}}},
		{"repeated point", square, []geometry.Point2D{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeHomography(tt.src, tt.dst)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDegenerate))
		})
	}
}

func TestCalibrateIdentityView(t *testing.T) {
	g := regulation(t)
	h, err := Calibrate(g, ReferencePoints(g))
	require.NoError(t, err)
	for i, v := range geometry.IdentityHomography() {
		assert.InDelta(t, v, h[i], 1e-6)
	}
}

func TestMatrixSetWithIsCopy(t *testing.T) {
	a := geometry.Homography{2, 0, 0, 0, 2, 0, 0, 0, 1}
	set := NewMatrixSet(geometry.IdentityHomography())
	next := set.With(0, a)

	got, ok := set.Matrix(0)
	require.True(t, ok)
	assert.Equal(t, geometry.IdentityHomography(), got)

	got, ok = next.Matrix(0)
	require.True(t, ok)
	assert.Equal(t, a, got)

	grown := set.With(2, a)
	assert.Equal(t, 3, grown.Len())
	assert.Equal(t, 1, set.Len())
	mid, _ := grown.Matrix(1)
	assert.Equal(t, geometry.IdentityHomography(), mid)

	_, ok = set.Matrix(5)
	assert.False(t, ok)
}

func TestStoreRoundTrip(t *testing.T) {
	g := regulation(t)
	store := NewStore(filepath.Join(t.TempDir(), "calibration"))

	h, err := store.CalibrateCamera(g, 1, liveCompass)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(store.Dir, "perspective_matrix_camera_1.bin"))

	loaded, err := store.Load(1)
	require.NoError(t, err)
	assert.Equal(t, h, loaded)
}

func TestStoreLoadSetRequiresEveryCamera(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(0, geometry.IdentityHomography()))

	_, err := store.LoadSet(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissing))

	require.NoError(t, store.Save(1, geometry.Homography{1, 0, 5, 0, 1, 5, 0, 0, 1}))
	set, err := store.LoadSet(2)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestDegenerateCalibrationKeepsExistingFile(t *testing.T) {
	g := regulation(t)
	store := NewStore(t.TempDir())
	_, err := store.CalibrateCamera(g, 0, liveCompass)
	require.NoError(t, err)
	before, err := os.ReadFile(store.Path(0))
	require.NoError(t, err)

	bad := []geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}}
	_, err = store.CalibrateCamera(g, 0, bad)
	require.ErrorIs(t, err, ErrDegenerate)

	after, err := os.ReadFile(store.Path(0))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(0), []byte("not a matrix"), 0644))
	_, err := store.Load(0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissing))
}
