package tip

import (
	"image"
	"image/color"
	"os"
	"testing"

	"dart-scorer/internal/monitoring"
	"dart-scorer/internal/track"
	"dart-scorer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

const rows, cols = 720, 1280

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func blank() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8U)
}

var white = color.RGBA{255, 255, 255, 255}

// dartFrame draws a textured dart barrel as a diagonal row of small squares
// running from start to end and returns the centre of the last square.
func dartFrame(start image.Point, step image.Point, n int) (gocv.Mat, geometry.Point2D) {
	m := blank()
	p := start
	for i := 0; i < n; i++ {
		gocv.Rectangle(&m, image.Rect(p.X-3, p.Y-3, p.X+3, p.Y+3), white, -1)
		if i < n-1 {
			p = p.Add(step)
		}
	}
	return m, geometry.FromImagePoint(p)
}

func newLocalizer(t *testing.T, o Orientation) *Localizer {
	t.Helper()
	l, err := NewLocalizer(0, o, DefaultParams(), track.DefaultParams())
	require.NoError(t, err)
	return l
}

func TestLocateFindsLowestPointOfDart(t *testing.T) {
	ref := blank()
	defer ref.Close()
	frame, bottom := dartFrame(image.Pt(600, 220), image.Pt(7, 8), 15)
	defer frame.Close()

	l := newLocalizer(t, Right)
	res := l.Locate(ref, frame)
	require.True(t, res.Found, res.Reason)
	assert.True(t, res.Refined)
	assert.GreaterOrEqual(t, res.Features, DefaultParams().MinFiltered)
	assert.Equal(t, res.Raw, res.Tip)
	assert.InDelta(t, bottom.X, res.Tip.X, 25)
	assert.InDelta(t, bottom.Y, res.Tip.Y, 25)

	// same measurement again: the filter stays put
	again := l.Locate(ref, frame)
	require.True(t, again.Found)
	assert.InDelta(t, res.Tip.X, again.Tip.X, 1e-6)
	assert.InDelta(t, res.Tip.Y, again.Tip.Y, 1e-6)
}

func TestLocateNoChange(t *testing.T) {
	ref := blank()
	defer ref.Close()
	frame := blank()
	defer frame.Close()

	res := newLocalizer(t, Left).Locate(ref, frame)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonFewFeatures, res.Reason)
}

func TestLocateRejectsLargeArea(t *testing.T) {
	ref := blank()
	defer ref.Close()
	frame := blank()
	defer frame.Close()
	for y := 300; y < 460; y += 9 {
		for x := 500; x < 720; x += 9 {
			gocv.Rectangle(&frame, image.Rect(x, y, x+6, y+6), white, -1)
		}
	}

	res := newLocalizer(t, Center).Locate(ref, frame)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonAreaTooLarge, res.Reason)
}

func TestResetForgetsTrack(t *testing.T) {
	ref := blank()
	defer ref.Close()
	first, _ := dartFrame(image.Pt(300, 200), image.Pt(7, 8), 15)
	defer first.Close()
	second, _ := dartFrame(image.Pt(800, 300), image.Pt(-7, 8), 15)
	defer second.Close()

	l := newLocalizer(t, Left)
	require.True(t, l.Locate(ref, first).Found)

	l.Reset()
	res := l.Locate(ref, second)
	require.True(t, res.Found, res.Reason)
	assert.Equal(t, res.Raw, res.Tip)
}

func TestSelectors(t *testing.T) {
	pts := []geometry.Point2D{{X: 5, Y: 1}, {X: 9, Y: 2}, {X: 1, Y: 3}, {X: 9, Y: 7}}

	p, ok := MaxX{}.Select(pts)
	require.True(t, ok)
	assert.Equal(t, geometry.Point2D{X: 9, Y: 2}, p)

	p, ok = MinX{}.Select(pts)
	require.True(t, ok)
	assert.Equal(t, geometry.Point2D{X: 1, Y: 3}, p)

	_, ok = MaxX{}.Select(nil)
	assert.False(t, ok)

	assert.IsType(t, MaxX{}, SelectorFor(Right))
	assert.IsType(t, MinX{}, SelectorFor(Left))
	assert.IsType(t, MinX{}, SelectorFor(Center))
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation("center")
	require.NoError(t, err)
	assert.Equal(t, Center, o)

	_, err = ParseOrientation("above")
	require.Error(t, err)
}

func TestFilterWindow(t *testing.T) {
	pts := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 1000, Y: 0}}
	got := filterWindow(pts, 300, 10)
	assert.Equal(t, pts[:3], got)
}

func TestFilterLineDropsOutliers(t *testing.T) {
	var pts []geometry.Point2D
	for i := 0; i < 20; i++ {
		pts = append(pts, geometry.Point2D{X: float64(100 + 5*i), Y: float64(200 + 5*i)})
	}
	outlier := geometry.Point2D{X: 100, Y: 300}
	got := filterLine(append(pts, outlier), 40)
	assert.Len(t, got, 20)
	assert.NotContains(t, got, outlier)
}

func TestSkeletonizeThinsBlob(t *testing.T) {
	mask := blank()
	defer mask.Close()
	gocv.Rectangle(&mask, image.Rect(100, 100, 400, 140), white, -1)

	cross := gocv.GetStructuringElement(gocv.MorphCross, image.Point{X: 3, Y: 3})
	defer cross.Close()

	skel := skeletonize(mask, cross)
	defer skel.Close()
	n := gocv.CountNonZero(skel)
	assert.Greater(t, n, 0)
	assert.Less(t, n, 300*40/4)
}

func TestSkeletonizeEmptyMask(t *testing.T) {
	mask := blank()
	defer mask.Close()
	cross := gocv.GetStructuringElement(gocv.MorphCross, image.Point{X: 3, Y: 3})
	defer cross.Close()

	skel := skeletonize(mask, cross)
	defer skel.Close()
	assert.Equal(t, mask.Rows(), skel.Rows())
	assert.Equal(t, mask.Cols(), skel.Cols())
	assert.Zero(t, gocv.CountNonZero(skel))
}

func TestRefineTipTooFewPoints(t *testing.T) {
	_, ok := refineTip([]geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}, rows, cols)
	assert.False(t, ok)
}
