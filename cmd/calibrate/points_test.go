package main

import (
	"testing"

	"dart-scorer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoints(t *testing.T) {
	pts, err := parsePoints("640,89  911.5,360\n640,631 369,360")
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point2D{{X: 640, Y: 89}, {X: 911.5, Y: 360}, {X: 640, Y: 631}, {X: 369, Y: 360}}, pts)

	for _, bad := range []string{"640", "a,1", "1,b"} {
		_, err := parsePoints(bad)
		assert.Error(t, err, bad)
	}

	pts, err = parsePoints("")
	require.NoError(t, err)
	assert.Empty(t, pts)
}
