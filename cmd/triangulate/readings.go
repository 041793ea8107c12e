package main

import (
	"fmt"
	"strconv"
	"strings"

	"dart-scorer/internal/board"
	"dart-scorer/pkg/geometry"
)

// parseReadings turns one argument per camera into reading lists. Each
// argument is a comma-separated list of readings; "-" means no darts.
func parseReadings(args []string) ([][]float64, error) {
	out := make([][]float64, len(args))
	for i, arg := range args {
		if arg == "-" || arg == "" {
			out[i] = []float64{}
			continue
		}
		for _, field := range strings.Split(arg, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("camera %d: %w", i, err)
			}
			out[i] = append(out[i], v)
		}
	}
	return out, nil
}

// scoreMM scores a triangulated position. Triangulation uses y up; the
// board scorer uses image orientation with y down.
func scoreMM(g board.Geometry, p geometry.Point2D) board.Score {
	return g.ScoreFromMM(geometry.Point2D{X: p.X, Y: -p.Y})
}
