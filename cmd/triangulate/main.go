// Command triangulate locates darts from per-camera lateral readings, the
// alternative to the homography scorer for rigs of line-scan style cameras
// spaced around the board.
//
// Usage:
//
//	triangulate [flags] <camera 0 readings> <camera 1 readings> ...
//
// Each argument is a comma-separated list of readings in [0, 1], or "-"
// when the camera sees no dart.
package main

import (
	"flag"
	"fmt"
	"os"

	"dart-scorer/internal/config"
	"dart-scorer/internal/render"
	"dart-scorer/internal/triangulate"
	"dart-scorer/internal/version"

	"gocv.io/x/gocv"
)

func main() {
	defaults := triangulate.DefaultConfig()
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the scorer configuration (board geometry)")
	spacing := flag.Float64("spacing", defaults.AngleSpacingDeg, "Angle between adjacent cameras, degrees")
	factor := flag.Float64("distance", defaults.CameraDistanceFactor, "Camera ring radius as a multiple of the board radius")
	image := flag.String("image", "", "Draw the cameras, view lines and darts to this PNG")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("triangulate"))
		return
	}

	if flag.NArg() < 2 {
		fmt.Println("Usage: triangulate [flags] <readings cam 0> <readings cam 1> ...")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	g, err := cfg.Geometry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid board geometry: %v\n", err)
		os.Exit(1)
	}

	readings, err := parseReadings(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad readings: %v\n", err)
		os.Exit(1)
	}

	tc := defaults
	tc.NumCameras = len(readings)
	tc.AngleSpacingDeg = *spacing
	tc.CameraDistanceFactor = *factor
	tc.BoardRadius = cfg.DartboardDiameterMM / 2
	tc.ScoringRadius = cfg.DoubleRingOuterRadiusMM

	finder, err := triangulate.New(tc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad camera setup: %v\n", err)
		os.Exit(1)
	}

	darts, err := finder.Locate(readings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Triangulation failed: %v\n", err)
		os.Exit(1)
	}

	if len(darts) == 0 {
		fmt.Println("No darts located")
	}
	for i, d := range darts {
		s := scoreMM(g, d)
		fmt.Printf("Dart %d: (%.1f, %.1f) mm  %s (%d)\n", i+1, d.X, d.Y, s, s.Value())
	}

	if *image != "" {
		img := render.DrawTriangulation(finder, readings, darts, 800)
		defer img.Close()
		if ok := gocv.IMWrite(*image, img); !ok {
			fmt.Fprintf(os.Stderr, "Failed to write %s\n", *image)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *image)
	}
}
