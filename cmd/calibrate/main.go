// Command calibrate computes and stores one camera's calibration matrix from
// the image positions of the four compass targets on the outer double wire:
// top of 20, right of 6, bottom of 3 and left of 11.
//
// Run it first without -points to save a preview frame, read the four
// positions off the preview, then run it again with -points.
package main

import (
	"flag"
	"fmt"
	"os"

	"dart-scorer/internal/app"
	"dart-scorer/internal/calibration"
	"dart-scorer/internal/config"
	"dart-scorer/internal/render"
	"dart-scorer/internal/version"
	"dart-scorer/pkg/geometry"

	"gocv.io/x/gocv"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the scorer configuration")
	camera := flag.Int("camera", 0, "Camera index to calibrate")
	source := flag.String("source", "", "Override the camera's device id (device index, video file or frame directory)")
	points := flag.String("points", "", "Live positions of the top, right, bottom and left targets: \"x,y x,y x,y x,y\"")
	preview := flag.String("preview", "", "Write the camera frame with targets (and projected rings once calibrated) to this PNG")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("calibrate"))
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *camera < 0 || *camera >= cfg.NumCameras {
		fmt.Fprintf(os.Stderr, "Camera %d out of range (config has %d)\n", *camera, cfg.NumCameras)
		os.Exit(1)
	}
	g, err := cfg.Geometry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid board geometry: %v\n", err)
		os.Exit(1)
	}

	if *points == "" && *preview == "" {
		fmt.Println("Usage: calibrate -camera <n> -preview <png>")
		fmt.Println("       calibrate -camera <n> -points \"x,y x,y x,y x,y\" [-preview <png>]")
		fmt.Println("Targets, in order:")
		for i, p := range calibration.ReferencePoints(g) {
			fmt.Printf("  %-10s canonical (%.0f, %.0f)\n", render.CompassLabels[i], p.X, p.Y)
		}
		os.Exit(1)
	}

	id := cfg.Cameras[*camera].ID
	if *source != "" {
		id = *source
	}

	store := calibration.NewStore(cfg.CalibrationDir)
	if *points == "" {
		if err := writePreview(id, *preview, cfg, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Preview failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s; mark the targets and rerun with -points\n", *preview)
		return
	}

	live, err := parsePoints(*points)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad -points: %v\n", err)
		os.Exit(1)
	}

	h, err := store.CalibrateCamera(g, *camera, live)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Calibration failed: %v\n", err)
		os.Exit(1)
	}

	m := h.ToMatrix()
	fmt.Printf("Camera %d calibrated, saved to %s\n", *camera, store.Path(*camera))
	for _, row := range m {
		fmt.Printf("  [%12.6f %12.6f %12.6f]\n", row[0], row[1], row[2])
	}
	fmt.Printf("Reprojection error: %.4f px\n", calibration.ReprojectionError(h, calibration.ReferencePoints(g), live))

	if *preview != "" {
		if err := writePreview(id, *preview, cfg, &calibrated{h: h, live: live}); err != nil {
			fmt.Fprintf(os.Stderr, "Preview failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *preview)
	}
}

type calibrated struct {
	h    geometry.Homography
	live []geometry.Point2D
}

// writePreview grabs one frame from the camera and draws the targets on it.
// Before calibration the canonical target positions are shown as a guide;
// afterwards the marked points and the projected rings are.
func writePreview(id, path string, cfg *config.Config, c *calibrated) error {
	src, err := app.OpenSource(id)
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := src.Read()
	if err != nil {
		return err
	}
	defer img.Close()
	if img.Channels() == 1 {
		color := gocv.NewMat()
		gocv.CvtColor(img, &color, gocv.ColorGrayToBGR)
		img.Close()
		img = color
	}

	g, err := cfg.Geometry()
	if err != nil {
		return err
	}
	if c == nil {
		render.DrawTargets(&img, calibration.ReferencePoints(g), render.CompassLabels)
	} else {
		render.DrawRings(&img, g, c.h)
		render.DrawTargets(&img, c.live, render.CompassLabels)
	}

	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}
