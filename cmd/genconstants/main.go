// Command genconstants computes the pixel-space board constants from the
// millimetre measurements and writes them back as the config's derived
// block. It can also draw the canonical board for a visual check.
package main

import (
	"flag"
	"fmt"
	"os"

	"dart-scorer/internal/config"
	"dart-scorer/internal/render"
	"dart-scorer/internal/version"

	"gocv.io/x/gocv"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the base configuration")
	out := flag.String("o", "config/cv_constants_derived.yaml", "Output path for the augmented configuration")
	boardImage := flag.String("board", "", "Also draw the canonical board to this PNG")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("genconstants"))
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	derived, err := cfg.Derive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to derive constants: %v\n", err)
		os.Exit(1)
	}
	if err := derived.Save(*out); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save: %v\n", err)
		os.Exit(1)
	}

	d := derived.Derived
	fmt.Printf("Wrote %s\n", *out)
	fmt.Printf("  pixels/mm:     %.4f\n", d.PixelsPerMM)
	fmt.Printf("  center:        (%d, %d)\n", d.Center[0], d.Center[1])
	fmt.Printf("  bull radii:    %d %d\n", d.BullseyeRadiusPx, d.OuterBullRadiusPx)
	fmt.Printf("  triple radii:  %d %d\n", d.TripleRingInnerRadiusPx, d.TripleRingOuterRadiusPx)
	fmt.Printf("  double radii:  %d %d\n", d.DoubleRingInnerRadiusPx, d.DoubleRingOuterRadiusPx)

	if *boardImage != "" {
		g, err := cfg.Geometry()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid board geometry: %v\n", err)
			os.Exit(1)
		}
		img := render.DrawBoard(g)
		defer img.Close()
		if ok := gocv.IMWrite(*boardImage, img); !ok {
			fmt.Fprintf(os.Stderr, "Failed to write %s\n", *boardImage)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *boardImage)
	}
}
