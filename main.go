// Package main runs the dart scorer: it watches the board through the
// configured cameras and reports every scored throw.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dart-scorer/internal/app"
	"dart-scorer/internal/config"
	"dart-scorer/internal/version"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the scorer configuration")
	replay := flag.String("replay", "", "Replay recorded frames from <dir>/<camera index> instead of the cameras")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("dart-scorer"))
		return
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String("dart-scorer"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rig, err := app.Open(cfg, app.Options{ReplayDir: *replay})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer rig.Close()

	rig.On(app.EventStateChanged, func(data interface{}) {
		t := data.(app.Transition)
		log.Printf("State: %s -> %s", t.From, t.To)
	})

	p, err := rig.Pipeline(nil)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Watching %d cameras", len(rig.Cameras))
	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Scorer stopped: %v", err)
		rig.Close()
		os.Exit(1)
	}
	log.Println("Scorer stopped")
}
