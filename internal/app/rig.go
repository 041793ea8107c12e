// Package app assembles the scorer from its configuration: frame sources,
// per-camera detectors and localizers, the board mapper, the arbiter and
// the throw sinks.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"dart-scorer/internal/arbiter"
	"dart-scorer/internal/board"
	"dart-scorer/internal/calibration"
	"dart-scorer/internal/config"
	"dart-scorer/internal/frame"
	"dart-scorer/internal/journal"
	"dart-scorer/internal/motion"
	"dart-scorer/internal/pipeline"
	"dart-scorer/internal/render"
	"dart-scorer/internal/throw"
	"dart-scorer/internal/tip"
	"dart-scorer/internal/track"
)

// EventType identifies rig events.
type EventType int

const (
	EventStateChanged EventType = iota
	EventThrowScored
)

// EventListener is a callback for rig events. State changes carry a
// Transition, scored throws a throw.Record.
type EventListener func(data interface{})

// Transition is the payload of EventStateChanged.
type Transition struct {
	From, To pipeline.State
}

// Options control how the rig opens its cameras.
type Options struct {
	// ReplayDir, when set, replays <ReplayDir>/<camera index> frame
	// directories instead of opening the configured devices.
	ReplayDir string
	// Sources, when set, are used as-is; the rig takes ownership.
	Sources []frame.Source
}

// Rig owns everything the scoring loop needs.
type Rig struct {
	mu sync.RWMutex

	Config   *config.Config
	Geometry board.Geometry
	Mapper   *board.Mapper
	Arbiter  *arbiter.Arbiter
	Cameras  []*pipeline.Camera
	Journal  *journal.DB

	sinks     throw.MultiSink
	listeners map[EventType][]EventListener
}

// Open builds a rig. Every camera must have a stored calibration matrix.
func Open(cfg *config.Config, opts Options) (*Rig, error) {
	g, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}

	set, err := calibration.NewStore(cfg.CalibrationDir).LoadSet(cfg.NumCameras)
	if err != nil {
		return nil, err
	}
	mapper, err := board.NewMapper(g, set)
	if err != nil {
		return nil, err
	}

	r := &Rig{
		Config:    cfg,
		Geometry:  g,
		Mapper:    mapper,
		Arbiter:   arbiter.New(cfg.Priority(), cfg.Arbitration.MinVotes),
		listeners: make(map[EventType][]EventListener),
	}

	if err := r.openCameras(opts); err != nil {
		r.Close()
		return nil, err
	}

	r.sinks = throw.MultiSink{throw.LogSink{}}
	if cfg.JournalPath != "" {
		db, err := journal.Open(cfg.JournalPath)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		r.Journal = db
		r.sinks = append(r.sinks, db)
	}
	if cfg.SnapshotDir != "" {
		r.sinks = append(r.sinks, &render.SnapshotSink{Dir: cfg.SnapshotDir, Geometry: g})
	}
	return r, nil
}

func (r *Rig) openCameras(opts Options) error {
	cfg := r.Config
	tp := TipParams(cfg)
	kp := TrackParams(cfg)
	band := motion.Band{Lower: cfg.Motion.Lower, Upper: cfg.Motion.Upper}

	for i, cc := range cfg.Cameras {
		o, err := tip.ParseOrientation(cc.Orientation)
		if err != nil {
			return fmt.Errorf("camera %d: %w", i, err)
		}
		loc, err := tip.NewLocalizer(i, o, tp, kp)
		if err != nil {
			return err
		}

		var src frame.Source
		switch {
		case i < len(opts.Sources):
			src = opts.Sources[i]
		case opts.ReplayDir != "":
			src, err = OpenSource(filepath.Join(opts.ReplayDir, strconv.Itoa(i)))
		default:
			src, err = OpenSource(cc.ID)
		}
		if err != nil {
			return fmt.Errorf("camera %d: %w", i, err)
		}
		if c, ok := src.(*frame.Capture); ok {
			c.SetSize(cfg.ImageWidth, cfg.ImageHeight)
		}

		r.Cameras = append(r.Cameras, &pipeline.Camera{
			Source:   src,
			Detector: motion.NewDetector(band, float32(cfg.Motion.Threshold)),
			Locator:  loc,
		})
	}
	return nil
}

// OpenSource opens a directory of frames as a replay sequence and anything
// else as a capture device or video file.
func OpenSource(id string) (frame.Source, error) {
	if info, err := os.Stat(id); err == nil && info.IsDir() {
		return frame.OpenSequence(id)
	}
	return frame.OpenCapture(id)
}

// TipParams converts the detection section of the config.
func TipParams(cfg *config.Config) tip.Params {
	d := cfg.Detection
	return tip.Params{
		MaxFeatures:   d.MaxFeatures,
		Quality:       d.Quality,
		MinDistance:   d.MinDistance,
		MinFeatures:   d.MinFeatures,
		MinFiltered:   d.MinFiltered,
		WindowX:       d.WindowX,
		WindowY:       d.WindowY,
		LineDistance:  d.LineDistance,
		AreaThreshold: float32(d.AreaThreshold),
		MaxArea:       d.MaxArea,
		Settle:        cfg.GetEventSettle(),
		Burst:         d.BurstFrames,
	}
}

// TrackParams converts the kalman section of the config.
func TrackParams(cfg *config.Config) track.Params {
	k := cfg.Kalman
	return track.Params{
		DT:       k.DT,
		UX:       k.UX,
		UY:       k.UY,
		StdAcc:   k.StdAcc,
		XStdMeas: k.XStdMeas,
		YStdMeas: k.YStdMeas,
	}
}

// AddSink appends a throw consumer, such as a game server client.
func (r *Rig) AddSink(s throw.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

// On registers an event listener for the specified event type.
func (r *Rig) On(event EventType, listener EventListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[event] = append(r.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (r *Rig) Emit(event EventType, data interface{}) {
	r.mu.RLock()
	listeners := r.listeners[event]
	r.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Record implements throw.Sink: the throw goes to every sink, then to the
// EventThrowScored listeners.
func (r *Rig) Record(t throw.Record) error {
	r.mu.RLock()
	sinks := append(throw.MultiSink(nil), r.sinks...)
	r.mu.RUnlock()

	err := sinks.Record(t)
	r.Emit(EventThrowScored, t)
	return err
}

// Pipeline builds the detection loop over the rig's cameras. clock may be
// nil for wall-clock time.
func (r *Rig) Pipeline(clock pipeline.Clock) (*pipeline.Pipeline, error) {
	cfg := r.Config
	return pipeline.New(r.Cameras, pipeline.Options{
		Mapper:           r.Mapper,
		Arbiter:          r.Arbiter,
		Sink:             r,
		Clock:            clock,
		Settle:           cfg.GetEventSettle(),
		Burst:            cfg.Detection.BurstFrames,
		TakeoutDelay:     cfg.GetTakeoutDelay(),
		TakeoutThreshold: cfg.TakeoutThreshold,
		OnTransition: func(from, to pipeline.State) {
			r.Emit(EventStateChanged, Transition{From: from, To: to})
		},
	})
}

// Close releases cameras, detectors and the journal.
func (r *Rig) Close() error {
	var errs []error
	for _, c := range r.Cameras {
		c.Detector.Close()
		if err := c.Source.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.Cameras = nil
	if r.Journal != nil {
		errs = append(errs, r.Journal.Close())
		r.Journal = nil
	}
	return errors.Join(errs...)
}
