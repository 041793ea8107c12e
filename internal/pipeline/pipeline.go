package pipeline

import (
	"context"
	"fmt"
	"time"

	"dart-scorer/internal/arbiter"
	"dart-scorer/internal/board"
	"dart-scorer/internal/frame"
	"dart-scorer/internal/monitoring"
	"dart-scorer/internal/motion"
	"dart-scorer/internal/throw"
	"dart-scorer/internal/tip"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// Locator finds the dart tip in one camera; *tip.Localizer implements it.
type Locator interface {
	Locate(reference, frame gocv.Mat) tip.Result
	Reset()
}

// Camera bundles one camera's frame source, motion detector and locator.
// Everything in it is touched by at most one goroutine at a time.
type Camera struct {
	Source   frame.Source
	Detector *motion.Detector
	Locator  Locator
}

// Options configures the loop.
type Options struct {
	Mapper  *board.Mapper
	Arbiter *arbiter.Arbiter
	Sink    throw.Sink
	Clock   Clock

	Settle           time.Duration // wait between the motion event and the burst
	Burst            int           // frames localized per event
	TakeoutDelay     time.Duration // quiet time that ends the takeout
	TakeoutThreshold int           // changed pixels below this count as quiet

	// OnTransition, if set, is called on every state change.
	OnTransition func(from, to State)
}

// Pipeline is the detection loop. It is driven by a single goroutine.
type Pipeline struct {
	cams  []*Camera
	opts  Options
	state State

	quietSince time.Time
	quiet      bool
}

// New validates the cameras and options.
func New(cams []*Camera, opts Options) (*Pipeline, error) {
	if len(cams) == 0 {
		return nil, fmt.Errorf("pipeline needs at least one camera")
	}
	for i, c := range cams {
		if c == nil || c.Source == nil || c.Detector == nil || c.Locator == nil {
			return nil, fmt.Errorf("camera %d is incomplete", i)
		}
	}
	if opts.Mapper == nil || opts.Arbiter == nil {
		return nil, fmt.Errorf("pipeline needs a mapper and an arbiter")
	}
	if opts.Mapper.Cameras() != len(cams) {
		return nil, fmt.Errorf("mapper has %d cameras, pipeline has %d", opts.Mapper.Cameras(), len(cams))
	}
	if opts.Sink == nil {
		opts.Sink = throw.LogSink{}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	return &Pipeline{cams: cams, opts: opts, state: Quiescent}, nil
}

// State returns the current state.
func (p *Pipeline) State() State {
	return p.state
}

func (p *Pipeline) setState(s State) {
	if s == p.state {
		return
	}
	from := p.state
	p.state = s
	monitoring.Logf("pipeline: %s -> %s", from, s)
	if p.opts.OnTransition != nil {
		p.opts.OnTransition(from, s)
	}
}

func (p *Pipeline) read(i int) (gocv.Mat, error) {
	m, err := frame.ReadGray(p.cams[i].Source)
	if err != nil {
		return gocv.Mat{}, &CameraError{Camera: i, Err: err}
	}
	return m, nil
}

// Arm captures a fresh reference frame for every camera.
func (p *Pipeline) Arm() error {
	for i, c := range p.cams {
		m, err := p.read(i)
		if err != nil {
			return err
		}
		c.Detector.SetReference(m)
		m.Close()
	}
	return nil
}

// measureAll reads one frame per camera and measures it against the
// reference. When replace is set the frame becomes the new reference.
func (p *Pipeline) measureAll(replace bool) ([]int, bool, error) {
	readings := make([]motion.Reading, 0, len(p.cams))
	defer func() {
		for i := range readings {
			readings[i].Close()
		}
	}()

	for i, c := range p.cams {
		m, err := p.read(i)
		if err != nil {
			return nil, false, err
		}
		r, err := c.Detector.Measure(m)
		if err != nil {
			m.Close()
			return nil, false, &CameraError{Camera: i, Err: err}
		}
		readings = append(readings, r)
		if replace {
			c.Detector.SetReference(m)
		}
		m.Close()
	}

	counts := motion.Counts(readings)
	inBand := motion.AnyInBand(readings)
	if inBand {
		monitoring.Logf("pipeline: motion event, changed pixels %v", counts)
	}
	return counts, inBand, nil
}

// Step runs one cycle of the state machine. It returns the scored throw
// when the cycle produced one.
func (p *Pipeline) Step(ctx context.Context) (*throw.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch p.state {
	case Quiescent:
		_, inBand, err := p.measureAll(false)
		if err != nil {
			return nil, err
		}
		if inBand {
			p.setState(DartDetected)
		}
		return nil, nil

	case DartDetected:
		return p.score(ctx)

	case Scored:
		p.enterTakeout()
		return nil, nil

	case AwaitingTakeout:
		return nil, p.takeout()
	}
	return nil, fmt.Errorf("pipeline in unknown state %s", p.state)
}

// score localizes the dart in every camera, arbitrates and emits the throw.
func (p *Pipeline) score(ctx context.Context) (*throw.Record, error) {
	p.opts.Clock.Sleep(p.opts.Settle)

	results, err := p.locateAll(ctx)
	if err != nil {
		return nil, err
	}

	votes := make([]arbiter.Vote, len(results))
	for i, res := range results {
		votes[i] = arbiter.Vote{Camera: i}
		if !res.Found {
			continue
		}
		s, pos, err := p.opts.Mapper.ScorePixel(i, res.Tip)
		if err != nil {
			monitoring.Logf("camera %d: cannot map tip %v: %v", i, res.Tip, err)
			continue
		}
		monitoring.Logf("camera %d: tip (%.0f, %.0f) scores %s", i, res.Tip.X, res.Tip.Y, s)
		votes[i] = arbiter.Vote{Camera: i, Found: true, Score: s, Position: pos}
	}

	d, ok := p.opts.Arbiter.Decide(votes)
	if !ok {
		monitoring.Logf("pipeline: no agreed throw, re-arming")
		p.resetLocators()
		if err := p.Arm(); err != nil {
			return nil, err
		}
		p.setState(Quiescent)
		return nil, nil
	}

	rec := throw.NewRecord(d.Score, d.Position, d.Camera, p.opts.Clock.Now())
	p.setState(Scored)
	if err := p.opts.Sink.Record(rec); err != nil {
		monitoring.Logf("pipeline: sink failed for throw %s: %v", rec.ID, err)
	}
	p.enterTakeout()
	return &rec, nil
}

// locateAll runs a burst of frames through every camera's locator
// concurrently, one goroutine per camera, keeping each camera's last hit.
func (p *Pipeline) locateAll(ctx context.Context) ([]tip.Result, error) {
	results := make([]tip.Result, len(p.cams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(p.cams))

	for i := range p.cams {
		g.Go(func() error {
			c := p.cams[i]
			res := tip.NotFound(tip.ReasonNoTip)
			for n := 0; n < p.opts.Burst; n++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				m, err := p.read(i)
				if err != nil {
					return err
				}
				if r := c.Locator.Locate(c.Detector.Reference(), m); r.Found || !res.Found {
					res = r
				}
				m.Close()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resetLocators drops every camera's track so the next throw starts fresh.
func (p *Pipeline) resetLocators() {
	for _, c := range p.cams {
		c.Locator.Reset()
	}
}

func (p *Pipeline) enterTakeout() {
	p.resetLocators()
	p.quiet = false
	p.setState(AwaitingTakeout)
}

// takeout waits for the board to stay still for the takeout delay. Each
// frame replaces the reference so the comparison is frame to frame.
func (p *Pipeline) takeout() error {
	counts, _, err := p.measureAll(true)
	if err != nil {
		return err
	}

	still := true
	for _, n := range counts {
		if n >= p.opts.TakeoutThreshold {
			still = false
			break
		}
	}

	now := p.opts.Clock.Now()
	if !still {
		p.quiet = false
		return nil
	}
	if !p.quiet {
		p.quiet = true
		p.quietSince = now
	}
	if now.Sub(p.quietSince) >= p.opts.TakeoutDelay {
		p.setState(Quiescent)
	}
	return nil
}

// Run arms any camera without a reference and steps until ctx is cancelled
// or a camera fails.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, c := range p.cams {
		if !c.Detector.HasReference() {
			if err := p.Arm(); err != nil {
				return err
			}
			break
		}
	}
	for {
		if _, err := p.Step(ctx); err != nil {
			return err
		}
	}
}
