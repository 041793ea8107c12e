package tip

import (
	"fmt"

	"dart-scorer/internal/monitoring"
	"dart-scorer/internal/track"
	"dart-scorer/pkg/geometry"

	"gocv.io/x/gocv"
)

// Reasons a frame yields no tip.
const (
	ReasonFewFeatures  = "too few features"
	ReasonFewFiltered  = "too few features near the dart"
	ReasonNoAxis       = "no features on the dart axis"
	ReasonAreaTooLarge = "changed area too large"
	ReasonNoTip        = "no tip candidate"
)

// Result is the outcome of localizing one frame. When Found is false Reason
// says why; Tip is meaningless.
type Result struct {
	Found    bool
	Tip      geometry.Point2D // Kalman-corrected tip, live pixels
	Raw      geometry.Point2D // measured tip before filtering
	Refined  bool             // Raw came from the skeleton rather than the selector
	Features int
	Reason   string
}

// NotFound builds a negative result.
func NotFound(reason string) Result {
	return Result{Reason: reason}
}

// Localizer finds the dart tip for one camera. It owns the camera's track
// and is used from a single goroutine.
type Localizer struct {
	Camera   int
	Params   Params
	Selector Selector

	track *track.State
}

// NewLocalizer builds a localizer for a camera mounted at orientation o.
func NewLocalizer(camera int, o Orientation, p Params, kp track.Params) (*Localizer, error) {
	st, err := track.NewState(kp)
	if err != nil {
		return nil, fmt.Errorf("camera %d: %w", camera, err)
	}
	return &Localizer{
		Camera:   camera,
		Params:   p,
		Selector: SelectorFor(o),
		track:    st,
	}, nil
}

// Reset clears the camera's track; called once the board is cleared.
func (l *Localizer) Reset() {
	l.track.Reset()
}

// Locate compares frame against the camera's reference and reports the tip
// of the new dart. Both frames are single-channel and the same size.
func (l *Localizer) Locate(reference, frame gocv.Mat) Result {
	res := l.measure(reference, frame)
	if !res.Found {
		if prev, ok := l.track.PrevTip(); ok {
			monitoring.Logf("camera %d: tip not found: %s (%d features), keeping track at (%.0f, %.0f)",
				l.Camera, res.Reason, res.Features, prev.X, prev.Y)
		} else {
			monitoring.Logf("camera %d: tip not found: %s (%d features)", l.Camera, res.Reason, res.Features)
		}
		return res
	}

	tip, err := l.track.Observe(res.Raw)
	if err != nil {
		monitoring.Logf("camera %d: kalman update failed, using raw tip: %v", l.Camera, err)
		tip = res.Raw
	}
	res.Tip = tip
	return res
}

func (l *Localizer) measure(reference, frame gocv.Mat) Result {
	p := l.Params

	blur := diffBlur(reference, frame)
	defer blur.Close()

	features := detectFeatures(blur, p)
	if len(features) < p.MinFeatures {
		return Result{Reason: ReasonFewFeatures, Features: len(features)}
	}

	windowed := filterWindow(features, p.WindowX, p.WindowY)
	if len(windowed) < p.MinFiltered {
		return Result{Reason: ReasonFewFiltered, Features: len(windowed)}
	}

	onAxis := filterLine(windowed, p.LineDistance)
	if len(onAxis) == 0 {
		return Result{Reason: ReasonNoAxis, Features: len(windowed)}
	}

	if area := changedArea(blur, p.AreaThreshold); area > p.MaxArea {
		return Result{Reason: ReasonAreaTooLarge, Features: len(onAxis)}
	}

	raw, ok := l.Selector.Select(onAxis)
	if !ok {
		return Result{Reason: ReasonNoTip, Features: len(onAxis)}
	}
	res := Result{Found: true, Raw: raw, Features: len(onAxis)}

	if refined, ok := refineTip(onAxis, blur.Rows(), blur.Cols()); ok {
		res.Raw = refined
		res.Refined = true
	}
	return res
}
