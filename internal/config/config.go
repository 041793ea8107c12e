// Package config loads and validates the scorer configuration: board
// geometry in millimetres, the camera rig, and the detection tuning
// constants.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dart-scorer/internal/board"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the base configuration read by the commands when no
// -config flag is given.
const DefaultConfigPath = "config/cv_constants.yaml"

// CameraConfig describes one physical camera of the rig.
type CameraConfig struct {
	// ID is a device index ("0") or a path/URL understood by the frame source.
	ID string `yaml:"id"`
	// Orientation selects the extremal-point strategy: right, left or center.
	Orientation string `yaml:"orientation"`
}

// MotionConfig holds the motion event detector thresholds.
type MotionConfig struct {
	Lower     int     `yaml:"lower"`
	Upper     int     `yaml:"upper"`
	Threshold float64 `yaml:"threshold"`
}

// DetectionConfig holds the tip localizer tuning constants.
type DetectionConfig struct {
	MaxFeatures   int     `yaml:"max_features"`
	Quality       float64 `yaml:"quality"`
	MinDistance   float64 `yaml:"min_distance"`
	MinFeatures   int     `yaml:"min_features"`
	MinFiltered   int     `yaml:"min_filtered"`
	WindowX       float64 `yaml:"window_x"`
	WindowY       float64 `yaml:"window_y"`
	LineDistance  float64 `yaml:"line_distance"`
	AreaThreshold float64 `yaml:"area_threshold"`
	MaxArea       int     `yaml:"max_area"`
	EventSettle   string  `yaml:"event_settle"` // duration string like "200ms"
	BurstFrames   int     `yaml:"burst_frames"`
}

// KalmanConfig holds the constant-velocity filter tuning.
type KalmanConfig struct {
	DT       float64 `yaml:"dt"`
	UX       float64 `yaml:"u_x"`
	UY       float64 `yaml:"u_y"`
	StdAcc   float64 `yaml:"std_acc"`
	XStdMeas float64 `yaml:"x_std_meas"`
	YStdMeas float64 `yaml:"y_std_meas"`
}

// ArbitrationConfig holds the multi-camera vote settings.
type ArbitrationConfig struct {
	MinVotes int `yaml:"min_votes"`
}

// Derived holds the pixel-space constants computed from the millimetre
// measurements. It is written by genconstants for operators and other
// consumers; the scorer always recomputes it.
type Derived struct {
	PixelsPerMM             float64 `yaml:"pixels_per_mm"`
	BullseyeRadiusPx        int     `yaml:"bullseye_radius_px"`
	OuterBullRadiusPx       int     `yaml:"outer_bull_radius_px"`
	TripleRingInnerRadiusPx int     `yaml:"triple_ring_inner_radius_px"`
	TripleRingOuterRadiusPx int     `yaml:"triple_ring_outer_radius_px"`
	DoubleRingInnerRadiusPx int     `yaml:"double_ring_inner_radius_px"`
	DoubleRingOuterRadiusPx int     `yaml:"double_ring_outer_radius_px"`
	Center                  [2]int  `yaml:"center"`
}

// Config is the root configuration document.
type Config struct {
	ImageWidth          int     `yaml:"image_width"`
	ImageHeight         int     `yaml:"image_height"`
	DartboardDiameterMM float64 `yaml:"dartboard_diameter_mm"`

	BullseyeRadiusMM        float64 `yaml:"bullseye_radius_mm"`
	OuterBullRadiusMM       float64 `yaml:"outer_bull_radius_mm"`
	TripleRingInnerRadiusMM float64 `yaml:"triple_ring_inner_radius_mm"`
	TripleRingOuterRadiusMM float64 `yaml:"triple_ring_outer_radius_mm"`
	DoubleRingInnerRadiusMM float64 `yaml:"double_ring_inner_radius_mm"`
	DoubleRingOuterRadiusMM float64 `yaml:"double_ring_outer_radius_mm"`

	NumCameras     int            `yaml:"num_cameras"`
	Cameras        []CameraConfig `yaml:"cameras"`
	CameraPriority []int          `yaml:"camera_priority,omitempty"`

	TakeoutDelay     string `yaml:"takeout_delay"` // duration string like "1.5s"
	TakeoutThreshold int    `yaml:"takeout_threshold"`

	Motion      MotionConfig      `yaml:"motion"`
	Detection   DetectionConfig   `yaml:"detection"`
	Kalman      KalmanConfig      `yaml:"kalman"`
	Arbitration ArbitrationConfig `yaml:"arbitration"`

	CalibrationDir string `yaml:"calibration_dir"`
	JournalPath    string `yaml:"journal_path,omitempty"`
	SnapshotDir    string `yaml:"snapshot_dir,omitempty"`

	Derived *Derived `yaml:"derived,omitempty"`
}

// Default returns a configuration for a regulation board seen by three
// 1280x720 cameras.
func Default() *Config {
	return &Config{
		ImageWidth:          1280,
		ImageHeight:         720,
		DartboardDiameterMM: 451,

		BullseyeRadiusMM:        6.35,
		OuterBullRadiusMM:       15.9,
		TripleRingInnerRadiusMM: 99,
		TripleRingOuterRadiusMM: 107,
		DoubleRingInnerRadiusMM: 162,
		DoubleRingOuterRadiusMM: 170,

		NumCameras: 3,
		Cameras: []CameraConfig{
			{ID: "0", Orientation: "right"},
			{ID: "2", Orientation: "left"},
			{ID: "4", Orientation: "center"},
		},

		TakeoutDelay:     "1s",
		TakeoutThreshold: 100,

		Motion: MotionConfig{Lower: 1000, Upper: 7500, Threshold: 60},
		Detection: DetectionConfig{
			MaxFeatures:   640,
			Quality:       0.0008,
			MinDistance:   1,
			MinFeatures:   40,
			MinFiltered:   30,
			WindowX:       180,
			WindowY:       120,
			LineDistance:  40,
			AreaThreshold: 60,
			MaxArea:       15000,
			EventSettle:   "200ms",
			BurstFrames:   3,
		},
		Kalman: KalmanConfig{
			DT:       0.1,
			UX:       0,
			UY:       0,
			StdAcc:   1,
			XStdMeas: 1,
			YStdMeas: 1,
		},
		Arbitration:    ArbitrationConfig{MinVotes: 1},
		CalibrationDir: "calibration",
	}
}

// Load reads a YAML configuration. Keys omitted from the file keep their
// Default values, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", c.ImageWidth, c.ImageHeight)
	}
	if c.DartboardDiameterMM <= 0 {
		return fmt.Errorf("dartboard_diameter_mm must be positive, got %f", c.DartboardDiameterMM)
	}
	if _, err := c.Geometry(); err != nil {
		return err
	}

	if c.NumCameras < 1 {
		return fmt.Errorf("num_cameras must be at least 1, got %d", c.NumCameras)
	}
	if len(c.Cameras) != c.NumCameras {
		return fmt.Errorf("num_cameras is %d but %d cameras are configured", c.NumCameras, len(c.Cameras))
	}
	for i, cam := range c.Cameras {
		if cam.ID == "" {
			return fmt.Errorf("camera %d has no id", i)
		}
		switch cam.Orientation {
		case "right", "left", "center":
		default:
			return fmt.Errorf("camera %d: unknown orientation %q", i, cam.Orientation)
		}
	}
	seen := make(map[int]bool)
	for _, idx := range c.CameraPriority {
		if idx < 0 || idx >= c.NumCameras {
			return fmt.Errorf("camera_priority references camera %d, have %d cameras", idx, c.NumCameras)
		}
		if seen[idx] {
			return fmt.Errorf("camera_priority lists camera %d twice", idx)
		}
		seen[idx] = true
	}

	if _, err := time.ParseDuration(c.TakeoutDelay); err != nil {
		return fmt.Errorf("invalid takeout_delay '%s': %w", c.TakeoutDelay, err)
	}
	if c.TakeoutThreshold < 0 {
		return fmt.Errorf("takeout_threshold must be non-negative, got %d", c.TakeoutThreshold)
	}

	if c.Motion.Lower < 0 || c.Motion.Upper <= c.Motion.Lower {
		return fmt.Errorf("motion band must satisfy 0 <= lower < upper, got %d..%d", c.Motion.Lower, c.Motion.Upper)
	}
	if c.Motion.Threshold <= 0 || c.Motion.Threshold > 255 {
		return fmt.Errorf("motion threshold must be in (0, 255], got %f", c.Motion.Threshold)
	}

	d := c.Detection
	if d.MaxFeatures <= 0 || d.MinFeatures < 0 || d.MinFiltered < 0 {
		return fmt.Errorf("detection max_features must be positive and min_features/min_filtered non-negative")
	}
	if d.Quality <= 0 || d.Quality >= 1 {
		return fmt.Errorf("detection quality must be in (0, 1), got %f", d.Quality)
	}
	if d.WindowX <= 0 || d.WindowY <= 0 || d.LineDistance <= 0 {
		return fmt.Errorf("detection window and line distance must be positive")
	}
	if d.BurstFrames < 1 {
		return fmt.Errorf("burst_frames must be at least 1, got %d", d.BurstFrames)
	}
	if _, err := time.ParseDuration(d.EventSettle); err != nil {
		return fmt.Errorf("invalid event_settle '%s': %w", d.EventSettle, err)
	}

	if c.Kalman.DT <= 0 {
		return fmt.Errorf("kalman dt must be positive, got %f", c.Kalman.DT)
	}
	if c.Kalman.XStdMeas <= 0 || c.Kalman.YStdMeas <= 0 {
		return fmt.Errorf("kalman measurement noise must be positive")
	}
	if c.Arbitration.MinVotes < 1 {
		return fmt.Errorf("min_votes must be at least 1, got %d", c.Arbitration.MinVotes)
	}
	if c.CalibrationDir == "" {
		return fmt.Errorf("calibration_dir is required")
	}
	return nil
}

// Geometry builds the immutable board geometry from the millimetre values.
func (c *Config) Geometry() (board.Geometry, error) {
	return board.NewGeometry(board.Dimensions{
		ImageWidth:              c.ImageWidth,
		ImageHeight:             c.ImageHeight,
		DiameterMM:              c.DartboardDiameterMM,
		BullseyeRadiusMM:        c.BullseyeRadiusMM,
		OuterBullRadiusMM:       c.OuterBullRadiusMM,
		TripleRingInnerRadiusMM: c.TripleRingInnerRadiusMM,
		TripleRingOuterRadiusMM: c.TripleRingOuterRadiusMM,
		DoubleRingInnerRadiusMM: c.DoubleRingInnerRadiusMM,
		DoubleRingOuterRadiusMM: c.DoubleRingOuterRadiusMM,
	})
}

// Derive returns a copy of the configuration with the Derived block filled in.
func (c *Config) Derive() (*Config, error) {
	g, err := c.Geometry()
	if err != nil {
		return nil, err
	}
	out := *c
	out.Cameras = append([]CameraConfig(nil), c.Cameras...)
	out.CameraPriority = append([]int(nil), c.CameraPriority...)
	out.Derived = &Derived{
		PixelsPerMM:             g.PixelsPerMM,
		BullseyeRadiusPx:        int(g.BullseyeRadius),
		OuterBullRadiusPx:       int(g.OuterBullRadius),
		TripleRingInnerRadiusPx: int(g.TripleInnerRadius),
		TripleRingOuterRadiusPx: int(g.TripleOuterRadius),
		DoubleRingInnerRadiusPx: int(g.DoubleInnerRadius),
		DoubleRingOuterRadiusPx: int(g.DoubleOuterRadius),
		Center:                  [2]int{int(g.Center.X), int(g.Center.Y)},
	}
	return &out, nil
}

// GetTakeoutDelay parses and returns the TakeoutDelay as a time.Duration.
func (c *Config) GetTakeoutDelay() time.Duration {
	d, err := time.ParseDuration(c.TakeoutDelay)
	if err != nil {
		return time.Second // default on parse error
	}
	return d
}

// GetEventSettle parses and returns the EventSettle as a time.Duration.
func (c *Config) GetEventSettle() time.Duration {
	d, err := time.ParseDuration(c.Detection.EventSettle)
	if err != nil {
		return 200 * time.Millisecond // default on parse error
	}
	return d
}

// Priority returns the camera precedence list used to break vote ties.
// Cameras missing from camera_priority follow in index order.
func (c *Config) Priority() []int {
	out := append([]int(nil), c.CameraPriority...)
	listed := make(map[int]bool, len(out))
	for _, idx := range out {
		listed[idx] = true
	}
	for i := 0; i < c.NumCameras; i++ {
		if !listed[i] {
			out = append(out, i)
		}
	}
	return out
}
