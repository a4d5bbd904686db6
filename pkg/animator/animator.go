package animator

import (
	"time"
)

const (
	DefaultStep          = 1.0 / 1000
	DefaultDwell         = 2 * time.Second
	DefaultFrameInterval = time.Second / 60

	// Accumulated float error on the progress counter, 10 × 0.1 lands just under 1
	progressEpsilon = 1e-9
)

type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Waypoint is a point the marker has to visit. State, Label and Timestamp are display only.
type Waypoint struct {
	Position  Position `json:"position"`
	Label     string   `json:"label,omitempty"`
	State     string   `json:"state,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

type Config struct {
	// Fraction of a segment covered per tick at speed 1
	Step float64
	// Pause at every intermediate waypoint
	Dwell time.Duration
	// Delay between two ticks when driven by a Player
	FrameInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Step:          DefaultStep,
		Dwell:         DefaultDwell,
		FrameInterval: DefaultFrameInterval,
	}
}

// Animator moves a marker along a route one tick at a time.
// It is not safe for concurrent use, a Player serialises access to it.
type Animator struct {
	config Config
	now    func() time.Time

	waypoints       []Waypoint
	segmentIndex    int
	progress        float64
	speedMultiplier float64

	terminal   bool
	stopped    bool
	dwellUntil time.Time
}

type Option func(*Animator)

// WithClock replaces time.Now for the dwell window
func WithClock(now func() time.Time) Option {
	return func(a *Animator) {
		a.now = now
	}
}

func New(config Config, opts ...Option) *Animator {
	if config.Step <= 0 {
		config.Step = DefaultStep
	}
	if config.Dwell < 0 {
		config.Dwell = 0
	}
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultFrameInterval
	}

	a := &Animator{
		config:  config,
		now:     time.Now,
		stopped: true,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Animator) Config() Config {
	return a.config
}

// Start resets the animation to the first waypoint of the given route
func (a *Animator) Start(waypoints []Waypoint, speedMultiplier float64) error {
	if len(waypoints) == 0 {
		return &InvalidInputError{Reason: "route has no waypoints"}
	}
	if speedMultiplier <= 0 {
		return &InvalidInputError{Reason: "speed multiplier must be positive"}
	}

	a.Stop()

	a.waypoints = make([]Waypoint, len(waypoints))
	copy(a.waypoints, waypoints)

	a.segmentIndex = 0
	a.progress = 0
	a.speedMultiplier = speedMultiplier
	a.dwellUntil = time.Time{}
	a.terminal = len(waypoints) == 1
	a.stopped = false

	return nil
}

// Tick advances the marker by one frame. It never blocks, while dwelling it is a no-op.
func (a *Animator) Tick() {
	if a.stopped || a.terminal {
		return
	}

	if !a.dwellUntil.IsZero() {
		if a.now().Before(a.dwellUntil) {
			return
		}
		a.dwellUntil = time.Time{}
	}

	a.progress += a.speedMultiplier * a.config.Step

	if a.progress < 1-progressEpsilon {
		return
	}

	a.progress = 0
	a.segmentIndex++

	if a.segmentIndex >= len(a.waypoints)-1 {
		a.segmentIndex = len(a.waypoints) - 1
		a.terminal = true
		return
	}

	if a.config.Dwell > 0 {
		a.dwellUntil = a.now().Add(a.config.Dwell)
	}
}

func (a *Animator) CurrentPosition() Position {
	if len(a.waypoints) == 0 {
		return Position{}
	}
	if a.terminal {
		return a.waypoints[len(a.waypoints)-1].Position
	}

	from := a.waypoints[a.segmentIndex].Position
	to := a.waypoints[a.segmentIndex+1].Position

	return Position{
		Lat: from.Lat + (to.Lat-from.Lat)*a.progress,
		Lng: from.Lng + (to.Lng-from.Lng)*a.progress,
	}
}

// SetSpeed changes the multiplier without touching the current segment or progress
func (a *Animator) SetSpeed(speedMultiplier float64) error {
	if speedMultiplier <= 0 {
		return &InvalidInputError{Reason: "speed multiplier must be positive"}
	}
	a.speedMultiplier = speedMultiplier

	return nil
}

// Stop freezes the animation where it is. Calling it twice is fine.
func (a *Animator) Stop() {
	a.stopped = true
	a.dwellUntil = time.Time{}
}

func (a *Animator) IsTerminal() bool {
	return a.terminal
}

func (a *Animator) IsStopped() bool {
	return a.stopped
}

// DwellRemaining is how long the marker still has to wait at its current waypoint
func (a *Animator) DwellRemaining() time.Duration {
	if a.dwellUntil.IsZero() || a.stopped {
		return 0
	}

	remaining := a.dwellUntil.Sub(a.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (a *Animator) SegmentIndex() int {
	return a.segmentIndex
}

func (a *Animator) Progress() float64 {
	return a.progress
}

func (a *Animator) SpeedMultiplier() float64 {
	return a.speedMultiplier
}

func (a *Animator) Waypoints() []Waypoint {
	return a.waypoints
}

// Frame is a snapshot of the animation handed to whatever draws the marker
type Frame struct {
	Position     Position `json:"position"`
	SegmentIndex int      `json:"segment_index"`
	Progress     float64  `json:"progress"`
	Speed        float64  `json:"speed"`
	Dwelling     bool     `json:"dwelling"`
	Terminal     bool     `json:"terminal"`
}

func (a *Animator) Frame() Frame {
	return Frame{
		Position:     a.CurrentPosition(),
		SegmentIndex: a.segmentIndex,
		Progress:     a.progress,
		Speed:        a.speedMultiplier,
		Dwelling:     a.DwellRemaining() > 0,
		Terminal:     a.terminal,
	}
}
