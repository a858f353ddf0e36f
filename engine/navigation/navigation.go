package navigation

import (
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
)

// Mode identifies which control scheme owns the camera pose between
// transitions.
type Mode int

const (
	// ModeOrbit orbits a look-at target via azimuth/polar/radius.
	ModeOrbit Mode = iota
	// ModeFlight free-moves the camera via integrated velocity and orientation.
	ModeFlight
)

// String returns the mode's display name.
//
// Returns:
//   - string: "orbit", "flight", or "unknown"
func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeFlight:
		return "flight"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the controller's navigation state,
// published to observers whenever mode, transition, or auto-rotate changes.
// It replaces ambient global flags with an explicit observable record.
type State struct {
	// Mode is the persistent control mode (orbit or flight).
	Mode Mode
	// Transitioning reports whether a timed pose transition currently holds
	// exclusive pose authority.
	Transitioning bool
	// AutoRotateActive reports whether idle auto-rotation is engaged.
	AutoRotateActive bool
	// LastInputAt is the time of the most recent qualifying input.
	LastInputAt time.Time
}

// Preset is a named camera pose the controller can fly to. Presets form a
// cyclic list; each accepted next-position trigger transitions to the
// following entry.
type Preset struct {
	// Name identifies the preset for logs and UI.
	Name string
	// Position is the preset's world-space camera position.
	Position [3]float32
	// Target is the preset's world-space look-at point.
	Target [3]float32
}

// Controller is the top-level camera navigation state machine. It composes an
// orbit driver, a flight integrator, and a transition planner, exactly one of
// which mutates the camera pose in any given frame; an active transition takes
// exclusive priority over both mode drivers. Idle detection engages a passive
// auto-rotation after a fixed period without qualifying input.
// Thread-safe for concurrent access.
type Controller interface {
	// Update advances the state machine by one frame and returns the camera
	// pose for the frame. Must be called once per tick with the frame's input
	// sample and the elapsed time since the previous tick. A frame whose
	// integration would produce a non-finite pose keeps the previous pose and
	// logs a warning.
	//
	// Parameters:
	//   - input: the frame's normalized input sample
	//   - dt: elapsed time since the previous frame in seconds
	//
	// Returns:
	//   - common.CameraPose: the pose to render this frame
	Update(input common.NormalizedInput, dt float32) common.CameraPose

	// Pose returns the most recently computed camera pose without advancing
	// the state machine.
	//
	// Returns:
	//   - common.CameraPose: the current pose
	Pose() common.CameraPose

	// Mode returns the persistent control mode. The mode is independent of
	// any active transition and may change while one runs only via SetMode.
	//
	// Returns:
	//   - Mode: the current control mode
	Mode() Mode

	// SetMode forces the control mode directly, bypassing edge detection.
	// Ignored while a transition is active. Entering orbit mode discards
	// flight momentum.
	//
	// Parameters:
	//   - m: the mode to switch to
	SetMode(m Mode)

	// Transitioning reports whether a timed transition currently owns the pose.
	//
	// Returns:
	//   - bool: true while a transition is active
	Transitioning() bool

	// AutoRotateActive reports whether idle auto-rotation is engaged.
	//
	// Returns:
	//   - bool: true while auto-rotating
	AutoRotateActive() bool

	// State returns a snapshot of the full navigation state.
	//
	// Returns:
	//   - State: the current state snapshot
	State() State

	// Subscribe registers an observer invoked after any Update that changes
	// mode, transition, or auto-rotate state. Observers are invoked outside
	// the controller's lock, on the Update caller's goroutine.
	//
	// Parameters:
	//   - fn: observer receiving the new state snapshot
	Subscribe(fn func(State))

	// Presets returns a copy of the configured preset list.
	//
	// Returns:
	//   - []Preset: the preset list in cycle order
	Presets() []Preset

	// SetPresets replaces the preset list and resets the cycle index.
	// An empty list makes next-position triggers logged no-ops.
	//
	// Parameters:
	//   - presets: the new preset list
	SetPresets(presets []Preset)
}
