package navigation

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
)

// navigationControllerImpl is the single implementation of Controller.
// It owns the orbit driver, flight integrator, and transition planner
// exclusively; no other component mutates them. Exactly one of the three
// writes the pose in any given frame, with an active transition taking
// priority over both mode drivers.
type navigationControllerImpl struct {
	mu *sync.Mutex

	mode Mode
	pose common.CameraPose

	orbit      *orbitDriver
	flight     *flightIntegrator
	transition *transitionPlanner

	presets     []Preset
	presetIndex int

	// Previous-frame trigger snapshot for rising-edge detection.
	prevToggle bool
	prevNext   bool

	// graceUntil suppresses next-position edges for a short window after a
	// transition completes, so a release/re-press bounce does not chain
	// transitions back to back.
	graceUntil time.Time

	lastInputAt time.Time
	idleTimeout time.Duration

	autoRotate bool
	// autoRotateSpeed is the passive yaw rate in radians per second applied
	// while idle: directly in orbit mode, as a yaw bias in flight mode.
	autoRotateSpeed float32

	transitionDuration time.Duration
	triggerGrace       time.Duration

	// deadzone is the axis magnitude below which continuous input is snapped
	// to exactly 0 before any use, including idle-qualification checks.
	deadzone float32

	observers []func(State)

	// now is the controller's clock, injectable for deterministic tests.
	now func() time.Time
}

// Compile-time interface compliance check
var _ Controller = &navigationControllerImpl{}

// NewController creates a camera navigation controller with sensible defaults:
// orbit mode, a 5 second idle timeout, 2 second transitions, and the default
// orbit/flight tuning.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerOption) Controller {
	c := &navigationControllerImpl{
		mu:                 &sync.Mutex{},
		mode:               ModeOrbit,
		orbit:              newOrbitDriver(),
		flight:             newFlightIntegrator(),
		transition:         &transitionPlanner{},
		idleTimeout:        5 * time.Second,
		autoRotateSpeed:    0.15,
		transitionDuration: 2 * time.Second,
		triggerGrace:       250 * time.Millisecond,
		deadzone:           0.1,
		now:                time.Now,
	}

	for _, option := range options {
		option(c)
	}

	c.lastInputAt = c.now()
	c.pose = c.orbit.pose()
	if c.mode == ModeFlight {
		c.flight.adopt(c.pose)
		c.pose = c.flight.pose()
	}

	return c
}

func (c *navigationControllerImpl) Update(input common.NormalizedInput, dt float32) common.CameraPose {
	c.mu.Lock()

	input = applyDeadzone(input, c.deadzone)
	now := c.now()
	changed := false

	// Rising-edge detection against the previous frame's trigger snapshot.
	toggleEdge := input.ToggleMode && !c.prevToggle
	nextEdge := input.NextPosition && !c.prevNext
	c.prevToggle = input.ToggleMode
	c.prevNext = input.NextPosition

	// Idle tracking: any qualifying activity clears auto-rotate immediately;
	// sustained silence past the timeout engages it.
	if !input.Zero() || input.HostActivity {
		c.lastInputAt = now
		if c.autoRotate {
			c.autoRotate = false
			changed = true
		}
	} else if !c.autoRotate && now.Sub(c.lastInputAt) >= c.idleTimeout {
		c.autoRotate = true
		changed = true
	}

	if c.transition.active {
		// Transition holds exclusive pose authority; mode and preset triggers
		// are deliberately blocked until it completes.
		pose, done := c.transition.tick(now)
		c.setPose(pose)
		if done {
			c.graceUntil = now.Add(c.triggerGrace)
			c.adoptPose()
			changed = true
		}
	} else {
		if toggleEdge {
			c.toggleMode()
			changed = true
		}
		if nextEdge && now.After(c.graceUntil) {
			if c.startTransition(now) {
				changed = true
			}
		}

		if c.transition.active {
			pose, done := c.transition.tick(now)
			c.setPose(pose)
			if done {
				c.graceUntil = now.Add(c.triggerGrace)
				c.adoptPose()
			}
		} else {
			autoYaw := float32(0)
			if c.autoRotate {
				autoYaw = c.autoRotateSpeed
			}
			var accepted bool
			switch c.mode {
			case ModeOrbit:
				accepted = c.setPose(c.orbit.apply(input, dt, autoYaw))
			case ModeFlight:
				accepted = c.setPose(c.flight.integrate(input, dt, autoYaw))
			}
			if !accepted {
				// Re-seat the driver on the last valid pose so corrupted
				// integrator state does not poison subsequent frames.
				c.adoptPose()
			}
		}
	}

	pose := c.pose
	var state State
	var observers []func(State)
	if changed {
		state = c.snapshot()
		observers = append(observers, c.observers...)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
	return pose
}

func (c *navigationControllerImpl) Pose() common.CameraPose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

func (c *navigationControllerImpl) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *navigationControllerImpl) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transition.active || m == c.mode {
		return
	}
	c.toggleMode()
}

func (c *navigationControllerImpl) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transition.active
}

func (c *navigationControllerImpl) AutoRotateActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoRotate
}

func (c *navigationControllerImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *navigationControllerImpl) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *navigationControllerImpl) Presets() []Preset {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]Preset, len(c.presets))
	copy(cp, c.presets)
	return cp
}

func (c *navigationControllerImpl) SetPresets(presets []Preset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presets = make([]Preset, len(presets))
	copy(c.presets, presets)
	c.presetIndex = 0
}

// --- internal helpers ---

// applyDeadzone snaps every continuous axis below the threshold to exactly 0,
// enforcing the normalized-input invariant regardless of the sample's origin.
func applyDeadzone(in common.NormalizedInput, threshold float32) common.NormalizedInput {
	in.MoveForward = deadzone(in.MoveForward, threshold)
	in.MoveRight = deadzone(in.MoveRight, threshold)
	in.MoveUp = deadzone(in.MoveUp, threshold)
	in.LookHorizontal = deadzone(in.LookHorizontal, threshold)
	in.LookVertical = deadzone(in.LookVertical, threshold)
	in.Roll = deadzone(in.Roll, threshold)
	return in
}

// snapshot builds a State from the current fields. Caller must hold the mutex.
func (c *navigationControllerImpl) snapshot() State {
	return State{
		Mode:             c.mode,
		Transitioning:    c.transition.active,
		AutoRotateActive: c.autoRotate,
		LastInputAt:      c.lastInputAt,
	}
}

// setPose publishes a pose after validating it is finite. A non-finite pose is
// discarded and the previous pose retained. Returns whether the pose was
// accepted. Caller must hold the mutex.
func (c *navigationControllerImpl) setPose(p common.CameraPose) bool {
	if !common.Finite3(p.Position) || !common.Finite3(p.Target) {
		log.Printf("navigation: discarding non-finite pose update (mode=%s), keeping previous pose", c.mode)
		return false
	}
	c.pose = p
	return true
}

// toggleMode flips between orbit and flight, re-seating the incoming mode's
// driver on the current pose. Entering orbit discards flight momentum so no
// motion carries across the switch. Caller must hold the mutex.
func (c *navigationControllerImpl) toggleMode() {
	switch c.mode {
	case ModeOrbit:
		c.mode = ModeFlight
		c.flight.adopt(c.pose)
	case ModeFlight:
		c.mode = ModeOrbit
		c.flight.resetMomentum()
		c.orbit.adopt(c.pose)
	}
}

// adoptPose re-seats whichever mode is currently selected on the published
// pose after a transition completes. The mode itself is never reverted; only
// pose authority returns to the mode driver. Caller must hold the mutex.
func (c *navigationControllerImpl) adoptPose() {
	switch c.mode {
	case ModeOrbit:
		c.orbit.adopt(c.pose)
	case ModeFlight:
		c.flight.adopt(c.pose)
	}
}

// startTransition captures the current pose and arms the planner toward the
// next preset in the cycle. With no presets configured the request is a logged
// no-op. Returns true if a transition was started. Caller must hold the mutex.
func (c *navigationControllerImpl) startTransition(now time.Time) bool {
	if len(c.presets) == 0 {
		log.Printf("navigation: next-position requested with no presets configured, ignoring")
		return false
	}

	preset := c.presets[c.presetIndex%len(c.presets)]
	c.presetIndex = (c.presetIndex + 1) % len(c.presets)

	end := common.CameraPose{Position: preset.Position, Target: preset.Target}
	c.transition.activate(c.pose, end, c.transitionDuration, now)
	return true
}
