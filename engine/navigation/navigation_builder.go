package navigation

import "time"

// ControllerOption is a functional option for configuring a Controller.
type ControllerOption func(*navigationControllerImpl)

// WithMode sets the initial control mode.
//
// Parameters:
//   - m: the starting mode (orbit or flight)
//
// Returns:
//   - ControllerOption: functional option to set the mode
func WithMode(m Mode) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.mode = m
	}
}

// WithPresets sets the cyclic list of camera presets visited by
// next-position triggers.
//
// Parameters:
//   - presets: preset poses in cycle order
//
// Returns:
//   - ControllerOption: functional option to set the presets
func WithPresets(presets ...Preset) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.presets = make([]Preset, len(presets))
		copy(c.presets, presets)
	}
}

// WithIdleTimeout sets how long the controller waits without qualifying input
// before engaging auto-rotation.
//
// Parameters:
//   - d: idle duration before auto-rotate engages
//
// Returns:
//   - ControllerOption: functional option to set the idle timeout
func WithIdleTimeout(d time.Duration) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.idleTimeout = d
	}
}

// WithAutoRotateSpeed sets the passive yaw rate applied while idle.
//
// Parameters:
//   - radiansPerSecond: auto-rotate angular speed
//
// Returns:
//   - ControllerOption: functional option to set the auto-rotate speed
func WithAutoRotateSpeed(radiansPerSecond float32) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.autoRotateSpeed = radiansPerSecond
	}
}

// WithTransitionDuration sets how long preset transitions take.
//
// Parameters:
//   - d: transition duration
//
// Returns:
//   - ControllerOption: functional option to set the transition duration
func WithTransitionDuration(d time.Duration) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.transitionDuration = d
	}
}

// WithTriggerGrace sets the window after a completed transition during which
// next-position edges are ignored.
//
// Parameters:
//   - d: grace window duration
//
// Returns:
//   - ControllerOption: functional option to set the trigger grace window
func WithTriggerGrace(d time.Duration) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.triggerGrace = d
	}
}

// WithFlightConfig replaces the flight integrator's tuning parameters.
//
// Parameters:
//   - cfg: flight tuning (speed, acceleration, damping, rotation, deadzone)
//
// Returns:
//   - ControllerOption: functional option to set the flight config
func WithFlightConfig(cfg FlightConfig) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.flight.cfg = cfg
	}
}

// WithOrbitTarget sets the initial orbit look-at point.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - ControllerOption: functional option to set the orbit target
func WithOrbitTarget(x, y, z float32) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.orbit.target = [3]float32{x, y, z}
	}
}

// WithOrbitRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - ControllerOption: functional option to set the radius
func WithOrbitRadius(radius float32) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.orbit.radius = radius
	}
}

// WithOrbitRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: minimum dolly distance
//   - max: maximum dolly distance
//
// Returns:
//   - ControllerOption: functional option to set radius bounds
func WithOrbitRadiusBounds(min, max float32) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.orbit.minRadius = min
		c.orbit.maxRadius = max
	}
}

// WithOrbitAngles sets the initial azimuth and polar angles.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//   - polar: vertical angle from the +Y axis in radians, clamped to the pole guard
//
// Returns:
//   - ControllerOption: functional option to set the orbit angles
func WithOrbitAngles(azimuth, polar float32) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.orbit.azimuth = azimuth
		c.orbit.polar = clampPolar(polar)
	}
}

// WithOrbitSpeeds sets the orbit driver's rotation, dolly, and pan rates.
//
// Parameters:
//   - rotation: orbit rate in radians per second at full stick
//   - dolly: fractional radius change per second at full stick
//   - pan: target translation in world units per second at full stick
//
// Returns:
//   - ControllerOption: functional option to set the orbit speeds
func WithOrbitSpeeds(rotation, dolly, pan float32) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.orbit.rotationSpeed = rotation
		c.orbit.dollySpeed = dolly
		c.orbit.panSpeed = pan
	}
}

// WithDeadzone sets the axis magnitude below which continuous input is
// snapped to exactly 0 before use.
//
// Parameters:
//   - threshold: deadzone magnitude in [0, 1)
//
// Returns:
//   - ControllerOption: functional option to set the deadzone
func WithDeadzone(threshold float32) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.deadzone = threshold
	}
}

// WithClock replaces the controller's clock. Intended for deterministic tests
// of idle detection and transition timing.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - ControllerOption: functional option to set the clock
func WithClock(now func() time.Time) ControllerOption {
	return func(c *navigationControllerImpl) {
		c.now = now
	}
}

// clampPolar constrains a polar angle into the pole-guard range.
func clampPolar(polar float32) float32 {
	if polar < minPolar {
		return minPolar
	}
	if polar > maxPolar {
		return maxPolar
	}
	return polar
}
