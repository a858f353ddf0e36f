package input

import "github.com/go-gl/glfw/v3.3/glfw"

// AggregatorOption is a functional option for configuring an Aggregator.
type AggregatorOption func(*aggregatorImpl)

// WithDeadzone sets the axis magnitude below which input is snapped to
// exactly 0 at sample time.
//
// Parameters:
//   - threshold: deadzone magnitude in [0, 1)
//
// Returns:
//   - AggregatorOption: functional option to set the deadzone
func WithDeadzone(threshold float32) AggregatorOption {
	return func(a *aggregatorImpl) {
		a.deadzone = threshold
	}
}

// WithMouseSensitivity sets the multiplier applied to pointer drag deltas.
//
// Parameters:
//   - sensitivity: multiplier per pixel of drag
//
// Returns:
//   - AggregatorOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) AggregatorOption {
	return func(a *aggregatorImpl) {
		a.mouseSensitivity = sensitivity
	}
}

// WithScrollSensitivity sets the multiplier applied to scroll deltas.
//
// Parameters:
//   - sensitivity: multiplier per scroll step
//
// Returns:
//   - AggregatorOption: functional option to set scroll sensitivity
func WithScrollSensitivity(sensitivity float32) AggregatorOption {
	return func(a *aggregatorImpl) {
		a.scrollSensitivity = sensitivity
	}
}

// WithGamepad enables polling of the given GLFW joystick at sample time.
// The host must have initialized GLFW before the first Sample call.
//
// Parameters:
//   - js: the joystick slot to poll (typically glfw.Joystick1)
//
// Returns:
//   - AggregatorOption: functional option to enable gamepad merging
func WithGamepad(js glfw.Joystick) AggregatorOption {
	return func(a *aggregatorImpl) {
		a.pollGamepad = func() (gamepadSample, bool) {
			return pollGLFWGamepad(js)
		}
	}
}
