package input

import "github.com/go-gl/glfw/v3.3/glfw"

// Gamepad trigger resting position is -1; rescale to [0, 1] before use.
func triggerValue(raw float32) float32 {
	return (raw + 1) * 0.5
}

// pollGLFWGamepad reads the given joystick's gamepad mapping and converts it
// to the aggregator's sample shape. Returns ok == false when the joystick is
// absent or carries no gamepad mapping. Requires the host to have initialized
// GLFW; polling must happen on the main thread per GLFW's threading rules,
// which holds because Sample runs inside the host's tick callback.
func pollGLFWGamepad(js glfw.Joystick) (gamepadSample, bool) {
	if !js.Present() || !js.IsGamepad() {
		return gamepadSample{}, false
	}
	state := js.GetGamepadState()
	if state == nil {
		return gamepadSample{}, false
	}

	// Left stick moves, right stick looks. GLFW reports stick Y as positive
	// when pulled down, so both vertical axes are inverted.
	pad := gamepadSample{
		moveRight:      state.Axes[glfw.AxisLeftX],
		moveForward:    -state.Axes[glfw.AxisLeftY],
		lookHorizontal: state.Axes[glfw.AxisRightX],
		lookVertical:   -state.Axes[glfw.AxisRightY],
		moveUp:         triggerValue(state.Axes[glfw.AxisRightTrigger]) - triggerValue(state.Axes[glfw.AxisLeftTrigger]),
		toggleMode:     state.Buttons[glfw.ButtonY] == glfw.Press,
		nextPosition:   state.Buttons[glfw.ButtonA] == glfw.Press,
	}

	if state.Buttons[glfw.ButtonRightBumper] == glfw.Press {
		pad.roll += 1
	}
	if state.Buttons[glfw.ButtonLeftBumper] == glfw.Press {
		pad.roll -= 1
	}

	return pad, true
}
