package input

import "github.com/Carmen-Shannon/orrery-go/common"

// Aggregator normalizes heterogeneous device input into a fixed-shape sample
// once per tick. Keyboard and pointer state is event-fed from the host window
// layer through the On* callbacks; a gamepad, when enabled and present, is
// polled at sample time and merged with the keyboard axes (largest magnitude
// wins per axis). Event-fed state accumulated between samples (pointer drag,
// scroll, host activity) is consumed by Sample.
// Thread-safe: window callbacks and the tick loop may run on different
// goroutines.
type Aggregator interface {
	// Sample produces the tick's normalized input and consumes accumulated
	// pointer/scroll deltas. Axes below the deadzone are exactly 0.
	//
	// Returns:
	//   - common.NormalizedInput: the merged, deadzone-filtered sample
	Sample() common.NormalizedInput

	// OnKeyDown records a key press. Wire to the host window's key-down callback.
	//
	// Parameters:
	//   - keyCode: the virtual key code (GLFW convention)
	OnKeyDown(keyCode uint32)

	// OnKeyUp records a key release. Wire to the host window's key-up callback.
	//
	// Parameters:
	//   - keyCode: the virtual key code (GLFW convention)
	OnKeyUp(keyCode uint32)

	// OnMouseDown starts a pointer drag. Wire to the host window's mouse-down callback.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	OnMouseDown(x, y int32)

	// OnMouseUp ends a pointer drag. Wire to the host window's mouse-up callback.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	OnMouseUp(x, y int32)

	// OnMouseMove accumulates look deltas while a drag is active. Wire to the
	// host window's mouse-move callback.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	OnMouseMove(x, y int32)

	// OnScroll accumulates a zoom/dolly impulse. Wire to the host window's
	// scroll callback.
	//
	// Parameters:
	//   - delta: scroll delta (positive = zoom in)
	OnScroll(delta float32)
}
