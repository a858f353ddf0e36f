package input

import (
	"sync"

	"github.com/Carmen-Shannon/orrery-go/common"
)

// aggregatorImpl is the single implementation of Aggregator.
type aggregatorImpl struct {
	mu *sync.Mutex

	keyState map[uint32]bool

	dragging     bool
	lastX, lastY int32

	// Accumulated between samples, consumed by Sample.
	dragLookH    float32
	dragLookV    float32
	scrollImpulse float32
	hostActivity bool

	deadzone          float32
	mouseSensitivity  float32
	scrollSensitivity float32

	// pollGamepad reads the merged gamepad contribution at sample time.
	// nil when gamepad support is disabled.
	pollGamepad func() (gamepadSample, bool)
}

// Compile-time interface compliance check
var _ Aggregator = &aggregatorImpl{}

// NewAggregator creates an input aggregator with sensible defaults: 0.1
// deadzone, mouse and scroll sensitivity tuned for pixel deltas, gamepad
// polling disabled. Enable gamepad merging with WithGamepad once the host has
// initialized GLFW.
//
// Parameters:
//   - options: functional options to configure the aggregator
//
// Returns:
//   - Aggregator: the newly created aggregator
func NewAggregator(options ...AggregatorOption) Aggregator {
	a := &aggregatorImpl{
		mu:                &sync.Mutex{},
		keyState:          make(map[uint32]bool),
		deadzone:          0.1,
		mouseSensitivity:  0.005,
		scrollSensitivity: 0.25,
	}

	for _, option := range options {
		option(a)
	}

	return a
}

func (a *aggregatorImpl) Sample() common.NormalizedInput {
	a.mu.Lock()

	in := a.keyboardSample()

	// Pointer drag deltas fold into the look axes; scroll folds into the
	// forward axis as a dolly impulse.
	in.LookHorizontal = clampAxis(in.LookHorizontal + a.dragLookH)
	in.LookVertical = clampAxis(in.LookVertical + a.dragLookV)
	in.MoveForward = clampAxis(in.MoveForward + a.scrollImpulse)
	in.HostActivity = a.hostActivity

	a.dragLookH = 0
	a.dragLookV = 0
	a.scrollImpulse = 0
	a.hostActivity = false

	poll := a.pollGamepad
	a.mu.Unlock()

	if poll != nil {
		if pad, ok := poll(); ok {
			in = mergeGamepad(in, pad)
		}
	}

	in.MoveForward = snap(in.MoveForward, a.deadzone)
	in.MoveRight = snap(in.MoveRight, a.deadzone)
	in.MoveUp = snap(in.MoveUp, a.deadzone)
	in.LookHorizontal = snap(in.LookHorizontal, a.deadzone)
	in.LookVertical = snap(in.LookVertical, a.deadzone)
	in.Roll = snap(in.Roll, a.deadzone)

	return in
}

func (a *aggregatorImpl) OnKeyDown(keyCode uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keyState[keyCode] = true
	a.hostActivity = true
}

func (a *aggregatorImpl) OnKeyUp(keyCode uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keyState[keyCode] = false
	a.hostActivity = true
}

func (a *aggregatorImpl) OnMouseDown(x, y int32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dragging = true
	a.lastX, a.lastY = x, y
	a.hostActivity = true
}

func (a *aggregatorImpl) OnMouseUp(_, _ int32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dragging = false
	a.hostActivity = true
}

func (a *aggregatorImpl) OnMouseMove(x, y int32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.dragging {
		return
	}
	a.dragLookH += float32(x-a.lastX) * a.mouseSensitivity
	a.dragLookV += float32(y-a.lastY) * a.mouseSensitivity
	a.lastX, a.lastY = x, y
	a.hostActivity = true
}

func (a *aggregatorImpl) OnScroll(delta float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scrollImpulse += delta * a.scrollSensitivity
	a.hostActivity = true
}

// --- internal helpers ---

// keyboardSample builds the keyboard contribution from the current key state.
// Caller must hold the mutex.
func (a *aggregatorImpl) keyboardSample() common.NormalizedInput {
	var in common.NormalizedInput

	in.MoveForward = axisFromKeys(a.keyState, common.KeyW, common.KeyS)
	in.MoveRight = axisFromKeys(a.keyState, common.KeyD, common.KeyA)
	in.MoveUp = axisFromKeys(a.keyState, common.KeyR, common.KeyF)
	in.LookHorizontal = axisFromKeys(a.keyState, common.KeyRight, common.KeyLeft)
	in.LookVertical = axisFromKeys(a.keyState, common.KeyUp, common.KeyDown)
	in.Roll = axisFromKeys(a.keyState, common.KeyE, common.KeyQ)

	in.ToggleMode = a.keyState[common.KeyTab]
	in.NextPosition = a.keyState[common.KeyN] || a.keyState[common.KeySpace]

	return in
}

// axisFromKeys maps an opposing key pair onto a [-1, 1] axis.
func axisFromKeys(state map[uint32]bool, positive, negative uint32) float32 {
	var v float32
	if state[positive] {
		v += 1
	}
	if state[negative] {
		v -= 1
	}
	return v
}

// gamepadSample is the polled gamepad contribution before merging.
type gamepadSample struct {
	moveForward, moveRight, moveUp float32
	lookHorizontal, lookVertical   float32
	roll                           float32
	toggleMode, nextPosition       bool
}

// mergeGamepad merges the gamepad contribution into the event-fed sample.
// Per axis the larger magnitude wins; triggers are OR'd.
func mergeGamepad(in common.NormalizedInput, pad gamepadSample) common.NormalizedInput {
	in.MoveForward = dominantAxis(in.MoveForward, pad.moveForward)
	in.MoveRight = dominantAxis(in.MoveRight, pad.moveRight)
	in.MoveUp = dominantAxis(in.MoveUp, pad.moveUp)
	in.LookHorizontal = dominantAxis(in.LookHorizontal, pad.lookHorizontal)
	in.LookVertical = dominantAxis(in.LookVertical, pad.lookVertical)
	in.Roll = dominantAxis(in.Roll, pad.roll)
	in.ToggleMode = in.ToggleMode || pad.toggleMode
	in.NextPosition = in.NextPosition || pad.nextPosition
	return in
}

// dominantAxis picks whichever contribution has the larger magnitude.
func dominantAxis(a, b float32) float32 {
	if b*b > a*a {
		return b
	}
	return a
}

// snap zeroes an axis whose magnitude is below the deadzone and clamps the
// rest into [-1, 1].
func snap(v, deadzone float32) float32 {
	if v < deadzone && v > -deadzone {
		return 0
	}
	return clampAxis(v)
}

// clampAxis constrains an axis into the nominal [-1, 1] range.
func clampAxis(v float32) float32 {
	return common.Clamp(v, -1, 1)
}
