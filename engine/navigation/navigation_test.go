package navigation

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock for deterministic timing tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time {
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

const frameDt = float32(1.0 / 60.0)

func TestToggleModeFlipsOncePerRisingEdge(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now))

	require.Equal(t, ModeOrbit, c.Mode())

	held := common.NormalizedInput{ToggleMode: true}
	for i := 0; i < 3; i++ {
		c.Update(held, frameDt)
		clock.advance(16 * time.Millisecond)
	}
	assert.Equal(t, ModeFlight, c.Mode(), "held trigger must flip exactly once")

	c.Update(common.NormalizedInput{}, frameDt)
	c.Update(held, frameDt)
	assert.Equal(t, ModeOrbit, c.Mode(), "released then pressed flips again")
}

func TestToggleModeBlockedWhileTransitioning(t *testing.T) {
	clock := newFakeClock()
	c := NewController(
		WithClock(clock.now),
		WithPresets(Preset{Name: "a", Position: [3]float32{100, 0, 0}}),
	)

	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	require.True(t, c.Transitioning())

	clock.advance(100 * time.Millisecond)
	c.Update(common.NormalizedInput{ToggleMode: true}, frameDt)
	assert.Equal(t, ModeOrbit, c.Mode(), "toggle must be ignored mid-transition")

	c.SetMode(ModeFlight)
	assert.Equal(t, ModeOrbit, c.Mode(), "SetMode must be ignored mid-transition")
}

func TestOrbitPolarClampedUnderCumulativeInput(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now)).(*navigationControllerImpl)

	up := common.NormalizedInput{LookVertical: 1}
	for i := 0; i < 600; i++ {
		c.Update(up, frameDt)
	}
	assert.InDelta(t, minPolar, c.orbit.polar, 1e-6)

	down := common.NormalizedInput{LookVertical: -1}
	for i := 0; i < 600; i++ {
		c.Update(down, frameDt)
	}
	assert.InDelta(t, maxPolar, c.orbit.polar, 1e-6)
}

func TestOrbitDeadzoneZeroesSubThresholdLook(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now), WithDeadzone(0.1)).(*navigationControllerImpl)

	before := c.orbit.azimuth
	c.Update(common.NormalizedInput{LookHorizontal: 0.05}, frameDt)
	assert.Equal(t, before, c.orbit.azimuth, "sub-deadzone look must leave azimuth unchanged")
}

func TestTransitionLinearMidpoint(t *testing.T) {
	clock := newFakeClock()
	c := NewController(
		WithClock(clock.now),
		WithOrbitTarget(0, 0, 0),
		WithOrbitRadius(500),
		WithOrbitAngles(0, math.Pi/2),
		WithTransitionDuration(2*time.Second),
		WithPresets(Preset{
			Name:     "overview",
			Position: [3]float32{100, 50, 300},
			Target:   [3]float32{10, 0, 0},
		}),
	)

	start := c.Pose()
	require.InDelta(t, 0, start.Position[0], 1e-3)
	require.InDelta(t, 0, start.Position[1], 1e-2)
	require.InDelta(t, 500, start.Position[2], 1e-3)

	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	require.True(t, c.Transitioning())

	clock.advance(time.Second)
	mid := c.Update(common.NormalizedInput{}, frameDt)
	assert.InDelta(t, 50, mid.Position[0], 1e-2)
	assert.InDelta(t, 25, mid.Position[1], 1e-2)
	assert.InDelta(t, 400, mid.Position[2], 1e-2)
	assert.InDelta(t, 5, mid.Target[0], 1e-2)
	assert.InDelta(t, 0, mid.Target[1], 1e-2)
	assert.InDelta(t, 0, mid.Target[2], 1e-2)

	clock.advance(time.Second)
	end := c.Update(common.NormalizedInput{}, frameDt)
	assert.False(t, c.Transitioning())
	assert.Equal(t, [3]float32{100, 50, 300}, end.Position)
	assert.Equal(t, [3]float32{10, 0, 0}, end.Target)
	assert.Equal(t, ModeOrbit, c.Mode(), "transition completion must not change mode")
}

func TestTransitionProgressMonotonic(t *testing.T) {
	tp := &transitionPlanner{}
	start := common.CameraPose{Position: [3]float32{0, 0, 0}}
	end := common.CameraPose{Position: [3]float32{10, 0, 0}}
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tp.activate(start, end, 2*time.Second, t0)

	p1, done := tp.tick(t0.Add(time.Second))
	require.False(t, done)

	// Clock jitters backwards: progress must not regress.
	p2, done := tp.tick(t0.Add(900 * time.Millisecond))
	require.False(t, done)
	assert.Equal(t, p1.Position, p2.Position)

	p3, done := tp.tick(t0.Add(3 * time.Second))
	assert.True(t, done)
	assert.Equal(t, end.Position, p3.Position, "pose must equal end exactly once elapsed >= duration")
	assert.False(t, tp.active)
}

func TestAutoRotateEngagesAfterIdleTimeout(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now), WithIdleTimeout(5*time.Second))

	c.Update(common.NormalizedInput{}, frameDt)
	assert.False(t, c.AutoRotateActive())

	clock.advance(4999 * time.Millisecond)
	c.Update(common.NormalizedInput{}, frameDt)
	assert.False(t, c.AutoRotateActive(), "must not engage before the timeout")

	clock.advance(time.Millisecond)
	c.Update(common.NormalizedInput{}, frameDt)
	assert.True(t, c.AutoRotateActive())

	// The very next qualifying input clears it.
	c.Update(common.NormalizedInput{LookHorizontal: 0.5}, frameDt)
	assert.False(t, c.AutoRotateActive())
}

func TestAutoRotateSubDeadzoneInputDoesNotQualify(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now), WithIdleTimeout(5*time.Second), WithDeadzone(0.1))

	c.Update(common.NormalizedInput{}, frameDt)
	clock.advance(6 * time.Second)
	c.Update(common.NormalizedInput{LookHorizontal: 0.05}, frameDt)
	assert.True(t, c.AutoRotateActive(), "noise inside the deadzone is not qualifying input")

	c.Update(common.NormalizedInput{HostActivity: true}, frameDt)
	assert.False(t, c.AutoRotateActive(), "host-level events qualify even with zero axes")
}

func TestAutoRotateYawsOrbitWhileIdle(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now), WithIdleTimeout(time.Second)).(*navigationControllerImpl)

	c.Update(common.NormalizedInput{}, frameDt)
	clock.advance(2 * time.Second)
	before := c.orbit.azimuth
	c.Update(common.NormalizedInput{}, frameDt)
	c.Update(common.NormalizedInput{}, frameDt)
	assert.Greater(t, c.orbit.azimuth, before)
}

func TestFlightManualYawTakesPrecedenceOverAutoRotate(t *testing.T) {
	f := newFlightIntegrator()

	f.integrate(common.NormalizedInput{}, 1.0, 0.5)
	assert.InDelta(t, 0.5, f.yaw, 1e-6, "auto-rotate bias applies when yaw input is zero")

	f2 := newFlightIntegrator()
	f2.integrate(common.NormalizedInput{LookHorizontal: 1}, 1.0, 0.5)
	assert.InDelta(t, -f2.cfg.RotationSpeed, f2.yaw, 1e-6, "live yaw input suppresses the bias")
}

func TestFlightVelocityClampedToMaxSpeed(t *testing.T) {
	f := newFlightIntegrator()
	thrust := common.NormalizedInput{MoveForward: 1}
	for i := 0; i < 1000; i++ {
		f.integrate(thrust, frameDt, 0)
	}
	assert.LessOrEqual(t, common.Length3(f.velocity), f.cfg.MaxSpeed+1e-3)
}

func TestFlightMomentumResetOnOrbitEntry(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now), WithMode(ModeFlight)).(*navigationControllerImpl)

	for i := 0; i < 10; i++ {
		c.Update(common.NormalizedInput{MoveForward: 1}, frameDt)
	}
	require.NotEqual(t, [3]float32{}, c.flight.velocity)

	c.Update(common.NormalizedInput{ToggleMode: true}, frameDt)
	require.Equal(t, ModeOrbit, c.Mode())
	assert.Equal(t, [3]float32{}, c.flight.velocity, "no momentum may carry into orbit mode")
}

func TestNonFinitePoseDiscarded(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now), WithMode(ModeFlight))

	stable := c.Update(common.NormalizedInput{}, frameDt)

	nan := float32(math.NaN())
	after := c.Update(common.NormalizedInput{MoveForward: nan}, frameDt)
	assert.Equal(t, stable, after, "a frame producing NaN must keep the previous pose")
	assert.True(t, common.Finite3(after.Position))
}

func TestNextPositionWithoutPresetsIsNoop(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now))

	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	assert.False(t, c.Transitioning())
}

func TestNextPositionGraceAfterCompletedTransition(t *testing.T) {
	clock := newFakeClock()
	c := NewController(
		WithClock(clock.now),
		WithTransitionDuration(time.Second),
		WithTriggerGrace(250*time.Millisecond),
		WithPresets(
			Preset{Name: "a", Position: [3]float32{100, 0, 0}},
			Preset{Name: "b", Position: [3]float32{0, 100, 0}},
		),
	)

	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	require.True(t, c.Transitioning())

	clock.advance(1100 * time.Millisecond)
	c.Update(common.NormalizedInput{NextPosition: false}, frameDt)
	require.False(t, c.Transitioning())

	// A fresh edge inside the grace window must not chain another transition.
	clock.advance(100 * time.Millisecond)
	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	assert.False(t, c.Transitioning())

	c.Update(common.NormalizedInput{NextPosition: false}, frameDt)
	clock.advance(500 * time.Millisecond)
	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	assert.True(t, c.Transitioning(), "edges after the grace window start the next transition")
}

func TestNextPositionGuardedWhileTransitioning(t *testing.T) {
	clock := newFakeClock()
	c := NewController(
		WithClock(clock.now),
		WithTransitionDuration(2*time.Second),
		WithPresets(
			Preset{Name: "a", Position: [3]float32{100, 0, 0}},
			Preset{Name: "b", Position: [3]float32{0, 100, 0}},
		),
	).(*navigationControllerImpl)

	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	require.True(t, c.Transitioning())
	end := c.transition.end

	clock.advance(500 * time.Millisecond)
	c.Update(common.NormalizedInput{NextPosition: false}, frameDt)
	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	assert.Equal(t, end, c.transition.end, "a running transition cannot be interrupted")
}

func TestPresetsCycle(t *testing.T) {
	clock := newFakeClock()
	c := NewController(
		WithClock(clock.now),
		WithTransitionDuration(100*time.Millisecond),
		WithTriggerGrace(0),
		WithPresets(
			Preset{Name: "a", Position: [3]float32{100, 0, 0}},
			Preset{Name: "b", Position: [3]float32{0, 100, 0}},
		),
	).(*navigationControllerImpl)

	var visited [][3]float32
	for i := 0; i < 3; i++ {
		clock.advance(time.Millisecond)
		c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
		visited = append(visited, c.transition.end.Position)
		clock.advance(200 * time.Millisecond)
		c.Update(common.NormalizedInput{}, frameDt)
		require.False(t, c.Transitioning())
	}

	assert.Equal(t, [3]float32{100, 0, 0}, visited[0])
	assert.Equal(t, [3]float32{0, 100, 0}, visited[1])
	assert.Equal(t, [3]float32{100, 0, 0}, visited[2], "preset list must cycle")
}

func TestObserverNotifiedOnStateChange(t *testing.T) {
	clock := newFakeClock()
	c := NewController(WithClock(clock.now), WithIdleTimeout(time.Second))

	var states []State
	c.Subscribe(func(s State) {
		states = append(states, s)
	})

	c.Update(common.NormalizedInput{ToggleMode: true}, frameDt)
	require.Len(t, states, 1)
	assert.Equal(t, ModeFlight, states[0].Mode)

	clock.advance(2 * time.Second)
	c.Update(common.NormalizedInput{}, frameDt)
	require.Len(t, states, 2)
	assert.True(t, states[1].AutoRotateActive)
}

func TestFlightStartPoseSynthesizesForwardTarget(t *testing.T) {
	clock := newFakeClock()
	c := NewController(
		WithClock(clock.now),
		WithMode(ModeFlight),
		WithPresets(Preset{Name: "a", Position: [3]float32{0, 0, -500}}),
	).(*navigationControllerImpl)

	c.Update(common.NormalizedInput{}, frameDt)
	pose := c.Pose()
	dist := common.Length3(common.Sub3(pose.Target, pose.Position))
	assert.InDelta(t, flightTargetDistance, dist, 1e-2)

	c.Update(common.NormalizedInput{NextPosition: true}, frameDt)
	require.True(t, c.Transitioning())
	startDist := common.Length3(common.Sub3(c.transition.start.Target, c.transition.start.Position))
	assert.InDelta(t, flightTargetDistance, startDist, 1e-2)
}
