package navigation

import (
	"math"

	"github.com/Carmen-Shannon/orrery-go/common"
)

// flightTargetDistance is how far ahead of the camera the synthetic look-at
// target is placed in flight mode.
const flightTargetDistance = 100.0

// Pitch clamp keeping the forward vector away from world up; past ±π/2 the
// integrated orientation would flip.
const maxPitch = float32(math.Pi/2) - 0.01

// FlightConfig holds the tuning parameters for the free-flight integrator.
type FlightConfig struct {
	// MaxSpeed is the velocity magnitude cap in world units per second.
	MaxSpeed float32
	// Acceleration is the thrust applied per unit of input in world units per second squared.
	Acceleration float32
	// Deceleration is the per-frame exponential velocity damping factor in (0, 1).
	Deceleration float32
	// RotationSpeed is the look rate in radians per second at full stick.
	RotationSpeed float32
	// Deadzone is the axis magnitude below which input is treated as zero.
	Deadzone float32
}

// defaultFlightConfig returns the engine's flight tuning defaults.
func defaultFlightConfig() FlightConfig {
	return FlightConfig{
		MaxSpeed:      200.0,
		Acceleration:  150.0,
		Deceleration:  0.92,
		RotationSpeed: 1.5,
		Deadzone:      0.1,
	}
}

// flightIntegrator converts normalized input into camera velocity and
// orientation changes. Orientation is tracked as yaw/pitch/roll Euler angles;
// the synthetic look-at target is placed a fixed distance along the forward
// vector. Mutated only by the controller, once per frame while in flight mode
// and not transitioning.
type flightIntegrator struct {
	position [3]float32
	velocity [3]float32

	yaw   float32
	pitch float32
	roll  float32

	cfg FlightConfig
}

// newFlightIntegrator creates a flight integrator with default tuning.
func newFlightIntegrator() *flightIntegrator {
	return &flightIntegrator{cfg: defaultFlightConfig()}
}

// integrate advances velocity, orientation, and position by one frame and
// returns the resulting pose. autoYaw is the idle auto-rotate bias in radians
// per second, summed into the yaw rate only when the live yaw input is zero so
// manual input always takes precedence. The returned pose is not guaranteed
// finite; the controller validates it before publication.
func (f *flightIntegrator) integrate(in common.NormalizedInput, dt, autoYaw float32) common.CameraPose {
	moveForward := deadzone(in.MoveForward, f.cfg.Deadzone)
	moveRight := deadzone(in.MoveRight, f.cfg.Deadzone)
	moveUp := deadzone(in.MoveUp, f.cfg.Deadzone)
	lookH := deadzone(in.LookHorizontal, f.cfg.Deadzone)
	lookV := deadzone(in.LookVertical, f.cfg.Deadzone)
	rollIn := deadzone(in.Roll, f.cfg.Deadzone)

	yawRate := -lookH * f.cfg.RotationSpeed
	if lookH == 0 {
		yawRate += autoYaw
	}
	f.yaw += yawRate * dt
	f.pitch = common.Clamp(f.pitch+lookV*f.cfg.RotationSpeed*dt, -maxPitch, maxPitch)
	f.roll += rollIn * f.cfg.RotationSpeed * dt

	forward := f.forward()
	right := common.Normalize3(common.Cross3([3]float32{0, 1, 0}, forward))

	thrust := common.Add3(
		common.Add3(common.Scale3(forward, moveForward), common.Scale3(right, moveRight)),
		[3]float32{0, moveUp, 0},
	)
	f.velocity = common.Add3(f.velocity, common.Scale3(thrust, f.cfg.Acceleration*dt))
	f.velocity = common.Scale3(f.velocity, f.cfg.Deceleration)
	if speed := common.Length3(f.velocity); speed > f.cfg.MaxSpeed {
		f.velocity = common.Scale3(f.velocity, f.cfg.MaxSpeed/speed)
	}

	f.position = common.Add3(f.position, common.Scale3(f.velocity, dt))

	return f.pose()
}

// pose returns the current flight pose with the synthetic forward target.
func (f *flightIntegrator) pose() common.CameraPose {
	return common.CameraPose{
		Position: f.position,
		Target:   common.Add3(f.position, common.Scale3(f.forward(), flightTargetDistance)),
	}
}

// forward returns the unit forward vector derived from yaw and pitch.
func (f *flightIntegrator) forward() [3]float32 {
	cosPitch := float32(math.Cos(float64(f.pitch)))
	return [3]float32{
		cosPitch * float32(math.Sin(float64(f.yaw))),
		float32(math.Sin(float64(f.pitch))),
		cosPitch * float32(math.Cos(float64(f.yaw))),
	}
}

// adopt re-seats the integrator on an externally produced pose, deriving yaw
// and pitch from the pose's view direction. Momentum is discarded.
func (f *flightIntegrator) adopt(p common.CameraPose) {
	f.position = p.Position
	f.resetMomentum()

	dir := common.Normalize3(common.Sub3(p.Target, p.Position))
	if common.Length3(dir) < 1e-6 {
		return
	}
	f.yaw = float32(math.Atan2(float64(dir[0]), float64(dir[2])))
	f.pitch = common.Clamp(float32(math.Asin(float64(dir[1]))), -maxPitch, maxPitch)
	f.roll = 0
}

// resetMomentum zeroes velocity so no motion carries across mode switches.
func (f *flightIntegrator) resetMomentum() {
	f.velocity = [3]float32{}
}

// deadzone snaps an axis to exactly 0 when its magnitude is below the threshold.
func deadzone(v, threshold float32) float32 {
	if v < threshold && v > -threshold {
		return 0
	}
	return v
}
