package navigation

import (
	"math"

	"github.com/Carmen-Shannon/orrery-go/common"
)

// Polar clamp keeping the camera off the poles; at either pole the view
// direction becomes parallel to world up and the orbit frame degenerates.
const (
	minPolar = 0.1
	maxPolar = float32(math.Pi) - 0.1
)

// orbitDriver maintains spherical coordinates (azimuth, polar, radius) around
// a look-at target and reconstructs the camera position from them each frame.
// The polar angle is measured from the +Y axis, so polar = π/2 places the
// camera level with the target.
type orbitDriver struct {
	azimuth float32
	polar   float32
	radius  float32
	target  [3]float32

	minRadius float32
	maxRadius float32

	// rotationSpeed is the orbit rate in radians per second at full stick.
	rotationSpeed float32
	// dollySpeed is the fractional radius change per second at full stick.
	dollySpeed float32
	// panSpeed is the target translation in world units per second at full stick.
	panSpeed float32
}

// newOrbitDriver creates an orbit driver with the engine's defaults.
func newOrbitDriver() *orbitDriver {
	return &orbitDriver{
		azimuth:       0.0,
		polar:         float32(math.Pi / 3),
		radius:        250.0,
		minRadius:     20.0,
		maxRadius:     2000.0,
		rotationSpeed: 1.2,
		dollySpeed:    1.5,
		panSpeed:      60.0,
	}
}

// apply advances the spherical parameters and target by one frame of input and
// returns the reconstructed pose. autoYaw is the idle auto-rotate angular
// speed in radians per second; it is applied unconditionally while active,
// matching library-level auto-rotation, because the controller only engages
// it when no qualifying input is present.
func (o *orbitDriver) apply(in common.NormalizedInput, dt, autoYaw float32) common.CameraPose {
	o.azimuth += -in.LookHorizontal * o.rotationSpeed * dt
	o.azimuth += autoYaw * dt

	o.polar += -in.LookVertical * o.rotationSpeed * dt
	o.polar = common.Clamp(o.polar, minPolar, maxPolar)

	// Multiplicative dolly: forward input shrinks the radius, backward grows it.
	o.radius *= 1.0 - in.MoveForward*o.dollySpeed*dt
	o.radius = common.Clamp(o.radius, o.minRadius, o.maxRadius)

	if in.MoveRight != 0 || in.MoveUp != 0 {
		rx, _, rz := o.rightAxis()
		offset := o.panSpeed * dt
		o.target[0] += rx * -in.MoveRight * offset
		o.target[2] += rz * -in.MoveRight * offset
		o.target[1] += in.MoveUp * offset
	}

	return o.pose()
}

// pose reconstructs the camera pose from the current spherical parameters.
func (o *orbitDriver) pose() common.CameraPose {
	sinPolar := float32(math.Sin(float64(o.polar)))
	cosPolar := float32(math.Cos(float64(o.polar)))
	sinAzim := float32(math.Sin(float64(o.azimuth)))
	cosAzim := float32(math.Cos(float64(o.azimuth)))

	return common.CameraPose{
		Position: [3]float32{
			o.target[0] + o.radius*sinPolar*sinAzim,
			o.target[1] + o.radius*cosPolar,
			o.target[2] + o.radius*sinPolar*cosAzim,
		},
		Target: o.target,
	}
}

// rightAxis returns the camera's current right vector. With world up fixed at
// (0, 1, 0) the right vector always lies in the XZ plane.
func (o *orbitDriver) rightAxis() (rx, ry, rz float32) {
	// backward = normalize(position - target); right = normalize(cross(worldUp, backward))
	p := o.pose()
	bx := p.Position[0] - o.target[0]
	bz := p.Position[2] - o.target[2]
	rx = bz
	rz = -bx
	rLen := float32(math.Sqrt(float64(rx*rx + rz*rz)))
	if rLen < 1e-8 {
		return 0, 0, 0
	}
	return rx / rLen, 0, rz / rLen
}

// adopt re-seats the spherical parameters on an externally produced pose so
// orbit control resumes from it without a visible jump. Called when a
// transition completes in orbit mode and when toggling out of flight mode.
func (o *orbitDriver) adopt(p common.CameraPose) {
	o.target = p.Target
	offset := common.Sub3(p.Position, p.Target)
	r := common.Length3(offset)
	if r < 1e-6 {
		// Degenerate pose: keep angles, back the camera off to minimum radius.
		o.radius = o.minRadius
		return
	}
	o.radius = common.Clamp(r, o.minRadius, o.maxRadius)
	o.polar = common.Clamp(float32(math.Acos(float64(offset[1]/r))), minPolar, maxPolar)
	o.azimuth = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
}
