package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/orrery-go/common"
	"github.com/Carmen-Shannon/orrery-go/engine/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraSeedsPoseFromController(t *testing.T) {
	ctrl := navigation.NewController(
		navigation.WithOrbitRadius(500),
		navigation.WithOrbitAngles(0, math.Pi/2),
	)
	cam := NewCamera(WithController(ctrl))

	assert.Equal(t, ctrl.Pose(), cam.Pose())
}

func TestCameraUpdatePullsControllerPose(t *testing.T) {
	ctrl := navigation.NewController()
	cam := NewCamera(WithController(ctrl))

	before := cam.Pose()
	ctrl.Update(common.NormalizedInput{LookHorizontal: 1}, 0.5)
	cam.Update()

	assert.NotEqual(t, before, cam.Pose())
	assert.Equal(t, ctrl.Pose(), cam.Pose())
}

func TestCameraUpdateWithoutControllerIsNoop(t *testing.T) {
	cam := NewCamera()
	before := cam.ViewMatrix()
	cam.Update()
	assert.Equal(t, before, cam.ViewMatrix())
}

func TestAspectChangeRecomputesProjection(t *testing.T) {
	cam := NewCamera(WithAspect(1.0))
	p1 := cam.ProjectionMatrix()

	cam.SetAspect(2.0)
	p2 := cam.ProjectionMatrix()

	assert.InDelta(t, p1[0]/2, p2[0], 1e-5, "horizontal scale halves when aspect doubles")
	assert.Equal(t, p1[5], p2[5], "vertical scale is aspect-independent")
}

func TestRotationQuaternionIdentityForCanonicalPose(t *testing.T) {
	pose := common.CameraPose{
		Position: [3]float32{0, 0, 0},
		Target:   [3]float32{0, 0, -1},
	}
	q := quaternionFromPose(pose, [3]float32{0, 1, 0})

	assert.InDelta(t, 0, q[0], 1e-5)
	assert.InDelta(t, 0, q[1], 1e-5)
	assert.InDelta(t, 0, q[2], 1e-5)
	assert.InDelta(t, 1, q[3], 1e-5)
}

func TestRotationQuaternionIsUnitLength(t *testing.T) {
	pose := common.CameraPose{
		Position: [3]float32{120, 45, -80},
		Target:   [3]float32{-10, 5, 30},
	}
	q := quaternionFromPose(pose, [3]float32{0, 1, 0})

	norm := math.Sqrt(float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]))
	assert.InDelta(t, 1, norm, 1e-5)
}

func TestRotationQuaternionDegeneratePoseFallsBackToIdentity(t *testing.T) {
	pose := common.CameraPose{
		Position: [3]float32{5, 5, 5},
		Target:   [3]float32{5, 5, 5},
	}
	q := quaternionFromPose(pose, [3]float32{0, 1, 0})
	assert.Equal(t, [4]float32{0, 0, 0, 1}, q)
}

func TestUniformMarshalLayout(t *testing.T) {
	u := GPUCameraUniform{
		CameraPosition: [3]float32{1, 2, 3},
	}
	for i := range u.ViewProj {
		u.ViewProj[i] = float32(i)
	}
	require.Equal(t, 80, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 80)

	for i := range 16 {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		assert.Equal(t, float32(i), math.Float32frombits(bits))
	}
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[68:])))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[76:]), "padding is zeroed")
}

func TestCameraUniformSnapshotsPoseAndMatrix(t *testing.T) {
	ctrl := navigation.NewController()
	cam := NewCamera(WithController(ctrl))

	u := cam.Uniform()
	assert.Equal(t, cam.ViewProjectionMatrix(), u.ViewProj)
	assert.Equal(t, cam.Pose().Position, u.CameraPosition)
}
