package pointcloud

import (
	_ "embed"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUPointInstanceSource is the canonical WGSL definition of the PointInstance
// vertex input struct. Matches GPUPointInstance layout exactly (32 bytes).
//
//go:embed assets/point_instance.wgsl
var GPUPointInstanceSource string

// GPUPointInstance is the per-instance vertex data for one rendered post.
// Matches the WGSL PointInstance struct layout exactly (see GPUPointInstanceSource).
// Size: 32 bytes, tightly packed for instance-stepped vertex pulling.
type GPUPointInstance struct {
	Position [3]float32 // offset  0: world-space position (vec3<f32>)
	Size     float32    // offset 12: render size in world units (f32)
	Color    [3]float32 // offset 16: linear RGB color (vec3<f32>)
	Recency  float32    // offset 28: normalized corpus recency in [0, 1] (f32)
}

// GPUPointInstanceSize is the byte stride of one instance (32).
const GPUPointInstanceSize = int(unsafe.Sizeof(GPUPointInstance{}))

// InstanceBufferLayout returns the vertex buffer layout describing the
// instance buffer: four attributes at sequential locations, instance stepped.
//
// Returns:
//   - wgpu.VertexBufferLayout: the instance buffer layout
func InstanceBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(GPUPointInstanceSize),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32, Offset: 28, ShaderLocation: 3},
		},
	}
}
