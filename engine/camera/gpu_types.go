package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUFrameUniformSource is the canonical WGSL definition of the FrameUniform struct.
// Matches GPUFrameUniform layout exactly (208 bytes, uniform address space aligned).
//
//go:embed assets/frame_uniform.wgsl
var GPUFrameUniformSource string

// GPUFrameUniform is the GPU-aligned per-draw uniform block handed to the renderer.
// Size: 208 bytes.
type GPUFrameUniform struct {
	View       [16]float32 // offset   0: world-to-camera matrix (mat4x4<f32>)
	Projection [16]float32 // offset  64: perspective projection (mat4x4<f32>)
	Model      [16]float32 // offset 128: model transform, "obj_mat" (mat4x4<f32>)
	Mode       uint32      // offset 192: render mode, 0 = filled, 1 = wireframe (u32)
	_pad       [3]uint32   // offset 196: padding to 208 bytes
}

// GPUFrameUniformSize is the size of GPUFrameUniform in bytes.
const GPUFrameUniformSize = int(unsafe.Sizeof(GPUFrameUniform{}))

// NewGPUFrameUniform packs the camera matrices and a model transform into a uniform block.
//
// Parameters:
//   - cam: the camera providing view and projection
//   - model: the model transform for this draw
//   - mode: the render mode value passed to the shader
//
// Returns:
//   - GPUFrameUniform: the packed uniform block
func NewGPUFrameUniform(cam Camera, model mgl32.Mat4, mode uint32) GPUFrameUniform {
	return GPUFrameUniform{
		View:       common.Mat4ToArray(cam.ViewMatrix()),
		Projection: common.Mat4ToArray(cam.ProjectionMatrix()),
		Model:      common.Mat4ToArray(model),
		Mode:       mode,
	}
}

// Size returns the size of the GPUFrameUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (208)
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.View[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Projection[i]))
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.Model[i]))
	}
	binary.LittleEndian.PutUint32(buf[192:], g.Mode)
	return buf
}
