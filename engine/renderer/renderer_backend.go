package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects a backend that records draws without a GPU.
	// It is used for tests and for running the viewer without a display.
	BackendTypeHeadless
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// meshBuffers is the CPU-side byte data for a mesh upload.
type meshBuffers struct {
	label      string
	vertices   []byte
	indices    []byte
	edges      []byte
	indexCount int
	edgeCount  int
}

// RendererBackend is the GPU-facing half of the Renderer. The Renderer owns mesh, shader and
// frame bookkeeping and drives the backend one pass at a time.
type RendererBackend interface {
	// ConfigureSurface (re)creates the size-dependent targets.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// UploadMesh replaces the vertex, triangle index and edge index buffers.
	//
	// Parameters:
	//   - mesh: the byte data to upload
	//
	// Returns:
	//   - error: an error if buffer creation fails
	UploadMesh(mesh meshBuffers) error

	// BuildPipelines compiles the filled and wireframe pipelines from s. On failure the
	// previously built pipelines stay active.
	//
	// Parameters:
	//   - s: the processed shader
	//
	// Returns:
	//   - error: an error if the shader module or a pipeline cannot be created
	BuildPipelines(s shader.Shader) error

	// BeginFrame acquires the next surface texture and begins the main render pass.
	// It must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// Draw encodes one pass of the mesh into the current frame.
	//
	// Parameters:
	//   - slot: the uniform slot the pass uses, unique within the frame
	//   - vp: the target rectangle, origin bottom-left
	//   - mode: filled triangles or wireframe edges
	//   - uniform: the marshalled frame uniform for the pass
	Draw(slot int, vp scene.Viewport, mode scene.RenderMode, uniform []byte)

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present displays the submitted frame.
	Present()

	// Release frees every GPU resource held by the backend.
	Release()
}
