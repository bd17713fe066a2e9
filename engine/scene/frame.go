package scene

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderMode selects how a pass rasterizes the mesh. The numeric value is passed to the
// shader as the "mode" uniform.
type RenderMode uint32

const (
	// RenderModeFilled draws filled polygons.
	RenderModeFilled RenderMode = iota
	// RenderModeWireframe draws polygon outlines.
	RenderModeWireframe
)

func (m RenderMode) String() string {
	switch m {
	case RenderModeFilled:
		return "filled"
	case RenderModeWireframe:
		return "wireframe"
	default:
		return "unknown"
	}
}

// Viewport is a pixel rectangle with the origin at the bottom-left of the window.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Pass is a single draw of the mesh.
type Pass struct {
	// Viewport is the target rectangle.
	Viewport Viewport
	// ViewIndex is 0 for the main viewport and 1 for the right split viewport.
	ViewIndex int
	// Mode is the rasterization mode.
	Mode RenderMode
	// Model is the model transform ("obj_mat").
	Model mgl32.Mat4
}

// Frame is an immutable snapshot of everything the renderer needs for one frame.
// It is built fresh each frame so the render step never reads input-owned state.
type Frame struct {
	// View is the camera world-to-camera matrix.
	View mgl32.Mat4
	// Projection is the camera projection matrix.
	Projection mgl32.Mat4
	// Width and Height are the window size in pixels.
	Width, Height int
	// Passes are the draws in submission order.
	Passes []Pass
}

// Snapshot builds the frame for the current state and camera.
// Every viewport gets a filled pass, followed by a wireframe pass when the overlay is on.
// In split mode the window is divided into left and right halves.
//
// Parameters:
//   - cam: the camera providing view, projection and window size
//
// Returns:
//   - Frame: the frame snapshot
func (s ViewState) Snapshot(cam camera.Camera) Frame {
	width, height := cam.Viewport()
	f := Frame{
		View:       cam.ViewMatrix(),
		Projection: cam.ProjectionMatrix(),
		Width:      width,
		Height:     height,
	}

	viewports := []Viewport{{Width: width, Height: height}}
	if s.Split {
		half := width / 2
		viewports = []Viewport{
			{Width: half, Height: height},
			{X: half, Width: half, Height: height},
		}
	}

	for i, vp := range viewports {
		model := s.ModelTransform(i == 1).Mat4()
		f.Passes = append(f.Passes, Pass{Viewport: vp, ViewIndex: i, Mode: RenderModeFilled, Model: model})
		if s.Wireframe {
			f.Passes = append(f.Passes, Pass{Viewport: vp, ViewIndex: i, Mode: RenderModeWireframe, Model: model})
		}
	}
	return f
}

// Uniform packs the camera matrices and the given pass into a GPU uniform block.
//
// Parameters:
//   - p: the pass to pack
//
// Returns:
//   - camera.GPUFrameUniform: the uniform block for the pass
func (f Frame) Uniform(p Pass) camera.GPUFrameUniform {
	return camera.GPUFrameUniform{
		View:       common.Mat4ToArray(f.View),
		Projection: common.Mat4ToArray(f.Projection),
		Model:      common.Mat4ToArray(p.Model),
		Mode:       uint32(p.Mode),
	}
}
