// Package renderer draws scene frames with a WebGPU backend, or records them with a headless
// backend when no display is available.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
)

var (
	// ErrNoSurface is returned when a GPU backend is requested without a window.
	ErrNoSurface = errors.New("renderer: no window surface")
	// ErrNoMesh is returned by DrawFrame before a mesh has been set.
	ErrNoMesh = errors.New("renderer: no mesh")
	// ErrUnknownBackend is returned for an unrecognised RendererBackendType.
	ErrUnknownBackend = errors.New("renderer: unknown backend")
)

// defaultShaderKey labels the viewer program.
const defaultShaderKey = "viewer"

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	logger *slog.Logger

	backendType RendererBackendType
	backend     RendererBackend

	shaderKey  string
	shaderPath string
	shader     shader.Shader
	mesh       model.Mesh

	width, height int
	frames        uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           [4]float64
}

// Renderer draws one mesh per frame according to the passes of a scene.Frame.
//
// The Renderer owns the active shader and mesh. It compiles the shader into a filled and a
// wireframe pipeline and can recompile it from disk while running.
type Renderer interface {
	// Resize reconfigures the surface for a new window size.
	// A zero width or height (a minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetMesh uploads m and makes it the drawn mesh.
	//
	// Parameters:
	//   - m: the mesh to draw
	//
	// Returns:
	//   - error: an error if the GPU buffers could not be created
	SetMesh(m model.Mesh) error

	// Mesh returns the drawn mesh, nil if none has been set.
	Mesh() model.Mesh

	// Shader returns the active shader.
	Shader() shader.Shader

	// ReloadShaders reads the shader file again and rebuilds the pipelines.
	// If reading, processing or compiling fails, the previous shader stays active.
	//
	// Returns:
	//   - error: the failure, wrapped with the shader path
	ReloadShaders() error

	// DrawFrame renders every pass of f and presents the result.
	// A frame with a zero-sized window is skipped.
	//
	// Parameters:
	//   - f: the frame snapshot
	//
	// Returns:
	//   - error: ErrNoMesh if no mesh was set, or an error acquiring the surface texture
	DrawFrame(f scene.Frame) error

	// FrameCount returns the number of frames presented so far.
	FrameCount() uint64

	// BackendType returns the backend in use.
	BackendType() RendererBackendType

	// Release frees the backend's resources. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer with the specified backend.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface and initial size; may be nil for BackendTypeHeadless
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer, with pipelines built and the configured mesh uploaded
//   - error: an error if the backend cannot be created or the shader fails to build
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		logger:      slog.Default(),
		backendType: backendType,
		clearColor:  [4]float64{0.1, 0.1, 0.1, 1.0},
	}
	for _, opt := range options {
		opt(r)
	}
	r.shaderKey = common.Coalesce(r.shaderKey, defaultShaderKey)
	if win != nil {
		r.width, r.height = win.Width(), win.Height()
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		if win == nil || win.SurfaceDescriptor() == nil {
			return nil, ErrNoSurface
		}
		backend, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.clearColor, r.logger)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	case BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend(r.logger)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBackend, backendType)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(r.width, r.height)
	}

	s, err := shader.LoadShader(r.shaderKey, r.shaderPath)
	if err != nil {
		r.backend.Release()
		return nil, err
	}
	if err := r.backend.BuildPipelines(s); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("build pipelines for %s: %w", r.shaderKey, err)
	}
	r.shader = s

	if r.mesh != nil {
		if err := r.upload(r.mesh); err != nil {
			r.backend.Release()
			return nil, err
		}
	}

	r.logger.Info("renderer ready",
		"backend", backendType.String(),
		"shader", common.Coalesce(r.shaderPath, "builtin"),
		"msaa", uint32(msaa),
	)
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.SetPresentMode(mode)
	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(r.width, r.height)
	}
}

func (r *renderer) SetMesh(m model.Mesh) error {
	if m == nil {
		return ErrNoMesh
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.upload(m); err != nil {
		return err
	}
	r.mesh = m
	return nil
}

func (r *renderer) upload(m model.Mesh) error {
	err := r.backend.UploadMesh(meshBuffers{
		label:      m.Name(),
		vertices:   m.VertexData(),
		indices:    m.IndexData(),
		edges:      m.EdgeIndexData(),
		indexCount: len(m.Indices()),
		edgeCount:  len(m.EdgeIndices()),
	})
	if err != nil {
		return fmt.Errorf("upload mesh %s: %w", m.Name(), err)
	}
	return nil
}

func (r *renderer) Mesh() model.Mesh {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mesh
}

func (r *renderer) Shader() shader.Shader {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shader
}

func (r *renderer) ReloadShaders() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := shader.LoadShader(r.shaderKey, r.shaderPath)
	if err != nil {
		return err
	}
	if err := r.backend.BuildPipelines(s); err != nil {
		return fmt.Errorf("build pipelines for %s: %w", common.Coalesce(r.shaderPath, r.shaderKey), err)
	}
	r.shader = s
	r.logger.Info("shaders reloaded", "shader", common.Coalesce(r.shaderPath, "builtin"))
	return nil
}

func (r *renderer) DrawFrame(f scene.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mesh == nil {
		return ErrNoMesh
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil
	}

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	for slot, p := range f.Passes {
		u := f.Uniform(p)
		r.backend.Draw(slot, p.Viewport, p.Mode, u.Marshal())
	}
	r.backend.EndFrame()
	r.backend.Present()
	r.frames++
	return nil
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
