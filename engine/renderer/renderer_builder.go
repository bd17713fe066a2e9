package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithShaderPath sets the WGSL file compiled at start-up and by ReloadShaders.
// When unset the built-in viewer program is used.
//
// Parameters:
//   - path: the shader file path
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader path option to a renderer
func WithShaderPath(path string) RendererBuilderOption {
	return func(r *renderer) {
		r.shaderPath = path
	}
}

// WithShaderKey sets the label of the shader module. Defaults to "viewer".
//
// Parameters:
//   - key: the shader label
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader key option to a renderer
func WithShaderKey(key string) RendererBuilderOption {
	return func(r *renderer) {
		r.shaderKey = key
	}
}

// WithMesh uploads m during construction.
//
// Parameters:
//   - m: the mesh to draw
//
// Returns:
//   - RendererBuilderOption: a function that applies the mesh option to a renderer
func WithMesh(m model.Mesh) RendererBuilderOption {
	return func(r *renderer) {
		r.mesh = m
	}
}

// WithClearColor sets the background color.
//
// Parameters:
//   - red, green, blue, alpha: components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = [4]float64{red, green, blue, alpha}
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithLogger sets the logger for renderer events.
//
// Parameters:
//   - logger: the logger, nil keeps the default
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
