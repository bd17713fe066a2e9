package renderer

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadless(t *testing.T, options ...RendererBuilderOption) (Renderer, *headlessRendererBackend) {
	t.Helper()
	r, err := NewRenderer(BackendTypeHeadless, nil, options...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r, r.(*renderer).backend.(*headlessRendererBackend)
}

func testFrame(t *testing.T, state scene.ViewState) scene.Frame {
	t.Helper()
	cam, err := camera.NewCamera(
		camera.WithLookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		camera.WithViewport(800, 600),
	)
	require.NoError(t, err)
	return state.Snapshot(cam)
}

func TestNewRendererHeadless(t *testing.T) {
	r, backend := newHeadless(t, WithMesh(model.Cube(1)))
	assert.Equal(t, BackendTypeHeadless, r.BackendType())
	assert.Equal(t, "headless", r.BackendType().String())
	assert.Equal(t, defaultShaderKey, r.Shader().Key())
	assert.Equal(t, "cube", r.Mesh().Name())
	assert.Equal(t, 1, backend.pipelines)
	require.NotNil(t, backend.mesh)
	assert.Equal(t, 36, backend.mesh.indexCount)
}

func TestNewRendererRequiresSurface(t *testing.T) {
	_, err := NewRenderer(BackendTypeWGPU, nil)
	assert.ErrorIs(t, err, ErrNoSurface)

	_, err = NewRenderer(RendererBackendType(42), nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNewRendererBadShader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("fn nothing() {}\n"), 0o644))

	_, err := NewRenderer(BackendTypeHeadless, nil, WithShaderPath(path))
	assert.ErrorIs(t, err, shader.ErrMissingEntryPoint)
}

func TestDrawFrameRequiresMesh(t *testing.T) {
	r, _ := newHeadless(t)
	err := r.DrawFrame(testFrame(t, scene.NewViewState()))
	assert.ErrorIs(t, err, ErrNoMesh)
	assert.ErrorIs(t, r.SetMesh(nil), ErrNoMesh)
}

func TestDrawFrameSinglePass(t *testing.T) {
	r, backend := newHeadless(t, WithMesh(model.Cube(1)))
	f := testFrame(t, scene.NewViewState())

	require.NoError(t, r.DrawFrame(f))
	assert.Equal(t, uint64(1), r.FrameCount())
	require.Len(t, backend.lastFrame, 1)

	d := backend.lastFrame[0]
	assert.Equal(t, 0, d.Slot)
	assert.Equal(t, scene.Viewport{Width: 800, Height: 600}, d.Viewport)
	assert.Equal(t, scene.RenderModeFilled, d.Mode)
	assert.Equal(t, 36, d.Elements)
	require.Len(t, d.Uniform, camera.GPUFrameUniformSize)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(d.Uniform[192:]))
}

func TestDrawFrameSplitWireframe(t *testing.T) {
	r, backend := newHeadless(t, WithMesh(model.Cube(1)))
	state := scene.NewViewState()
	state.ToggleSplit()
	state.ToggleWireframe()

	require.NoError(t, r.DrawFrame(testFrame(t, state)))
	require.Len(t, backend.lastFrame, 4)

	edges := len(r.Mesh().EdgeIndices())
	for i, d := range backend.lastFrame {
		assert.Equal(t, i, d.Slot)
		if i%2 == 1 {
			assert.Equal(t, scene.RenderModeWireframe, d.Mode)
			assert.Equal(t, edges, d.Elements)
			assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(d.Uniform[192:]))
		}
	}
	assert.Equal(t, 400, backend.lastFrame[2].Viewport.X)
	// the right viewport draws a different model transform
	assert.NotEqual(t, backend.lastFrame[0].Uniform[128:192], backend.lastFrame[2].Uniform[128:192])
}

func TestDrawFrameSkipsEmptyWindow(t *testing.T) {
	r, backend := newHeadless(t, WithMesh(model.Cube(1)))
	require.NoError(t, r.DrawFrame(scene.Frame{}))
	assert.Zero(t, r.FrameCount())
	assert.Zero(t, backend.presented)
}

func TestResizeIgnoresMinimized(t *testing.T) {
	r, backend := newHeadless(t)
	r.Resize(1024, 768)
	assert.Equal(t, 1024, backend.width)
	assert.Equal(t, 768, backend.height)

	r.Resize(0, 0)
	assert.Equal(t, 1024, backend.width)

	r.SetPresentMode(PresentModeUncapped)
	assert.Equal(t, PresentModeUncapped, backend.presentMode)
}

func TestReloadShaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(shader.DefaultSource), 0o644))

	r, backend := newHeadless(t, WithShaderPath(path), WithShaderKey("custom"))
	first := r.Shader()
	assert.Equal(t, path, first.Path())
	assert.Equal(t, "custom", first.Key())

	tinted := strings.Replace(shader.DefaultSource, "0.85, 0.55, 0.3", "0.2, 0.6, 0.9", 1)
	require.NoError(t, os.WriteFile(path, []byte(tinted), 0o644))
	require.NoError(t, r.ReloadShaders())
	assert.Equal(t, 2, backend.pipelines)
	assert.Contains(t, r.Shader().Source(), "0.2, 0.6, 0.9")

	// a broken edit keeps the last good program
	require.NoError(t, os.WriteFile(path, []byte("@vertex fn vs_main() {}\n"), 0o644))
	assert.ErrorIs(t, r.ReloadShaders(), shader.ErrMissingEntryPoint)
	assert.Equal(t, 2, backend.pipelines)
	assert.Contains(t, r.Shader().Source(), "0.2, 0.6, 0.9")

	require.NoError(t, os.Remove(path))
	assert.ErrorIs(t, r.ReloadShaders(), os.ErrNotExist)
}

func TestValidateBindings(t *testing.T) {
	ok, err := shader.NewShader("ok", shader.DefaultSource)
	require.NoError(t, err)
	fb, err := validateBindings(ok)
	require.NoError(t, err)
	assert.Equal(t, frameBinding{group: 0, binding: 0}, fb)

	noFrame := strings.Replace(shader.DefaultSource, "//@oxy:group 0 0 uniform frame frame", "@group(0) @binding(0) var<uniform> frame: FrameUniform;", 1)
	s, err := shader.NewShader("plain", noFrame)
	require.NoError(t, err)
	_, err = validateBindings(s)
	assert.ErrorIs(t, err, ErrUnsupportedBinding)

	storage := strings.Replace(shader.DefaultSource, "uniform frame frame", "read frame frame", 1)
	s, err = shader.NewShader("storage", storage)
	require.NoError(t, err)
	_, err = validateBindings(s)
	assert.ErrorIs(t, err, ErrUnsupportedBinding)

	group1 := strings.Replace(shader.DefaultSource, "//@oxy:group 0 0", "//@oxy:group 1 0", 1)
	s, err = shader.NewShader("group1", group1)
	require.NoError(t, err)
	_, err = validateBindings(s)
	assert.ErrorIs(t, err, ErrUnsupportedBinding)
}
