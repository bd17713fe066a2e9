package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera(t *testing.T) camera.Camera {
	t.Helper()
	cam, err := camera.NewCamera(
		camera.WithLookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		camera.WithViewport(800, 600),
	)
	require.NoError(t, err)
	return cam
}

func TestSnapshotSingleView(t *testing.T) {
	cam := newTestCamera(t)
	f := NewViewState().Snapshot(cam)

	assert.Equal(t, cam.ViewMatrix(), f.View)
	assert.Equal(t, cam.ProjectionMatrix(), f.Projection)
	assert.Equal(t, 800, f.Width)
	assert.Equal(t, 600, f.Height)

	require.Len(t, f.Passes, 1)
	p := f.Passes[0]
	assert.Equal(t, Viewport{Width: 800, Height: 600}, p.Viewport)
	assert.Equal(t, RenderModeFilled, p.Mode)
	assert.Equal(t, 0, p.ViewIndex)
}

func TestSnapshotSplitWithWireframe(t *testing.T) {
	cam := newTestCamera(t)
	s := NewViewState()
	s.ToggleSplit()
	s.ToggleWireframe()
	f := s.Snapshot(cam)

	require.Len(t, f.Passes, 4)
	wantModes := []RenderMode{RenderModeFilled, RenderModeWireframe, RenderModeFilled, RenderModeWireframe}
	for i, p := range f.Passes {
		assert.Equal(t, wantModes[i], p.Mode, "pass %d", i)
	}

	left, right := f.Passes[0], f.Passes[2]
	assert.Equal(t, Viewport{Width: 400, Height: 600}, left.Viewport)
	assert.Equal(t, Viewport{X: 400, Width: 400, Height: 600}, right.Viewport)
	assert.Equal(t, 1, right.ViewIndex)
	assert.Equal(t, left.Model, f.Passes[1].Model)
	assert.NotEqual(t, left.Model, right.Model)
}

func TestSnapshotIsDetachedFromState(t *testing.T) {
	cam := newTestCamera(t)
	s := NewViewState()
	f := s.Snapshot(cam)
	before := f.Passes[0].Model

	s.Move(1, 1)
	require.NoError(t, cam.Zoom(0.5))
	assert.Equal(t, before, f.Passes[0].Model)
	assert.NotEqual(t, cam.ViewMatrix(), f.View)
}

func TestFrameUniform(t *testing.T) {
	cam := newTestCamera(t)
	s := NewViewState()
	s.ToggleWireframe()
	f := s.Snapshot(cam)

	u := f.Uniform(f.Passes[1])
	assert.Equal(t, [16]float32(f.View), u.View)
	assert.Equal(t, [16]float32(f.Projection), u.Projection)
	assert.Equal(t, [16]float32(f.Passes[1].Model), u.Model)
	assert.Equal(t, uint32(RenderModeWireframe), u.Mode)
	assert.Equal(t, "wireframe", RenderModeWireframe.String())
}
