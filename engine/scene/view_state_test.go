package scene

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common/commontest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func TestNewViewStateDefaults(t *testing.T) {
	s := NewViewState()
	assert.Equal(t, float32(1), s.Scale)
	assert.Equal(t, mgl32.Vec2{}, s.Pan)
	assert.Equal(t, mgl32.Vec3{}, s.Angles)
	assert.False(t, s.Wireframe)
	assert.False(t, s.Split)

	assert.True(t, s.ModelTransform(false).Mat4().ApproxEqualThreshold(mgl32.Ident4(), tol))
}

func TestViewStateMutators(t *testing.T) {
	s := NewViewState()
	s.Move(0.1, -0.2)
	s.Move(0.1, 0)
	s.Rescale(2)
	s.Rescale(0)
	s.Rescale(-1)
	s.Rotate(0.5, 0, -0.25)
	s.ToggleWireframe()
	s.ToggleSplit()
	s.ToggleSplit()

	assert.InDelta(t, 0.2, s.Pan[0], tol)
	assert.InDelta(t, -0.2, s.Pan[1], tol)
	assert.Equal(t, float32(2), s.Scale, "non-positive factors are ignored")
	assert.Equal(t, mgl32.Vec3{0.5, 0, -0.25}, s.Angles)
	assert.True(t, s.Wireframe)
	assert.False(t, s.Split)

	s.Reset()
	assert.Equal(t, NewViewState(), s)
}

func TestModelTransformOrder(t *testing.T) {
	s := NewViewState()
	s.Move(1, 2)
	s.Rescale(3)
	s.Rotate(0, 0, math.Pi/2)

	// scale first, then rotate about Z, then translate
	got := s.ModelTransform(false).TransformPoint(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 1, got[0], tol)
	assert.InDelta(t, 5, got[1], tol)
	assert.InDelta(t, 0, got[2], tol)
}

func TestModelTransformSecondViewTurnsAboutY(t *testing.T) {
	s := NewViewState()
	first := s.ModelTransform(false)
	second := s.ModelTransform(true)

	assert.True(t, first.Mat4().ApproxEqualThreshold(mgl32.Ident4(), tol))

	got := second.TransformVector(mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 1, got[0], tol)
	assert.InDelta(t, 0, got[1], tol)
	assert.InDelta(t, 0, got[2], tol)
	assert.True(t, commontest.IsOrthonormal(second.Linear, tol))
}
