// Package scene holds the viewer's per-session model state and turns it, together with the
// camera, into immutable per-frame snapshots for the renderer.
package scene

import (
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewState is the mutable session state adjusted by keyboard input: a model pan offset,
// a uniform model scale, per-axis Euler angles and two display toggles.
// It is owned by the input thread and read once per frame through Snapshot.
type ViewState struct {
	// Pan is the model translation in the X/Y plane.
	Pan mgl32.Vec2

	// Scale is the uniform model scale. Starts at 1.
	Scale float32

	// Angles are the model Euler angles in radians, applied X then Y then Z (outermost first).
	Angles mgl32.Vec3

	// Wireframe draws a line pass on top of the filled pass when set.
	Wireframe bool

	// Split renders the model twice in side-by-side viewports, the right one turned by π/2 about Y.
	Split bool
}

// NewViewState returns the initial view state: no pan, unit scale, zero angles, toggles off.
//
// Returns:
//   - ViewState: the default state
func NewViewState() ViewState {
	return ViewState{Scale: 1}
}

// Reset restores the default state.
func (s *ViewState) Reset() {
	*s = NewViewState()
}

// Move shifts the model pan offset.
//
// Parameters:
//   - dx, dy: offset to add in model units
func (s *ViewState) Move(dx, dy float32) {
	s.Pan = s.Pan.Add(mgl32.Vec2{dx, dy})
}

// Rescale multiplies the model scale by factor.
//
// Parameters:
//   - factor: multiplier, ignored unless positive
func (s *ViewState) Rescale(factor float32) {
	if factor > 0 {
		s.Scale *= factor
	}
}

// Rotate adds to the model Euler angles.
//
// Parameters:
//   - dx, dy, dz: angle increments in radians about X, Y and Z
func (s *ViewState) Rotate(dx, dy, dz float32) {
	s.Angles = s.Angles.Add(mgl32.Vec3{dx, dy, dz})
}

// ToggleWireframe flips the wireframe overlay.
func (s *ViewState) ToggleWireframe() {
	s.Wireframe = !s.Wireframe
}

// ToggleSplit flips the split viewport mode.
func (s *ViewState) ToggleSplit() {
	s.Split = !s.Split
}

// ModelTransform composes the model transform T(pan) * Rx * Ry * Rz * S(scale).
// The second split viewport appends a quarter turn about Y.
//
// Parameters:
//   - secondView: true for the right-hand viewport in split mode
//
// Returns:
//   - common.Affine: the model transform
func (s ViewState) ModelTransform(secondView bool) common.Affine {
	a := common.Translation(s.Pan[0], s.Pan[1], 0).
		Mul(common.AxisAngle(s.Angles[0], mgl32.Vec3{1, 0, 0})).
		Mul(common.AxisAngle(s.Angles[1], mgl32.Vec3{0, 1, 0})).
		Mul(common.AxisAngle(s.Angles[2], mgl32.Vec3{0, 0, 1})).
		Mul(common.UniformScale(s.Scale))
	if secondView {
		a = a.Mul(common.AxisAngle(math.Pi/2, mgl32.Vec3{0, 1, 0}))
	}
	return a
}
