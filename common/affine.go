package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Affine is an affine transform stored as an explicit linear block plus a translation.
// Points transform as p' = Linear * p + Translation (column-vector convention).
// Composition follows matrix order: a.Mul(b) applies b first, then a.
type Affine struct {
	// Linear is the 3x3 rotation/scale block in column-major order.
	Linear mgl32.Mat3
	// Translation is the offset applied after the linear block.
	Translation mgl32.Vec3
}

// IdentityAffine returns the identity transform.
//
// Returns:
//   - Affine: the identity transform
func IdentityAffine() Affine {
	return Affine{Linear: mgl32.Ident3()}
}

// Translation returns a pure translation transform.
//
// Parameters:
//   - x, y, z: the translation components
//
// Returns:
//   - Affine: the translation transform
func Translation(x, y, z float32) Affine {
	return Affine{Linear: mgl32.Ident3(), Translation: mgl32.Vec3{x, y, z}}
}

// AxisAngle returns a rotation of angle radians about axis (right-hand rule).
// The axis does not need to be normalized. A zero-length axis yields the identity.
//
// Parameters:
//   - angle: rotation angle in radians
//   - axis: rotation axis
//
// Returns:
//   - Affine: the rotation transform
func AxisAngle(angle float32, axis mgl32.Vec3) Affine {
	if axis.Len() == 0 {
		return IdentityAffine()
	}
	return Affine{Linear: mgl32.HomogRotate3D(angle, axis.Normalize()).Mat3()}
}

// UniformScale returns a transform scaling all axes by s.
//
// Parameters:
//   - s: the scale factor
//
// Returns:
//   - Affine: the scale transform
func UniformScale(s float32) Affine {
	return Affine{Linear: mgl32.Mat3{s, 0, 0, 0, s, 0, 0, 0, s}}
}

// AffineFromMat4 extracts the affine part of a 4x4 matrix. The bottom row is ignored.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - Affine: the affine transform held by m
func AffineFromMat4(m mgl32.Mat4) Affine {
	return Affine{Linear: m.Mat3(), Translation: m.Col(3).Vec3()}
}

// Mul composes a with b so that the result applies b first, then a.
//
// Parameters:
//   - b: the transform applied first
//
// Returns:
//   - Affine: the composed transform a * b
func (a Affine) Mul(b Affine) Affine {
	return Affine{
		Linear:      a.Linear.Mul3(b.Linear),
		Translation: a.Linear.Mul3x1(b.Translation).Add(a.Translation),
	}
}

// Inverse returns the inverse transform. The second return value is false when the
// linear block is singular, in which case the returned transform is the identity.
//
// Returns:
//   - Affine: the inverse transform
//   - bool: false if a is not invertible
func (a Affine) Inverse() (Affine, bool) {
	if a.Linear.Det() == 0 {
		return IdentityAffine(), false
	}
	inv := a.Linear.Inv()
	return Affine{Linear: inv, Translation: inv.Mul3x1(a.Translation).Mul(-1)}, true
}

// RigidInverse returns the inverse of a rigid transform using the transpose of the
// linear block. The result is only correct if Linear is orthonormal.
//
// Returns:
//   - Affine: the inverse transform
func (a Affine) RigidInverse() Affine {
	rt := a.Linear.Transpose()
	return Affine{Linear: rt, Translation: rt.Mul3x1(a.Translation).Mul(-1)}
}

// TransformPoint applies the full transform (linear block and translation) to p.
func (a Affine) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return a.Linear.Mul3x1(p).Add(a.Translation)
}

// TransformVector applies only the linear block to v.
func (a Affine) TransformVector(v mgl32.Vec3) mgl32.Vec3 {
	return a.Linear.Mul3x1(v)
}

// Mat4 expands the transform into a column-major homogeneous 4x4 matrix.
//
// Returns:
//   - mgl32.Mat4: the homogeneous matrix with translation in column 3
func (a Affine) Mat4() mgl32.Mat4 {
	l, t := a.Linear, a.Translation
	return mgl32.Mat4{
		l[0], l[1], l[2], 0,
		l[3], l[4], l[5], 0,
		l[6], l[7], l[8], 0,
		t[0], t[1], t[2], 1,
	}
}
