// Package commontest holds numeric checks shared by the math and camera tests.
package commontest

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// IsOrthonormal reports whether m is a proper rotation within tol: every element of
// m * mᵀ is within tol of the identity and the determinant is within tol of +1.
//
// Parameters:
//   - m: the 3x3 matrix to check
//   - tol: absolute per-element tolerance
//
// Returns:
//   - bool: true if m is a rotation within tolerance
func IsOrthonormal(m mgl32.Mat3, tol float32) bool {
	p := m.Mul3(m.Transpose())
	id := mgl32.Ident3()
	for i := range p {
		if !(math32.Abs(p[i]-id[i]) <= tol) {
			return false
		}
	}
	return math32.Abs(m.Det()-1) <= tol
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
