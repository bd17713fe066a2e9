package common

import "github.com/go-gl/mathgl/mgl32"

// Mat4ToArray copies a matrix into a flat column-major array suitable for uniform upload.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - [16]float32: the matrix elements in column-major order
func Mat4ToArray(m mgl32.Mat4) [16]float32 {
	return [16]float32(m)
}
