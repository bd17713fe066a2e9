package model

import "github.com/go-gl/mathgl/mgl32"

// Cube returns an axis-aligned cube centred on the origin with the given edge length.
// Faces are wound counter-clockwise when seen from outside. Vertices are shared between
// faces, so normals point along the cube diagonals.
//
// Parameters:
//   - size: the edge length
//
// Returns:
//   - Mesh: the cube mesh
func Cube(size float32) Mesh {
	h := size / 2
	positions := []mgl32.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	indices := []uint32{
		4, 5, 6, 4, 6, 7, // +Z
		1, 0, 3, 1, 3, 2, // -Z
		5, 1, 2, 5, 2, 6, // +X
		0, 4, 7, 0, 7, 3, // -X
		7, 6, 2, 7, 2, 3, // +Y
		0, 1, 5, 0, 5, 4, // -Y
	}
	m, err := NewMesh(positions, indices, WithName("cube"))
	if err != nil {
		panic(err)
	}
	return m
}
