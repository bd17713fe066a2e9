package model

import "github.com/go-gl/mathgl/mgl32"

// meshConfig carries construction-only inputs that are not stored on the mesh.
type meshConfig struct {
	normals [][3]float32
}

// MeshBuilderOption is a functional option for configuring a Mesh during NewMesh.
type MeshBuilderOption func(*mesh, *meshConfig)

// WithName sets the mesh name.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithName(name string) MeshBuilderOption {
	return func(m *mesh, _ *meshConfig) {
		m.name = name
	}
}

// WithNormals supplies per-vertex normals instead of computing them. The slice must have
// one normal per position.
//
// Parameters:
//   - normals: unit normals, one per vertex
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithNormals(normals []mgl32.Vec3) MeshBuilderOption {
	return func(_ *mesh, cfg *meshConfig) {
		cfg.normals = make([][3]float32, len(normals))
		for i, n := range normals {
			cfg.normals[i] = n
		}
	}
}
