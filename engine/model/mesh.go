// Package model holds triangle meshes in the layout the renderer uploads to the GPU.
package model

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidMesh is returned when mesh data cannot form a triangle mesh.
var ErrInvalidMesh = errors.New("invalid mesh")

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name     string
	vertices []GPUVertex
	indices  []uint32
	edges    []uint32

	min, max mgl32.Vec3
}

// Mesh is an indexed triangle mesh with smooth normals and a unique edge list for wireframe drawing.
// A Mesh is immutable after construction.
type Mesh interface {
	// Name returns the mesh name, usually the source file path.
	Name() string

	// Vertices returns the vertex array.
	Vertices() []GPUVertex

	// Indices returns the triangle list indices, three per face.
	Indices() []uint32

	// EdgeIndices returns the line list indices, two per unique edge.
	EdgeIndices() []uint32

	// VertexData returns the vertex array serialized for a vertex buffer.
	VertexData() []byte

	// IndexData returns the triangle indices serialized as uint32.
	IndexData() []byte

	// EdgeIndexData returns the edge indices serialized as uint32.
	EdgeIndexData() []byte

	// Bounds returns the axis-aligned bounding box.
	//
	// Returns:
	//   - mgl32.Vec3: the minimum corner
	//   - mgl32.Vec3: the maximum corner
	Bounds() (mgl32.Vec3, mgl32.Vec3)

	// Center returns the centre of the bounding box.
	Center() mgl32.Vec3

	// BoundingRadius returns the distance from Center to the farthest vertex.
	BoundingRadius() float32
}

var _ Mesh = &mesh{}

// NewMesh builds a mesh from positions and triangle indices.
// Normals are computed per vertex from the adjacent faces unless WithNormals provides them.
//
// Parameters:
//   - positions: vertex positions in model space
//   - indices: triangle list indices into positions
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the constructed mesh
//   - error: ErrInvalidMesh if there are no triangles, the index count is not a multiple
//     of three, or an index is out of range
func NewMesh(positions []mgl32.Vec3, indices []uint32, options ...MeshBuilderOption) (Mesh, error) {
	if len(positions) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("%w: no geometry", ErrInvalidMesh)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrInvalidMesh, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("%w: index %d at %d out of range for %d vertices", ErrInvalidMesh, idx, i, len(positions))
		}
	}

	m := &mesh{
		name:    "mesh",
		indices: append([]uint32(nil), indices...),
	}
	cfg := meshConfig{}
	for _, opt := range options {
		opt(m, &cfg)
	}

	normals := cfg.normals
	if normals == nil {
		normals = computeNormals(positions, indices)
	} else if len(normals) != len(positions) {
		return nil, fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(normals), len(positions))
	}

	m.vertices = make([]GPUVertex, len(positions))
	m.min = positions[0]
	m.max = positions[0]
	for i, p := range positions {
		m.vertices[i] = GPUVertex{Position: p, Normal: normals[i]}
		for a := range 3 {
			m.min[a] = math32.Min(m.min[a], p[a])
			m.max[a] = math32.Max(m.max[a], p[a])
		}
	}
	m.edges = uniqueEdges(indices)
	return m, nil
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Vertices() []GPUVertex {
	return m.vertices
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) EdgeIndices() []uint32 {
	return m.edges
}

func (m *mesh) VertexData() []byte {
	const stride = 24
	buf := make([]byte, len(m.vertices)*stride)
	for i := range m.vertices {
		m.vertices[i].put(buf[i*stride:])
	}
	return buf
}

func (m *mesh) IndexData() []byte {
	return marshalIndices(m.indices)
}

func (m *mesh) EdgeIndexData() []byte {
	return marshalIndices(m.edges)
}

func (m *mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	return m.min, m.max
}

func (m *mesh) Center() mgl32.Vec3 {
	return m.min.Add(m.max).Mul(0.5)
}

func (m *mesh) BoundingRadius() float32 {
	c := m.Center()
	var r float32
	for _, v := range m.vertices {
		r = math32.Max(r, mgl32.Vec3(v.Position).Sub(c).Len())
	}
	return r
}

// computeNormals returns smooth vertex normals, each the sum of the adjacent face normals
// weighted by the face's corner angle at that vertex. Vertices not referenced by any
// non-degenerate face get +Z.
func computeNormals(positions []mgl32.Vec3, indices []uint32) [][3]float32 {
	acc := make([]mgl32.Vec3, len(positions))
	for f := 0; f < len(indices); f += 3 {
		tri := [3]uint32{indices[f], indices[f+1], indices[f+2]}
		n := positions[tri[1]].Sub(positions[tri[0]]).Cross(positions[tri[2]].Sub(positions[tri[0]]))
		if n.Len() < 1e-12 {
			continue
		}
		n = n.Normalize()
		for k := range 3 {
			p := positions[tri[k]]
			e1 := positions[tri[(k+1)%3]].Sub(p).Normalize()
			e2 := positions[tri[(k+2)%3]].Sub(p).Normalize()
			angle := math32.Acos(math32.Max(-1, math32.Min(1, e1.Dot(e2))))
			acc[tri[k]] = acc[tri[k]].Add(n.Mul(angle))
		}
	}

	normals := make([][3]float32, len(positions))
	for i, n := range acc {
		if n.Len() < 1e-12 {
			normals[i] = [3]float32{0, 0, 1}
			continue
		}
		normals[i] = n.Normalize()
	}
	return normals
}

// uniqueEdges returns each undirected triangle edge once, in first-seen order.
func uniqueEdges(indices []uint32) []uint32 {
	type edge struct{ a, b uint32 }
	seen := make(map[edge]struct{}, len(indices))
	edges := make([]uint32, 0, len(indices))
	for f := 0; f < len(indices); f += 3 {
		tri := [3]uint32{indices[f], indices[f+1], indices[f+2]}
		for k := range 3 {
			a, b := tri[k], tri[(k+1)%3]
			if a == b {
				continue
			}
			key := edge{min(a, b), max(a, b)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, a, b)
		}
	}
	return edges
}
