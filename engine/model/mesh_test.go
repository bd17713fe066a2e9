package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeshValidation(t *testing.T) {
	tri := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	_, err := NewMesh(nil, []uint32{0, 1, 2})
	assert.ErrorIs(t, err, ErrInvalidMesh)

	_, err = NewMesh(tri, []uint32{0, 1})
	assert.ErrorIs(t, err, ErrInvalidMesh)

	_, err = NewMesh(tri, []uint32{0, 1, 3})
	assert.ErrorIs(t, err, ErrInvalidMesh)

	_, err = NewMesh(tri, []uint32{0, 1, 2}, WithNormals([]mgl32.Vec3{{0, 0, 1}}))
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestNewMeshComputesNormals(t *testing.T) {
	m, err := NewMesh([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {5, 5, 5}}, []uint32{0, 1, 2}, WithName("tri"))
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Name())

	for i := range 3 {
		n := m.Vertices()[i].Normal
		assert.InDelta(t, 0, n[0], 1e-6)
		assert.InDelta(t, 0, n[1], 1e-6)
		assert.InDelta(t, 1, n[2], 1e-6)
	}
	// unreferenced vertex falls back to +Z
	assert.Equal(t, [3]float32{0, 0, 1}, m.Vertices()[3].Normal)
}

func TestWithNormalsOverrides(t *testing.T) {
	normals := []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}}
	m, err := NewMesh([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint32{0, 1, 2}, WithNormals(normals))
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 0, -1}, m.Vertices()[2].Normal)
}

func TestCube(t *testing.T) {
	c := Cube(2)
	assert.Len(t, c.Vertices(), 8)
	assert.Len(t, c.Indices(), 36)
	// 12 cube edges plus one diagonal per face
	assert.Len(t, c.EdgeIndices(), 36)

	lo, hi := c.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, lo)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, hi)
	assert.Equal(t, mgl32.Vec3{}, c.Center())
	assert.InDelta(t, math.Sqrt(3), c.BoundingRadius(), 1e-6)

	// shared corners average three face normals into the diagonal
	for _, v := range c.Vertices() {
		n := mgl32.Vec3(v.Normal)
		p := mgl32.Vec3(v.Position).Normalize()
		assert.InDelta(t, 1, n.Dot(p), 1e-5)
	}
}

func TestMeshData(t *testing.T) {
	c := Cube(1)
	vd := c.VertexData()
	require.Len(t, vd, 8*24)

	v := c.Vertices()[6]
	assert.Equal(t, v.Marshal(), vd[6*24:7*24])
	assert.Equal(t, 24, v.Size())
	assert.Equal(t, v.Position[1], math.Float32frombits(binary.LittleEndian.Uint32(vd[6*24+4:])))

	id := c.IndexData()
	require.Len(t, id, 36*4)
	assert.Equal(t, c.Indices()[5], binary.LittleEndian.Uint32(id[20:]))
	assert.Len(t, c.EdgeIndexData(), len(c.EdgeIndices())*4)
}

func TestUniqueEdgesSkipsDegenerate(t *testing.T) {
	edges := uniqueEdges([]uint32{0, 1, 2, 2, 1, 3, 4, 4, 5})
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 0, 1, 3, 3, 2, 4, 5}, edges)
}
