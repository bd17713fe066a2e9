package loader

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// loaderBackend decodes a single mesh file format into raw triangle data.
// Concrete implementations (e.g., offLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Parse reads a whole mesh from r. Polygons with more than three corners are
	// triangulated as fans around their first corner.
	//
	// Parameters:
	//   - r: the reader providing the mesh text
	//
	// Returns:
	//   - []mgl32.Vec3: vertex positions
	//   - []uint32: triangle indices, three per face
	//   - error: error if the stream is malformed
	Parse(r io.Reader) ([]mgl32.Vec3, []uint32, error)
}

// fan triangulates a convex polygon around its first corner.
func fan(dst []uint32, poly []uint32) []uint32 {
	for i := 1; i+1 < len(poly); i++ {
		dst = append(dst, poly[0], poly[i], poly[i+1])
	}
	return dst
}
