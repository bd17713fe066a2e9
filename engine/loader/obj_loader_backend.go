package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// objLoaderBackend reads the geometry subset of Wavefront OBJ: "v" positions and "f" faces.
// Face corners may carry texture and normal references ("3/1/2", "3//2"); only the position
// index is used. Negative indices count back from the most recent vertex.
// All other statements (vt, vn, o, g, s, usemtl, mtllib) are ignored.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

func (b *objLoaderBackend) Parse(r io.Reader) ([]mgl32.Vec3, []uint32, error) {
	lines := newLineScanner(r)

	var positions []mgl32.Vec3
	var indices []uint32
	poly := make([]uint32, 0, 8)
	for {
		fields, err := lines.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lines.num, err)
			}
			positions = append(positions, p)
		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("%w: line %d: face needs at least 3 corners", ErrMalformed, lines.num)
			}
			poly = poly[:0]
			for _, corner := range fields[1:] {
				idx, err := objIndex(corner, len(positions))
				if err != nil {
					return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lines.num, err)
				}
				poly = append(poly, idx)
			}
			indices = fan(indices, poly)
		}
	}
	return positions, indices, nil
}

// objIndex resolves a 1-based (or negative, relative) OBJ position reference to a 0-based index.
func objIndex(corner string, count int) (uint32, error) {
	ref, _, _ := strings.Cut(corner, "/")
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad face corner %q", corner)
	}
	switch {
	case n > 0 && n <= count:
		return uint32(n - 1), nil
	case n < 0 && -n <= count:
		return uint32(count + n), nil
	default:
		return 0, fmt.Errorf("face corner %q out of range", corner)
	}
}
