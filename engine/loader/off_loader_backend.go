package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// offLoaderBackend reads Object File Format meshes.
//
//	OFF
//	<vertices> <faces> <edges>
//	x y z            (one line per vertex)
//	n i0 i1 ... in-1 (one line per face)
//
// Blank lines and '#' comments are skipped. Trailing per-vertex or per-face color
// values are ignored.
type offLoaderBackend struct{}

var _ loaderBackend = &offLoaderBackend{}

func (b *offLoaderBackend) Parse(r io.Reader) ([]mgl32.Vec3, []uint32, error) {
	lines := newLineScanner(r)

	fields, err := lines.next()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing OFF header", ErrMalformed)
	}
	// the header keyword may share a line with the counts
	if strings.HasSuffix(strings.ToUpper(fields[0]), "OFF") {
		fields = fields[1:]
		if len(fields) == 0 {
			if fields, err = lines.next(); err != nil {
				return nil, nil, fmt.Errorf("%w: missing element counts", ErrMalformed)
			}
		}
	}
	if len(fields) < 2 {
		return nil, nil, fmt.Errorf("%w: line %d: expected vertex and face counts", ErrMalformed, lines.num)
	}
	nv, err := strconv.Atoi(fields[0])
	if err != nil || nv < 0 {
		return nil, nil, fmt.Errorf("%w: line %d: bad vertex count %q", ErrMalformed, lines.num, fields[0])
	}
	nf, err := strconv.Atoi(fields[1])
	if err != nil || nf < 0 {
		return nil, nil, fmt.Errorf("%w: line %d: bad face count %q", ErrMalformed, lines.num, fields[1])
	}

	positions := make([]mgl32.Vec3, 0, nv)
	for range nv {
		fields, err := lines.next()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: expected %d vertices, got %d", ErrMalformed, nv, len(positions))
		}
		p, err := parseVec3(fields)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lines.num, err)
		}
		positions = append(positions, p)
	}

	indices := make([]uint32, 0, nf*3)
	poly := make([]uint32, 0, 8)
	for f := range nf {
		fields, err := lines.next()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: expected %d faces, got %d", ErrMalformed, nf, f)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 3 || len(fields) < n+1 {
			return nil, nil, fmt.Errorf("%w: line %d: bad face %q", ErrMalformed, lines.num, strings.Join(fields, " "))
		}
		poly = poly[:0]
		for _, field := range fields[1 : n+1] {
			idx, err := strconv.ParseUint(field, 10, 32)
			if err != nil || int(idx) >= nv {
				return nil, nil, fmt.Errorf("%w: line %d: vertex index %q out of range", ErrMalformed, lines.num, field)
			}
			poly = append(poly, uint32(idx))
		}
		indices = fan(indices, poly)
	}
	return positions, indices, nil
}

// lineScanner yields the whitespace-separated fields of each non-empty, non-comment line.
type lineScanner struct {
	s   *bufio.Scanner
	num int
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{s: bufio.NewScanner(r)}
}

func (l *lineScanner) next() ([]string, error) {
	for l.s.Scan() {
		l.num++
		line := l.s.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			return fields, nil
		}
	}
	if err := l.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	if len(fields) < 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	var v mgl32.Vec3
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("bad coordinate %q", fields[i])
		}
		v[i] = float32(f)
	}
	return v, nil
}
