package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
)

// registryEntry pairs a WGSL struct source with the struct's type name.
type registryEntry struct {
	Source string
	Type   string
}

// structRegistry holds the structs shaders can include or bind by key.
var structRegistry = map[string]registryEntry{
	"frame":  {Source: camera.GPUFrameUniformSource, Type: "FrameUniform"},
	"vertex": {Source: model.GPUVertexSource, Type: "VertexInput"},
}

// addressSpaceRegistry maps address space keys to WGSL var<> syntax.
var addressSpaceRegistry = map[string]string{
	"uniform":    "var<uniform>",
	"read":       "var<storage, read>",
	"read_write": "var<storage, read_write>",
}

// preProcess replaces @oxy: annotations in source with generated WGSL and returns the
// processed source together with the binding declarations it generated.
//
// Parameters:
//   - source: raw WGSL source
//
// Returns:
//   - string: the processed WGSL source
//   - []Annotation: the group annotations in source order
//   - error: error if an annotation is malformed or references an unknown struct
func preProcess(source string) (string, []Annotation, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var declarations []Annotation

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", nil, err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		entry, ok := structRegistry[a.Struct]
		if !ok {
			return "", nil, fmt.Errorf("line %d: unknown struct %q", a.Line, a.Struct)
		}

		switch a.Type {
		case AnnotationTypeInclude:
			out = append(out, entry.Source)
		case AnnotationTypeBindingGroup:
			space, ok := addressSpaceRegistry[a.AddressSpace]
			if !ok {
				return "", nil, fmt.Errorf("line %d: unknown address space %q", a.Line, a.AddressSpace)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", a.Group, a.Binding, space, a.Name, entry.Type))
			declarations = append(declarations, *a)
		}
	}
	return strings.Join(out, "\n"), declarations, nil
}
