package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
)

// ErrUnsupportedBinding is returned when a shader declares a resource the renderer does not provide.
var ErrUnsupportedBinding = errors.New("renderer: unsupported shader binding")

// frameBinding is where a shader expects the per-pass frame uniform.
type frameBinding struct {
	group, binding int
}

// validateBindings checks that s declares exactly one binding, the frame uniform in group 0,
// and returns its location.
func validateBindings(s shader.Shader) (frameBinding, error) {
	var found *frameBinding
	for _, d := range s.Declarations() {
		if d.Type != shader.AnnotationTypeBindingGroup {
			continue
		}
		if d.Struct != "frame" || d.AddressSpace != "uniform" {
			return frameBinding{}, fmt.Errorf("%w: line %d: %s %s", ErrUnsupportedBinding, d.Line, d.AddressSpace, d.Struct)
		}
		if d.Group != 0 {
			return frameBinding{}, fmt.Errorf("%w: line %d: frame uniform must be in group 0", ErrUnsupportedBinding, d.Line)
		}
		if found != nil {
			return frameBinding{}, fmt.Errorf("%w: line %d: frame uniform declared twice", ErrUnsupportedBinding, d.Line)
		}
		found = &frameBinding{group: d.Group, binding: d.Binding}
	}
	if found == nil {
		return frameBinding{}, fmt.Errorf("%w: shader %s does not declare the frame uniform", ErrUnsupportedBinding, s.Key())
	}
	return *found, nil
}
