// Package shader loads the viewer's WGSL program, expands @oxy: annotations and watches the
// shader directory so edits can be hot-reloaded.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultSource is the built-in viewer program used when no shader file is configured.
//
//go:embed assets/viewer.wgsl
var DefaultSource string

// ErrMissingEntryPoint is returned when a program lacks a @vertex or @fragment function.
var ErrMissingEntryPoint = errors.New("shader: missing entry point")

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	path          string
	source        string
	vertexEntry   string
	fragmentEntry string
	declarations  []Annotation
	module        *wgpu.ShaderModuleDescriptor
}

// Shader is a processed WGSL program holding one vertex and one fragment entry point.
type Shader interface {
	// Key returns the unique identifier for this shader, used as the module label.
	Key() string

	// Path returns the file the shader was loaded from, or "" for in-memory sources.
	Path() string

	// Source returns the processed WGSL source.
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// Declarations returns the binding declarations generated by @oxy:group annotations.
	//
	// Returns:
	//   - []Annotation: group annotations in source order
	Declarations() []Annotation

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor with the processed WGSL code
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader processes WGSL source into a Shader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: raw WGSL source, possibly annotated
//
// Returns:
//   - Shader: the processed shader
//   - error: error if pre-processing fails or an entry point is missing
func NewShader(key, source string) (Shader, error) {
	processed, declarations, err := preProcess(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:           key,
		source:        processed,
		declarations:  declarations,
		vertexEntry:   parseEntryPoint(processed, vertexEntryRegex),
		fragmentEntry: parseEntryPoint(processed, fragmentEntryRegex),
	}
	if s.vertexEntry == "" {
		return nil, fmt.Errorf("%w: shader %s has no @vertex function", ErrMissingEntryPoint, key)
	}
	if s.fragmentEntry == "" {
		return nil, fmt.Errorf("%w: shader %s has no @fragment function", ErrMissingEntryPoint, key)
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: processed,
		},
	}
	return s, nil
}

// LoadShader reads and processes a WGSL file. An empty path yields DefaultSource.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - path: the WGSL file to read
//
// Returns:
//   - Shader: the processed shader
//   - error: error if the file cannot be read or processed
func LoadShader(key, path string) (Shader, error) {
	if path == "" {
		return NewShader(key, DefaultSource)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read source file: %w", key, err)
	}
	s, err := NewShader(key, string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.(*shader).path = path
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Path() string {
	return s.path
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
