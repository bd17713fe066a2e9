package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSourceProcesses(t *testing.T) {
	s, err := LoadShader("viewer", "")
	require.NoError(t, err)

	assert.Equal(t, "viewer", s.Key())
	assert.Empty(t, s.Path())
	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.Contains(t, s.Source(), "struct FrameUniform")
	assert.Contains(t, s.Source(), "struct VertexInput")
	assert.Contains(t, s.Source(), "@group(0) @binding(0) var<uniform> frame: FrameUniform;")
	assert.NotContains(t, s.Source(), annotationPrefix)

	require.Len(t, s.Declarations(), 1)
	d := s.Declarations()[0]
	assert.Equal(t, "frame", d.Name)
	assert.Equal(t, 0, d.Group)
	assert.Equal(t, 0, d.Binding)

	require.NotNil(t, s.Module())
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
}

func TestLoadShaderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.wgsl")
	src := strings.ReplaceAll(DefaultSource, "vs_main", "vertex_entry")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	s, err := LoadShader("custom", path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, "vertex_entry", s.VertexEntryPoint())

	_, err = LoadShader("missing", filepath.Join(t.TempDir(), "nope.wgsl"))
	assert.Error(t, err)
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("broken", "@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }")
	assert.ErrorIs(t, err, ErrMissingEntryPoint)

	// commented-out entry points do not count
	_, err = NewShader("commented", "// @vertex fn vs() {}\n@fragment fn fs() {}")
	assert.ErrorIs(t, err, ErrMissingEntryPoint)
}

func TestPreProcessErrors(t *testing.T) {
	cases := map[string]string{
		"unknown struct":        "//@oxy:include lights",
		"unknown address space": "//@oxy:group 0 0 private frame frame",
		"bad group number":      "//@oxy:group x 0 uniform frame frame",
		"wrong arg count":       "//@oxy:include",
		"unknown annotation":    "//@oxy:provider frame",
		"empty annotation":      "//@oxy:",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := preProcess(src)
			assert.Error(t, err)
		})
	}
}

func TestParseAnnotationIgnoresCode(t *testing.T) {
	a, err := parseAnnotation(`let s = "@oxy:include frame";`, 1)
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = parseAnnotation("   //@oxy:group 1 2 read_write data frame", 7)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AnnotationTypeBindingGroup, a.Type)
	assert.Equal(t, 1, a.Group)
	assert.Equal(t, 2, a.Binding)
	assert.Equal(t, "read_write", a.AddressSpace)
	assert.Equal(t, "data", a.Name)
	assert.Equal(t, 7, a.Line)
}

func TestStripComments(t *testing.T) {
	src := "a /* b /* nested */ c */ d // tail\ne"
	assert.Equal(t, "a  d \ne\n", stripComments(src))
}
