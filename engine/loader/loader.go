// Package loader imports triangle meshes from OFF and OBJ files and caches them by name.
package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
)

// Format identifies a mesh file format.
type Format string

const (
	// FormatOFF is the Object File Format (.off).
	FormatOFF Format = "off"
	// FormatOBJ is the Wavefront OBJ format (.obj).
	FormatOBJ Format = "obj"
)

var (
	// ErrUnsupportedFormat is returned when no backend handles a file extension or format.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	// ErrMalformed is returned when a mesh file cannot be parsed.
	ErrMalformed = errors.New("malformed mesh file")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *slog.Logger

	meshCache map[string]model.Mesh

	backends map[Format]loaderBackend
}

// Loader defines the public-facing interface for loading and caching meshes.
// It hides the file format behind a backend chosen by extension and keeps every
// loaded mesh under its name.
type Loader interface {
	// Load imports a mesh file and caches the result under its path.
	// If the mesh is already cached, the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the mesh file
	//
	// Returns:
	//   - model.Mesh: the loaded mesh
	//   - error: error if the format is unsupported or loading fails
	Load(path string) (model.Mesh, error)

	// LoadReader imports a mesh from a stream and caches it under name, replacing any
	// previous entry.
	//
	// Parameters:
	//   - name: the cache key and mesh name
	//   - r: the reader providing mesh data
	//   - format: the format of the stream
	//
	// Returns:
	//   - model.Mesh: the loaded mesh
	//   - error: error if the format is unsupported or parsing fails
	LoadReader(name string, r io.Reader, format Format) (model.Mesh, error)

	// Get returns a cached mesh.
	//
	// Parameters:
	//   - name: the cache key
	//
	// Returns:
	//   - model.Mesh: the mesh, nil if absent
	//   - bool: whether the mesh was cached
	Get(name string) (model.Mesh, bool)

	// Meshes returns the sorted names of all cached meshes.
	Meshes() []string
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the OFF and OBJ backends registered.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger:    slog.Default(),
		meshCache: make(map[string]model.Mesh),
		backends: map[Format]loaderBackend{
			FormatOFF: &offLoaderBackend{},
			FormatOBJ: &objLoaderBackend{},
		},
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Mesh, error) {
	l.mu.RLock()
	cached, ok := l.meshCache[path]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	backend, err := l.resolveBackend(FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	defer f.Close()

	m, err := l.build(path, backend, f)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, format Format) (model.Mesh, error) {
	backend, err := l.resolveBackend(format)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	m, err := l.build(name, backend, r)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return m, nil
}

func (l *loader) Get(name string) (model.Mesh, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.meshCache[name]
	return m, ok
}

func (l *loader) Meshes() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.meshCache))
	for name := range l.meshCache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// build parses r, constructs the mesh and caches it under name.
func (l *loader) build(name string, backend loaderBackend, r io.Reader) (model.Mesh, error) {
	positions, indices, err := backend.Parse(r)
	if err != nil {
		return nil, err
	}
	m, err := model.NewMesh(positions, indices, model.WithName(name))
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.meshCache[name] = m
	l.mu.Unlock()

	l.logger.Info("mesh loaded",
		"name", name,
		"vertices", len(m.Vertices()),
		"triangles", len(m.Indices())/3,
		"edges", len(m.EdgeIndices())/2,
		"radius", m.BoundingRadius(),
	)
	return m, nil
}

// resolveBackend selects the backend registered for a format.
func (l *loader) resolveBackend(format Format) (loaderBackend, error) {
	if b, ok := l.backends[format]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// FormatFromPath derives the format from a file extension, case-insensitively.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the extension without its dot, lowercased
func FormatFromPath(path string) Format {
	return Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}
