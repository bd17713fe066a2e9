package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the logger used to report loaded meshes.
//
// Parameters:
//   - logger: the logger, nil keeps the default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMesh is an option builder that pre-populates the mesh cache.
//
// Parameters:
//   - name: the cache key for the mesh
//   - m: the mesh to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(name string, m model.Mesh) LoaderBuilderOption {
	return func(l *loader) {
		if m != nil {
			l.meshCache[name] = m
		}
	}
}
