package shader

import (
	"log/slog"
	"strings"
)

// WatcherBuilderOption is a functional option for configuring a Watcher.
type WatcherBuilderOption func(*watcher)

// WithExtensions replaces the set of file extensions that trigger a reload.
// Extensions are matched case-insensitively and may be given with or without the leading dot.
//
// Parameters:
//   - extensions: the extensions to watch, e.g. ".wgsl"
//
// Returns:
//   - WatcherBuilderOption: option function to apply
func WithExtensions(extensions ...string) WatcherBuilderOption {
	return func(w *watcher) {
		if len(extensions) == 0 {
			return
		}
		w.extensions = w.extensions[:0:0]
		for _, ext := range extensions {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			w.extensions = append(w.extensions, ext)
		}
	}
}

// WithLogger sets the structured logger. A nil logger keeps slog.Default().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - WatcherBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) WatcherBuilderOption {
	return func(w *watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}
