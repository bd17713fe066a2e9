package shader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// watcher is the implementation of the Watcher interface.
type watcher struct {
	dir        string
	extensions []string
	logger     *slog.Logger

	fs      *fsnotify.Watcher
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// Watcher reports edits to shader files in a directory.
// Events are produced on a background goroutine and coalesced into a single pending
// notification, so a consumer polling once per frame sees at most one reload per frame.
type Watcher interface {
	// Dir returns the watched directory.
	Dir() string

	// Changes returns the notification channel. Each value is the path of the most recent
	// file that triggered a pending reload. The channel is closed by Close.
	//
	// Returns:
	//   - <-chan string: the coalesced change notifications
	Changes() <-chan string

	// Close stops watching and waits for the background goroutine to exit.
	// Safe to call multiple times.
	//
	// Returns:
	//   - error: error reported by the underlying file watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts watching dir for writes, creations and renames of shader files.
//
// Parameters:
//   - dir: the shader directory to watch
//   - options: functional options to configure extensions and logging
//
// Returns:
//   - Watcher: the running watcher
//   - error: error if the directory cannot be watched
func NewWatcher(dir string, options ...WatcherBuilderOption) (Watcher, error) {
	w := &watcher{
		dir:        dir,
		extensions: []string{".wgsl", ".vert", ".frag", ".glsl"},
		logger:     slog.Default(),
		changes:    make(chan string, 1),
		done:       make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.fs = fsw

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *watcher) Dir() string {
	return w.dir
}

func (w *watcher) Changes() <-chan string {
	return w.changes
}

func (w *watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

// run forwards relevant fsnotify events until Close is called.
func (w *watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("shader file changed", "path", event.Name, "op", event.Op.String())
			w.notify(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shader watcher error", "error", err)
		}
	}
}

// relevant reports whether event is a content change to a watched extension.
func (w *watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(event.Name)))
}

// notify replaces any pending notification with path.
func (w *watcher) notify(path string) {
	for {
		select {
		case w.changes <- path:
			return
		default:
		}
		select {
		case <-w.changes:
		default:
		}
	}
}
