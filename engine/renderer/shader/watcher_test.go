package shader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchTimeout = 5 * time.Second

func TestWatcherReportsShaderWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, dir, w.Dir())

	path := filepath.Join(dir, "viewer.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(DefaultSource), 0o644))

	select {
	case got := <-w.Changes():
		assert.Equal(t, path, got)
	case <-time.After(watchTimeout):
		t.Fatal("no change notification")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, WithExtensions("FRAG"))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "viewer.wgsl"), []byte("x"), 0o644))
	frag := filepath.Join(dir, "simple.frag")
	require.NoError(t, os.WriteFile(frag, []byte("x"), 0o644))

	select {
	case got := <-w.Changes():
		assert.Equal(t, frag, got)
	case <-time.After(watchTimeout):
		t.Fatal("no change notification")
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	w := &watcher{changes: make(chan string, 1)}
	w.notify("a.wgsl")
	w.notify("b.wgsl")
	w.notify("c.wgsl")

	require.Len(t, w.changes, 1)
	assert.Equal(t, "c.wgsl", <-w.changes)
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Changes()
	assert.False(t, ok, "Changes is closed after Close")
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
