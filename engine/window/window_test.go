package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("viewer"),
		WithSize(800, 600),
		WithMinSize(100, 50),
		WithMaxSize(1920, 1080),
	)
	assert.Equal(t, "viewer", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, 100, w.minWidth)
	assert.Equal(t, 50, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, 1080, w.maxHeight)

	d := newEngineWindow(WithSize(0, -5))
	assert.Equal(t, 1280, d.Width())
	assert.Equal(t, 720, d.Height())
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.False(t, w.PollEvents())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorIs(t, w.Close(), ErrNotInitialized)
}

func TestResizedForwardsToCallback(t *testing.T) {
	w := newEngineWindow()
	w.resized(10, 20)
	assert.Equal(t, 10, w.Width())

	var gotW, gotH int
	w.SetResizeCallback(func(width, height int) { gotW, gotH = width, height })
	w.resized(640, 480)
	assert.Equal(t, 640, gotW)
	assert.Equal(t, 480, gotH)
	assert.Equal(t, 480, w.Height())
}

func TestActionMapping(t *testing.T) {
	cases := []struct {
		in   glfw.Action
		want common.KeyAction
	}{
		{glfw.Press, common.KeyPress},
		{glfw.Repeat, common.KeyRepeat},
		{glfw.Release, common.KeyRelease},
	}
	for _, c := range cases {
		got, ok := keyAction(c.in)
		assert.True(t, ok)
		assert.Equal(t, c.want, got)
	}

	b, ok := buttonAction(glfw.Press)
	assert.True(t, ok)
	assert.Equal(t, common.ButtonPress, b)
	b, ok = buttonAction(glfw.Release)
	assert.True(t, ok)
	assert.Equal(t, common.ButtonRelease, b)
	_, ok = buttonAction(glfw.Repeat)
	assert.False(t, ok)
}

func TestCursorScaledToFramebuffer(t *testing.T) {
	w := newEngineWindow()
	w.resized(1600, 1200)

	var gotX, gotY int
	w.SetMouseMoveCallback(func(x, y int) { gotX, gotY = x, y })

	// a 2x content scale doubles window coordinates
	w.cursorMoved(100.6, 50, 800, 600)
	assert.Equal(t, 201, gotX)
	assert.Equal(t, 100, gotY)

	// matching sizes pass through unchanged
	w.cursorMoved(300, 200, 1600, 1200)
	assert.Equal(t, 300, gotX)
	assert.Equal(t, 200, gotY)

	// an unknown window size is not scaled
	w.cursorMoved(7, 9, 0, 0)
	assert.Equal(t, 7, gotX)
	assert.Equal(t, 9, gotY)
}

func TestKeyCodesMatchGLFW(t *testing.T) {
	assert.Equal(t, glfw.KeyEscape, glfw.Key(common.KeyEsc))
	assert.Equal(t, glfw.KeyHome, glfw.Key(common.KeyHome))
	assert.Equal(t, glfw.KeyPageUp, glfw.Key(common.KeyPageUp))
	assert.Equal(t, glfw.KeyL, glfw.Key(common.KeyL))
}
