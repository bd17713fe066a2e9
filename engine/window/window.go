// Package window wraps a GLFW window and translates its events into the viewer's input
// vocabulary (key codes, key actions, mouse buttons and pixel positions).
package window

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotInitialized is returned when an operation needs the platform window and none exists.
var ErrNotInitialized = errors.New("window is not initialized")

// Window provides platform windowing and input event handling.
// All callbacks run on the thread that calls PollEvents.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the horizontal and vertical scroll offsets (positive dy = wheel up)
	SetScrollCallback(callback func(dx, dy float64))

	// SetKeyCallback sets the callback for key press, repeat and release events.
	// Escape is consumed by the window and closes it.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code and the key action
	SetKeyCallback(callback func(keyCode uint32, action common.KeyAction))

	// SetMouseButtonCallback sets the callback for mouse button press and release events.
	//
	// Parameters:
	//   - callback: function receiving the button and its transition
	SetMouseButtonCallback(callback func(button common.MouseButton, action common.ButtonAction))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position in pixels from the top-left corner
	SetMouseMoveCallback(callback func(x, y int))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// PollEvents processes pending window events without blocking, invoking the registered callbacks.
	//
	// Returns:
	//   - bool: true if the window is still running afterwards
	PollEvents() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: ErrNotInitialized if there is no platform window
	Close() error

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	minWidth, minHeight int
	maxWidth, maxHeight int

	// width and height track the framebuffer size, which may differ from the requested size on high-DPI displays.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize      func(width, height int)
	onScroll      func(dx, dy float64)
	onKey         func(keyCode uint32, action common.KeyAction)
	onMouseButton func(button common.MouseButton, action common.ButtonAction)
	onMouseMove   func(x, y int)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Must be called from the main goroutine; the calling OS thread is locked for GLFW.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if GLFW fails to initialize or create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

// newEngineWindow applies defaults and options without touching the platform layer.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-view",
		minWidth:  320,
		minHeight: 240,
		maxWidth:  3840,
		maxHeight: 2160,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(dx, dy float64)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyCallback(callback func(keyCode uint32, action common.KeyAction)) {
	w.onKey = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button common.MouseButton, action common.ButtonAction)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) PollEvents() bool {
	if w.internalWindow == nil {
		return false
	}
	return platformProcessMessages(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// resized records a new framebuffer size and forwards it to the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// cursorMoved converts a cursor position in window coordinates to framebuffer pixels
// and forwards it to the mouse move callback.
// On high-DPI displays the framebuffer is larger than the window by the content scale.
func (w *engineWindow) cursorMoved(x, y float64, windowWidth, windowHeight int) {
	if w.onMouseMove == nil {
		return
	}
	if windowWidth > 0 && w.width > 0 {
		x *= float64(w.width) / float64(windowWidth)
	}
	if windowHeight > 0 && w.height > 0 {
		y *= float64(w.height) / float64(windowHeight)
	}
	w.onMouseMove(int(x), int(y))
}
