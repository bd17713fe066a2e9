// Package input routes window events to the camera, the trackball and the session view state.
package input

import (
	"log/slog"
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer is the part of the renderer the dispatcher drives directly.
type Renderer interface {
	// Resize reconfigures render targets for a new framebuffer size.
	Resize(width, height int)
	// ReloadShaders recompiles the shader program from disk.
	ReloadShaders() error
}

// Dispatcher maps discrete window events onto camera, trackball and view state mutations.
// It is not safe for concurrent use; all methods must be called from the event thread.
//
// Key bindings (press and repeat unless noted):
//   - Up/Down: pan the model along Y
//   - Right/Left: pan the model along X
//   - PageUp/PageDown: shrink/grow the model
//   - W/S, A/D, Q/E: turn the model about X, Y and Z
//   - L: toggle the wireframe overlay (press only)
//   - K: toggle split view (press only)
//   - R: reload shaders (press only)
//   - Home: reset the view state and return the camera to its initial pose (press only)
type Dispatcher interface {
	// KeyEvent handles a keyboard event.
	//
	// Parameters:
	//   - keyCode: the virtual key code (see common.Key*)
	//   - action: press, repeat or release
	KeyEvent(keyCode uint32, action common.KeyAction)

	// MouseButtonEvent handles a mouse button transition. Any button starts and stops orbiting.
	//
	// Parameters:
	//   - button: the mouse button
	//   - action: press or release
	MouseButtonEvent(button common.MouseButton, action common.ButtonAction)

	// MouseMoved handles a cursor move. While orbiting the move drives the trackball.
	//
	// Parameters:
	//   - x, y: cursor position in pixels from the top-left corner
	MouseMoved(x, y int)

	// Scroll handles a scroll wheel event by zooming toward (dy > 0) or away from the target.
	//
	// Parameters:
	//   - dx, dy: horizontal and vertical scroll offsets
	Scroll(dx, dy float64)

	// Resize updates the camera viewport and the renderer for a new framebuffer size.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	Resize(width, height int)

	// Reset restores the view state and the camera home pose.
	Reset()

	// State returns a copy of the current view state.
	//
	// Returns:
	//   - scene.ViewState: the view state
	State() scene.ViewState

	// Frame builds the immutable frame snapshot for rendering.
	//
	// Returns:
	//   - scene.Frame: the snapshot of camera and view state
	Frame() scene.Frame

	// Trackball returns the trackball driven by mouse input.
	Trackball() camera.Trackball

	// Camera returns the camera driven by this dispatcher.
	Camera() camera.Camera
}

// homePose is the camera pose restored by Reset.
type homePose struct {
	position, target, up mgl32.Vec3
}

// dispatcherImpl is the implementation of the Dispatcher interface.
type dispatcherImpl struct {
	trackball camera.Trackball
	camera    camera.Camera
	renderer  Renderer
	logger    *slog.Logger

	state scene.ViewState
	home  homePose

	panStep     float32
	angleStep   float32
	scaleStep   float32
	scrollScale float32

	cursorX, cursorY int
	hasCursor        bool
}

var _ Dispatcher = &dispatcherImpl{}

// NewDispatcher creates a Dispatcher driving the given trackball and its camera.
// The camera pose at construction becomes the home pose used by Reset.
//
// Parameters:
//   - trackball: the trackball to drive; its camera receives zoom and resize events
//   - options: functional options to configure steps, renderer and logger
//
// Returns:
//   - Dispatcher: the new dispatcher
func NewDispatcher(trackball camera.Trackball, options ...DispatcherBuilderOption) Dispatcher {
	cam := trackball.Camera()
	d := &dispatcherImpl{
		trackball:   trackball,
		camera:      cam,
		logger:      slog.Default(),
		state:       scene.NewViewState(),
		home:        homePose{position: cam.Position(), target: cam.Target(), up: cam.Up()},
		panStep:     0.1,
		angleStep:   math.Pi / 10,
		scaleStep:   1.1,
		scrollScale: 0.1,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *dispatcherImpl) KeyEvent(keyCode uint32, action common.KeyAction) {
	if action == common.KeyRelease {
		return
	}

	switch keyCode {
	case common.KeyUp:
		d.state.Move(0, d.panStep)
	case common.KeyDown:
		d.state.Move(0, -d.panStep)
	case common.KeyRight:
		d.state.Move(d.panStep, 0)
	case common.KeyLeft:
		d.state.Move(-d.panStep, 0)
	case common.KeyPageUp:
		d.state.Rescale(1 / d.scaleStep)
	case common.KeyPageDown:
		d.state.Rescale(d.scaleStep)
	case common.KeyW:
		d.state.Rotate(d.angleStep, 0, 0)
	case common.KeyS:
		d.state.Rotate(-d.angleStep, 0, 0)
	case common.KeyA:
		d.state.Rotate(0, d.angleStep, 0)
	case common.KeyD:
		d.state.Rotate(0, -d.angleStep, 0)
	case common.KeyQ:
		d.state.Rotate(0, 0, d.angleStep)
	case common.KeyE:
		d.state.Rotate(0, 0, -d.angleStep)
	}

	if action != common.KeyPress {
		return
	}

	switch keyCode {
	case common.KeyL:
		d.state.ToggleWireframe()
		d.logger.Debug("wireframe overlay toggled", "enabled", d.state.Wireframe)
	case common.KeyK:
		d.state.ToggleSplit()
		d.logger.Debug("split view toggled", "enabled", d.state.Split)
	case common.KeyR:
		d.reloadShaders()
	case common.KeyHome:
		d.Reset()
	}
}

func (d *dispatcherImpl) MouseButtonEvent(button common.MouseButton, action common.ButtonAction) {
	switch action {
	case common.ButtonPress:
		d.trackball.Start()
		if d.hasCursor {
			d.track(d.cursorX, d.cursorY)
		}
	case common.ButtonRelease:
		d.trackball.Stop()
	}
}

func (d *dispatcherImpl) MouseMoved(x, y int) {
	d.cursorX, d.cursorY, d.hasCursor = x, y, true
	d.track(x, y)
}

func (d *dispatcherImpl) Scroll(dx, dy float64) {
	if dy == 0 {
		return
	}
	if err := d.camera.Zoom(-d.scrollScale * float32(dy)); err != nil {
		d.logger.Debug("zoom rejected", "delta", dy, "error", err)
	}
}

func (d *dispatcherImpl) Resize(width, height int) {
	if err := d.camera.SetViewport(width, height); err != nil {
		// minimized windows report a zero framebuffer; keep rendering at the last size
		d.logger.Debug("viewport unchanged", "width", width, "height", height, "error", err)
		return
	}
	if d.renderer != nil {
		d.renderer.Resize(width, height)
	}
}

func (d *dispatcherImpl) Reset() {
	d.state.Reset()
	d.trackball.Stop()
	if err := d.camera.LookAt(d.home.position, d.home.target, d.home.up); err != nil {
		d.logger.Warn("failed to restore camera home pose", "error", err)
	}
}

func (d *dispatcherImpl) State() scene.ViewState {
	return d.state
}

func (d *dispatcherImpl) Frame() scene.Frame {
	return d.state.Snapshot(d.camera)
}

func (d *dispatcherImpl) Trackball() camera.Trackball {
	return d.trackball
}

func (d *dispatcherImpl) Camera() camera.Camera {
	return d.camera
}

func (d *dispatcherImpl) track(x, y int) {
	if err := d.trackball.Track(x, y); err != nil {
		d.logger.Debug("orbit step rejected", "x", x, "y", y, "error", err)
	}
}

func (d *dispatcherImpl) reloadShaders() {
	if d.renderer == nil {
		return
	}
	if err := d.renderer.ReloadShaders(); err != nil {
		d.logger.Error("shader reload failed", "error", err)
		return
	}
	d.logger.Info("shaders reloaded")
}
