// Package engine runs the viewer loop: window events feed the input dispatcher, shader
// changes trigger reloads, and each iteration renders one frame snapshot.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/input"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
)

var (
	// ErrNoWindow is returned by Run when the engine has no window.
	ErrNoWindow = errors.New("engine: no window")
	// ErrNoDispatcher is returned by NewEngine without WithDispatcher.
	ErrNoDispatcher = errors.New("engine: no dispatcher")
	// ErrNoRenderer is returned by NewEngine without WithRenderer.
	ErrNoRenderer = errors.New("engine: no renderer")
)

// engine implements the Engine interface.
// Everything runs on the caller's thread; the shader watcher's goroutine only
// communicates through its Changes channel.
type engine struct {
	logger *slog.Logger

	window     window.Window
	dispatcher input.Dispatcher
	renderer   renderer.Renderer
	watcher    shader.Watcher

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	lastRender time.Time
	now        func() time.Time
	sleep      func(time.Duration)
}

// Engine is the main entry point for the viewer.
// It owns the frame loop and connects the window, the dispatcher and the renderer.
type Engine interface {
	// Window returns the underlying window, nil for headless engines.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Dispatcher returns the input dispatcher.
	Dispatcher() input.Dispatcher

	// Renderer returns the renderer.
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step runs one iteration without polling the window: pending shader reloads
	// are applied, and the current frame snapshot is rendered.
	//
	// Returns:
	//   - error: the render error, if any
	Step() error

	// Run polls window events and steps until the window closes or Quit is called.
	// Render errors other than renderer.ErrNoMesh are logged and the loop continues.
	//
	// Returns:
	//   - error: ErrNoWindow without a window, or a fatal render error
	Run() error

	// Quit stops Run after the current iteration.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// When a window is given, its callbacks are connected to the dispatcher.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: ErrNoDispatcher or ErrNoRenderer if either is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		logger:      slog.Default(),
		quitChannel: make(chan struct{}),
		now:         time.Now,
		sleep:       time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.dispatcher == nil {
		return nil, ErrNoDispatcher
	}
	if e.renderer == nil {
		return nil, ErrNoRenderer
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		d := e.dispatcher
		e.window.SetResizeCallback(d.Resize)
		e.window.SetScrollCallback(d.Scroll)
		e.window.SetKeyCallback(d.KeyEvent)
		e.window.SetMouseButtonCallback(d.MouseButtonEvent)
		e.window.SetMouseMoveCallback(d.MouseMoved)
	}

	e.lastRender = e.now()
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Dispatcher() input.Dispatcher {
	return e.dispatcher
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) Step() error {
	e.reloadShaders()

	start := e.now()
	dt := float32(start.Sub(e.lastRender).Seconds())
	e.lastRender = start

	if err := e.renderer.DrawFrame(e.dispatcher.Frame()); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	if e.profilingEnabled {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
	return nil
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	for {
		select {
		case <-e.quitChannel:
			return nil
		default:
		}
		if !e.window.PollEvents() {
			return nil
		}
		if err := e.Step(); err != nil {
			if errors.Is(err, renderer.ErrNoMesh) {
				return err
			}
			e.logger.Warn("frame failed", "error", err)
		}
	}
}

// Quit signals Run to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// reloadShaders drains the watcher and reloads once if anything changed.
// A failed reload keeps the previous program.
func (e *engine) reloadShaders() {
	if e.watcher == nil {
		return
	}
	var changed string
	for pending := true; pending; {
		select {
		case path, ok := <-e.watcher.Changes():
			if !ok {
				e.watcher = nil
				pending = false
				break
			}
			changed = path
		default:
			pending = false
		}
	}
	if changed == "" {
		return
	}
	if err := e.renderer.ReloadShaders(); err != nil {
		e.logger.Warn("shader reload failed", "changed", changed, "error", err)
		return
	}
	e.logger.Debug("shader reload", "changed", changed)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
