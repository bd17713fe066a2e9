// Command oxyview displays a triangle mesh with trackball orbiting, keyboard model
// controls, a wireframe overlay, split view and shader hot reload.
//
//	oxyview -config oxyview.toml -model models/lemming.off
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-view/engine"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/config"
	"github.com/Carmen-Shannon/oxy-view/engine/input"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "oxyview:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("oxyview", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	modelPath := fs.String("model", "", "mesh file (.off or .obj), overrides [model] path")
	profile := fs.Bool("profile", false, "log frame statistics periodically")
	headless := fs.Bool("headless", false, "render without a window")
	frames := fs.Int("frames", 1, "frames to render in headless mode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// ── Config ──────────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *modelPath != "" {
		cfg.Model.Path = *modelPath
	}
	if *profile {
		cfg.Engine.Profile = true
	}
	if *headless {
		cfg.Renderer.Backend = "headless"
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	// ── Mesh ────────────────────────────────────────────────────────────
	mesh := model.Cube(1)
	if cfg.Model.Path != "" {
		loaded, err := loader.NewLoader(loader.WithLogger(logger)).Load(cfg.Model.Path)
		if err != nil {
			return err
		}
		mesh = loaded
	}

	// ── Window ──────────────────────────────────────────────────────────
	var win window.Window
	width, height := cfg.Window.Width, cfg.Window.Height
	if cfg.Renderer.Backend != "headless" {
		w, err := window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
			window.WithMinSize(cfg.Window.MinWidth, cfg.Window.MinHeight),
		)
		if err != nil {
			return err
		}
		defer w.Close()
		win = w
		width, height = w.Width(), w.Height()
	}

	// ── Camera ──────────────────────────────────────────────────────────
	eye, target := mgl32.Vec3(cfg.Camera.Eye), mgl32.Vec3(cfg.Camera.Target)
	if cfg.Camera.Frame {
		eye, target = frameMesh(mesh, cfg.Camera.FovYRadians())
	}
	cam, err := camera.NewCamera(
		camera.WithPerspective(cfg.Camera.FovYRadians(), cfg.Camera.Near, cfg.Camera.Far),
		camera.WithViewport(width, height),
		camera.WithLookAt(eye, target, mgl32.Vec3(cfg.Camera.Up)),
	)
	if err != nil {
		return err
	}

	// ── Renderer ────────────────────────────────────────────────────────
	backend := renderer.BackendTypeWGPU
	if cfg.Renderer.Backend == "headless" {
		backend = renderer.BackendTypeHeadless
	}
	presentMode := renderer.PresentModeUncapped
	if cfg.Renderer.VSync {
		presentMode = renderer.PresentModeVSync
	}
	msaa := renderer.MSAAOff
	if cfg.Renderer.MSAA {
		msaa = renderer.MSAA4x
	}
	c := cfg.Renderer.ClearColor
	r, err := renderer.NewRenderer(backend, win,
		renderer.WithShaderPath(cfg.Shaders.File),
		renderer.WithMesh(mesh),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
		renderer.WithClearColor(c[0], c[1], c[2], c[3]),
		renderer.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer r.Release()
	if win == nil {
		r.Resize(width, height)
	}

	// ── Input ───────────────────────────────────────────────────────────
	dispatcher := input.NewDispatcher(
		camera.NewTrackball(cam, camera.WithSensitivity(cfg.Camera.Sensitivity)),
		input.WithRenderer(r),
		input.WithLogger(logger),
		input.WithPanStep(cfg.Controls.PanStep),
		input.WithAngleStep(cfg.Controls.AngleStepRadians()),
		input.WithScaleStep(cfg.Controls.ScaleStep),
		input.WithScrollFactor(cfg.Controls.ScrollFactor),
	)

	// ── Engine ──────────────────────────────────────────────────────────
	options := []engine.EngineBuilderOption{
		engine.WithDispatcher(dispatcher),
		engine.WithRenderer(r),
		engine.WithLogger(logger),
		engine.WithRenderFrameLimit(float64(cfg.Engine.FrameLimit)),
		engine.WithProfiling(cfg.Engine.Profile),
		engine.WithProfiler(profiler.NewProfiler(
			profiler.WithLogger(logger),
			profiler.WithInterval(cfg.Engine.ProfileEvery()),
		)),
	}
	if win != nil {
		options = append(options, engine.WithWindow(win))
	}
	if cfg.Shaders.Watch && cfg.Shaders.File != "" {
		watcher, err := shader.NewWatcher(filepath.Dir(cfg.Shaders.File),
			shader.WithExtensions(cfg.Shaders.Extensions...),
			shader.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		defer watcher.Close()
		options = append(options, engine.WithShaderWatcher(watcher))
	}

	eng, err := engine.NewEngine(options...)
	if err != nil {
		return err
	}

	if win == nil {
		for range max(*frames, 0) {
			if err := eng.Step(); err != nil {
				return err
			}
		}
		logger.Info("headless run finished", "frames", r.FrameCount())
		return nil
	}

	logger.Info("viewer running", "mesh", mesh.Name(), "width", width, "height", height)
	return eng.Run()
}

// frameMesh places the eye on +Z so the mesh's bounding sphere fits the vertical field of view.
func frameMesh(m model.Mesh, fovY float32) (eye, target mgl32.Vec3) {
	target = m.Center()
	radius := math32.Max(m.BoundingRadius(), 1e-3)
	distance := 1.1 * radius / math32.Sin(fovY/2)
	return target.Add(mgl32.Vec3{0, 0, distance}), target
}

func newLogger(cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: config.Config{Log: cfg}.LogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
