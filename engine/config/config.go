// Package config reads the viewer's TOML configuration file.
//
// Every field has a default, so a file only needs the values it changes:
//
//	[window]
//	title = "lemming"
//	width = 1600
//
//	[model]
//	path = "models/lemming.off"
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned by Validate and Load when a value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete viewer configuration.
type Config struct {
	Window   Window   `toml:"window"`
	Camera   Camera   `toml:"camera"`
	Controls Controls `toml:"controls"`
	Shaders  Shaders  `toml:"shaders"`
	Model    Model    `toml:"model"`
	Renderer Renderer `toml:"renderer"`
	Log      Log      `toml:"log"`
	Engine   Engine   `toml:"engine"`
}

// Window configures the native window.
type Window struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
}

// Camera configures the initial pose and the projection.
type Camera struct {
	// FovY is the vertical field of view in degrees.
	FovY   float32    `toml:"fov_y"`
	Near   float32    `toml:"near"`
	Far    float32    `toml:"far"`
	Eye    [3]float32 `toml:"eye"`
	Target [3]float32 `toml:"target"`
	Up     [3]float32 `toml:"up"`
	// Frame places the eye so the loaded mesh fills the view, overriding Eye and Target.
	Frame bool `toml:"frame"`
	// Sensitivity scales trackball rotation.
	Sensitivity float32 `toml:"sensitivity"`
}

// Controls configures keyboard and scroll step sizes.
type Controls struct {
	PanStep float32 `toml:"pan_step"`
	// AngleStep is the rotation step in degrees.
	AngleStep    float32 `toml:"angle_step"`
	ScaleStep    float32 `toml:"scale_step"`
	ScrollFactor float32 `toml:"scroll_factor"`
}

// Shaders configures the WGSL program and hot reload.
type Shaders struct {
	// File is the WGSL program; empty selects the built-in program.
	File string `toml:"file"`
	// Watch reloads the program when files in its directory change.
	Watch      bool     `toml:"watch"`
	Extensions []string `toml:"extensions"`
}

// Model configures the mesh to display.
type Model struct {
	// Path is an .off or .obj file; empty shows a unit cube.
	Path string `toml:"path"`
}

// Renderer configures the GPU backend.
type Renderer struct {
	// Backend is "wgpu" or "headless".
	Backend    string     `toml:"backend"`
	VSync      bool       `toml:"vsync"`
	MSAA       bool       `toml:"msaa"`
	Software   bool       `toml:"software"`
	ClearColor [4]float64 `toml:"clear_color"`
}

// Log configures the structured logger.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
	// Format is "text" or "json".
	Format string `toml:"format"`
}

// Engine configures the main loop.
type Engine struct {
	// FrameLimit caps frames per second; 0 is uncapped.
	FrameLimit int `toml:"frame_limit"`
	// Profile logs frame statistics periodically.
	Profile bool `toml:"profile"`
	// ProfileInterval is the reporting period, e.g. "5s".
	ProfileInterval string `toml:"profile_interval"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: Window{
			Title:     "oxy-view",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
		},
		Camera: Camera{
			FovY:        90,
			Near:        0.1,
			Far:         10000,
			Eye:         [3]float32{0, 0, 3},
			Up:          [3]float32{0, 1, 0},
			Frame:       true,
			Sensitivity: 1,
		},
		Controls: Controls{
			PanStep:      0.1,
			AngleStep:    18,
			ScaleStep:    1.1,
			ScrollFactor: 0.1,
		},
		Shaders: Shaders{
			Watch:      true,
			Extensions: []string{".wgsl"},
		},
		Renderer: Renderer{
			Backend:    "wgpu",
			VSync:      true,
			MSAA:       true,
			ClearColor: [4]float64{0.8, 0.8, 0.8, 1},
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Engine: Engine{
			ProfileInterval: "5s",
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
// Unknown keys are rejected so typos surface as errors.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: unknown keys:\n%s", path, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return cfg, fmt.Errorf("config %s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every value for range errors.
//
// Returns:
//   - error: the first problem found, wrapping ErrInvalidConfig
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Window.MinWidth < 0 || c.Window.MinHeight < 0:
		return invalid("window minimum size %dx%d must not be negative", c.Window.MinWidth, c.Window.MinHeight)
	case !(c.Camera.FovY > 0 && c.Camera.FovY < 180):
		return invalid("camera fov_y %g must be in (0, 180)", c.Camera.FovY)
	case !(c.Camera.Near > 0):
		return invalid("camera near %g must be positive", c.Camera.Near)
	case !(c.Camera.Far > c.Camera.Near):
		return invalid("camera far %g must exceed near %g", c.Camera.Far, c.Camera.Near)
	case mgl32.Vec3(c.Camera.Up).Len() == 0:
		return invalid("camera up must not be zero")
	case !c.Camera.Frame && mgl32.Vec3(c.Camera.Eye).Sub(c.Camera.Target).Len() == 0:
		return invalid("camera eye and target must differ")
	case !(c.Camera.Sensitivity > 0):
		return invalid("camera sensitivity %g must be positive", c.Camera.Sensitivity)
	case !(c.Controls.PanStep > 0):
		return invalid("controls pan_step %g must be positive", c.Controls.PanStep)
	case !(c.Controls.AngleStep > 0):
		return invalid("controls angle_step %g must be positive", c.Controls.AngleStep)
	case !(c.Controls.ScaleStep > 1):
		return invalid("controls scale_step %g must exceed 1", c.Controls.ScaleStep)
	case !(c.Controls.ScrollFactor > 0 && c.Controls.ScrollFactor < 1):
		return invalid("controls scroll_factor %g must be in (0, 1)", c.Controls.ScrollFactor)
	case c.Renderer.Backend != "wgpu" && c.Renderer.Backend != "headless":
		return invalid("renderer backend %q must be wgpu or headless", c.Renderer.Backend)
	case c.Engine.FrameLimit < 0:
		return invalid("engine frame_limit %d must not be negative", c.Engine.FrameLimit)
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid("%v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log format %q must be text or json", c.Log.Format)
	}
	if c.Engine.Profile {
		if d, err := time.ParseDuration(c.Engine.ProfileInterval); err != nil || d <= 0 {
			return invalid("engine profile_interval %q must be a positive duration", c.Engine.ProfileInterval)
		}
	}
	return nil
}

// LogLevel returns the configured slog level.
//
// Returns:
//   - slog.Level: the level, info if unparsable
func (c Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// FovYRadians returns the vertical field of view in radians.
func (c Camera) FovYRadians() float32 {
	return mgl32.DegToRad(c.FovY)
}

// AngleStepRadians returns the keyboard rotation step in radians.
func (c Controls) AngleStepRadians() float32 {
	return c.AngleStep * math32.Pi / 180
}

// ProfileEvery returns the profiler reporting period, 5s if unparsable.
func (e Engine) ProfileEvery() time.Duration {
	d, err := time.ParseDuration(e.ProfileInterval)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("log level %q must be debug, info, warn or error", s)
	}
	return level, nil
}
