package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oxyview.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	assert.InDelta(t, 1.5707963, cfg.Camera.FovYRadians(), 1e-6)
	assert.InDelta(t, 0.3141593, cfg.Controls.AngleStepRadians(), 1e-6)
	assert.Equal(t, 5*time.Second, cfg.Engine.ProfileEvery())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
title = "lemming"
width = 1600

[camera]
fov_y = 60.0
eye = [1.0, 2.0, 3.0]
frame = false

[model]
path = "models/lemming.off"

[shaders]
file = "shaders/viewer.wgsl"
extensions = [".wgsl", ".inc"]

[log]
level = "DEBUG"

[engine]
frame_limit = 60
profile = true
profile_interval = "2s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lemming", cfg.Window.Title)
	assert.Equal(t, 1600, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset fields keep defaults")
	assert.Equal(t, float32(60), cfg.Camera.FovY)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Eye)
	assert.False(t, cfg.Camera.Frame)
	assert.Equal(t, "models/lemming.off", cfg.Model.Path)
	assert.Equal(t, []string{".wgsl", ".inc"}, cfg.Shaders.Extensions)
	assert.True(t, cfg.Shaders.Watch)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, 60, cfg.Engine.FrameLimit)
	assert.Equal(t, 2*time.Second, cfg.Engine.ProfileEvery())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[window]\ntitel = \"typo\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "titel")
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeConfig(t, "[window\nwidth = 3\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadValidates(t *testing.T) {
	path := writeConfig(t, "[camera]\nnear = 5.0\nfar = 1.0\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":        func(c *Config) { c.Window.Width = 0 },
		"negative min":      func(c *Config) { c.Window.MinHeight = -1 },
		"fov too wide":      func(c *Config) { c.Camera.FovY = 180 },
		"zero near":         func(c *Config) { c.Camera.Near = 0 },
		"far before near":   func(c *Config) { c.Camera.Far = 0.05 },
		"zero up":           func(c *Config) { c.Camera.Up = [3]float32{} },
		"eye on target":     func(c *Config) { c.Camera.Frame = false; c.Camera.Eye = c.Camera.Target },
		"zero sensitivity":  func(c *Config) { c.Camera.Sensitivity = 0 },
		"zero pan step":     func(c *Config) { c.Controls.PanStep = 0 },
		"zero angle step":   func(c *Config) { c.Controls.AngleStep = 0 },
		"scale step of one": func(c *Config) { c.Controls.ScaleStep = 1 },
		"scroll factor":     func(c *Config) { c.Controls.ScrollFactor = 1 },
		"backend":           func(c *Config) { c.Renderer.Backend = "vulkan" },
		"frame limit":       func(c *Config) { c.Engine.FrameLimit = -1 },
		"log level":         func(c *Config) { c.Log.Level = "loud" },
		"log format":        func(c *Config) { c.Log.Format = "xml" },
		"profile interval":  func(c *Config) { c.Engine.Profile = true; c.Engine.ProfileInterval = "soon" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
