package renderer

import (
	"errors"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
)

// DrawRecord is one pass captured by the headless backend.
type DrawRecord struct {
	Slot     int
	Viewport scene.Viewport
	Mode     scene.RenderMode
	Uniform  []byte
	// Elements is the number of indices the pass would draw.
	Elements int
}

// headlessRendererBackend keeps the last frame's draws in memory instead of touching a GPU.
type headlessRendererBackend struct {
	logger *slog.Logger

	width, height int
	presentMode   PresentMode

	mesh      *meshBuffers
	shader    shader.Shader
	pipelines int

	inFrame   bool
	pending   []DrawRecord
	lastFrame []DrawRecord
	presented int
	released  bool
}

var _ RendererBackend = &headlessRendererBackend{}

func newHeadlessRendererBackend(logger *slog.Logger) *headlessRendererBackend {
	return &headlessRendererBackend{logger: logger}
}

func (b *headlessRendererBackend) ConfigureSurface(width, height int) {
	b.width, b.height = width, height
	b.logger.Debug("surface configured", "width", width, "height", height)
}

func (b *headlessRendererBackend) SetPresentMode(mode PresentMode) {
	b.presentMode = mode
}

func (b *headlessRendererBackend) UploadMesh(mesh meshBuffers) error {
	if len(mesh.vertices) == 0 || mesh.indexCount == 0 {
		return errors.New("empty mesh")
	}
	b.mesh = &mesh
	return nil
}

func (b *headlessRendererBackend) BuildPipelines(s shader.Shader) error {
	if _, err := validateBindings(s); err != nil {
		return err
	}
	b.shader = s
	b.pipelines++
	return nil
}

func (b *headlessRendererBackend) BeginFrame() error {
	if b.inFrame {
		return errors.New("previous frame not yet ended")
	}
	b.inFrame = true
	b.pending = b.pending[:0]
	return nil
}

func (b *headlessRendererBackend) Draw(slot int, vp scene.Viewport, mode scene.RenderMode, uniform []byte) {
	if !b.inFrame || b.mesh == nil {
		return
	}
	elements := b.mesh.indexCount
	if mode == scene.RenderModeWireframe {
		elements = b.mesh.edgeCount
	}
	b.pending = append(b.pending, DrawRecord{
		Slot:     slot,
		Viewport: vp,
		Mode:     mode,
		Uniform:  append([]byte(nil), uniform...),
		Elements: elements,
	})
}

func (b *headlessRendererBackend) EndFrame() {
	if !b.inFrame {
		return
	}
	b.inFrame = false
	b.lastFrame = append(b.lastFrame[:0], b.pending...)
}

func (b *headlessRendererBackend) Present() {
	b.presented++
	b.logger.Debug("frame presented", "frame", b.presented, "passes", len(b.lastFrame))
}

func (b *headlessRendererBackend) Release() {
	b.released = true
	b.mesh = nil
}
