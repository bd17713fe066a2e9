package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// vertexBufferLayout describes model.GPUVertex: position at location 0, normal at location 1.
var vertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(model.GPUVertexSize),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	},
}

// wgpuPipelines is one compiled shader: a triangle pipeline and a line pipeline sharing a layout.
type wgpuPipelines struct {
	module          *wgpu.ShaderModule
	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	filled          *wgpu.RenderPipeline
	wireframe       *wgpu.RenderPipeline
	binding         frameBinding
}

func (p *wgpuPipelines) release() {
	if p == nil {
		return
	}
	if p.filled != nil {
		p.filled.Release()
	}
	if p.wireframe != nil {
		p.wireframe.Release()
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
	}
	if p.module != nil {
		p.module.Release()
	}
}

// uniformSlot holds the frame uniform of one pass.
type uniformSlot struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	logger *slog.Logger

	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	width, height        int
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	clearColor           wgpu.Color

	presentMode wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass

	pipelines *wgpuPipelines
	slots     []uniformSlot

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	edgeBuffer   *wgpu.Buffer
	indexCount   int
	edgeCount    int

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor [4]float64, logger *slog.Logger) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		logger:      logger,
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: clearColor[0], G: clearColor[1], B: clearColor[2], A: clearColor[3]},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		b.Release()
		return nil, errors.New("surface reports no texture formats")
	}
	b.surfaceFormat = &capabilities.Formats[0]

	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.width, b.height = width, height
	capabilities := b.surface.GetCapabilities(b.adapter)

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			b.logger.Error("failed to create msaa texture", "error", err)
			return
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			b.logger.Error("failed to create msaa view", "error", err)
			return
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		b.logger.Error("failed to create depth texture", "error", err)
		return
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		b.logger.Error("failed to create depth view", "error", err)
		return
	}

	// With MSAA, View is the MSAA texture and ResolveTarget is set per frame to the
	// swapchain view. Without it, View is set per frame and ResolveTarget stays nil.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
	b.renderPassDescriptor = nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) UploadMesh(mesh meshBuffers) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertices, err := b.createBuffer(mesh.label+" Vertex Buffer", mesh.vertices, wgpu.BufferUsageVertex)
	if err != nil {
		return err
	}
	indices, err := b.createBuffer(mesh.label+" Index Buffer", mesh.indices, wgpu.BufferUsageIndex)
	if err != nil {
		vertices.Release()
		return err
	}
	edges, err := b.createBuffer(mesh.label+" Edge Buffer", mesh.edges, wgpu.BufferUsageIndex)
	if err != nil {
		vertices.Release()
		indices.Release()
		return err
	}

	b.releaseMesh()
	b.vertexBuffer, b.indexBuffer, b.edgeBuffer = vertices, indices, edges
	b.indexCount, b.edgeCount = mesh.indexCount, mesh.edgeCount
	return nil
}

func (b *wgpuRendererBackendImpl) createBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: no data", label)
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) releaseMesh() {
	for _, buf := range []*wgpu.Buffer{b.vertexBuffer, b.indexBuffer, b.edgeBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	b.vertexBuffer, b.indexBuffer, b.edgeBuffer = nil, nil, nil
	b.indexCount, b.edgeCount = 0, 0
}

func (b *wgpuRendererBackendImpl) BuildPipelines(s shader.Shader) error {
	binding, err := validateBindings(s)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p := &wgpuPipelines{binding: binding}
	built := false
	defer func() {
		if !built {
			p.release()
		}
	}()

	p.module, err = b.device.CreateShaderModule(s.Module())
	if err != nil {
		return err
	}

	p.bindGroupLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: s.Key() + " Frame Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    uint32(binding.binding),
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(camera.GPUFrameUniformSize),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout for group %d: %w", binding.group, err)
	}

	p.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            s.Key(),
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.bindGroupLayout},
	})
	if err != nil {
		return err
	}

	p.filled, err = b.createRenderPipeline(s, p, "Filled", wgpu.PrimitiveTopologyTriangleList, wgpu.CompareFunctionLess, 1)
	if err != nil {
		return err
	}
	// Lines are drawn on top of coincident faces, so they pass at equal depth.
	p.wireframe, err = b.createRenderPipeline(s, p, "Wireframe", wgpu.PrimitiveTopologyLineList, wgpu.CompareFunctionLessEqual, 0)
	if err != nil {
		return err
	}

	b.pipelines.release()
	b.pipelines = p
	built = true

	// bind groups reference the old layout
	for i := range b.slots {
		if b.slots[i].bindGroup != nil {
			b.slots[i].bindGroup.Release()
			b.slots[i].bindGroup = nil
		}
	}
	return nil
}

func (b *wgpuRendererBackendImpl) createRenderPipeline(
	s shader.Shader,
	p *wgpuPipelines,
	name string,
	topology wgpu.PrimitiveTopology,
	depthCompare wgpu.CompareFunction,
	depthBias int32,
) (*wgpu.RenderPipeline, error) {
	return b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  s.Key() + " " + name + " Render Pipeline",
		Layout: p.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: s.VertexEntryPoint(),
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: s.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled:   true,
			DepthCompare:        depthCompare,
			DepthBias:           depthBias,
			DepthBiasSlopeScale: float32(depthBias),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
}

// slot returns the uniform buffer and bind group for a pass, creating them on first use.
func (b *wgpuRendererBackendImpl) slot(i int) (*uniformSlot, error) {
	for len(b.slots) <= i {
		b.slots = append(b.slots, uniformSlot{})
	}
	s := &b.slots[i]
	if s.buffer == nil {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("Frame Uniform %d", i),
			Size:  uint64(camera.GPUFrameUniformSize),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
		s.buffer = buf
	}
	if s.bindGroup == nil {
		bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("Frame Bind Group %d", i),
			Layout: b.pipelines.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: uint32(b.pipelines.binding.binding),
					Buffer:  s.buffer,
					Offset:  0,
					Size:    wgpu.WholeSize,
				},
			},
		})
		if err != nil {
			return nil, err
		}
		s.bindGroup = bg
	}
	return s, nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// a previous frame's surface texture still held means Present was skipped
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	if b.renderPassDescriptor == nil {
		return fmt.Errorf("surface not configured")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) Draw(slotIndex int, vp scene.Viewport, mode scene.RenderMode, uniform []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || b.pipelines == nil || b.vertexBuffer == nil {
		return
	}
	s, err := b.slot(slotIndex)
	if err != nil {
		b.logger.Error("failed to allocate frame uniform", "slot", slotIndex, "error", err)
		return
	}
	b.queue.WriteBuffer(s.buffer, 0, uniform)

	pipeline, indexBuffer, count := b.pipelines.filled, b.indexBuffer, b.indexCount
	if mode == scene.RenderModeWireframe {
		pipeline, indexBuffer, count = b.pipelines.wireframe, b.edgeBuffer, b.edgeCount
	}

	// scene viewports start at the bottom-left, wgpu viewports at the top-left
	y := b.height - vp.Y - vp.Height
	b.framePass.SetViewport(float32(vp.X), float32(y), float32(vp.Width), float32(vp.Height), 0, 1)
	b.framePass.SetPipeline(pipeline)
	b.framePass.SetBindGroup(0, s.bindGroup, nil)
	b.framePass.SetVertexBuffer(0, b.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(count), 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.logger.Error("failed to finish command encoder", "error", err)
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.slots {
		if s.bindGroup != nil {
			s.bindGroup.Release()
		}
		if s.buffer != nil {
			s.buffer.Release()
		}
	}
	b.slots = nil
	b.pipelines.release()
	b.pipelines = nil
	b.releaseMesh()
	b.releaseTargets()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
