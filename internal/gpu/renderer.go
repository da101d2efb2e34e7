//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// targetFormat is the offscreen color format. Its byte order matches
// image.NRGBA, so readback needs no swizzle.
const targetFormat = gputypes.TextureFormatRGBA8Unorm

// copyPitchAlignment is the WebGPU row pitch alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// MeshRenderer draws mesh gradients into an offscreen texture and reads
// them back. It is not safe for concurrent use; MeshAccelerator
// serializes access.
//
// The pipeline is created on first use. The target texture and staging
// buffer are kept between frames and recreated when the size changes.
type MeshRenderer struct {
	device hal.Device
	queue  hal.Queue

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	uniformBuf    hal.Buffer
	bindGroup     hal.BindGroup

	targetTex  hal.Texture
	targetView hal.TextureView
	stagingBuf hal.Buffer
	width      uint32
	height     uint32
}

// NewMeshRenderer creates a renderer for the given device and queue.
// No GPU resources are allocated until the first Render.
func NewMeshRenderer(device hal.Device, queue hal.Queue) *MeshRenderer {
	return &MeshRenderer{device: device, queue: queue}
}

// Size returns the current target dimensions, or zero before the first
// Render.
func (r *MeshRenderer) Size() (uint32, uint32) {
	return r.width, r.height
}

// Render draws one frame described by u into a width×height image.
func (r *MeshRenderer) Render(u Uniforms, width, height uint32) (*image.NRGBA, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("mesh_gradient: invalid target size %dx%d", width, height)
	}
	if err := r.ensurePipeline(); err != nil {
		return nil, err
	}
	if err := r.ensureTarget(width, height); err != nil {
		return nil, err
	}
	if err := r.queue.WriteBuffer(r.uniformBuf, 0, u.Bytes()); err != nil {
		return nil, fmt.Errorf("mesh_gradient: upload uniforms: %w", err)
	}
	return r.encodeAndReadback()
}

// ensurePipeline compiles the shader and creates the render pipeline,
// its uniform buffer and bind group.
func (r *MeshRenderer) ensurePipeline() error {
	if r.pipeline != nil {
		return nil
	}

	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mesh_gradient_shader",
		Source: shaderSource(),
	})
	if err != nil {
		return fmt.Errorf("mesh_gradient: compile shader: %w", err)
	}
	r.shader = shader

	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mesh_gradient_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		r.destroyPipeline()
		return fmt.Errorf("mesh_gradient: create uniform layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "mesh_gradient_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		r.destroyPipeline()
		return fmt.Errorf("mesh_gradient: create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	// No blending: the fragment writes straight alpha, which is what
	// image.NRGBA stores.
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "mesh_gradient_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: vertexEntryPoint,
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
	})
	if err != nil {
		r.destroyPipeline()
		return fmt.Errorf("mesh_gradient: create render pipeline: %w", err)
	}
	r.pipeline = pipeline

	uniformBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mesh_gradient_uniforms",
		Size:  meshUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.destroyPipeline()
		return fmt.Errorf("mesh_gradient: create uniform buffer: %w", err)
	}
	r.uniformBuf = uniformBuf

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "mesh_gradient_bind",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: meshUniformSize,
			}},
		},
	})
	if err != nil {
		r.destroyPipeline()
		return fmt.Errorf("mesh_gradient: create bind group: %w", err)
	}
	r.bindGroup = bindGroup

	slogger().Debug("mesh_gradient: pipeline created")
	return nil
}

// alignedRowPitch returns the staging buffer row pitch for a target of
// the given width.
func alignedRowPitch(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// ensureTarget (re)creates the color target and staging buffer for
// w×h.
func (r *MeshRenderer) ensureTarget(w, h uint32) error {
	if r.width == w && r.height == h && r.targetTex != nil {
		return nil
	}
	r.destroyTarget()

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "mesh_gradient_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("mesh_gradient: create target texture: %w", err)
	}
	r.targetTex = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "mesh_gradient_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.destroyTarget()
		return fmt.Errorf("mesh_gradient: create target view: %w", err)
	}
	r.targetView = view

	staging, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mesh_gradient_staging",
		Size:  uint64(alignedRowPitch(w)) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.destroyTarget()
		return fmt.Errorf("mesh_gradient: create staging buffer: %w", err)
	}
	r.stagingBuf = staging

	r.width = w
	r.height = h
	return nil
}

// encodeAndReadback records the draw and the copy into the staging
// buffer, waits for the GPU and returns the mapped pixels.
func (r *MeshRenderer) encodeAndReadback() (*image.NRGBA, error) {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "mesh_gradient_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("mesh_gradient: create command encoder: %w", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding("mesh_gradient"); err != nil {
		return nil, fmt.Errorf("mesh_gradient: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "mesh_gradient_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       r.targetView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{},
			},
		},
	})
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	// The copy needs the target in a transfer-source layout. This is a
	// no-op on backends without explicit layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targetTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pitch := alignedRowPitch(r.width)
	encoder.CopyTextureToBuffer(r.targetTex, r.stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: pitch, RowsPerImage: r.height},
		TextureBase:  hal.ImageCopyTexture{Texture: r.targetTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targetTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("mesh_gradient: end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	if _, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return nil, fmt.Errorf("mesh_gradient: submit: %w", err)
	}
	if err := r.device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("mesh_gradient: wait for GPU: %w", err)
	}
	return r.readback(pitch)
}

// readback maps the staging buffer and strips the row padding.
func (r *MeshRenderer) readback(pitch uint32) (*image.NRGBA, error) {
	size := uint64(pitch) * uint64(r.height)
	mapping, err := r.device.MapBuffer(r.stagingBuf, 0, size)
	if err != nil {
		return nil, fmt.Errorf("mesh_gradient: map staging buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(mapping.Ptr), size)

	img := image.NewNRGBA(image.Rect(0, 0, int(r.width), int(r.height)))
	rowBytes := int(r.width) * 4
	for y := 0; y < int(r.height); y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], src[y*int(pitch):])
	}

	if err := r.device.UnmapBuffer(r.stagingBuf); err != nil {
		return nil, fmt.Errorf("mesh_gradient: unmap staging buffer: %w", err)
	}
	return img, nil
}

// Destroy releases all GPU resources. The device and queue are not
// destroyed.
func (r *MeshRenderer) Destroy() {
	r.destroyTarget()
	r.destroyPipeline()
}

func (r *MeshRenderer) destroyTarget() {
	if r.stagingBuf != nil {
		r.device.DestroyBuffer(r.stagingBuf)
		r.stagingBuf = nil
	}
	if r.targetView != nil {
		r.device.DestroyTextureView(r.targetView)
		r.targetView = nil
	}
	if r.targetTex != nil {
		r.device.DestroyTexture(r.targetTex)
		r.targetTex = nil
	}
	r.width = 0
	r.height = 0
}

func (r *MeshRenderer) destroyPipeline() {
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}
