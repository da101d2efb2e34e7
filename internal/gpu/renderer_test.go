//go:build !nogpu

package gpu

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens a device on the noop backend for pipeline tests.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func testUniforms() Uniforms {
	return Uniforms{
		Width:          8,
		Height:         4,
		Count:          2,
		Opacity:        1,
		NoiseStrength:  0.35,
		NoiseFrequency: 2.5,
		Anchors:        [4][2]float32{{0.2, 0.2}, {0.8, 0.8}},
		Colors:         [4][3]float32{{1, 0, 0}, {0, 0, 1}},
	}
}

func TestMeshRendererLazyInit(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := NewMeshRenderer(device, queue)
	defer r.Destroy()

	if r.pipeline != nil || r.targetTex != nil {
		t.Fatal("resources allocated before first Render")
	}
	if w, h := r.Size(); w != 0 || h != 0 {
		t.Errorf("Size() = %dx%d before Render, want 0x0", w, h)
	}
}

func TestMeshRendererRender(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := NewMeshRenderer(device, queue)
	defer r.Destroy()

	img, err := r.Render(testUniforms(), 8, 4)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 8 || got.Y != 4 {
		t.Errorf("image size = %v, want 8x4", got)
	}
	if len(img.Pix) != 8*4*4 {
		t.Errorf("len(Pix) = %d, want %d", len(img.Pix), 8*4*4)
	}

	if r.shader == nil {
		t.Error("shader is nil")
	}
	if r.uniformLayout == nil {
		t.Error("uniformLayout is nil")
	}
	if r.pipeLayout == nil {
		t.Error("pipeLayout is nil")
	}
	if r.pipeline == nil {
		t.Error("pipeline is nil")
	}
	if r.uniformBuf == nil {
		t.Error("uniformBuf is nil")
	}
	if r.bindGroup == nil {
		t.Error("bindGroup is nil")
	}
	if r.stagingBuf == nil {
		t.Error("stagingBuf is nil")
	}
}

func TestMeshRendererResize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := NewMeshRenderer(device, queue)
	defer r.Destroy()

	sizes := []struct{ w, h uint32 }{
		{8, 4},
		{8, 4},
		{100, 70},
		{1, 1},
	}
	for _, s := range sizes {
		img, err := r.Render(testUniforms(), s.w, s.h)
		if err != nil {
			t.Fatalf("Render(%dx%d) failed: %v", s.w, s.h, err)
		}
		if w, h := r.Size(); w != s.w || h != s.h {
			t.Errorf("Size() = %dx%d, want %dx%d", w, h, s.w, s.h)
		}
		if got := img.Bounds().Size(); got.X != int(s.w) || got.Y != int(s.h) {
			t.Errorf("image size = %v, want %dx%d", got, s.w, s.h)
		}
	}
}

func TestMeshRendererInvalidSize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := NewMeshRenderer(device, queue)
	defer r.Destroy()

	if _, err := r.Render(testUniforms(), 0, 4); err == nil {
		t.Error("Render with zero width succeeded")
	}
	if _, err := r.Render(testUniforms(), 4, 0); err == nil {
		t.Error("Render with zero height succeeded")
	}
}

func TestMeshRendererDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := NewMeshRenderer(device, queue)
	if _, err := r.Render(testUniforms(), 16, 16); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	r.Destroy()

	if r.pipeline != nil || r.shader != nil || r.bindGroup != nil || r.uniformBuf != nil {
		t.Error("pipeline resources survived Destroy")
	}
	if r.targetTex != nil || r.targetView != nil || r.stagingBuf != nil {
		t.Error("target resources survived Destroy")
	}
	if w, h := r.Size(); w != 0 || h != 0 {
		t.Errorf("Size() = %dx%d after Destroy, want 0x0", w, h)
	}

	// Destroy twice is safe.
	r.Destroy()
}

func TestAlignedRowPitch(t *testing.T) {
	tests := []struct {
		width uint32
		want  uint32
	}{
		{1, 256},
		{63, 256},
		{64, 256},
		{65, 512},
		{128, 512},
		{1920, 7680},
	}
	for _, tt := range tests {
		if got := alignedRowPitch(tt.width); got != tt.want {
			t.Errorf("alignedRowPitch(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestShaderSource(t *testing.T) {
	src := ShaderSource()
	if src == "" {
		t.Fatal("shader source is empty")
	}
	for _, entry := range []string{"fn " + vertexEntryPoint, "fn " + fragmentEntryPoint, "((34 * v + 1) * v) % 289"} {
		if !strings.Contains(src, entry) {
			t.Errorf("shader source lacks %q", entry)
		}
	}
}

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV(meshGradientShaderSource)
	if err != nil {
		// The renderer hands WGSL to the backend when naga rejects it.
		t.Skipf("Skipping: naga cannot compile the shader: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("SPIR-V output is empty")
	}
	if words[0] != spirvMagic {
		t.Errorf("SPIR-V magic = %#08x, want %#08x", words[0], spirvMagic)
	}
}

func TestCompileSPIRVInvalid(t *testing.T) {
	if _, err := CompileSPIRV("fn broken( {"); err == nil {
		t.Error("CompileSPIRV accepted invalid WGSL")
	}
}
