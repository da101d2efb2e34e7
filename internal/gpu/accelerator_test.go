//go:build !nogpu

package gpu

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/meshgradient"
)

// halProvider exposes a HAL device the way a host application does.
type halProvider struct {
	device any
	queue  any
}

func (p *halProvider) HalDevice() any { return p.device }
func (p *halProvider) HalQueue() any  { return p.queue }

// namedProvider additionally implements gpucontext.DeviceProvider.
type namedProvider struct {
	halProvider
	name string
}

func (p *namedProvider) Device() gpucontext.Device { return p.device }
func (p *namedProvider) Queue() gpucontext.Queue   { return p.queue }
func (p *namedProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}
func (p *namedProvider) Adapter() gpucontext.Adapter { return nil }
func (p *namedProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: p.name}
}

var _ gpucontext.DeviceProvider = (*namedProvider)(nil)

func sharedAccelerator(t *testing.T) (*MeshAccelerator, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	a := &MeshAccelerator{}
	if err := a.SetDeviceProvider(&halProvider{device: device, queue: queue}); err != nil {
		cleanup()
		t.Fatalf("SetDeviceProvider failed: %v", err)
	}
	return a, func() {
		a.Close()
		cleanup()
	}
}

func testFrame(t *testing.T, opts ...meshgradient.FieldOption) *meshgradient.Frame {
	t.Helper()
	return prepare(t, meshgradient.NewField(opts...), nil, 1)
}

func TestMeshAcceleratorName(t *testing.T) {
	a := &MeshAccelerator{}
	if got := a.Name(); got != "wgpu-mesh" {
		t.Errorf("Name() = %q, want %q", got, "wgpu-mesh")
	}
	if err := a.Init(); err != nil {
		t.Errorf("Init() = %v, want nil", err)
	}
	if a.Ready() {
		t.Error("Ready() before any device is open")
	}
	a.Close()
}

func TestMeshAcceleratorSharedDevice(t *testing.T) {
	a, cleanup := sharedAccelerator(t)
	defer cleanup()

	if !a.Ready() {
		t.Fatal("Ready() = false after SetDeviceProvider")
	}
	if got := a.Adapter(); got != "shared" {
		t.Errorf("Adapter() = %q, want %q", got, "shared")
	}

	img, err := a.Render(context.Background(), testFrame(t), 32, 16)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 32 || got.Y != 16 {
		t.Errorf("image size = %v, want 32x16", got)
	}
}

func TestMeshAcceleratorAdapterName(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	a := &MeshAccelerator{}
	defer a.Close()
	p := &namedProvider{halProvider: halProvider{device: device, queue: queue}, name: "Test GPU"}
	if err := a.SetDeviceProvider(p); err != nil {
		t.Fatalf("SetDeviceProvider failed: %v", err)
	}
	if got := a.Adapter(); got != "Test GPU" {
		t.Errorf("Adapter() = %q, want %q", got, "Test GPU")
	}
}

func TestMeshAcceleratorProviderErrors(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name     string
		provider any
	}{
		{"not a provider", struct{}{}},
		{"nil device", &halProvider{device: nil, queue: queue}},
		{"wrong device type", &halProvider{device: "device", queue: queue}},
		{"nil queue", &halProvider{device: device, queue: nil}},
		{"wrong queue type", &halProvider{device: device, queue: 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &MeshAccelerator{}
			if err := a.SetDeviceProvider(tt.provider); err == nil {
				t.Error("SetDeviceProvider succeeded")
			}
			if a.Ready() {
				t.Error("Ready() after failed SetDeviceProvider")
			}
		})
	}
}

func TestMeshAcceleratorFallbacks(t *testing.T) {
	a, cleanup := sharedAccelerator(t)
	defer cleanup()

	tests := []struct {
		name   string
		frame  *meshgradient.Frame
		width  int
		height int
	}{
		{"oklab", testFrame(t, meshgradient.WithBlendSpace(meshgradient.BlendOkLab)), 8, 8},
		{"perlin", testFrame(t, meshgradient.WithNoise(meshgradient.NewPerlinNoise(1))), 8, 8},
		{"too wide", testFrame(t), 100000, 8},
		{"too tall", testFrame(t), 8, 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Render(context.Background(), tt.frame, tt.width, tt.height)
			if !errors.Is(err, meshgradient.ErrFallbackToCPU) {
				t.Errorf("err = %v, want ErrFallbackToCPU", err)
			}
		})
	}
}

func TestMeshAcceleratorCanceled(t *testing.T) {
	a, cleanup := sharedAccelerator(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Render(ctx, testFrame(t), 8, 8); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestMeshAcceleratorInitFailureIsSticky(t *testing.T) {
	a := &MeshAccelerator{initFailed: true}
	_, err := a.Render(context.Background(), testFrame(t), 8, 8)
	if !errors.Is(err, meshgradient.ErrFallbackToCPU) {
		t.Fatalf("err = %v, want ErrFallbackToCPU", err)
	}
	if !errors.Is(err, errNoGPU) {
		t.Errorf("err = %v, want errNoGPU", err)
	}

	// Close clears the failure so a later Render may try again.
	a.Close()
	if a.initFailed {
		t.Error("initFailed survived Close")
	}
}

func TestMeshAcceleratorCloseKeepsSharedDevice(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	a := &MeshAccelerator{}
	if err := a.SetDeviceProvider(&halProvider{device: device, queue: queue}); err != nil {
		t.Fatalf("SetDeviceProvider failed: %v", err)
	}
	a.Close()

	if a.Ready() || a.device != nil || a.renderer != nil {
		t.Error("accelerator state survived Close")
	}

	// The shared device is still usable after Close.
	r := NewMeshRenderer(device, queue)
	defer r.Destroy()
	if _, err := r.Render(testUniforms(), 4, 4); err != nil {
		t.Errorf("shared device unusable after Close: %v", err)
	}
}

func TestMeshAcceleratorSetLogger(t *testing.T) {
	defer setLogger(nil)

	var buf bytes.Buffer
	a := &MeshAccelerator{}
	a.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	if err := a.SetDeviceProvider(&halProvider{device: device, queue: queue}); err != nil {
		t.Fatalf("SetDeviceProvider failed: %v", err)
	}
	defer a.Close()

	if !bytes.Contains(buf.Bytes(), []byte("switched to shared GPU device")) {
		t.Errorf("log output %q lacks the device switch message", buf.String())
	}
}

func TestSelectAdapter(t *testing.T) {
	adapters := []hal.ExposedAdapter{
		{Info: gputypes.AdapterInfo{Name: "cpu", DeviceType: gputypes.DeviceTypeCPU}},
		{Info: gputypes.AdapterInfo{Name: "igpu", DeviceType: gputypes.DeviceTypeIntegratedGPU}},
		{Info: gputypes.AdapterInfo{Name: "dgpu", DeviceType: gputypes.DeviceTypeDiscreteGPU}},
	}
	if got := selectAdapter(adapters).Info.Name; got != "igpu" {
		t.Errorf("selectAdapter = %q, want first hardware adapter %q", got, "igpu")
	}
	if got := selectAdapter(adapters[:1]).Info.Name; got != "cpu" {
		t.Errorf("selectAdapter = %q, want fallback %q", got, "cpu")
	}
}
