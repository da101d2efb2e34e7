//go:build !nogpu

package gpu

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/meshgradient"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// errNoGPU is returned by initGPU when no usable device exists. Render
// reports it as a CPU fallback.
var errNoGPU = errors.New("mesh_gradient: no GPU device")

// MeshAccelerator renders mesh gradient frames on the GPU. It implements
// meshgradient.GPUAccelerator and meshgradient.DeviceProviderAware.
//
// Device creation is deferred to the first Render so that a host
// application can hand over its own device with SetDeviceProvider before
// a standalone one is opened. A failed initialization is not retried;
// every later frame falls back to the CPU.
type MeshAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	renderer *MeshRenderer
	adapter  string

	gpuReady       bool
	initFailed     bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

// Interface compliance checks.
var _ meshgradient.GPUAccelerator = (*MeshAccelerator)(nil)
var _ meshgradient.DeviceProviderAware = (*MeshAccelerator)(nil)

// Name returns the accelerator identifier.
func (a *MeshAccelerator) Name() string { return "wgpu-mesh" }

// Init registers the accelerator. The device is opened lazily.
func (a *MeshAccelerator) Init() error {
	return nil
}

// SetLogger sets the logger for the accelerator and this package.
// Called by meshgradient.SetLogger to propagate logging configuration.
func (a *MeshAccelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Ready reports whether a device is open and the accelerator can render.
func (a *MeshAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// Adapter returns the name of the adapter in use, or "" before a device
// is open.
func (a *MeshAccelerator) Adapter() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.adapter
}

// Render evaluates frame on the GPU.
//
// It returns an error wrapping meshgradient.ErrFallbackToCPU when no
// device is available, the target exceeds the device texture limit, or
// the frame's field uses features the shader does not implement.
func (a *MeshAccelerator) Render(ctx context.Context, frame *meshgradient.Frame, width, height int) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := NewUniforms(frame, width, height)
	if err != nil {
		return nil, err
	}
	limit := int(gputypes.DefaultLimits().MaxTextureDimension2D)
	if width <= 0 || height <= 0 || width > limit || height > limit {
		return nil, fmt.Errorf("%w: target %dx%d outside texture limit %d",
			meshgradient.ErrFallbackToCPU, width, height, limit)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.gpuReady {
		if a.initFailed {
			return nil, fmt.Errorf("%w: %w", meshgradient.ErrFallbackToCPU, errNoGPU)
		}
		if err := a.initGPU(); err != nil {
			a.initFailed = true
			slogger().Warn("mesh_gradient: GPU init failed, using CPU fallback", "err", err)
			return nil, fmt.Errorf("%w: %w", meshgradient.ErrFallbackToCPU, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := a.renderer.Render(u, uint32(width), uint32(height))
	if err != nil {
		return nil, err
	}
	slogger().Debug("mesh_gradient: frame rendered", "width", width, "height", height)
	return img, nil
}

// Close releases all GPU resources held by the accelerator.
func (a *MeshAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
	a.initFailed = false
}

// releaseLocked destroys the renderer and, unless it is shared, the
// device. The caller holds a.mu.
func (a *MeshAccelerator) releaseLocked() {
	if a.renderer != nil {
		a.renderer.Destroy()
		a.renderer = nil
	}
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.adapter = ""
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a GPU device shared by a
// host application. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. Providers that also
// implement gpucontext.DeviceProvider contribute their adapter name.
func (a *MeshAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("mesh_gradient: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("mesh_gradient: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("mesh_gradient: provider HalQueue is not hal.Queue")
	}

	adapter := "shared"
	if dp, ok := provider.(gpucontext.DeviceProvider); ok {
		if name := dp.AdapterInfo().Name; name != "" {
			adapter = name
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked()
	a.device = device
	a.queue = queue
	a.renderer = NewMeshRenderer(device, queue)
	a.adapter = adapter
	a.externalDevice = true
	a.initFailed = false
	a.gpuReady = true

	slogger().Info("mesh_gradient: switched to shared GPU device", "adapter", adapter)
	return nil
}

// initGPU opens a standalone Vulkan device. The caller holds a.mu.
func (a *MeshAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return errNoGPU
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("open device: %w", err)
	}

	a.instance = instance
	a.device = openDev.Device
	a.queue = openDev.Queue
	a.renderer = NewMeshRenderer(a.device, a.queue)
	a.adapter = selected.Info.Name
	a.gpuReady = true
	slogger().Info("mesh_gradient: GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

// selectAdapter prefers a discrete or integrated GPU over software and
// other adapters. adapters must not be empty.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}
