package meshgradient

import (
	"context"
	"errors"
	"image"
	"sync"
)

// ErrFallbackToCPU indicates the GPU accelerator cannot render a frame.
// RenderGradient transparently falls back to the CPU renderer.
var ErrFallbackToCPU = errors.New("meshgradient: falling back to CPU rendering")

// GPUAccelerator is an optional GPU rendering provider.
//
// When registered via RegisterAccelerator, RenderGradient tries it first.
// If it returns ErrFallbackToCPU or any other error, rendering falls back
// to the CPU tile renderer.
//
// Users opt in via blank import:
//
//	import _ "github.com/gogpu/meshgradient/gpu"
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// Render evaluates frame into a width×height straight-alpha image.
	// Returns ErrFallbackToCPU if the frame's configuration is not
	// supported on the GPU.
	Render(ctx context.Context, frame *Frame, width, height int) (*image.NRGBA, error)
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with a host application.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers a GPU accelerator.
//
// Only one accelerator can be registered; a later call replaces and
// closes the previous one. Init is called first and the accelerator is
// not registered if it fails.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("meshgradient: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	return nil
}

// UnregisterAccelerator removes and closes the registered accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Accelerator returns the registered accelerator, or nil if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator. It is a no-op if no accelerator is registered or the
// accelerator cannot share devices.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
