//go:build !nogpu

// Package gpu registers the WebGPU mesh gradient accelerator.
//
// Import this package for its side effect to render mesh gradients in a
// fragment shader:
//
//	import _ "github.com/gogpu/meshgradient/gpu"
//
// The device is opened on the first render. If no Vulkan device is
// available, or a frame uses a feature the shader lacks (OkLab blending,
// custom noise), meshgradient.RenderGradient falls back to the CPU.
package gpu

import (
	"github.com/gogpu/meshgradient"
	gpuimpl "github.com/gogpu/meshgradient/internal/gpu"
)

func init() {
	if err := meshgradient.RegisterAccelerator(&gpuimpl.MeshAccelerator{}); err != nil {
		meshgradient.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU
// device from a host application instead of opening its own.
//
// The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue; a gpucontext.DeviceProvider that
// also does so contributes its adapter name to the logs.
func SetDeviceProvider(provider any) error {
	return meshgradient.SetAcceleratorDeviceProvider(provider)
}

// Status reports whether the registered accelerator has an open device
// and the name of its adapter.
func Status() (ready bool, adapter string) {
	a, ok := meshgradient.Accelerator().(*gpuimpl.MeshAccelerator)
	if !ok {
		return false, ""
	}
	return a.Ready(), a.Adapter()
}
