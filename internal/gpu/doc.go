//go:build !nogpu

// Package gpu renders mesh gradients with a WebGPU fragment shader.
//
// MeshRenderer owns the pipeline and the offscreen target for one HAL
// device. It draws a single fullscreen triangle whose fragment shader
// evaluates the same weighting and noise as the CPU renderer, then copies
// the target into a staging buffer and maps it for readback.
//
// MeshAccelerator wraps a MeshRenderer as a meshgradient.GPUAccelerator.
// It opens its own Vulkan device lazily or uses a device shared by a host
// application through SetDeviceProvider.
//
// Build with the nogpu tag to exclude this package and its wgpu
// dependency entirely.
package gpu
