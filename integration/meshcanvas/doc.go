// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package meshcanvas shows an animated mesh gradient in a gogpu window.
//
// The data flow is:
//
//	Clock -> meshgradient.RenderGradient -> NRGBA pixels -> GPU Texture -> Window
//
// # Usage
//
//	canvas, err := meshcanvas.New(app.GPUContextProvider(), 800, 600)
//	if err != nil {
//	    return err
//	}
//	defer canvas.Close()
//	canvas.SetColors(meshgradient.DefaultPalette())
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.Update(ctx, time.Now())
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// New hands the window's device to the registered GPU accelerator, so
// importing github.com/gogpu/meshgradient/gpu renders frames on the same
// device the window presents with.
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use.
//
// # Integration Without Circular Imports
//
// This package depends only on gpucontext interfaces:
//
//   - gpucontext.DeviceProvider for device access
//   - gpucontext.TextureDrawer and gpucontext.TextureCreator for output
package meshcanvas
