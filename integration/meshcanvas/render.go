// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package meshcanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Rendering errors.
var (
	// ErrNotRendered is returned by RenderTo before the first Update.
	ErrNotRendered = errors.New("meshcanvas: no frame rendered yet")

	// ErrInvalidRenderer is returned when the draw context has no
	// gpucontext.TextureCreator.
	ErrInvalidRenderer = errors.New("meshcanvas: draw context has no TextureCreator")

	// ErrInvalidTexture is returned when the texture does not implement
	// gpucontext.Texture.
	ErrInvalidTexture = errors.New("meshcanvas: texture does not implement gpucontext.Texture")
)

// RenderTo draws the latest frame at (0, 0).
//
// The dc parameter should be obtained from gogpu.Context.AsTextureDrawer().
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.Update(ctx, time.Now())
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToPosition(dc, 0, 0)
}

// RenderToPosition draws the latest frame with its top-left corner at
// (x, y).
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if c.closed {
		return ErrCanvasClosed
	}

	tex, err := c.Flush()
	if err != nil {
		return err
	}
	if tex == nil {
		return ErrNotRendered
	}

	if pending, isPending := tex.(*pendingTexture); isPending {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}

		// NewTextureFromRGBA waits for the GPU, so the old texture is no
		// longer in use once it returns.
		realTex, err := creator.NewTextureFromRGBA(pending.width, pending.height, pending.data)
		if err != nil {
			return fmt.Errorf("meshcanvas: NewTextureFromRGBA failed: %w", err)
		}

		// Frames are straight alpha.
		if pt, ok := realTex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(false)
		}

		c.texture = realTex
		tex = realTex

		if destroyer, ok := c.oldTexture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
		c.oldTexture = nil
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidTexture
	}
	return dc.DrawTexture(gpuTex, x, y)
}
