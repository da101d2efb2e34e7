// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package meshcanvas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/meshgradient"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("meshcanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("meshcanvas: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("meshcanvas: nil DeviceProvider")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Canvas renders a mesh gradient and keeps it in a GPU texture.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	provider gpucontext.DeviceProvider
	field    *meshgradient.Field
	clock    *meshgradient.Clock
	colors   []meshgradient.Color
	opacity  float64
	opts     []meshgradient.RenderOption

	img        *image.NRGBA
	lastTime   float64
	rendered   bool // img holds a frame for the current settings
	texture    any  // gpucontext.Texture once created
	oldTexture any  // previous texture awaiting deferred destruction
	dirty      bool // img differs from the texture
	resized    bool // texture must be recreated
	width      int
	height     int
	closed     bool
}

// New creates a canvas for a gogpu window.
// The provider should come from gogpu.App.GPUContextProvider().
//
// The canvas starts with the default palette, full opacity, the default
// field and an animated clock at normal speed.
func New(provider gpucontext.DeviceProvider, width, height int) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	// Share the window's device with the accelerator. Failure is
	// non-fatal: the accelerator opens its own device or the CPU renders.
	if err := meshgradient.SetAcceleratorDeviceProvider(provider); err != nil {
		meshgradient.Logger().Debug("meshcanvas: device sharing unavailable", "err", err)
	}

	return &Canvas{
		provider: provider,
		field:    meshgradient.DefaultField(),
		clock:    meshgradient.NewClock(nil),
		colors:   meshgradient.DefaultPalette(),
		opacity:  1,
		width:    width,
		height:   height,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(provider gpucontext.DeviceProvider, width, height int) *Canvas {
	c, err := New(provider, width, height)
	if err != nil {
		panic(err)
	}
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Size returns width and height as a convenience.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// SetColors sets the control colors. The slice is copied.
func (c *Canvas) SetColors(colors []meshgradient.Color) {
	c.colors = append([]meshgradient.Color(nil), colors...)
	c.rendered = false
}

// Colors returns a copy of the control colors.
func (c *Canvas) Colors() []meshgradient.Color {
	return append([]meshgradient.Color(nil), c.colors...)
}

// SetOpacity sets the output alpha.
func (c *Canvas) SetOpacity(opacity float64) {
	c.opacity = opacity
	c.rendered = false
}

// SetField replaces the shading field. A nil field selects the default.
func (c *Canvas) SetField(f *meshgradient.Field) {
	if f == nil {
		f = meshgradient.DefaultField()
	}
	c.field = f
	c.rendered = false
}

// Clock returns the clock that drives the animation.
func (c *Canvas) Clock() *meshgradient.Clock {
	return c.clock
}

// SetClock replaces the animation clock, for example to switch between
// animated and static modes with Clock().WithMode.
func (c *Canvas) SetClock(clock *meshgradient.Clock) {
	if clock == nil {
		clock = meshgradient.NewClock(nil)
	}
	c.clock = clock
	c.rendered = false
}

// SetRenderOptions sets extra options passed to every render, such as
// meshgradient.WithResolutionScale.
func (c *Canvas) SetRenderOptions(opts ...meshgradient.RenderOption) {
	c.opts = opts
	c.rendered = false
}

// Image returns the most recent frame, or nil before the first Update.
// The image is reused by later updates.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// IsDirty returns true if the canvas has a frame that has not been
// uploaded to the GPU yet.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// Update renders the frame for now. A static clock whose time has not
// changed, with unchanged settings, skips rendering.
func (c *Canvas) Update(ctx context.Context, now time.Time) error {
	if c.closed {
		return ErrCanvasClosed
	}

	t := c.clock.Time(now)
	if c.rendered && t == c.lastTime {
		return nil
	}

	req := meshgradient.Request{
		Viewport: meshgradient.Rect(0, 0, float64(c.width), float64(c.height)),
		Time:     t,
		Colors:   c.colors,
		Opacity:  c.opacity,
	}
	opts := append([]meshgradient.RenderOption{meshgradient.WithField(c.field)}, c.opts...)
	img, err := meshgradient.RenderGradient(ctx, req, opts...)
	if err != nil {
		return fmt.Errorf("meshcanvas: render: %w", err)
	}

	c.img = img
	c.lastTime = t
	c.rendered = true
	c.dirty = true
	return nil
}

// Resize changes canvas dimensions. The next Update renders at the new
// size.
//
// Returns error if dimensions are invalid or canvas is closed.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.width == width && c.height == height {
		return nil
	}

	c.width = width
	c.height = height
	c.resized = true
	c.rendered = false
	return nil
}

// Flush uploads the latest frame to the GPU texture if it changed.
// Returns the texture for manual drawing if needed.
//
// The texture is created lazily; until RenderTo runs, Flush returns a
// pending placeholder.
func (c *Canvas) Flush() (any, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}

	// The old texture may still be referenced by in-flight command
	// buffers. Keep it until RenderTo has created the replacement.
	if c.resized {
		if c.texture != nil {
			if c.oldTexture != nil {
				if destroyer, ok := c.oldTexture.(textureDestroyer); ok {
					destroyer.Destroy()
				}
			}
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.resized = false
	}

	if c.img == nil {
		return nil, nil
	}
	if !c.dirty && c.texture != nil {
		return c.texture, nil
	}

	// A frame rendered before a resize has the old size; wait for the
	// next Update.
	if b := c.img.Bounds(); b.Dx() != c.width || b.Dy() != c.height {
		return c.texture, nil
	}

	if c.texture == nil {
		c.texture = &pendingTexture{width: c.width, height: c.height, data: c.img.Pix}
		c.dirty = false
		return c.texture, nil
	}

	switch tex := c.texture.(type) {
	case *pendingTexture:
		tex.data = c.img.Pix
	case gpucontext.TextureUpdater:
		if err := tex.UpdateData(c.img.Pix); err != nil {
			return nil, fmt.Errorf("meshcanvas: texture update failed: %w", err)
		}
	}

	c.dirty = false
	return c.texture, nil
}

// Texture returns the current GPU texture without flushing.
// Returns nil if texture hasn't been created yet.
func (c *Canvas) Texture() any {
	return c.texture
}

// Close releases all resources associated with the Canvas.
// Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	for _, tex := range []any{c.oldTexture, c.texture} {
		if destroyer, ok := tex.(textureDestroyer); ok {
			destroyer.Destroy()
		}
	}
	c.oldTexture = nil
	c.texture = nil
	c.img = nil
	c.provider = nil
	return nil
}

// pendingTexture holds pixel data until RenderTo has a TextureCreator.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}

// Provider returns the DeviceProvider associated with this canvas.
// Returns nil if the canvas is closed.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	if c.closed {
		return nil
	}
	return c.provider
}
