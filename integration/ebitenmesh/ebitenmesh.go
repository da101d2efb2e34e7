// Package ebitenmesh draws mesh gradients into Ebitengine images.
//
// Frames the Kage shader can reproduce are drawn with DrawRectShader.
// Everything else (OkLab blending, custom noise, a shader that fails to
// compile) is rendered on the CPU and uploaded with WritePixels.
//
//	d := ebitenmesh.NewDrawer(meshgradient.DefaultField())
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//	    req := meshgradient.Request{Viewport: meshgradient.Rect(0, 0, w, h), ...}
//	    if err := d.Draw(screen, req); err != nil {
//	        log.Print(err)
//	    }
//	}
package ebitenmesh

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/meshgradient"
	"github.com/gogpu/meshgradient/internal/kage"
)

// Drawer draws mesh gradients with one field. It must be used from the
// Ebitengine draw goroutine.
type Drawer struct {
	field *meshgradient.Field

	shader     *ebiten.Shader
	shaderErr  error
	usedShader bool

	// CPU fallback target, reused while the size is unchanged.
	rgba *image.RGBA
	img  *ebiten.Image
}

// NewDrawer returns a drawer for f. A nil field selects the default.
func NewDrawer(f *meshgradient.Field) *Drawer {
	if f == nil {
		f = meshgradient.DefaultField()
	}
	return &Drawer{field: f}
}

// Field returns the field the drawer shades with.
func (d *Drawer) Field() *meshgradient.Field {
	return d.field
}

// SetField replaces the field. A nil field selects the default.
func (d *Drawer) SetField(f *meshgradient.Field) {
	if f == nil {
		f = meshgradient.DefaultField()
	}
	d.field = f
}

// UsesShader reports whether the last Draw ran the Kage shader.
func (d *Drawer) UsesShader() bool {
	return d.usedShader
}

// Draw fills req.Viewport of dst, in dst pixels, with the gradient.
func (d *Drawer) Draw(dst *ebiten.Image, req meshgradient.Request) error {
	fr, err := d.field.Prepare(req)
	if err != nil {
		return err
	}
	w, h, err := meshgradient.ImageSize(fr.Viewport(), 1)
	if err != nil {
		return err
	}

	uniforms, err := kage.Uniforms(fr, w, h)
	if err == nil {
		err = d.ensureShader()
	}
	if err != nil {
		if !errors.Is(err, meshgradient.ErrFallbackToCPU) {
			meshgradient.Logger().Debug("ebitenmesh: shader unavailable", "err", err)
		}
		d.usedShader = false
		return d.drawCPU(dst, req)
	}
	d.usedShader = true

	op := &ebiten.DrawRectShaderOptions{}
	op.Uniforms = uniforms
	op.GeoM.Translate(req.Viewport.X, req.Viewport.Y)
	dst.DrawRectShader(w, h, d.shader, op)
	return nil
}

func (d *Drawer) ensureShader() error {
	if d.shader != nil || d.shaderErr != nil {
		return d.shaderErr
	}
	d.shader, d.shaderErr = ebiten.NewShader(kage.Source())
	if d.shaderErr != nil {
		d.shaderErr = fmt.Errorf("ebitenmesh: compile shader: %w", d.shaderErr)
	}
	return d.shaderErr
}

// drawCPU renders req on the CPU and copies it into dst. Ebitengine
// images are premultiplied, so the straight-alpha frame is converted
// through an image.RGBA.
func (d *Drawer) drawCPU(dst *ebiten.Image, req meshgradient.Request) error {
	frame, err := meshgradient.RenderGradient(context.Background(), req, meshgradient.WithField(d.field))
	if err != nil {
		return fmt.Errorf("ebitenmesh: render: %w", err)
	}
	b := frame.Bounds()
	if d.rgba == nil || d.rgba.Bounds() != b {
		d.rgba = image.NewRGBA(b)
		if d.img != nil {
			d.img.Deallocate()
		}
		d.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	xdraw.Copy(d.rgba, image.Point{}, frame, b, xdraw.Src, nil)
	d.img.WritePixels(d.rgba.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(req.Viewport.X, req.Viewport.Y)
	dst.DrawImage(d.img, op)
	return nil
}

// Close releases the shader and the fallback image.
func (d *Drawer) Close() {
	if d.shader != nil {
		d.shader.Deallocate()
		d.shader = nil
	}
	if d.img != nil {
		d.img.Deallocate()
		d.img = nil
	}
	d.rgba = nil
	d.shaderErr = nil
}
