package meshgradient

import "fmt"

// Viewport is the axis-aligned rectangle a gradient fills, in
// device-independent units. It defines how positions are normalized
// before the blend weights are computed.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// Rect creates a viewport from its origin and size.
func Rect(x, y, w, h float64) Viewport {
	return Viewport{X: x, Y: y, Width: w, Height: h}
}

// Origin returns the top-left corner.
func (vp Viewport) Origin() Vec2 {
	return Vec2{X: vp.X, Y: vp.Y}
}

// Validate reports ErrInvalidInput if the viewport cannot be used for
// normalization.
func (vp Viewport) Validate() error {
	if !isFinite(vp.X) || !isFinite(vp.Y) {
		return fmt.Errorf("%w: viewport origin (%v, %v) is not finite", ErrInvalidInput, vp.X, vp.Y)
	}
	if !isFinite(vp.Width) || !isFinite(vp.Height) || vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("%w: viewport size %vx%v must be positive and finite", ErrInvalidInput, vp.Width, vp.Height)
	}
	return nil
}

// Normalize maps p into unit coordinates: the origin maps to (0, 0) and
// the far corner to (1, 1). Points outside the viewport map outside the
// unit square.
func (vp Viewport) Normalize(p Vec2) Vec2 {
	return Vec2{
		X: (p.X - vp.X) / vp.Width,
		Y: (p.Y - vp.Y) / vp.Height,
	}
}

// Denormalize is the inverse of Normalize.
func (vp Viewport) Denormalize(uv Vec2) Vec2 {
	return Vec2{
		X: vp.X + uv.X*vp.Width,
		Y: vp.Y + uv.Y*vp.Height,
	}
}
