// Package kage holds the Kage shader that draws mesh gradients inside an
// Ebitengine game, and the uniform values it expects.
//
// The package has no Ebitengine dependency so it can be tested headless.
// Compile Source with ebiten.NewShader and pass Uniforms to
// DrawRectShaderOptions.Uniforms.
package kage

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/meshgradient"
)

//go:embed mesh_shader.go
var source []byte

// Blend space codes understood by the shader.
const (
	blendSRGB   = 0
	blendLinear = 1
)

// Source returns the Kage source of the mesh gradient shader.
func Source() []byte {
	return source
}

// Uniforms returns the shader uniforms for drawing fr into a
// width×height rectangle.
//
// An error wrapping meshgradient.ErrFallbackToCPU is returned for
// frames the shader cannot reproduce (OkLab blending or a noise source
// other than ValueNoise). Callers should render those with
// meshgradient.RenderGradient instead.
func Uniforms(fr *meshgradient.Frame, width, height int) (map[string]any, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("kage: invalid size %dx%d", width, height)
	}

	f := fr.Field()
	var blend float32
	switch f.BlendSpace() {
	case meshgradient.BlendSRGB:
		blend = blendSRGB
	case meshgradient.BlendLinear:
		blend = blendLinear
	default:
		return nil, fmt.Errorf("%w: %s blending", meshgradient.ErrFallbackToCPU, f.BlendSpace())
	}
	switch f.Noise().(type) {
	case nil, meshgradient.ValueNoise, *meshgradient.ValueNoise:
	default:
		return nil, fmt.Errorf("%w: noise %T", meshgradient.ErrFallbackToCPU, f.Noise())
	}

	anchors := make([]float32, 4*meshgradient.MaxColors)
	for i, a := range fr.Anchors() {
		s := meshgradient.NoiseShift(i)
		copy(anchors[i*4:], []float32{float32(a.X), float32(a.Y), float32(s.X), float32(s.Y)})
	}
	colors := make([]float32, 4*meshgradient.MaxColors)
	for i, c := range fr.Colors() {
		copy(colors[i*4:], []float32{float32(c.R), float32(c.G), float32(c.B), 1})
	}
	orbit := fr.NoiseOrbit()

	return map[string]any{
		"Size":           []float32{float32(width), float32(height)},
		"Count":          float32(fr.Count()),
		"Opacity":        float32(fr.Opacity()),
		"Blend":          blend,
		"NoiseStrength":  float32(f.NoiseStrength()),
		"NoiseFrequency": float32(meshgradient.NoiseFrequency),
		"Orbit":          []float32{float32(orbit.X), float32(orbit.Y)},
		"Anchors":        anchors,
		"Colors":         colors,
	}, nil
}
