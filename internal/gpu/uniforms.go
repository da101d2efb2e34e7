//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/meshgradient"
)

// meshUniformSize is the byte size of the shader's Params block.
// Layout (std140, every member 16-byte aligned):
//
//	target  vec4<f32>          = 16 bytes  (width, height, blend, 0)
//	params  vec4<f32>          = 16 bytes  (count, opacity, strength, frequency)
//	orbit   vec4<f32>          = 16 bytes  (cos, sin, 0, 0)
//	anchors array<vec4<f32>,4> = 64 bytes  (anchor xy, noise shift zw)
//	colors  array<vec4<f32>,4> = 64 bytes  (rgb, 0)
//
// Total = 176 bytes.
const meshUniformSize = 176

// Blend space codes understood by the shader.
const (
	shaderBlendSRGB   = 0
	shaderBlendLinear = 1
)

// Uniforms is the host-side copy of the shader's Params block for one
// frame.
type Uniforms struct {
	Width, Height  float32
	Blend          float32
	Count          float32
	Opacity        float32
	NoiseStrength  float32
	NoiseFrequency float32
	Orbit          [2]float32
	Anchors        [meshgradient.MaxColors][2]float32
	NoiseShifts    [meshgradient.MaxColors][2]float32
	Colors         [meshgradient.MaxColors][3]float32
}

// NewUniforms packs fr for a width×height target.
//
// It returns an error wrapping meshgradient.ErrFallbackToCPU when the
// frame uses a configuration the shader does not implement: OkLab
// blending, or a noise source other than ValueNoise.
func NewUniforms(fr *meshgradient.Frame, width, height int) (Uniforms, error) {
	f := fr.Field()

	var u Uniforms
	switch f.BlendSpace() {
	case meshgradient.BlendSRGB:
		u.Blend = shaderBlendSRGB
	case meshgradient.BlendLinear:
		u.Blend = shaderBlendLinear
	default:
		return Uniforms{}, fmt.Errorf("%w: %s blending", meshgradient.ErrFallbackToCPU, f.BlendSpace())
	}
	if !shaderNoise(f.Noise()) {
		return Uniforms{}, fmt.Errorf("%w: noise %T", meshgradient.ErrFallbackToCPU, f.Noise())
	}

	u.Width = float32(width)
	u.Height = float32(height)
	u.Count = float32(fr.Count())
	u.Opacity = float32(fr.Opacity())
	u.NoiseStrength = float32(f.NoiseStrength())
	u.NoiseFrequency = meshgradient.NoiseFrequency

	orbit := fr.NoiseOrbit()
	u.Orbit = [2]float32{float32(orbit.X), float32(orbit.Y)}

	for i, a := range fr.Anchors() {
		u.Anchors[i] = [2]float32{float32(a.X), float32(a.Y)}
		s := meshgradient.NoiseShift(i)
		u.NoiseShifts[i] = [2]float32{float32(s.X), float32(s.Y)}
	}
	for i, c := range fr.Colors() {
		u.Colors[i] = [3]float32{float32(c.R), float32(c.G), float32(c.B)}
	}
	return u, nil
}

// shaderNoise reports whether n is reproduced by the shader's value_noise.
func shaderNoise(n meshgradient.Noise) bool {
	switch n.(type) {
	case nil, meshgradient.ValueNoise, *meshgradient.ValueNoise:
		return true
	}
	return false
}

// Bytes returns the uniform block in shader layout.
func (u *Uniforms) Bytes() []byte {
	buf := make([]byte, meshUniformSize)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}

	put(0, u.Width)
	put(4, u.Height)
	put(8, u.Blend)

	put(16, u.Count)
	put(20, u.Opacity)
	put(24, u.NoiseStrength)
	put(28, u.NoiseFrequency)

	put(32, u.Orbit[0])
	put(36, u.Orbit[1])

	for i := range u.Anchors {
		off := 48 + i*16
		put(off, u.Anchors[i][0])
		put(off+4, u.Anchors[i][1])
		put(off+8, u.NoiseShifts[i][0])
		put(off+12, u.NoiseShifts[i][1])
	}
	for i := range u.Colors {
		off := 112 + i*16
		put(off, u.Colors[i][0])
		put(off+4, u.Colors[i][1])
		put(off+8, u.Colors[i][2])
	}
	return buf
}
