package meshgradient

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
)

// Noise is a smooth, deterministic 2D noise source.
//
// Implementations must be continuous, return the same value for the same
// coordinate on every call, stay within [-1, 1], and be safe for
// concurrent use.
type Noise interface {
	Noise2D(x, y float64) float64
}

// NoiseFrequency scales unit coordinates into noise space.
const NoiseFrequency = 2.5

// The noise sample point orbits a circle in noise space noiseHarmonic
// times per WrapPeriod, which keeps the perturbation periodic in time.
const (
	noiseOrbit    = 1.5
	noiseHarmonic = 4
)

// DefaultNoiseStrength is the default weight perturbation amount.
const DefaultNoiseStrength = 0.35

// maxNoiseStrength keeps perturbed weights strictly positive.
const maxNoiseStrength = 0.95

// ValueNoise is hashed value noise on the integer lattice with smoothstep
// bilinear interpolation. The GPU shaders use the same construction.
type ValueNoise struct{}

// Noise2D implements Noise.
func (ValueNoise) Noise2D(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	sx, sy := smoothstep(x-x0), smoothstep(y-y0)

	a := latticeHash(x0, y0)
	b := latticeHash(x0+1, y0)
	c := latticeHash(x0, y0+1)
	d := latticeHash(x0+1, y0+1)

	return lerp(lerp(a, b, sx), lerp(c, d, sx), sy)
}

// latticeHash maps a lattice point to a pseudo-random value in [-1, 1).
//
// The hash is the permutation polynomial (34v²+v) mod 289 applied to both
// coordinates. Every intermediate value is an integer below 2^24, so the
// f32 shaders compute the same lattice values as the CPU.
func latticeHash(x, y float64) float64 {
	h := permute289(permute289(mod289(y)) + mod289(x))
	return float64(h)*(2.0/hashModulus) - 1
}

const hashModulus = 289

// mod289 reduces an integral lattice coordinate into [0, 289).
func mod289(x float64) int {
	m := math.Mod(x, hashModulus)
	if m < 0 {
		m += hashModulus
	}
	return int(m)
}

// permute289 maps v in [0, 578) into [0, 289).
func permute289(v int) int {
	return (34*v + 1) * v % hashModulus
}

// PerlinNoise is gradient noise backed by go-perlin.
type PerlinNoise struct {
	p *perlin.Perlin
}

// Perlin generator parameters: persistence, lacunarity and octaves.
const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3
)

// NewPerlinNoise creates gradient noise with a fixed permutation derived
// from seed. Two instances with the same seed produce identical values.
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Noise2D implements Noise. The raw octave sum is clamped to [-1, 1].
func (n *PerlinNoise) Noise2D(x, y float64) float64 {
	return clamp(n.p.Noise2D(x, y), -1, 1)
}

// noiseAt samples the perturbation for anchor i at unit position (u, v).
// orbitCos and orbitSin are the time-dependent circle offsets.
func noiseAt(n Noise, i int, u, v, orbitCos, orbitSin float64) float64 {
	shift := motions[i].noiseShift
	return n.Noise2D(
		u*NoiseFrequency+orbitCos+shift.X,
		v*NoiseFrequency+orbitSin+shift.Y,
	)
}

// NoiseShift returns the noise-space offset of anchor slot i, which
// decorrelates the perturbations of different anchors. i must be in
// [0, MaxColors).
func NoiseShift(i int) Vec2 { return motions[i].noiseShift }

// noiseOrbitAt returns the circle offsets of the noise sampling path at t.
func noiseOrbitAt(t float64) (float64, float64) {
	theta := noiseHarmonic * omega * t
	return noiseOrbit * math.Cos(theta), noiseOrbit * math.Sin(theta)
}
