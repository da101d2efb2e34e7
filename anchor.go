package meshgradient

import "math"

// WrapPeriod is the period of the animation clock. Every time-dependent
// term of the field uses an integer harmonic of 2π/WrapPeriod, so the
// field at time t equals the field at t+WrapPeriod.
const WrapPeriod = 100.0

// DefaultAnchorAmplitude is how far, in unit coordinates, an anchor
// drifts from its base layout position.
const DefaultAnchorAmplitude = 0.12

// omega is the fundamental angular frequency of the animation.
const omega = 2 * math.Pi / WrapPeriod

// anchorMotion describes the periodic drift of one anchor.
// Harmonics are integers so the motion repeats every WrapPeriod.
type anchorMotion struct {
	kx, ky     float64
	phaseX     float64
	phaseY     float64
	noiseShift Vec2
}

// motions are indexed by anchor slot. Distinct harmonics and phases keep
// the anchors out of sync.
var motions = [MaxColors]anchorMotion{
	{kx: 5, ky: 6, phaseX: 0.0, phaseY: 0.9, noiseShift: Vec2{0, 0}},
	{kx: 7, ky: 5, phaseX: 1.7, phaseY: 2.6, noiseShift: Vec2{17.3, 5.1}},
	{kx: 6, ky: 8, phaseX: 3.1, phaseY: 0.3, noiseShift: Vec2{3.7, 23.9}},
	{kx: 8, ky: 7, phaseX: 4.4, phaseY: 5.2, noiseShift: Vec2{29.5, 11.2}},
}

// layouts holds the base anchor positions for 2, 3 and 4 colors.
var layouts = map[int][]Vec2{
	2: {{0.2, 0.2}, {0.8, 0.8}},
	3: {{0.15, 0.2}, {0.85, 0.3}, {0.45, 0.85}},
	4: {{0.2, 0.2}, {0.8, 0.2}, {0.2, 0.8}, {0.8, 0.8}},
}

// BaseLayout returns the resting anchor positions for n colors in unit
// coordinates. n is clamped to [MinColors, MaxColors].
func BaseLayout(n int) []Vec2 {
	n = min(max(n, MinColors), MaxColors)
	out := make([]Vec2, n)
	copy(out, layouts[n])
	return out
}

// Anchors returns the anchor positions for n colors at time t, in unit
// coordinates, using the given drift amplitude.
func Anchors(n int, t, amplitude float64) []Vec2 {
	out := BaseLayout(n)
	for i := range out {
		out[i] = anchorAt(out[i], i, t, amplitude)
	}
	return out
}

func anchorAt(base Vec2, i int, t, amplitude float64) Vec2 {
	m := motions[i]
	return Vec2{
		X: base.X + amplitude*math.Sin(m.kx*omega*t+m.phaseX),
		Y: base.Y + amplitude*math.Sin(m.ky*omega*t+m.phaseY),
	}
}
