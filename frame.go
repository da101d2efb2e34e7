package meshgradient

import "math"

// weightEpsilon keeps inverse-distance weights finite at an anchor while
// letting that anchor dominate its own position.
const weightEpsilon = 1e-5

// Frame is a Field bound to one Request. It caches the normalized
// palette, the anchor positions and the noise orbit for the frame's time.
//
// A Frame is immutable and safe for concurrent use; renderers evaluate
// it from many goroutines at once.
type Frame struct {
	field    *Field
	viewport Viewport
	time     float64
	opacity  float64
	colors   []Color
	working  [][3]float64
	anchors  []Vec2
	orbitCos float64
	orbitSin float64
}

// Field returns the field the frame was prepared from.
func (fr *Frame) Field() *Field { return fr.field }

// Viewport returns the frame's viewport.
func (fr *Frame) Viewport() Viewport { return fr.viewport }

// Time returns the frame's time value.
func (fr *Frame) Time() float64 { return fr.time }

// Opacity returns the clamped output alpha.
func (fr *Frame) Opacity() float64 { return fr.opacity }

// Count returns the number of control colors in use (2 to 4).
func (fr *Frame) Count() int { return len(fr.colors) }

// Colors returns a copy of the control colors in use after the color
// count rules were applied.
func (fr *Frame) Colors() []Color {
	out := make([]Color, len(fr.colors))
	copy(out, fr.colors)
	return out
}

// Anchors returns a copy of the anchor positions in unit coordinates.
func (fr *Frame) Anchors() []Vec2 {
	out := make([]Vec2, len(fr.anchors))
	copy(out, fr.anchors)
	return out
}

// AnchorPosition returns anchor i in viewport coordinates.
func (fr *Frame) AnchorPosition(i int) Vec2 {
	return fr.viewport.Denormalize(fr.anchors[i])
}

// NoiseOrbit returns the time-dependent offset of the noise sampling path.
func (fr *Frame) NoiseOrbit() Vec2 {
	return Vec2{X: fr.orbitCos, Y: fr.orbitSin}
}

// At returns the field color at pos, given in viewport coordinates.
func (fr *Frame) At(pos Vec2) RGBA {
	uv := fr.viewport.Normalize(pos)
	return fr.AtUV(uv.X, uv.Y)
}

// AtUV returns the field color at unit coordinates (u, v).
func (fr *Frame) AtUV(u, v float64) RGBA {
	var buf [MaxColors]float64
	w := fr.weights(u, v, buf[:len(fr.colors)])

	var sum [3]float64
	for i, c := range fr.working {
		sum[0] += w[i] * c[0]
		sum[1] += w[i] * c[1]
		sum[2] += w[i] * c[2]
	}
	c := fr.field.blend.fromWorking(sum)
	return RGBA{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
		A: fr.opacity,
	}
}

// Weights appends the normalized blend weights at (u, v) to dst and
// returns the extended slice. Weights are non-negative and sum to 1.
func (fr *Frame) Weights(u, v float64, dst []float64) []float64 {
	n := len(dst)
	dst = append(dst, make([]float64, len(fr.colors))...)
	fr.weights(u, v, dst[n:])
	return dst
}

// weights fills w (len == Count) with normalized weights.
func (fr *Frame) weights(u, v float64, w []float64) []float64 {
	p := Vec2{X: u, Y: v}
	strength := fr.field.NoiseStrength()

	var total float64
	for i, a := range fr.anchors {
		wi := 1 / (p.DistanceSquared(a) + weightEpsilon)
		if strength > 0 {
			wi *= 1 + strength*noiseAt(fr.field.noise, i, u, v, fr.orbitCos, fr.orbitSin)
		}
		w[i] = wi
		total += wi
	}

	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		uniform := 1 / float64(len(w))
		for i := range w {
			w[i] = uniform
		}
		return w
	}
	for i := range w {
		w[i] /= total
	}
	return w
}
