package meshgradient

import (
	"math"

	"golang.org/x/exp/constraints"
)

// clamp restricts v to [lo, hi].
func clamp[F constraints.Float](v, lo, hi F) F {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp01 clamps x to [0, 1]. NaN maps to 0.
func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return clamp(x, 0, 1)
}

// lerp interpolates linearly between a and b.
func lerp[F constraints.Float](a, b, t F) F {
	return a + (b-a)*t
}

// smoothstep is the cubic Hermite ease 3t^2 - 2t^3 on [0, 1].
func smoothstep[F constraints.Float](t F) F {
	return t * t * (3 - 2*t)
}

// isFinite reports whether x is neither NaN nor an infinity.
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
