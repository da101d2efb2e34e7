package meshgradient

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/meshgradient/internal/color"
)

// BlendSpace selects the color space the weighted sum is computed in.
// Whatever the space, results are converted back to the space the
// control colors were given in.
type BlendSpace int

const (
	// BlendSRGB blends display-referred sRGB values directly. This is the
	// reference behavior.
	BlendSRGB BlendSpace = iota

	// BlendLinear blends in linear light.
	BlendLinear

	// BlendOkLab blends in the OkLab perceptual space.
	BlendOkLab
)

var blendSpaceNames = [...]string{
	BlendSRGB:   "srgb",
	BlendLinear: "linear",
	BlendOkLab:  "oklab",
}

// String returns the flag-friendly name of the space.
func (s BlendSpace) String() string {
	if s >= 0 && int(s) < len(blendSpaceNames) {
		return blendSpaceNames[s]
	}
	return fmt.Sprintf("BlendSpace(%d)", int(s))
}

// ParseBlendSpace parses "srgb", "linear" or "oklab" (case-insensitive).
func ParseBlendSpace(s string) (BlendSpace, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range blendSpaceNames {
		if n == name {
			return BlendSpace(i), nil
		}
	}
	return BlendSRGB, fmt.Errorf("meshgradient: unknown blend space %q", s)
}

// toWorking converts a control color into the blend space.
func (s BlendSpace) toWorking(c Color) [3]float64 {
	switch s {
	case BlendLinear:
		return color.RGB{c.R, c.G, c.B}.ToLinear()
	case BlendOkLab:
		l, a, b := colorful.Color{R: c.R, G: c.G, B: c.B}.OkLab()
		return [3]float64{l, a, b}
	default:
		return [3]float64{c.R, c.G, c.B}
	}
}

// fromWorking converts a blended value back to the input space.
// The result is not clamped.
func (s BlendSpace) fromWorking(w [3]float64) Color {
	switch s {
	case BlendLinear:
		c := color.RGB(w).ToSRGB()
		return Color{R: c[0], G: c[1], B: c[2]}
	case BlendOkLab:
		c := colorful.OkLab(w[0], w[1], w[2])
		return Color{R: c.R, G: c.G, B: c.B}
	default:
		return Color{R: w[0], G: w[1], B: w[2]}
	}
}
