package meshgradient

import (
	"fmt"
	"image/color"
	"strings"

	css "github.com/mazznoer/csscolorparser"
)

// Color is a control color of a mesh gradient.
// Channels are nominally in [0, 1]; values outside that range are accepted
// and blended as given, only the final field color is clamped.
type Color struct {
	R, G, B float64
}

// RGB creates a control color from its components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// FromColor converts a standard color.Color to a control color.
// Alpha is discarded after unpremultiplying.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}
}

// WithAlpha returns the color as an RGBA with the given alpha.
func (c Color) WithAlpha(a float64) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Hex formats the color as "#rrggbb" after clamping each channel.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// ParseColor parses a CSS color string such as "#ff66b3", "rgb(255 102 179)"
// or "teal". The alpha component, if any, is ignored.
func ParseColor(s string) (Color, error) {
	c, err := css.Parse(strings.TrimSpace(s))
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

// ParsePalette parses a comma separated list of CSS colors.
// Commas inside parentheses belong to the color, so
// "rgb(255,0,0), #00f" yields two colors.
func ParsePalette(s string) ([]Color, error) {
	parts := splitTopLevel(s, ',')
	colors := make([]Color, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		c, err := ParseColor(p)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// PaletteString formats colors the way ParsePalette reads them.
func PaletteString(colors []Color) string {
	hex := make([]string, len(colors))
	for i, c := range colors {
		hex[i] = c.Hex()
	}
	return strings.Join(hex, ",")
}

// splitTopLevel splits s on sep, ignoring separators nested in parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// RGBA is a field output color with straight (non-premultiplied) alpha.
// Each component is in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB returns the color channels without alpha.
func (c RGBA) RGB() Color {
	return Color{R: c.R, G: c.G, B: c.B}
}

// NRGBA converts the color to 8-bit straight alpha with rounding.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return c.NRGBA()
}

// to8 maps a [0, 1] channel to [0, 255] with rounding.
func to8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
