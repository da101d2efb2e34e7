package meshgradient

// Control color count limits.
const (
	MinColors = 2
	MaxColors = 4
)

// Named palette entries used by the default palette and the presets.
var (
	Peach      = RGB(0.9, 0.4, 0.3)
	Purple     = RGB(0.2, 0.1, 0.6)
	Teal       = RGB(0.0, 0.8, 0.8)
	Pink       = RGB(1.0, 0.4, 0.7)
	Blue       = RGB(0.2, 0.3, 0.9)
	Rose       = RGB(0.95, 0.3, 0.5)
	Gold       = RGB(1.0, 0.8, 0.2)
	DeepPurple = RGB(0.2, 0.1, 0.5)
	Sky        = RGB(0.0, 0.7, 0.9)
)

// DefaultPalette returns the palette substituted when a request carries
// fewer than MinColors colors: peach, purple, teal.
func DefaultPalette() []Color {
	return []Color{Peach, Purple, Teal}
}

// DefaultPreset is the preset selected when none is specified.
const DefaultPreset = 3

// Preset returns the built-in palette with n colors (2, 3 or 4).
// The second result is false for any other n.
func Preset(n int) ([]Color, bool) {
	switch n {
	case 2:
		return []Color{Pink, Blue}, true
	case 3:
		return DefaultPalette(), true
	case 4:
		return []Color{Rose, Gold, DeepPurple, Sky}, true
	}
	return nil, false
}

// PresetCounts lists the available preset sizes in picker order.
func PresetCounts() []int {
	return []int{2, 3, 4}
}

// NormalizeColors applies the color count rules: fewer than MinColors
// yields the default palette, more than MaxColors keeps the first
// MaxColors. The result never aliases colors.
func NormalizeColors(colors []Color) []Color {
	switch {
	case len(colors) < MinColors:
		return DefaultPalette()
	case len(colors) > MaxColors:
		colors = colors[:MaxColors]
	}
	out := make([]Color, len(colors))
	copy(out, colors)
	return out
}
