package color

import "math"

// SRGBToLinear converts an sRGB component to linear (EOTF).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4).
// Negative inputs are mirrored.
func SRGBToLinear(s float64) float64 {
	if s < 0 {
		return -SRGBToLinear(-s)
	}
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear component to sRGB (OETF).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055.
// Negative inputs are mirrored.
func LinearToSRGB(l float64) float64 {
	if l < 0 {
		return -LinearToSRGB(-l)
	}
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// RGB is a color triple in whichever space the caller tracks.
type RGB [3]float64

// ToLinear converts all three channels from sRGB to linear.
func (c RGB) ToLinear() RGB {
	return RGB{SRGBToLinear(c[0]), SRGBToLinear(c[1]), SRGBToLinear(c[2])}
}

// ToSRGB converts all three channels from linear to sRGB.
func (c RGB) ToSRGB() RGB {
	return RGB{LinearToSRGB(c[0]), LinearToSRGB(c[1]), LinearToSRGB(c[2])}
}
