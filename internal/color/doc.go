// Package color implements the sRGB transfer functions used when a mesh
// gradient blends in linear light.
//
// sRGB is the color space control colors are given in, but weighted sums
// in linear space avoid the darkened midpoints of display-referred
// blending. Values outside [0, 1] are extended symmetrically about zero
// so that out-of-range control colors survive a round trip.
//
// References:
//   - sRGB specification: https://www.w3.org/Graphics/Color/sRGB
package color
