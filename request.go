package meshgradient

import "fmt"

// Request fully determines one frame of a mesh gradient.
// It is built per frame by the caller and never retained by the field.
type Request struct {
	// Viewport is the rectangle the gradient fills.
	Viewport Viewport

	// Time drives the animation. It is used only through periodic
	// functions, so any finite value is valid.
	Time float64

	// Colors are the ordered control colors. Fewer than MinColors are
	// replaced by DefaultPalette, extra colors beyond MaxColors are ignored.
	Colors []Color

	// Opacity is the output alpha, clamped to [0, 1].
	Opacity float64
}

// Validate reports ErrInvalidInput for requests the field rejects.
// Color count and opacity are sanitized instead of rejected.
func (r Request) Validate() error {
	if err := r.Viewport.Validate(); err != nil {
		return err
	}
	if !isFinite(r.Time) {
		return fmt.Errorf("%w: time %v is not finite", ErrInvalidInput, r.Time)
	}
	return nil
}
