package meshgradient

import "errors"

var (
	// ErrInvalidInput is returned for inputs the field cannot normalize:
	// non-finite time or position, or a viewport with non-positive or
	// non-finite size. Use errors.Is to test for it.
	ErrInvalidInput = errors.New("meshgradient: invalid input")

	// ErrInvalidColor is returned when a color string cannot be parsed.
	ErrInvalidColor = errors.New("meshgradient: invalid color")
)
