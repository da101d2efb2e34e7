package meshgradient

import (
	"fmt"
	"sync"
)

// Field is the mesh gradient shading function.
//
// A Field holds only immutable configuration: it is safe for concurrent
// use and evaluating the same request twice yields identical colors.
// The zero value is not usable; create fields with NewField.
type Field struct {
	noise         Noise
	noiseStrength float64
	blend         BlendSpace
	amplitude     float64
}

// NewField creates a field with the given options applied over the
// defaults (value noise at DefaultNoiseStrength, sRGB blending).
func NewField(opts ...FieldOption) *Field {
	o := defaultFieldOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !isFinite(o.noiseStrength) {
		o.noiseStrength = 0
	}
	if !isFinite(o.amplitude) || o.amplitude < 0 {
		o.amplitude = 0
	}
	return &Field{
		noise:         o.noise,
		noiseStrength: clamp(o.noiseStrength, 0, maxNoiseStrength),
		blend:         o.blend,
		amplitude:     o.amplitude,
	}
}

var (
	defaultFieldOnce sync.Once
	defaultField     *Field
)

// DefaultField returns the shared field with default options.
func DefaultField() *Field {
	defaultFieldOnce.Do(func() {
		defaultField = NewField()
	})
	return defaultField
}

// Noise returns the configured noise source, or nil if disabled.
func (f *Field) Noise() Noise { return f.noise }

// NoiseStrength returns the effective perturbation strength. It is zero
// when noise is disabled.
func (f *Field) NoiseStrength() float64 {
	if f.noise == nil {
		return 0
	}
	return f.noiseStrength
}

// BlendSpace returns the configured blend space.
func (f *Field) BlendSpace() BlendSpace { return f.blend }

// AnchorAmplitude returns the anchor drift amplitude.
func (f *Field) AnchorAmplitude() float64 { return f.amplitude }

// Prepare validates req and resolves everything that is constant across
// the pixels of one frame. The returned Frame is read-only.
func (f *Field) Prepare(req Request) (*Frame, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	colors := NormalizeColors(req.Colors)
	fr := &Frame{
		field:    f,
		viewport: req.Viewport,
		time:     req.Time,
		opacity:  clamp01(req.Opacity),
		colors:   colors,
		working:  make([][3]float64, len(colors)),
		anchors:  Anchors(len(colors), req.Time, f.amplitude),
	}
	for i, c := range colors {
		fr.working[i] = f.blend.toWorking(c)
	}
	fr.orbitCos, fr.orbitSin = noiseOrbitAt(req.Time)
	return fr, nil
}

// Evaluate returns the field color at pos for req.
//
// It fails only with ErrInvalidInput: for a non-finite position or time,
// or an unusable viewport. Rendering many pixels of one request should
// use Prepare once and Frame.At per pixel instead.
func (f *Field) Evaluate(pos Vec2, req Request) (RGBA, error) {
	if !pos.IsFinite() {
		return RGBA{}, fmt.Errorf("%w: position (%v, %v) is not finite", ErrInvalidInput, pos.X, pos.Y)
	}
	fr, err := f.Prepare(req)
	if err != nil {
		return RGBA{}, err
	}
	return fr.At(pos), nil
}

// Evaluate returns the color of the default field at pos for req.
func Evaluate(pos Vec2, req Request) (RGBA, error) {
	return DefaultField().Evaluate(pos, req)
}
