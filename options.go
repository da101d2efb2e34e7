package meshgradient

// FieldOption configures a Field during creation.
//
// Example:
//
//	// Default field: value noise, sRGB blending
//	f := meshgradient.NewField()
//
//	// Perceptual blending without noise
//	f := meshgradient.NewField(
//	    meshgradient.WithoutNoise(),
//	    meshgradient.WithBlendSpace(meshgradient.BlendOkLab),
//	)
type FieldOption func(*fieldOptions)

// fieldOptions holds optional configuration for Field creation.
type fieldOptions struct {
	noise         Noise
	noiseStrength float64
	blend         BlendSpace
	amplitude     float64
}

// defaultFieldOptions returns the default field options.
func defaultFieldOptions() fieldOptions {
	return fieldOptions{
		noise:         ValueNoise{},
		noiseStrength: DefaultNoiseStrength,
		blend:         BlendSRGB,
		amplitude:     DefaultAnchorAmplitude,
	}
}

// WithNoise sets the noise source used to perturb the blend weights.
// A nil noise disables the perturbation.
func WithNoise(n Noise) FieldOption {
	return func(o *fieldOptions) {
		o.noise = n
	}
}

// WithoutNoise disables the weight perturbation, leaving a purely radial
// inverse-distance blend.
func WithoutNoise() FieldOption {
	return WithNoise(nil)
}

// WithNoiseStrength sets how strongly the noise scales each weight.
// Values are clamped to [0, 0.95] so weights stay positive.
func WithNoiseStrength(s float64) FieldOption {
	return func(o *fieldOptions) {
		o.noiseStrength = s
	}
}

// WithBlendSpace selects the color space used for blending.
func WithBlendSpace(s BlendSpace) FieldOption {
	return func(o *fieldOptions) {
		o.blend = s
	}
}

// WithAnchorAmplitude sets how far anchors drift from their base layout,
// in unit coordinates. Zero freezes the anchors. Negative values are
// treated as zero.
func WithAnchorAmplitude(a float64) FieldOption {
	return func(o *fieldOptions) {
		o.amplitude = a
	}
}

// RenderOption configures RenderGradient.
//
// Example:
//
//	img, err := meshgradient.RenderGradient(ctx, req,
//	    meshgradient.WithPixelScale(2),       // Retina backing store
//	    meshgradient.WithResolutionScale(0.5), // evaluate at half resolution
//	)
type RenderOption func(*renderOptions)

// renderOptions holds optional configuration for RenderGradient.
type renderOptions struct {
	field           *Field
	pixelScale      float64
	resolutionScale float64
	workers         int
	accelerate      bool
}

// defaultRenderOptions returns the default render options.
func defaultRenderOptions() renderOptions {
	return renderOptions{
		field:           nil, // DefaultField
		pixelScale:      1,
		resolutionScale: 1,
		workers:         0, // shared pool
		accelerate:      true,
	}
}

// WithField renders with a custom field instead of DefaultField.
func WithField(f *Field) RenderOption {
	return func(o *renderOptions) {
		o.field = f
	}
}

// WithPixelScale sets the number of output pixels per viewport unit.
// Non-positive or non-finite values are ignored.
func WithPixelScale(s float64) RenderOption {
	return func(o *renderOptions) {
		if isFinite(s) && s > 0 {
			o.pixelScale = s
		}
	}
}

// WithResolutionScale evaluates the field on a grid scaled by s in (0, 1]
// and resamples the result to full size. The field is smooth, so a
// quarter-resolution evaluation is usually indistinguishable.
// Values outside (0, 1] are ignored.
func WithResolutionScale(s float64) RenderOption {
	return func(o *renderOptions) {
		if s > 0 && s <= 1 {
			o.resolutionScale = s
		}
	}
}

// WithWorkers renders on a dedicated pool of n workers instead of the
// shared pool. n <= 0 uses GOMAXPROCS.
func WithWorkers(n int) RenderOption {
	return func(o *renderOptions) {
		if n <= 0 {
			n = -1
		}
		o.workers = n
	}
}

// WithoutAccelerator forces CPU rendering even when an accelerator is
// registered.
func WithoutAccelerator() RenderOption {
	return func(o *renderOptions) {
		o.accelerate = false
	}
}
