// Package cli holds the flags shared by the meshgradient commands.
package cli

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/meshgradient"
)

// FieldFlags configures the shading field.
type FieldFlags struct {
	Noise     string
	Strength  float64
	Seed      int64
	Blend     string
	Amplitude float64
}

// Register adds the field flags to fs.
func (f *FieldFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Noise, "noise", "value", "noise source: value, perlin or none")
	fs.Float64Var(&f.Strength, "noise-strength", meshgradient.DefaultNoiseStrength, "noise perturbation strength, 0 to 0.95")
	fs.Int64Var(&f.Seed, "seed", 1, "perlin noise seed")
	fs.StringVar(&f.Blend, "blend", "srgb", "blend space: srgb, linear or oklab")
	fs.Float64Var(&f.Amplitude, "amplitude", meshgradient.DefaultAnchorAmplitude, "anchor wander amplitude")
}

// Field builds the field described by the flags.
func (f *FieldFlags) Field() (*meshgradient.Field, error) {
	blend, err := meshgradient.ParseBlendSpace(f.Blend)
	if err != nil {
		return nil, err
	}
	opts := []meshgradient.FieldOption{
		meshgradient.WithBlendSpace(blend),
		meshgradient.WithNoiseStrength(f.Strength),
		meshgradient.WithAnchorAmplitude(f.Amplitude),
	}
	switch strings.ToLower(f.Noise) {
	case "value", "":
		opts = append(opts, meshgradient.WithNoise(meshgradient.ValueNoise{}))
	case "perlin":
		opts = append(opts, meshgradient.WithNoise(meshgradient.NewPerlinNoise(f.Seed)))
	case "none", "off":
		opts = append(opts, meshgradient.WithoutNoise())
	default:
		return nil, fmt.Errorf("unknown noise source %q", f.Noise)
	}
	return meshgradient.NewField(opts...), nil
}

// PaletteFlags selects the control colors.
type PaletteFlags struct {
	Preset int
	Colors string
}

// Register adds the palette flags to fs.
func (p *PaletteFlags) Register(fs *flag.FlagSet) {
	fs.IntVar(&p.Preset, "preset", meshgradient.DefaultPreset, "preset palette size: 2, 3 or 4")
	fs.StringVar(&p.Colors, "colors", "", `comma separated CSS colors, overrides -preset (e.g. "#ff66b3, rgb(51 77 230)")`)
}

// Palette returns the colors described by the flags. Explicit colors
// win over the preset; an unknown preset is an error.
func (p *PaletteFlags) Palette() ([]meshgradient.Color, error) {
	if strings.TrimSpace(p.Colors) != "" {
		return meshgradient.ParsePalette(p.Colors)
	}
	colors, ok := meshgradient.Preset(p.Preset)
	if !ok {
		return nil, fmt.Errorf("no preset with %d colors (have %v)", p.Preset, meshgradient.PresetCounts())
	}
	return colors, nil
}

// SetupLogging installs a text slog handler on stderr when verbose is
// set, routing library diagnostics to the terminal.
func SetupLogging(verbose bool) {
	if !verbose {
		return
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	meshgradient.SetLogger(l)
}
