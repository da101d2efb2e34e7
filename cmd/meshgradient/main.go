// Command meshgradient renders mesh gradient frames to PNG files.
//
// A single frame is written to -output. With -frames greater than one,
// -output is a printf pattern such as "frame_%04d.png" and frames are
// spaced 1/fps seconds apart at the given speed.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/gogpu/meshgradient"
	"github.com/gogpu/meshgradient/internal/cli"
	"github.com/gogpu/meshgradient/internal/overlay"
)

func main() {
	var (
		width    = flag.Int("width", 800, "viewport width")
		height   = flag.Int("height", 600, "viewport height")
		scale    = flag.Float64("scale", 1, "output pixels per viewport unit")
		res      = flag.Float64("resolution", 1, "shading resolution relative to the output, (0, 1]")
		start    = flag.Float64("time", 0, "field time of the first frame")
		speed    = flag.Float64("speed", 1, "animation speed for frame sequences")
		frames   = flag.Int("frames", 1, "number of frames to render")
		fps      = flag.Float64("fps", 30, "frame rate of a sequence")
		opacity  = flag.Float64("opacity", 1, "output alpha, 0 to 1")
		output   = flag.String("output", "meshgradient.png", "output file, or a printf pattern for sequences")
		drawUI   = flag.Bool("overlay", false, "draw the preset picker panel")
		useGPU   = flag.Bool("gpu", false, "render with the GPU accelerator when available")
		verbose  = flag.Bool("v", false, "log diagnostics to stderr")
		fieldCfg cli.FieldFlags
		palette  cli.PaletteFlags
	)
	fieldCfg.Register(flag.CommandLine)
	palette.Register(flag.CommandLine)
	flag.Parse()

	cli.SetupLogging(*verbose)

	field, err := fieldCfg.Field()
	if err != nil {
		log.Fatalf("meshgradient: %v", err)
	}
	colors, err := palette.Palette()
	if err != nil {
		log.Fatalf("meshgradient: %v", err)
	}
	if *frames < 1 || *fps <= 0 {
		log.Fatalf("meshgradient: need -frames >= 1 and -fps > 0")
	}
	if *frames > 1 && !strings.Contains(*output, "%") {
		log.Fatalf("meshgradient: -output %q needs a %%d verb for %d frames", *output, *frames)
	}

	opts := []meshgradient.RenderOption{
		meshgradient.WithField(field),
		meshgradient.WithPixelScale(*scale),
		meshgradient.WithResolutionScale(*res),
	}
	if !*useGPU {
		opts = append(opts, meshgradient.WithoutAccelerator())
	}

	ctx := context.Background()
	for i := range *frames {
		req := meshgradient.Request{
			Viewport: meshgradient.Rect(0, 0, float64(*width), float64(*height)),
			Time:     meshgradient.WrapTime(*start + float64(i)*(*speed)/(*fps)),
			Colors:   colors,
			Opacity:  *opacity,
		}
		img, err := meshgradient.RenderGradient(ctx, req, opts...)
		if err != nil {
			log.Fatalf("meshgradient: frame %d: %v", i, err)
		}
		if *drawUI {
			overlay.Draw(img, meshgradient.PresetCounts(), len(meshgradient.NormalizeColors(colors)), *scale)
		}

		name := *output
		if *frames > 1 {
			name = fmt.Sprintf(*output, i)
		}
		if err := savePNG(name, img); err != nil {
			log.Fatalf("meshgradient: %v", err)
		}
	}

	log.Printf("Rendered %d frame(s) to %s (%dx%d)", *frames, *output, *width, *height)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
