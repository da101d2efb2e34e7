// Package meshgradient renders animated multi-color mesh gradients.
//
// # Overview
//
// A mesh gradient is a smooth color field defined by 2 to 4 control
// colors. Each color has an anchor that drifts slowly around a base
// layout; every pixel blends the colors by inverse squared distance to
// the anchors, perturbed by low-frequency noise so the result never looks
// perfectly radial.
//
// # Quick Start
//
//	import "github.com/gogpu/meshgradient"
//
//	req := meshgradient.Request{
//	    Viewport: meshgradient.Rect(0, 0, 640, 360),
//	    Time:     12.5,
//	    Colors:   meshgradient.DefaultPalette(),
//	    Opacity:  1,
//	}
//	img, err := meshgradient.RenderGradient(ctx, req)
//
// # Evaluation
//
// The shading function is pure. Field holds immutable configuration
// (noise source, noise strength, blend space, anchor drift) and
// Field.Prepare binds it to one Request, returning a read-only Frame that
// any number of goroutines may sample with Frame.At. The same request
// always yields the same pixels.
//
// Input handling:
//   - Fewer than 2 colors are replaced by DefaultPalette; colors past the
//     fourth are ignored.
//   - Opacity is clamped to [0, 1] and only affects alpha.
//   - Non-finite time or position and unusable viewports fail with
//     ErrInvalidInput.
//
// # Animation
//
// Time enters the field only through integer harmonics of 2π/WrapPeriod,
// so Evaluate at t and at t+WrapPeriod agree. Clock turns wall-clock
// instants into time values, either Animated{Speed} or Static{Time}.
//
// # Renderers
//
// RenderGradient renders on a tiled CPU worker pool. Importing the gpu
// package registers a WebGPU accelerator that renders the same field in a
// fragment shader and falls back to the CPU when it cannot:
//
//	import _ "github.com/gogpu/meshgradient/gpu"
//
// Package integration/meshcanvas shows frames in a gogpu window and
// integration/ebitenmesh draws them in an Ebitengine game.
package meshgradient

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
