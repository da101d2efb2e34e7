package meshgradient

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/meshgradient/internal/parallel"
)

var (
	sharedPoolOnce sync.Once
	sharedPool     *parallel.WorkerPool
)

// renderPool returns the pool shared by all renders that do not ask for
// dedicated workers. It lives for the life of the process.
func renderPool() *parallel.WorkerPool {
	sharedPoolOnce.Do(func() {
		sharedPool = parallel.NewWorkerPool(0)
	})
	return sharedPool
}

// MaxImagePixels bounds the area of a rendered image, 1 GiB of NRGBA.
const MaxImagePixels = 1 << 28

// ImageSize returns the pixel dimensions RenderGradient produces for vp at
// the given pixel scale. Each dimension is at least 1. Sizes whose area
// exceeds MaxImagePixels, or that are not finite, fail with
// ErrInvalidInput.
func ImageSize(vp Viewport, pixelScale float64) (width, height int, err error) {
	w := math.Max(1, math.Round(vp.Width*pixelScale))
	h := math.Max(1, math.Round(vp.Height*pixelScale))
	if !(w*h <= MaxImagePixels) {
		return 0, 0, fmt.Errorf("%w: %gx%g image exceeds %d pixels", ErrInvalidInput, w, h, MaxImagePixels)
	}
	return int(w), int(h), nil
}

// RenderGradient renders req into a straight-alpha RGBA image.
//
// The image is sized to the viewport times the pixel scale, and pixel
// (px, py) shows the field at the center of its area. Rendering uses the
// registered GPU accelerator when it can and the parallel CPU renderer
// otherwise. Both paths use the same integer lattice hash, so the result
// does not depend on which path ran beyond floating-point rounding.
//
// RenderGradient returns ErrInvalidInput for requests the field rejects,
// and ctx.Err() if ctx is canceled before the image is complete.
func RenderGradient(ctx context.Context, req Request, opts ...RenderOption) (*image.NRGBA, error) {
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	f := o.field
	if f == nil {
		f = DefaultField()
	}

	fr, err := f.Prepare(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height, err := ImageSize(req.Viewport, o.pixelScale)
	if err != nil {
		return nil, err
	}
	evalW, evalH := width, height
	if o.resolutionScale < 1 {
		evalW = max(1, int(math.Round(float64(width)*o.resolutionScale)))
		evalH = max(1, int(math.Round(float64(height)*o.resolutionScale)))
	}

	img, err := renderFrame(ctx, fr, evalW, evalH, o)
	if err != nil {
		return nil, err
	}
	if evalW == width && evalH == height {
		return img, nil
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out, nil
}

// renderFrame tries the accelerator and falls back to the CPU renderer.
func renderFrame(ctx context.Context, fr *Frame, width, height int, o renderOptions) (*image.NRGBA, error) {
	if o.accelerate {
		if a := Accelerator(); a != nil {
			img, err := a.Render(ctx, fr, width, height)
			switch {
			case err == nil:
				return img, nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return nil, err
			case errors.Is(err, ErrFallbackToCPU):
				Logger().Debug("meshgradient: CPU fallback", "accelerator", a.Name(), "reason", err)
			default:
				Logger().Warn("meshgradient: accelerator failed, rendering on CPU", "accelerator", a.Name(), "err", err)
			}
		}
	}

	pool := renderPool()
	if o.workers != 0 {
		pool = parallel.NewWorkerPool(max(o.workers, 0))
		defer pool.Close()
	}
	return renderCPU(ctx, fr, width, height, pool)
}

// renderCPU evaluates fr into a width×height image, one tile per task.
func renderCPU(ctx context.Context, fr *Frame, width, height int, pool *parallel.WorkerPool) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	grid := parallel.NewTileGrid(width, height)

	Logger().Debug("meshgradient: render",
		"width", width, "height", height, "tiles", grid.Len(), "colors", fr.Count())

	work := make([]func(), 0, grid.Len())
	grid.ForEach(func(t parallel.Tile) {
		work = append(work, func() {
			if ctx.Err() != nil {
				return
			}
			shadeTile(fr, img, t.Bounds, width, height)
		})
	})
	pool.ExecuteAll(work)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// shadeTile writes the pixels of r. Tiles never overlap, so concurrent
// calls write disjoint parts of img.Pix.
func shadeTile(fr *Frame, img *image.NRGBA, r image.Rectangle, width, height int) {
	w, h := float64(width), float64(height)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		v := (float64(py) + 0.5) / h
		off := img.PixOffset(r.Min.X, py)
		for px := r.Min.X; px < r.Max.X; px++ {
			u := (float64(px) + 0.5) / w
			c := fr.AtUV(u, v).NRGBA()
			img.Pix[off+0] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = c.A
			off += 4
		}
	}
}
