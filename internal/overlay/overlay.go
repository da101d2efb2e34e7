// Package overlay draws the preset picker panel over a rendered frame.
//
// The panel is a translucent rounded rectangle centered at the bottom of
// the frame with one rounded button per preset. Shapes are filled with
// rasterx and labels use the basicfont 7x13 face.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Geometry in unscaled pixels.
const (
	buttonWidth   = 50
	buttonHeight  = 32
	buttonRadius  = 8
	buttonSpacing = 8
	panelPadX     = 12
	panelPadY     = 10
	panelRadius   = 14
	bottomMargin  = 40
)

// Panel and button fills.
var (
	PanelColor    = color.NRGBA{A: alpha(0.3)}
	SelectedColor = color.NRGBA{R: 255, G: 255, B: 255, A: alpha(0.9)}
	IdleColor     = color.NRGBA{R: 255, G: 255, B: 255, A: alpha(0.15)}

	selectedLabel = color.NRGBA{A: 255}
	idleLabel     = color.NRGBA{R: 255, G: 255, B: 255, A: alpha(0.9)}
)

func alpha(a float64) uint8 {
	return uint8(a*255 + 0.5)
}

// Button is one preset button.
type Button struct {
	Count int
	Rect  image.Rectangle
}

// Layout is the placement of the panel within a frame.
type Layout struct {
	Panel   image.Rectangle
	Buttons []Button
}

// Compute places a panel with one button per count inside bounds.
// scale multiplies every dimension; values <= 0 mean 1.
//
// The panel is centered horizontally and sits bottomMargin above the
// bottom edge. Frames too small for the margin get the panel flush with
// the bottom.
func Compute(bounds image.Rectangle, counts []int, scale float64) Layout {
	if scale <= 0 {
		scale = 1
	}
	px := func(v int) int { return int(float64(v)*scale + 0.5) }

	n := len(counts)
	w := 2*px(panelPadX) + n*px(buttonWidth) + max(n-1, 0)*px(buttonSpacing)
	h := 2*px(panelPadY) + px(buttonHeight)

	x0 := bounds.Min.X + (bounds.Dx()-w)/2
	y1 := bounds.Max.Y - px(bottomMargin)
	if y1-h < bounds.Min.Y {
		y1 = bounds.Max.Y
	}
	l := Layout{Panel: image.Rect(x0, y1-h, x0+w, y1)}

	bx := x0 + px(panelPadX)
	by := y1 - h + px(panelPadY)
	for _, c := range counts {
		l.Buttons = append(l.Buttons, Button{
			Count: c,
			Rect:  image.Rect(bx, by, bx+px(buttonWidth), by+px(buttonHeight)),
		})
		bx += px(buttonWidth) + px(buttonSpacing)
	}
	return l
}

// HitTest returns the count of the button containing p.
func (l Layout) HitTest(p image.Point) (int, bool) {
	for _, b := range l.Buttons {
		if p.In(b.Rect) {
			return b.Count, true
		}
	}
	return 0, false
}

// Draw composites the panel onto dst with the button for selected
// highlighted, and returns the layout used.
func Draw(dst draw.Image, counts []int, selected int, scale float64) Layout {
	if scale <= 0 {
		scale = 1
	}
	b := dst.Bounds()
	l := Compute(b, counts, scale)

	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)

	fill := func(r image.Rectangle, radius float64, c color.Color) {
		scanner.SetColor(c)
		rasterx.AddRoundRect(
			float64(r.Min.X-b.Min.X), float64(r.Min.Y-b.Min.Y),
			float64(r.Max.X-b.Min.X), float64(r.Max.Y-b.Min.Y),
			radius*scale, radius*scale, 0, rasterx.RoundGap, filler)
		filler.Draw()
		filler.Clear()
	}

	fill(l.Panel, panelRadius, PanelColor)
	for _, btn := range l.Buttons {
		fillColor, labelColor := color.Color(IdleColor), color.Color(idleLabel)
		if btn.Count == selected {
			fillColor, labelColor = SelectedColor, selectedLabel
		}
		fill(btn.Rect, buttonRadius, fillColor)
		drawLabel(dst, btn.Rect, strconv.Itoa(btn.Count), labelColor)
	}
	return l
}

// drawLabel centers s in r.
func drawLabel(dst draw.Image, r image.Rectangle, s string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := d.MeasureString(s)
	m := face.Metrics()
	x := fixed.I(r.Min.X+r.Dx()/2) - width/2
	y := fixed.I(r.Min.Y+r.Dy()/2) + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(s)
}
