// Package preview shows an animated mesh gradient in a terminal.
//
// Each character cell holds two vertically stacked pixels drawn as an
// upper half block: the foreground color is the top pixel and the
// background color the bottom one. Truecolor terminals show the
// gradient at twice the row resolution.
package preview

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/meshgradient"
	"github.com/gogpu/meshgradient/internal/picker"
)

// upperHalf is the glyph whose foreground covers the top of the cell.
const upperHalf = '▀'

// statusRows is the number of rows reserved below the gradient.
const statusRows = 1

// Draw paints img onto s, one cell per two image rows, with the top-left
// pixel at cell (0, 0). Alpha is composited over black.
func Draw(s tcell.Screen, img *image.NRGBA) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y += 2 {
		for x := 0; x < b.Dx(); x++ {
			top := cellColor(img, b.Min.X+x, b.Min.Y+y)
			bottom := tcell.ColorBlack
			if y+1 < b.Dy() {
				bottom = cellColor(img, b.Min.X+x, b.Min.Y+y+1)
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			s.SetContent(x, y/2, upperHalf, nil, style)
		}
	}
}

func cellColor(img *image.NRGBA, x, y int) tcell.Color {
	c := img.NRGBAAt(x, y)
	over := func(v uint8) int32 {
		return (int32(v)*int32(c.A) + 127) / 255
	}
	return tcell.NewRGBColor(over(c.R), over(c.G), over(c.B))
}

// App is an interactive terminal preview driven by a picker.
type App struct {
	screen  tcell.Screen
	field   *meshgradient.Field
	picker  *picker.State
	opacity float64
	opts    []meshgradient.RenderOption
}

// NewApp returns an app drawing on screen. The screen must already be
// initialized.
func NewApp(screen tcell.Screen, field *meshgradient.Field, now time.Time) *App {
	if field == nil {
		field = meshgradient.DefaultField()
	}
	return &App{
		screen:  screen,
		field:   field,
		picker:  picker.New(now),
		opacity: 1,
	}
}

// Picker returns the app's picker state.
func (a *App) Picker() *picker.State {
	return a.picker
}

// SetOpacity sets the gradient alpha.
func (a *App) SetOpacity(opacity float64) {
	a.opacity = opacity
}

// SetRenderOptions sets extra options for every frame.
func (a *App) SetRenderOptions(opts ...meshgradient.RenderOption) {
	a.opts = opts
}

// HandleEvent applies ev and reports whether the app should quit.
//
// Keys: 2, 3 and 4 select a preset, left and right cycle presets, space
// pauses, + and - change speed, q, Esc and Ctrl-C quit.
func (a *App) HandleEvent(ev tcell.Event, now time.Time) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			a.picker.Prev()
		case tcell.KeyRight:
			a.picker.Next()
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q', 'Q':
				return true
			case '2', '3', '4':
				a.picker.Select(int(r - '0'))
			case ' ':
				a.picker.ToggleAnimation(now)
			case '+', '=':
				a.picker.Faster(now)
			case '-', '_':
				a.picker.Slower(now)
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return false
}

// Frame renders and shows the frame for now.
func (a *App) Frame(ctx context.Context, now time.Time) error {
	w, h := a.screen.Size()
	rows := h - statusRows
	if w <= 0 || rows <= 0 {
		return nil
	}

	req := meshgradient.Request{
		Viewport: meshgradient.Rect(0, 0, float64(w), float64(2*rows)),
		Time:     a.picker.Time(now),
		Colors:   a.picker.Colors(),
		Opacity:  a.opacity,
	}
	opts := append([]meshgradient.RenderOption{meshgradient.WithField(a.field)}, a.opts...)
	img, err := meshgradient.RenderGradient(ctx, req, opts...)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	Draw(a.screen, img)
	a.drawStatus(rows, w)
	a.screen.Show()
	return nil
}

// Status returns the text of the status line.
func (a *App) Status() string {
	mode := "paused"
	if a.picker.Animated() {
		mode = fmt.Sprintf("x%g", a.picker.Speed())
	}
	return fmt.Sprintf(" %d colors %s | 2/3/4 preset  space pause  +/- speed  q quit", a.picker.Preset(), mode)
}

func (a *App) drawStatus(row, width int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	x := 0
	for _, r := range a.Status() {
		if x >= width {
			break
		}
		a.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		a.screen.SetContent(x, row, ' ', nil, style)
	}
}

// Run draws frames at fps until ctx is done or the user quits.
func (a *App) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go a.screen.ChannelEvents(events, quit)

	if err := a.Frame(ctx, time.Now()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.HandleEvent(ev, time.Now()) {
				return nil
			}
		case <-ticker.C:
			if err := a.Frame(ctx, time.Now()); err != nil {
				return err
			}
		}
	}
}
