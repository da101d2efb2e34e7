// Command meshwindow shows an animated mesh gradient in a window.
//
// The gradient is shaded on the GPU by a Kage shader when the field
// allows it. Keys: 2, 3 and 4 (or a click on the panel) pick a preset,
// space pauses, + and - change speed, C copies the palette as CSS colors,
// H hides the panel, Esc quits.
package main

import (
	"errors"
	"flag"
	"image"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	_ "github.com/silbinarywolf/preferdiscretegpu"
	"golang.design/x/clipboard"

	"github.com/gogpu/meshgradient"
	"github.com/gogpu/meshgradient/integration/ebitenmesh"
	"github.com/gogpu/meshgradient/internal/cli"
	"github.com/gogpu/meshgradient/internal/overlay"
	"github.com/gogpu/meshgradient/internal/picker"
)

// errQuit ends the game loop without an error report.
var errQuit = errors.New("quit")

type game struct {
	drawer    *ebitenmesh.Drawer
	picker    *picker.State
	opacity   float64
	clipboard bool

	showPanel bool
	panel     *ebiten.Image
	panelFor  panelKey
	layout    overlay.Layout
}

// panelKey identifies the contents of the cached panel image.
type panelKey struct {
	size     image.Point
	selected int
}

var presetKeys = map[ebiten.Key]int{
	ebiten.KeyDigit2: 2, ebiten.KeyNumpad2: 2,
	ebiten.KeyDigit3: 3, ebiten.KeyNumpad3: 3,
	ebiten.KeyDigit4: 4, ebiten.KeyNumpad4: 4,
}

func (g *game) Update() error {
	now := time.Now()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	for k, n := range presetKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.picker.Select(n)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.picker.ToggleAnimation(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		g.picker.Faster(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		g.picker.Slower(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showPanel = !g.showPanel
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyPalette()
	}
	if g.showPanel && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if n, ok := g.layout.HitTest(image.Pt(ebiten.CursorPosition())); ok {
			g.picker.Select(n)
		}
	}
	return nil
}

func (g *game) copyPalette() {
	colors := g.picker.Colors()
	hex := make([]string, len(colors))
	for i, c := range colors {
		hex[i] = c.Hex()
	}
	text := strings.Join(hex, ", ")
	if !g.clipboard {
		log.Printf("Palette: %s (clipboard unavailable)", text)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	log.Printf("Copied palette %s", text)
}

func (g *game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	req := meshgradient.Request{
		Viewport: meshgradient.Rect(0, 0, float64(b.Dx()), float64(b.Dy())),
		Time:     g.picker.Time(time.Now()),
		Colors:   g.picker.Colors(),
		Opacity:  g.opacity,
	}
	if err := g.drawer.Draw(screen, req); err != nil {
		log.Printf("meshwindow: %v", err)
	}
	if g.showPanel {
		g.drawPanel(screen)
	}
}

// drawPanel redraws the picker panel only when the selection or the
// window size changed.
func (g *game) drawPanel(screen *ebiten.Image) {
	key := panelKey{size: screen.Bounds().Size(), selected: g.picker.Preset()}
	if g.panel == nil || key != g.panelFor {
		rgba := image.NewRGBA(image.Rectangle{Max: key.size})
		scale := ebiten.Monitor().DeviceScaleFactor()
		g.layout = overlay.Draw(rgba, meshgradient.PresetCounts(), key.selected, scale)
		if g.panel == nil || g.panelFor.size != key.size {
			if g.panel != nil {
				g.panel.Deallocate()
			}
			g.panel = ebiten.NewImage(key.size.X, key.size.Y)
		}
		g.panel.WritePixels(rgba.Pix)
		g.panelFor = key
	}
	screen.DrawImage(g.panel, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	return int(float64(outsideWidth) * scale), int(float64(outsideHeight) * scale)
}

func main() {
	var (
		width    = flag.Int("width", 800, "window width")
		height   = flag.Int("height", 600, "window height")
		opacity  = flag.Float64("opacity", 1, "gradient alpha")
		verbose  = flag.Bool("v", false, "log diagnostics to stderr")
		fieldCfg cli.FieldFlags
		preset   = flag.Int("preset", meshgradient.DefaultPreset, "initial preset: 2, 3 or 4")
	)
	fieldCfg.Register(flag.CommandLine)
	flag.Parse()

	cli.SetupLogging(*verbose)

	field, err := fieldCfg.Field()
	if err != nil {
		log.Fatalf("meshwindow: %v", err)
	}

	g := &game{
		drawer:    ebitenmesh.NewDrawer(field),
		picker:    picker.New(time.Now()),
		opacity:   *opacity,
		showPanel: true,
	}
	g.picker.Select(*preset)
	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}
	defer g.drawer.Close()

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Mesh Gradient")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		log.Fatalf("meshwindow: %v", err)
	}
}
