// Command meshterm previews animated mesh gradients in a truecolor
// terminal.
//
// Keys: 2, 3 and 4 pick a preset, left and right cycle presets, space
// pauses, + and - change speed, q quits.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/meshgradient"
	"github.com/gogpu/meshgradient/internal/cli"
	"github.com/gogpu/meshgradient/internal/preview"
)

func main() {
	var (
		fps      = flag.Int("fps", 30, "frames per second")
		preset   = flag.Int("preset", meshgradient.DefaultPreset, "initial preset: 2, 3 or 4")
		opacity  = flag.Float64("opacity", 1, "gradient alpha over the black terminal background")
		fieldCfg cli.FieldFlags
	)
	fieldCfg.Register(flag.CommandLine)
	flag.Parse()

	field, err := fieldCfg.Field()
	if err != nil {
		log.Fatalf("meshterm: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("meshterm: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("meshterm: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := preview.NewApp(screen, field, time.Now())
	app.Picker().Select(*preset)
	app.SetOpacity(*opacity)

	err = app.Run(ctx, *fps)
	screen.Fini()
	if err != nil {
		log.Fatalf("meshterm: %v", err)
	}
}
