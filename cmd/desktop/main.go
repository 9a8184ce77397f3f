// Command desktop runs a sample program in a window next to a hex dump of
// the memory page around PC.
package main

import (
	"flag"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const (
	screenWidth  = 640
	screenHeight = 480
	lineHeight   = 14
)

var (
	face     = text.NewGoXFace(basicfont.Face7x13)
	dimColor = color.RGBA{0x80, 0x80, 0x80, 0xff}
	pcColor  = color.RGBA{0x40, 0xff, 0x40, 0xff}
)

var keymap = map[ebiten.Key]action{
	ebiten.KeySpace:    actStep,
	ebiten.KeyR:        actToggleRun,
	ebiten.KeyI:        actIRQ,
	ebiten.KeyN:        actNMI,
	ebiten.KeyHome:     actReset,
	ebiten.KeyPageUp:   actPageUp,
	ebiten.KeyPageDown: actPageDown,
	ebiten.KeyP:        actFollowPC,
}

type Game struct {
	v *viewer
}

func (g *Game) Update() error {
	for key, a := range keymap {
		if inpututil.IsKeyJustPressed(key) {
			g.v.apply(a)
		}
	}
	g.v.tick()
	return nil
}

func drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = lineHeight
	text.Draw(screen, s, face, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	v := g.v
	drawText(screen, v.vm.Registers().String(), 8, 8, color.White)
	drawText(screen, v.next(), 8, 8+lineHeight, pcColor)

	top := 8 + 3*lineHeight
	drawText(screen, strings.Join(v.dump(), "\n"), 8, top, color.White)

	consoleTop := top + 17*lineHeight
	drawText(screen, "console", 8, consoleTop, dimColor)
	drawText(screen, v.tail(), 8, consoleTop+lineHeight, color.White)

	ebitenutil.DebugPrintAt(screen, "space step  R run/pause  I irq  N nmi  Home reset  PgUp/PgDn page  P follow PC", 8, screenHeight-36)
	ebitenutil.DebugPrintAt(screen, v.status, 8, screenHeight-20)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	name := flag.String("program", "countdown", "sample program to load")
	base := flag.String("base", "$8000", "load address: $hex, 0xhex or decimal")
	flag.Parse()

	linked, err := linkProgram(*name, *base)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("6502 Viewer - " + *name)

	if err := ebiten.RunGame(&Game{v: newViewer(linked)}); err != nil {
		log.Fatal(err)
	}
}
