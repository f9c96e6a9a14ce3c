package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/koushik255/chip8go/chip8"
	"github.com/koushik255/chip8go/internal/host"
)

var ebitenKeys = map[rune]ebiten.Key{
	'1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4,
	'Q': ebiten.KeyQ, 'W': ebiten.KeyW, 'E': ebiten.KeyE, 'R': ebiten.KeyR,
	'A': ebiten.KeyA, 'S': ebiten.KeyS, 'D': ebiten.KeyD, 'F': ebiten.KeyF,
	'Z': ebiten.KeyZ, 'X': ebiten.KeyX, 'C': ebiten.KeyC, 'V': ebiten.KeyV,
}

// ebitenGame implements ebiten.Game. Ebiten calls Update at FrameRate and
// Draw once per screen refresh.
type ebitenGame struct {
	runner *host.Runner
	fg, bg color.RGBA

	pixels []byte
	err    error
}

func runEbiten(opts host.Options, runner *host.Runner) error {
	game := &ebitenGame{
		runner: runner,
		fg:     opts.Foreground,
		bg:     opts.Background,
		pixels: make([]byte, chip8.DisplayWidth*chip8.DisplayHeight*4),
	}

	ebiten.SetWindowTitle("CHIP-8 Emulator")
	ebiten.SetWindowSize(chip8.DisplayWidth*opts.Scale, chip8.DisplayHeight*opts.Scale)
	ebiten.SetTPS(host.FrameRate)

	if err := ebiten.RunGame(game); err != nil {
		return errors.Wrap(err, "running ebiten")
	}
	return game.err
}

func (g *ebitenGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var keys chip8.KeyState
	for key, r := range host.Keymap {
		keys[key] = ebiten.IsKeyPressed(ebitenKeys[r])
	}

	if err := g.runner.Frame(keys); err != nil {
		g.err = err
		return ebiten.Termination
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	fb := g.runner.Framebuffer()
	for i, cell := range fb {
		c := g.bg
		if cell != 0 {
			c = g.fg
		}
		offset := i * 4
		g.pixels[offset] = c.R
		g.pixels[offset+1] = c.G
		g.pixels[offset+2] = c.B
		g.pixels[offset+3] = c.A
	}
	screen.WritePixels(g.pixels)
}

// Layout keeps the logical screen at display resolution, ebiten scales it
// to the window.
func (g *ebitenGame) Layout(_, _ int) (int, int) {
	return chip8.DisplayWidth, chip8.DisplayHeight
}
