package main

import (
	"context"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/pkg/errors"

	"github.com/koushik255/chip8go/chip8"
	"github.com/koushik255/chip8go/internal/host"
)

var pixelButtons = map[rune]pixelgl.Button{
	'1': pixelgl.Key1, '2': pixelgl.Key2, '3': pixelgl.Key3, '4': pixelgl.Key4,
	'Q': pixelgl.KeyQ, 'W': pixelgl.KeyW, 'E': pixelgl.KeyE, 'R': pixelgl.KeyR,
	'A': pixelgl.KeyA, 'S': pixelgl.KeyS, 'D': pixelgl.KeyD, 'F': pixelgl.KeyF,
	'Z': pixelgl.KeyZ, 'X': pixelgl.KeyX, 'C': pixelgl.KeyC, 'V': pixelgl.KeyV,
}

// runPixel opens an OpenGL window. pixelgl needs the main thread, so this
// must be called from main's goroutine.
func runPixel(opts host.Options, runner *host.Runner) error {
	var err error
	pixelgl.Run(func() {
		err = pixelLoop(opts, runner)
	})
	return err
}

func pixelLoop(opts host.Options, runner *host.Runner) error {
	scale := float64(opts.Scale)
	cfg := pixelgl.WindowConfig{
		Title:  "CHIP-8 Emulator",
		Bounds: pixel.R(0, 0, chip8.DisplayWidth*scale, chip8.DisplayHeight*scale),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	defer win.Destroy()

	imd := imdraw.New(nil)

	poll := func() (chip8.KeyState, bool) {
		var keys chip8.KeyState
		if win.Closed() || win.Pressed(pixelgl.KeyEscape) {
			return keys, false
		}
		for key, r := range host.Keymap {
			keys[key] = win.Pressed(pixelButtons[r])
		}
		return keys, true
	}

	draw := func(fb *chip8.Framebuffer) {
		win.Clear(opts.Background)
		imd.Clear()
		imd.Color = opts.Foreground

		// pixel's origin is the bottom left corner
		for y := 0; y < chip8.DisplayHeight; y++ {
			top := float64(chip8.DisplayHeight-y) * scale
			for x := 0; x < chip8.DisplayWidth; x++ {
				if !fb.Pixel(x, y) {
					continue
				}
				left := float64(x) * scale
				imd.Push(pixel.V(left, top-scale), pixel.V(left+scale, top))
				imd.Rectangle(0)
			}
		}

		imd.Draw(win)
		win.Update()
	}

	return runner.Loop(context.Background(), poll, draw)
}
