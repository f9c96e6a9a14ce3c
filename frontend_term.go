package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/koushik255/chip8go/chip8"
	"github.com/koushik255/chip8go/internal/host"
)

const (
	// terminals repeat a held key at roughly 30Hz, holding each press
	// for 6 frames bridges the gaps
	termKeyHold = 6

	keyCtrlC  = 0x03
	keyEscape = 0x1B

	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J"
)

func runTerm(opts host.Options, runner *host.Runner) error {
	in := int(os.Stdin.Fd())
	out := int(os.Stdout.Fd())
	if !term.IsTerminal(in) || !term.IsTerminal(out) {
		return errors.New("the term frontend needs an interactive terminal")
	}

	width, height, err := term.GetSize(out)
	if err != nil {
		return errors.Wrap(err, "getting terminal size")
	}
	if width < chip8.DisplayWidth || height < host.TerminalRows {
		return errors.Errorf("terminal is %dx%d, need at least %dx%d",
			width, height, chip8.DisplayWidth, host.TerminalRows)
	}

	oldState, err := term.MakeRaw(in)
	if err != nil {
		return errors.Wrap(err, "setting raw mode")
	}
	defer func() {
		_ = term.Restore(in, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := make(chan byte, 64)
	go readStdin(input)

	w := bufio.NewWriter(os.Stdout)
	fmt.Fprint(w, clearScreen+hideCursor)
	defer func() {
		fmt.Fprint(w, "\x1b[0m"+showCursor+"\r\n")
		_ = w.Flush()
	}()

	latch := host.NewKeyLatch(termKeyHold)
	poll := func() (chip8.KeyState, bool) {
		for {
			select {
			case b, ok := <-input:
				if !ok || b == keyCtrlC || b == keyEscape {
					return chip8.KeyState{}, false
				}
				if key, ok := host.KeyForRune(rune(b)); ok {
					latch.Press(key)
				}
			default:
				return latch.Frame(), true
			}
		}
	}

	var drawErr error
	draw := func(fb *chip8.Framebuffer) {
		if err := host.RenderHalfBlocks(w, fb, opts.Foreground, opts.Background); err != nil {
			drawErr = err
			cancel()
			return
		}
		if err := w.Flush(); err != nil {
			drawErr = errors.Wrap(err, "flushing frame")
			cancel()
		}
	}

	if err := runner.Loop(ctx, poll, draw); err != nil {
		return err
	}
	return drawErr
}

// readStdin forwards raw input bytes until stdin fails. The goroutine is
// left blocked in Read when the frontend exits.
func readStdin(input chan<- byte) {
	defer close(input)

	buf := make([]byte, 32)
	for {
		n, err := os.Stdin.Read(buf)
		for _, b := range buf[:n] {
			input <- b
		}
		if err != nil {
			return
		}
	}
}
