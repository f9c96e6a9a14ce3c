package host

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/koushik255/chip8go/chip8"
)

// KeyLatch turns key press events into held keys, for inputs such as a
// terminal that report presses but never releases. A pressed key stays
// down for a fixed number of frames after its last press event.
type KeyLatch struct {
	hold      int
	remaining [chip8.KeyCount]int
}

// NewKeyLatch creates a latch holding keys for holdFrames frames.
func NewKeyLatch(holdFrames int) *KeyLatch {
	if holdFrames < 1 {
		holdFrames = 1
	}
	return &KeyLatch{hold: holdFrames}
}

// Press marks a key as pressed now.
func (l *KeyLatch) Press(key byte) {
	if int(key) < len(l.remaining) {
		l.remaining[key] = l.hold
	}
}

// Frame returns the keypad state for the next frame and ages every held
// key by one frame.
func (l *KeyLatch) Frame() chip8.KeyState {
	var keys chip8.KeyState
	for key, left := range l.remaining {
		if left > 0 {
			keys[key] = true
			l.remaining[key]--
		}
	}
	return keys
}

// Half block characters, each text cell shows two display rows.
const (
	blockEmpty  = ' '
	blockUpper  = '▀'
	blockLower  = '▄'
	blockFull   = '█'
	cursorHome  = "\x1b[H"
	resetColors = "\x1b[0m"
)

// TerminalRows is the number of text rows a rendered frame occupies.
const TerminalRows = chip8.DisplayHeight / 2

// RenderHalfBlocks writes the display as 24-bit colored half block
// characters, starting at the top left corner of the terminal. Lines end in
// "\r\n" as the terminal is expected to be in raw mode.
func RenderHalfBlocks(w io.Writer, fb *chip8.Framebuffer, fg, bg color.RGBA) error {
	var b strings.Builder
	b.Grow(TerminalRows * (chip8.DisplayWidth*3 + 48))
	b.WriteString(cursorHome)

	colors := fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm", fg.R, fg.G, fg.B, bg.R, bg.G, bg.B)
	for y := 0; y < chip8.DisplayHeight; y += 2 {
		b.WriteString(colors)
		for x := 0; x < chip8.DisplayWidth; x++ {
			b.WriteRune(halfBlock(fb.Pixel(x, y), fb.Pixel(x, y+1)))
		}
		b.WriteString(resetColors)
		b.WriteString("\r\n")
	}

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "writing frame")
}

func halfBlock(upper, lower bool) rune {
	switch {
	case upper && lower:
		return blockFull
	case upper:
		return blockUpper
	case lower:
		return blockLower
	default:
		return blockEmpty
	}
}
