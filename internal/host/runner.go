package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/koushik255/chip8go/chip8"
)

// FrameRate is the host refresh rate, matching the CHIP-8 timer rate.
const FrameRate = chip8.TimerHz

// Runner owns a Machine and serializes all access to it. Frontends call
// Frame once per display refresh and read Framebuffer to draw.
type Runner struct {
	mu sync.Mutex

	machine *chip8.Machine
	cycles  int
	logger  *log.Logger

	err    error
	frames uint64
}

// NewRunner creates a runner executing cyclesPerFrame instructions for
// every Frame call.
func NewRunner(machine *chip8.Machine, cyclesPerFrame int, logger *log.Logger) *Runner {
	if cyclesPerFrame < 1 {
		cyclesPerFrame = 1
	}
	return &Runner{
		machine: machine,
		cycles:  cyclesPerFrame,
		logger:  logger,
	}
}

// Load loads a new program and clears a previously latched error.
func (r *Runner) Load(program []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.machine.Load(program); err != nil {
		return err
	}
	r.err = nil
	r.frames = 0
	return nil
}

// Frame runs one frame worth of cycles with the given keypad snapshot.
// The first failing step stops the program; the error is logged once and
// returned from this and every later call until the next Load.
func (r *Runner) Frame(keys chip8.KeyState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}

	for i := 0; i < r.cycles; i++ {
		if err := r.machine.Step(keys); err != nil {
			r.err = err
			instruction, _ := chip8.Disassemble(r.machine.Opcode())
			r.logger.LogDepth(0, log.ErrorLevel, "Program stopped",
				log.String("pc", fmt.Sprintf("%03X", r.machine.PC())),
				log.String("opcode", fmt.Sprintf("%04X", r.machine.Opcode())),
				log.String("instruction", instruction),
				log.Uint64("frame", r.frames),
				log.Err(err))
			return err
		}
	}

	r.frames++
	return nil
}

// Framebuffer returns a snapshot of the display.
func (r *Runner) Framebuffer() chip8.Framebuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Framebuffer()
}

// SoundActive reports whether the program currently wants a tone.
func (r *Runner) SoundActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.SoundActive()
}

// Err returns the error that stopped the program, if any.
func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Frames returns the number of completed frames since the last Load.
func (r *Runner) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Loop drives the runner at FrameRate until ctx is done, poll reports that
// the user quit, or the program fails. poll returns the keypad snapshot for
// the next frame; draw receives the display after it.
func (r *Runner) Loop(ctx context.Context, poll func() (chip8.KeyState, bool), draw func(fb *chip8.Framebuffer)) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	for {
		keys, ok := poll()
		if !ok {
			return nil
		}

		if err := r.Frame(keys); err != nil {
			return err
		}

		fb := r.Framebuffer()
		draw(&fb)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
