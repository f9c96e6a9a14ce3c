// Package chip8 implements the CHIP-8 interpreter: 4KB of memory, sixteen
// 8-bit registers, a 64x32 monochrome display and two 60Hz timers.
//
// A Machine is an ordinary value; any number of them can run side by side.
// It is not safe for concurrent use, callers that render from another
// goroutine must serialize access themselves.
package chip8

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// Memory layout.
//
//	0x000-0x1FF: interpreter area, fontset at 0x000
//	0x200-0xFFF: program space
const (
	MemorySize     = 4096
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart

	RegisterCount = 16
	StackSize     = 16

	DisplayWidth  = 64
	DisplayHeight = 32
)

// Framebuffer is the 64x32 display in row-major order, each cell 0 or 1.
type Framebuffer [DisplayWidth * DisplayHeight]byte

// Pixel reports whether the cell at column x, row y is lit. Coordinates
// outside the display are unlit.
func (f *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return f[y*DisplayWidth+x] != 0
}

// Machine holds the complete state of one emulated CHIP-8 program.
type Machine struct {
	memory [MemorySize]byte

	// VF is also used as the carry, borrow and collision flag
	v [RegisterCount]byte

	i  uint16
	pc uint16

	stack [StackSize]uint16
	sp    uint8

	delay timer
	sound timer

	display Framebuffer

	// blocked is set by FX0A while no key is pressed; waitReg is the
	// register that receives the key once one is.
	blocked bool
	waitReg byte

	programSize int

	clock  Clock
	rng    *rand.Rand
	logger *log.Logger
}

// Option configures a Machine created by New.
type Option func(*Machine)

// WithClock sets the time source used for timer decay.
func WithClock(clock Clock) Option {
	return func(m *Machine) {
		m.clock = clock
	}
}

// WithRand sets the random source used by CXkk.
func WithRand(rng *rand.Rand) Option {
	return func(m *Machine) {
		m.rng = rng
	}
}

// WithLogger sets a logger for debug level lifecycle events.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New creates a Machine with the fontset in memory and no program loaded.
// Step fails with ErrNoProgramLoaded until Load is called.
func New(opts ...Option) *Machine {
	m := &Machine{
		clock:  systemClock{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.reset()
	return m
}

// hexadecimal digit sprites 0-F, 5 bytes each
//
// ████ (0xF0)
// █  █ (0x90)
// █  █ (0x90)
// █  █ (0x90)
// ████ (0xF0)
var fontset = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// glyphSize is the height in bytes of one fontset sprite.
const glyphSize = 5

// reset puts every register, the stack, the timers and the display back to
// their power-on values and reloads the fontset.
func (m *Machine) reset() {
	now := m.clock.Now()

	m.memory = [MemorySize]byte{}
	copy(m.memory[:], fontset[:])

	m.v = [RegisterCount]byte{}
	m.i = 0
	m.pc = ProgramStart
	m.stack = [StackSize]uint16{}
	m.sp = 0
	m.delay.set(0, now)
	m.sound.set(0, now)
	m.display = Framebuffer{}
	m.blocked = false
	m.waitReg = 0
	m.programSize = 0
}

// Load resets the machine and copies program into memory at 0x200.
// A program that does not fit returns ErrProgramTooLarge and leaves the
// machine exactly as it was.
func (m *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes (max: %d)", len(program), MaxProgramSize)
	}

	m.reset()
	copy(m.memory[ProgramStart:], program)
	m.programSize = len(program)

	m.logger.Debug("Program loaded", log.Int("size", len(program)))
	return nil
}

// Step executes one instruction cycle.
//
// While the machine waits for a key (FX0A) only the keypad is checked: the
// first pressed key is stored and the machine resumes without decaying the
// timers or moving pc.
//
// On error pc is left pointing at the faulting instruction and the stack is
// as it was before it.
func (m *Machine) Step(keys Keypad) error {
	if m.programSize == 0 {
		return errors.WithStack(ErrNoProgramLoaded)
	}

	if m.blocked {
		m.resumeOnKey(keys)
		return nil
	}

	now := m.clock.Now()
	m.delay.decay(now)
	m.sound.decay(now)

	// pc is validated after every step, so both bytes are in memory
	address := m.pc
	raw := uint16(m.memory[address])<<8 | uint16(m.memory[address+1])

	op, ok := decode(raw)
	if !ok {
		return errors.WithStack(&OpcodeError{Opcode: raw, Address: address})
	}

	sp := m.sp
	m.pc += 2
	err := op.exec(m, instruction(raw), keys)
	if err == nil {
		err = m.checkPC()
	}
	if err != nil {
		m.pc = address
		m.sp = sp
		return errors.Wrapf(err, "%s at %03X", op.name, address)
	}
	return nil
}

func (m *Machine) resumeOnKey(keys Keypad) {
	key, ok := firstPressed(keys)
	if !ok {
		return
	}

	m.v[m.waitReg] = key
	m.blocked = false
	m.logger.Debug("Key received", log.Int("key", int(key)))
}

// checkPC enforces that the next fetch is an aligned word inside program
// space.
func (m *Machine) checkPC() error {
	if m.pc < ProgramStart || int(m.pc)+1 >= MemorySize {
		return errors.Wrapf(ErrAddressOverflow, "pc %03X outside program space", m.pc)
	}
	if m.pc%2 != 0 {
		return errors.Wrapf(ErrMisalignedAddress, "pc %03X", m.pc)
	}
	return nil
}

// span fails unless memory[start : start+length] lies inside memory.
func (m *Machine) span(start uint16, length int) error {
	if int(start)+length > MemorySize {
		return errors.Wrapf(ErrAddressOverflow, "%d bytes at %03X", length, start)
	}
	return nil
}

// Framebuffer returns a copy of the display.
func (m *Machine) Framebuffer() Framebuffer {
	return m.display
}

// V returns register Vx. Only the low nibble of x is used.
func (m *Machine) V(x byte) byte {
	return m.v[x&0xF]
}

// I returns the index register.
func (m *Machine) I() uint16 {
	return m.i
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// SP returns the number of return addresses on the stack.
func (m *Machine) SP() int {
	return int(m.sp)
}

// Memory returns the byte at addr. Addresses past 0xFFF read as 0.
func (m *Machine) Memory(addr uint16) byte {
	if int(addr) >= MemorySize {
		return 0
	}
	return m.memory[addr]
}

func (m *Machine) DelayTimer() byte {
	return m.delay.value
}

func (m *Machine) SoundTimer() byte {
	return m.sound.value
}

// SoundActive reports whether the sound timer is running. The machine
// produces no audio itself.
func (m *Machine) SoundActive() bool {
	return m.sound.value > 0
}

// Waiting reports whether the machine is suspended on FX0A.
func (m *Machine) Waiting() bool {
	return m.blocked
}

// Opcode returns the instruction word at pc without executing it.
func (m *Machine) Opcode() uint16 {
	if int(m.pc)+1 >= MemorySize {
		return 0
	}
	return uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1])
}
