package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		reg     byte
		want    byte
		flag    byte
	}{
		{"LD byte", words(0x6A42), 0xA, 0x42, 0},
		{"ADD byte wraps", words(0x6F05, 0x60FF, 0x7002), 0x0, 0x01, 0x05},
		{"ADD byte", words(0x6010, 0x7020), 0x0, 0x30, 0},
		{"LD reg", words(0x6B17, 0x8AB0), 0xA, 0x17, 0},
		{"OR", words(0x6A0C, 0x6B03, 0x8AB1), 0xA, 0x0F, 0},
		{"AND", words(0x6A0C, 0x6B06, 0x8AB2), 0xA, 0x04, 0},
		{"XOR", words(0x6A0C, 0x6B06, 0x8AB3), 0xA, 0x0A, 0},
		{"ADD carry", words(0x6AFF, 0x6B01, 0x8AB4), 0xA, 0x00, 1},
		{"ADD no carry", words(0x6A01, 0x6B01, 0x8AB4), 0xA, 0x02, 0},
		{"ADD clears flag", words(0x6F01, 0x6A01, 0x6B01, 0x8AB4), 0xA, 0x02, 0},
		{"SUB no borrow", words(0x6A05, 0x6B03, 0x8AB5), 0xA, 0x02, 1},
		{"SUB equal", words(0x6A05, 0x6B05, 0x8AB5), 0xA, 0x00, 1},
		{"SUB borrow", words(0x6A03, 0x6B05, 0x8AB5), 0xA, 0xFE, 0},
		{"SHR", words(0x6A81, 0x8A06), 0xA, 0x40, 1},
		{"SHR even", words(0x6A80, 0x8A06), 0xA, 0x40, 0},
		{"SUBN no borrow", words(0x6A03, 0x6B05, 0x8AB7), 0xA, 0x02, 1},
		{"SUBN equal", words(0x6A05, 0x6B05, 0x8AB7), 0xA, 0x00, 1},
		{"SUBN borrow", words(0x6A05, 0x6B03, 0x8AB7), 0xA, 0xFE, 0},
		{"SHL", words(0x6A81, 0x8A0E), 0xA, 0x02, 1},
		{"SHL low", words(0x6A41, 0x8A0E), 0xA, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, tt.program)
			steps(t, m, nil, len(tt.program)/2)

			assert.Equal(t, tt.want, m.V(tt.reg))
			assert.Equal(t, tt.flag, m.V(0xF))
		})
	}
}

// When VF is also the destination, the flag wins.
func TestFlagRegisterAsOperand(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		flag    byte
	}{
		{"ADD carry", words(0x6FFF, 0x6101, 0x8F14), 1},
		{"ADD no carry", words(0x6F01, 0x6101, 0x8F14), 0},
		{"SUB no borrow", words(0x6F05, 0x6103, 0x8F15), 1},
		{"SUB borrow", words(0x6F03, 0x6105, 0x8F15), 0},
		{"SHR", words(0x6F03, 0x8F06), 1},
		{"SUBN borrow", words(0x6F05, 0x6103, 0x8F17), 0},
		{"SHL", words(0x6F80, 0x8F0E), 1},
		{"SUB from VF as Y", words(0x6A05, 0x6F03, 0x8AF5), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, tt.program)
			steps(t, m, nil, len(tt.program)/2)
			assert.Equal(t, tt.flag, m.V(0xF))
		})
	}
}

func TestDraw(t *testing.T) {
	t.Run("draw twice collides", func(t *testing.T) {
		m, _ := newTestMachine(t, words(0xA000, 0x6000, 0x6100, 0xD015, 0xD015))
		steps(t, m, nil, 4)

		fb := m.Framebuffer()
		assert.Equal(t, byte(0), m.V(0xF))
		assert.Equal(t, true, fb.Pixel(0, 0))
		assert.Equal(t, true, fb.Pixel(3, 0))
		assert.Equal(t, false, fb.Pixel(4, 0))
		assert.Equal(t, true, fb.Pixel(0, 1))
		assert.Equal(t, false, fb.Pixel(1, 1))

		steps(t, m, nil, 1)
		assert.Equal(t, byte(1), m.V(0xF))
		assert.Equal(t, Framebuffer{}, m.Framebuffer())
	})

	t.Run("partial overlap", func(t *testing.T) {
		// glyph "1" row 0 is 0x20, glyph "0" row 0 is 0xF0
		m, _ := newTestMachine(t, words(0xA005, 0xD011, 0xA000, 0xD011))
		steps(t, m, nil, 2)
		assert.Equal(t, byte(0), m.V(0xF))

		steps(t, m, nil, 2)
		fb := m.Framebuffer()
		assert.Equal(t, byte(1), m.V(0xF))
		assert.Equal(t, true, fb.Pixel(0, 0))
		assert.Equal(t, true, fb.Pixel(1, 0))
		assert.Equal(t, false, fb.Pixel(2, 0))
		assert.Equal(t, true, fb.Pixel(3, 0))
	})

	t.Run("no collision clears flag", func(t *testing.T) {
		m, _ := newTestMachine(t, words(0x6F01, 0xA000, 0xD001))
		steps(t, m, nil, 3)
		assert.Equal(t, byte(0), m.V(0xF))
	})

	t.Run("clipped at right edge", func(t *testing.T) {
		m, _ := newTestMachine(t, words(0xA000, 0x603E, 0x6100, 0xD011))
		steps(t, m, nil, 4)

		fb := m.Framebuffer()
		assert.Equal(t, true, fb.Pixel(62, 0))
		assert.Equal(t, true, fb.Pixel(63, 0))
		assert.Equal(t, false, fb.Pixel(0, 0))
		assert.Equal(t, false, fb.Pixel(0, 1))
		assert.Equal(t, false, fb.Pixel(1, 0))
	})

	t.Run("clipped at bottom edge", func(t *testing.T) {
		m, _ := newTestMachine(t, words(0xA000, 0x6000, 0x611F, 0xD015))
		steps(t, m, nil, 4)

		fb := m.Framebuffer()
		assert.Equal(t, true, fb.Pixel(0, 31))
		for x := 0; x < DisplayWidth; x++ {
			assert.Equal(t, false, fb.Pixel(x, 0))
		}
	})

	t.Run("start position wraps", func(t *testing.T) {
		// x = 66 mod 64 = 2, y = 33 mod 32 = 1
		m, _ := newTestMachine(t, words(0xA000, 0x6042, 0x6121, 0xD011))
		steps(t, m, nil, 4)

		fb := m.Framebuffer()
		assert.Equal(t, true, fb.Pixel(2, 1))
		assert.Equal(t, true, fb.Pixel(5, 1))
		assert.Equal(t, false, fb.Pixel(1, 1))
		assert.Equal(t, false, fb.Pixel(6, 1))
	})

	t.Run("zero height", func(t *testing.T) {
		m, _ := newTestMachine(t, words(0x6F01, 0xA000, 0xD000))
		steps(t, m, nil, 3)
		assert.Equal(t, Framebuffer{}, m.Framebuffer())
		assert.Equal(t, byte(0), m.V(0xF))
	})
}

func TestTimerOpcodes(t *testing.T) {
	m, clock := newTestMachine(t, words(0x6A05, 0xFA15, 0x6B09, 0xFB18, 0xF107, 0xF207))
	steps(t, m, nil, 4)
	assert.Equal(t, byte(5), m.DelayTimer())
	assert.Equal(t, byte(9), m.SoundTimer())
	assert.Equal(t, true, m.SoundActive())

	steps(t, m, nil, 1)
	assert.Equal(t, byte(5), m.V(1))

	// two ticks elapsed, one cycle decrements once
	clock.Advance(2 * tickPeriod)
	steps(t, m, nil, 1)
	assert.Equal(t, byte(4), m.V(2))
	assert.Equal(t, byte(8), m.SoundTimer())
}

func TestDecode(t *testing.T) {
	assert.Equal(t, 34, len(opcodes))

	for _, op := range opcodes {
		got, ok := decode(op.value)
		assert.Equal(t, true, ok)
		assert.Equal(t, op.value, got.value)
	}
}

func TestDisassemble(t *testing.T) {
	tests := []struct {
		raw  uint16
		want string
		ok   bool
	}{
		{0x00E0, "CLS", true},
		{0x00EE, "RET", true},
		{0x1234, "JP 234", true},
		{0x2ABC, "CALL ABC", true},
		{0x3A2B, "SE VA, 2B", true},
		{0x5120, "SE V1, V2", true},
		{0x8AB4, "ADD VA, VB", true},
		{0x8AB6, "SHR VA, VB", true},
		{0xA123, "LD I, 123", true},
		{0xB200, "JP V0, 200", true},
		{0xC0FF, "RND V0, FF", true},
		{0xD125, "DRW V1, V2, 5", true},
		{0xE39E, "SKP V3", true},
		{0xE3A1, "SKNP V3", true},
		{0xF407, "LD V4, DT", true},
		{0xF40A, "LD V4, K", true},
		{0xF415, "LD DT, V4", true},
		{0xF418, "LD ST, V4", true},
		{0xF41E, "ADD I, V4", true},
		{0xF429, "LD F, V4", true},
		{0xF433, "LD B, V4", true},
		{0xF455, "LD [I], V4", true},
		{0xF465, "LD V4, [I]", true},
		{0x0123, "DW 0x0123", false},
		{0x800F, "DW 0x800F", false},
	}

	for _, tt := range tests {
		got, ok := Disassemble(tt.raw)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.ok, ok)
	}
}
