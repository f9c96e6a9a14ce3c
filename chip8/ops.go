package chip8

import (
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// Every handler runs with pc already pointing at the next instruction.
// Jumps overwrite pc, skips add another 2.

// 00E0: clear the display.
func (m *Machine) cls(_ instruction, _ Keypad) error {
	m.display = Framebuffer{}
	return nil
}

// 00EE: return from a subroutine.
func (m *Machine) ret(_ instruction, _ Keypad) error {
	if m.sp == 0 {
		return errors.WithStack(ErrStackUnderflow)
	}
	m.sp--
	m.pc = m.stack[m.sp]
	return nil
}

// 1NNN: jump to NNN.
func (m *Machine) jp(in instruction, _ Keypad) error {
	m.pc = in.nnn()
	return nil
}

// 2NNN: call the subroutine at NNN. The pushed address is the instruction
// after the call.
func (m *Machine) call(in instruction, _ Keypad) error {
	if int(m.sp) == StackSize {
		return errors.Wrapf(ErrStackOverflow, "%d nested calls", StackSize)
	}
	m.stack[m.sp] = m.pc
	m.sp++
	m.pc = in.nnn()
	return nil
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.pc += 2
	}
}

// 3Xkk: skip if Vx == kk.
func (m *Machine) seByte(in instruction, _ Keypad) error {
	m.skipIf(m.v[in.x()] == in.kk())
	return nil
}

// 4Xkk: skip if Vx != kk.
func (m *Machine) sneByte(in instruction, _ Keypad) error {
	m.skipIf(m.v[in.x()] != in.kk())
	return nil
}

// 5XY0: skip if Vx == Vy.
func (m *Machine) seReg(in instruction, _ Keypad) error {
	m.skipIf(m.v[in.x()] == m.v[in.y()])
	return nil
}

// 6Xkk: Vx = kk.
func (m *Machine) ldByte(in instruction, _ Keypad) error {
	m.v[in.x()] = in.kk()
	return nil
}

// 7Xkk: Vx += kk, wrapping. VF is not touched.
func (m *Machine) addByte(in instruction, _ Keypad) error {
	m.v[in.x()] += in.kk()
	return nil
}

// 8XY0: Vx = Vy.
func (m *Machine) ldReg(in instruction, _ Keypad) error {
	m.v[in.x()] = m.v[in.y()]
	return nil
}

// 8XY1: Vx |= Vy.
func (m *Machine) or(in instruction, _ Keypad) error {
	m.v[in.x()] |= m.v[in.y()]
	return nil
}

// 8XY2: Vx &= Vy.
func (m *Machine) and(in instruction, _ Keypad) error {
	m.v[in.x()] &= m.v[in.y()]
	return nil
}

// 8XY3: Vx ^= Vy.
func (m *Machine) xor(in instruction, _ Keypad) error {
	m.v[in.x()] ^= m.v[in.y()]
	return nil
}

// The arithmetic handlers below read both operands first and write VF
// last, so that VF ends up holding the flag even when it is also Vx.

// 8XY4: Vx += Vy, VF = carry.
func (m *Machine) addReg(in instruction, _ Keypad) error {
	sum := uint16(m.v[in.x()]) + uint16(m.v[in.y()])
	m.v[in.x()] = byte(sum)
	m.v[0xF] = boolByte(sum > 0xFF)
	return nil
}

// 8XY5: Vx -= Vy, VF = NOT borrow.
func (m *Machine) sub(in instruction, _ Keypad) error {
	vx, vy := m.v[in.x()], m.v[in.y()]
	m.v[in.x()] = vx - vy
	m.v[0xF] = boolByte(vx >= vy)
	return nil
}

// 8XY6: Vx >>= 1, VF = the bit shifted out.
func (m *Machine) shr(in instruction, _ Keypad) error {
	vx := m.v[in.x()]
	m.v[in.x()] = vx >> 1
	m.v[0xF] = vx & 0x1
	return nil
}

// 8XY7: Vx = Vy - Vx, VF = NOT borrow.
func (m *Machine) subn(in instruction, _ Keypad) error {
	vx, vy := m.v[in.x()], m.v[in.y()]
	m.v[in.x()] = vy - vx
	m.v[0xF] = boolByte(vy >= vx)
	return nil
}

// 8XYE: Vx <<= 1, VF = the bit shifted out.
func (m *Machine) shl(in instruction, _ Keypad) error {
	vx := m.v[in.x()]
	m.v[in.x()] = vx << 1
	m.v[0xF] = (vx >> 7) & 0x1
	return nil
}

// 9XY0: skip if Vx != Vy.
func (m *Machine) sneReg(in instruction, _ Keypad) error {
	m.skipIf(m.v[in.x()] != m.v[in.y()])
	return nil
}

// ANNN: I = NNN.
func (m *Machine) ldI(in instruction, _ Keypad) error {
	m.i = in.nnn()
	return nil
}

// BNNN: jump to NNN + V0.
func (m *Machine) jpV0(in instruction, _ Keypad) error {
	m.pc = in.nnn() + uint16(m.v[0])
	return nil
}

// CXkk: Vx = random byte AND kk.
func (m *Machine) rnd(in instruction, _ Keypad) error {
	m.v[in.x()] = byte(m.rng.Intn(256)) & in.kk()
	return nil
}

// DXYN: draw the n-byte sprite at memory[I] to (Vx, Vy).
//
// The start position wraps around the display, the sprite itself is
// clipped at the right and bottom edges. Each sprite bit is XORed into the
// display; VF is set when a lit pixel gets turned off.
func (m *Machine) drw(in instruction, _ Keypad) error {
	height := int(in.n())
	if err := m.span(m.i, height); err != nil {
		return err
	}

	x0 := int(m.v[in.x()]) % DisplayWidth
	y0 := int(m.v[in.y()]) % DisplayHeight

	var collision bool
	for row := 0; row < height && y0+row < DisplayHeight; row++ {
		sprite := m.memory[int(m.i)+row]

		for col := 0; col < 8 && x0+col < DisplayWidth; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}

			position := (y0+row)*DisplayWidth + x0 + col
			if m.display[position] == 1 {
				collision = true
			}
			m.display[position] ^= 1
		}
	}

	m.v[0xF] = boolByte(collision)
	return nil
}

// EX9E: skip if key Vx is pressed.
func (m *Machine) skp(in instruction, keys Keypad) error {
	m.skipIf(isPressed(keys, m.v[in.x()]))
	return nil
}

// EXA1: skip if key Vx is not pressed.
func (m *Machine) sknp(in instruction, keys Keypad) error {
	m.skipIf(!isPressed(keys, m.v[in.x()]))
	return nil
}

// FX07: Vx = delay timer.
func (m *Machine) ldXDelay(in instruction, _ Keypad) error {
	m.v[in.x()] = m.delay.value
	return nil
}

// FX0A: wait for a key press and store it in Vx. A key that is already
// held is taken right away; otherwise the machine blocks until Step sees
// one.
func (m *Machine) ldKey(in instruction, keys Keypad) error {
	if key, ok := firstPressed(keys); ok {
		m.v[in.x()] = key
		return nil
	}

	m.blocked = true
	m.waitReg = in.x()
	m.logger.Debug("Waiting for key", log.Int("register", int(in.x())))
	return nil
}

// FX15: delay timer = Vx.
func (m *Machine) ldDelayX(in instruction, _ Keypad) error {
	m.delay.set(m.v[in.x()], m.clock.Now())
	return nil
}

// FX18: sound timer = Vx.
func (m *Machine) ldSoundX(in instruction, _ Keypad) error {
	m.sound.set(m.v[in.x()], m.clock.Now())
	return nil
}

// FX1E: I += Vx. The result must stay inside memory.
func (m *Machine) addI(in instruction, _ Keypad) error {
	sum := m.i + uint16(m.v[in.x()])
	if int(sum) >= MemorySize {
		return errors.Wrapf(ErrAddressOverflow, "I = %03X + %02X", m.i, m.v[in.x()])
	}
	m.i = sum
	return nil
}

// FX29: I = address of the font glyph for digit Vx.
func (m *Machine) ldFont(in instruction, _ Keypad) error {
	m.i = uint16(m.v[in.x()]) * glyphSize
	return nil
}

// FX33: store the decimal digits of Vx at memory[I], [I+1], [I+2].
func (m *Machine) ldBCD(in instruction, _ Keypad) error {
	if err := m.span(m.i, 3); err != nil {
		return err
	}

	vx := m.v[in.x()]
	m.memory[m.i] = vx / 100
	m.memory[m.i+1] = (vx / 10) % 10
	m.memory[m.i+2] = vx % 10
	return nil
}

// FX55: store V0..Vx at memory[I..I+x]. I is left unchanged.
func (m *Machine) store(in instruction, _ Keypad) error {
	count := int(in.x()) + 1
	if err := m.span(m.i, count); err != nil {
		return err
	}

	copy(m.memory[m.i:int(m.i)+count], m.v[:count])
	return nil
}

// FX65: load V0..Vx from memory[I..I+x]. I is left unchanged.
func (m *Machine) load(in instruction, _ Keypad) error {
	count := int(in.x()) + 1
	if err := m.span(m.i, count); err != nil {
		return err
	}

	copy(m.v[:count], m.memory[m.i:int(m.i)+count])
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
