package chip8

import "fmt"

// instruction is one 2-byte CHIP-8 opcode. The operand fields are:
//   - x:   bits 8-11, usually a register index
//   - y:   bits 4-7, usually a register index
//   - n:   bits 0-3
//   - kk:  bits 0-7, an 8-bit constant
//   - nnn: bits 0-11, an address
type instruction uint16

func (in instruction) x() byte     { return byte(in>>8) & 0xF }
func (in instruction) y() byte     { return byte(in>>4) & 0xF }
func (in instruction) n() byte     { return byte(in) & 0xF }
func (in instruction) kk() byte    { return byte(in) }
func (in instruction) nnn() uint16 { return uint16(in) & 0x0FFF }

// operands selects how Disassemble prints an instruction.
type operands int

const (
	argNone   operands = iota
	argAddr            // NNN
	argV0Addr          // V0, NNN
	argXByte           // Vx, kk
	argXY              // Vx, Vy
	argXYN             // Vx, Vy, n
	argX               // Vx
	argXDelay          // Vx, DT
	argXKey            // Vx, K
	argDelayX          // DT, Vx
	argSoundX          // ST, Vx
	argIAddr           // I, NNN
	argIX              // I, Vx
	argFontX           // F, Vx
	argBCDX            // B, Vx
	argMemX            // [I], Vx
	argXMem            // Vx, [I]
)

// opcode is one row of the instruction table: a raw word w belongs to the
// row when w&mask == value.
type opcode struct {
	mask  uint16
	value uint16
	name  string
	args  operands
	exec  func(m *Machine, in instruction, keys Keypad) error
}

var opcodes = []opcode{
	{0xFFFF, 0x00E0, "CLS", argNone, (*Machine).cls},
	{0xFFFF, 0x00EE, "RET", argNone, (*Machine).ret},
	{0xF000, 0x1000, "JP", argAddr, (*Machine).jp},
	{0xF000, 0x2000, "CALL", argAddr, (*Machine).call},
	{0xF000, 0x3000, "SE", argXByte, (*Machine).seByte},
	{0xF000, 0x4000, "SNE", argXByte, (*Machine).sneByte},
	{0xF00F, 0x5000, "SE", argXY, (*Machine).seReg},
	{0xF000, 0x6000, "LD", argXByte, (*Machine).ldByte},
	{0xF000, 0x7000, "ADD", argXByte, (*Machine).addByte},
	{0xF00F, 0x8000, "LD", argXY, (*Machine).ldReg},
	{0xF00F, 0x8001, "OR", argXY, (*Machine).or},
	{0xF00F, 0x8002, "AND", argXY, (*Machine).and},
	{0xF00F, 0x8003, "XOR", argXY, (*Machine).xor},
	{0xF00F, 0x8004, "ADD", argXY, (*Machine).addReg},
	{0xF00F, 0x8005, "SUB", argXY, (*Machine).sub},
	{0xF00F, 0x8006, "SHR", argXY, (*Machine).shr},
	{0xF00F, 0x8007, "SUBN", argXY, (*Machine).subn},
	{0xF00F, 0x800E, "SHL", argXY, (*Machine).shl},
	{0xF00F, 0x9000, "SNE", argXY, (*Machine).sneReg},
	{0xF000, 0xA000, "LD", argIAddr, (*Machine).ldI},
	{0xF000, 0xB000, "JP", argV0Addr, (*Machine).jpV0},
	{0xF000, 0xC000, "RND", argXByte, (*Machine).rnd},
	{0xF000, 0xD000, "DRW", argXYN, (*Machine).drw},
	{0xF0FF, 0xE09E, "SKP", argX, (*Machine).skp},
	{0xF0FF, 0xE0A1, "SKNP", argX, (*Machine).sknp},
	{0xF0FF, 0xF007, "LD", argXDelay, (*Machine).ldXDelay},
	{0xF0FF, 0xF00A, "LD", argXKey, (*Machine).ldKey},
	{0xF0FF, 0xF015, "LD", argDelayX, (*Machine).ldDelayX},
	{0xF0FF, 0xF018, "LD", argSoundX, (*Machine).ldSoundX},
	{0xF0FF, 0xF01E, "ADD", argIX, (*Machine).addI},
	{0xF0FF, 0xF029, "LD", argFontX, (*Machine).ldFont},
	{0xF0FF, 0xF033, "LD", argBCDX, (*Machine).ldBCD},
	{0xF0FF, 0xF055, "LD", argMemX, (*Machine).store},
	{0xF0FF, 0xF065, "LD", argXMem, (*Machine).load},
}

// dispatch groups the table rows by the top nibble of their value.
var dispatch [16][]*opcode

func init() {
	for i := range opcodes {
		op := &opcodes[i]
		family := op.value >> 12
		dispatch[family] = append(dispatch[family], op)
	}
}

func decode(raw uint16) (*opcode, bool) {
	for _, op := range dispatch[raw>>12] {
		if raw&op.mask == op.value {
			return op, true
		}
	}
	return nil, false
}

// Disassemble returns the assembly form of an instruction word, for
// example "LD V3, 2A" or "DRW V0, V1, 5". Unknown words return
// "DW 0xNNNN" and false.
func Disassemble(raw uint16) (string, bool) {
	op, ok := decode(raw)
	if !ok {
		return fmt.Sprintf("DW 0x%04X", raw), false
	}

	in := instruction(raw)
	switch op.args {
	case argAddr:
		return fmt.Sprintf("%s %03X", op.name, in.nnn()), true
	case argV0Addr:
		return fmt.Sprintf("%s V0, %03X", op.name, in.nnn()), true
	case argXByte:
		return fmt.Sprintf("%s V%X, %02X", op.name, in.x(), in.kk()), true
	case argXY:
		return fmt.Sprintf("%s V%X, V%X", op.name, in.x(), in.y()), true
	case argXYN:
		return fmt.Sprintf("%s V%X, V%X, %d", op.name, in.x(), in.y(), in.n()), true
	case argX:
		return fmt.Sprintf("%s V%X", op.name, in.x()), true
	case argXDelay:
		return fmt.Sprintf("%s V%X, DT", op.name, in.x()), true
	case argXKey:
		return fmt.Sprintf("%s V%X, K", op.name, in.x()), true
	case argDelayX:
		return fmt.Sprintf("%s DT, V%X", op.name, in.x()), true
	case argSoundX:
		return fmt.Sprintf("%s ST, V%X", op.name, in.x()), true
	case argIAddr:
		return fmt.Sprintf("%s I, %03X", op.name, in.nnn()), true
	case argIX:
		return fmt.Sprintf("%s I, V%X", op.name, in.x()), true
	case argFontX:
		return fmt.Sprintf("%s F, V%X", op.name, in.x()), true
	case argBCDX:
		return fmt.Sprintf("%s B, V%X", op.name, in.x()), true
	case argMemX:
		return fmt.Sprintf("%s [I], V%X", op.name, in.x()), true
	case argXMem:
		return fmt.Sprintf("%s V%X, [I]", op.name, in.x()), true
	default:
		return op.name, true
	}
}
