package chip8

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned by Load and Step. All of them are fatal to the running
// program; use errors.Is to tell them apart.
var (
	ErrProgramTooLarge   = errors.New("program too large")
	ErrNoProgramLoaded   = errors.New("no program loaded")
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrAddressOverflow   = errors.New("address overflow")
	ErrMisalignedAddress = errors.New("misaligned address")
)

// OpcodeError reports an instruction word that matches no entry of the
// opcode table.
type OpcodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X at %03X", e.Opcode, e.Address)
}

// Unwrap lets errors.Is(err, ErrUnknownOpcode) match.
func (e *OpcodeError) Unwrap() error {
	return ErrUnknownOpcode
}
