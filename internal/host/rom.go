package host

import (
	"os"

	"github.com/pkg/errors"

	"github.com/koushik255/chip8go/chip8"
)

// ReadROM reads a raw CHIP-8 program from disk. Files that can not fit into
// program memory are rejected before they reach the machine.
func ReadROM(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening ROM '%s'", path)
	}
	if info.IsDir() {
		return nil, errors.Errorf("ROM '%s' is a directory", path)
	}
	if info.Size() > chip8.MaxProgramSize {
		return nil, errors.Wrapf(chip8.ErrProgramTooLarge, "ROM '%s': %d bytes (max: %d)",
			path, info.Size(), chip8.MaxProgramSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading ROM '%s'", path)
	}
	return data, nil
}
