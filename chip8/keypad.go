package chip8

// KeyCount is the number of keys on the hexadecimal keypad (0-F).
const KeyCount = 16

// Keypad reports whether a logical key is held down. The host takes a
// snapshot of its input device before every Step and hands it in here.
type Keypad interface {
	Pressed(key byte) bool
}

// KeyState is a fixed keypad snapshot indexed by key 0-F.
// true = key pressed, false = key not pressed
type KeyState [KeyCount]bool

// Pressed implements Keypad. Keys past 0xF are never pressed.
func (k KeyState) Pressed(key byte) bool {
	return int(key) < len(k) && k[key]
}

// KeyMap is a sparse keypad snapshot. Keys missing from the map are not
// pressed.
type KeyMap map[byte]bool

// Pressed implements Keypad. Keys past 0xF are never pressed.
func (k KeyMap) Pressed(key byte) bool {
	return key < KeyCount && k[key]
}

// firstPressed scans the keypad in ascending order and returns the lowest
// pressed key.
func firstPressed(keys Keypad) (byte, bool) {
	if keys == nil {
		return 0, false
	}
	for key := byte(0); key < KeyCount; key++ {
		if keys.Pressed(key) {
			return key, true
		}
	}
	return 0, false
}

func isPressed(keys Keypad, key byte) bool {
	return keys != nil && keys.Pressed(key)
}
