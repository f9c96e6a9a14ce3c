package host

import "unicode"

// Keymap maps the hexadecimal keypad onto the left hand side of a QWERTY
// keyboard:
//
//	Keypad       Keyboard
//	+-+-+-+-+    +-+-+-+-+
//	|1|2|3|C|    |1|2|3|4|
//	+-+-+-+-+    +-+-+-+-+
//	|4|5|6|D|    |Q|W|E|R|
//	+-+-+-+-+    +-+-+-+-+
//	|7|8|9|E|    |A|S|D|F|
//	+-+-+-+-+    +-+-+-+-+
//	|A|0|B|F|    |Z|X|C|V|
//	+-+-+-+-+    +-+-+-+-+
//
// Keymap[k] is the keyboard character for keypad key k.
var Keymap = [16]rune{
	0x0: 'X',
	0x1: '1', 0x2: '2', 0x3: '3', 0xC: '4',
	0x4: 'Q', 0x5: 'W', 0x6: 'E', 0xD: 'R',
	0x7: 'A', 0x8: 'S', 0x9: 'D', 0xE: 'F',
	0xA: 'Z', 0xB: 'C', 0xF: 'V',
}

// KeyForRune returns the keypad key bound to a keyboard character. Letters
// match in either case.
func KeyForRune(r rune) (byte, bool) {
	r = unicode.ToUpper(r)
	for key, bound := range Keymap {
		if bound == r {
			return byte(key), true
		}
	}
	return 0, false
}
