// Package keypad describes the 16-key hexadecimal keypad of a Chip-8 machine
// and its mapping onto a QWERTY keyboard.
package keypad

import "unicode"

// Count is the number of keys on the keypad.
const Count = 16

// State holds the pressed state of every key, indexed by key value.
type State [Count]bool

// Layout maps each keypad key to the keyboard character that triggers it.
//
//	Keypad       Keyboard
//	|1|2|3|C|    |1|2|3|4|
//	|4|5|6|D|    |Q|W|E|R|
//	|7|8|9|E|    |A|S|D|F|
//	|A|0|B|F|    |Z|X|C|V|
var Layout = [Count]rune{
	0x0: 'x', 0x1: '1', 0x2: '2', 0x3: '3',
	0x4: 'q', 0x5: 'w', 0x6: 'e', 0x7: 'a',
	0x8: 's', 0x9: 'd', 0xa: 'z', 0xb: 'c',
	0xc: '4', 0xd: 'r', 0xe: 'f', 0xf: 'v',
}

// FromRune returns the keypad key triggered by the keyboard character r.
// Letters match case insensitively.
func FromRune(r rune) (int, bool) {
	r = unicode.ToLower(r)
	for key, c := range Layout {
		if c == r {
			return key, true
		}
	}
	return 0, false
}

// Pressed returns the lowest key that is pressed.
func (s State) Pressed() (int, bool) {
	for key, down := range s {
		if down {
			return key, true
		}
	}
	return 0, false
}
