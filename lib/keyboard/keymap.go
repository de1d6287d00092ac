package keyboard

// Keycodes for keys without a printable character. Printable keys use the
// character itself, upper case for letters.
const (
	SpecialKey = 1 << 24

	KeyEscape    = SpecialKey | 0x01
	KeyTab       = SpecialKey | 0x02
	KeyBackspace = SpecialKey | 0x04
	KeyEnter     = SpecialKey | 0x05
	KeyInsert    = SpecialKey | 0x07
	KeyDelete    = SpecialKey | 0x08
	KeyHome      = SpecialKey | 0x0B
	KeyEnd       = SpecialKey | 0x0C
	KeyLeft      = SpecialKey | 0x0D
	KeyUp        = SpecialKey | 0x0E
	KeyRight     = SpecialKey | 0x0F
	KeyDown      = SpecialKey | 0x10
	KeyPageUp    = SpecialKey | 0x11
	KeyPageDown  = SpecialKey | 0x12
	KeyShift     = SpecialKey | 0x13
	KeyControl   = SpecialKey | 0x14
	KeyMeta      = SpecialKey | 0x15
	KeyAlt       = SpecialKey | 0x16
	KeyCapsLock  = SpecialKey | 0x17
	KeyF1        = SpecialKey | 0x1D // F2..F12 follow
)

// evdev key codes, from linux/input-event-codes.h
const (
	codeLeftCtrl   = 29
	codeLeftShift  = 42
	codeRightShift = 54
	codeLeftAlt    = 56
	codeRightCtrl  = 97
	codeRightAlt   = 100
	codeLeftMeta   = 125
	codeRightMeta  = 126
)

type printable struct {
	normal, shifted rune
}

// US layout
var printables = map[uint16]printable{
	2: {'1', '!'}, 3: {'2', '@'}, 4: {'3', '#'}, 5: {'4', '$'}, 6: {'5', '%'},
	7: {'6', '^'}, 8: {'7', '&'}, 9: {'8', '*'}, 10: {'9', '('}, 11: {'0', ')'},
	12: {'-', '_'}, 13: {'=', '+'},
	16: {'q', 'Q'}, 17: {'w', 'W'}, 18: {'e', 'E'}, 19: {'r', 'R'}, 20: {'t', 'T'},
	21: {'y', 'Y'}, 22: {'u', 'U'}, 23: {'i', 'I'}, 24: {'o', 'O'}, 25: {'p', 'P'},
	26: {'[', '{'}, 27: {']', '}'},
	30: {'a', 'A'}, 31: {'s', 'S'}, 32: {'d', 'D'}, 33: {'f', 'F'}, 34: {'g', 'G'},
	35: {'h', 'H'}, 36: {'j', 'J'}, 37: {'k', 'K'}, 38: {'l', 'L'},
	39: {';', ':'}, 40: {'\'', '"'}, 41: {'`', '~'}, 43: {'\\', '|'},
	44: {'z', 'Z'}, 45: {'x', 'X'}, 46: {'c', 'C'}, 47: {'v', 'V'}, 48: {'b', 'B'},
	49: {'n', 'N'}, 50: {'m', 'M'},
	51: {',', '<'}, 52: {'.', '>'}, 53: {'/', '?'},
	55: {'*', '*'}, 57: {' ', ' '},
	74: {'-', '-'}, 78: {'+', '+'},
}

var specials = map[uint16]int{
	1:              KeyEscape,
	14:             KeyBackspace,
	15:             KeyTab,
	28:             KeyEnter,
	96:             KeyEnter, // keypad
	codeLeftCtrl:   KeyControl,
	codeRightCtrl:  KeyControl,
	codeLeftShift:  KeyShift,
	codeRightShift: KeyShift,
	codeLeftAlt:    KeyAlt,
	codeRightAlt:   KeyAlt,
	codeLeftMeta:   KeyMeta,
	codeRightMeta:  KeyMeta,
	58:             KeyCapsLock,
	102:            KeyHome,
	103:            KeyUp,
	104:            KeyPageUp,
	105:            KeyLeft,
	106:            KeyRight,
	107:            KeyEnd,
	108:            KeyDown,
	109:            KeyPageDown,
	110:            KeyInsert,
	111:            KeyDelete,
	87:             KeyF1 + 10,
	88:             KeyF1 + 11,
}

func init() {
	// F1..F10 are contiguous
	for i := 0; i < 10; i++ {
		specials[uint16(59+i)] = KeyF1 + i
	}
}

// EvdevResolver resolves evdev key codes using a US layout. The symbol of a
// printable key is its character at the current shift level.
type EvdevResolver struct{}

func (EvdevResolver) Lookup(ev RawKey) (sym uint32, keycode int, unicode uint32) {
	shifted := ev.State&ShiftMask != 0
	if p, ok := printables[ev.Code]; ok {
		r := p.normal
		if shifted {
			r = p.shifted
		}
		return uint32(r), int(r), uint32(r)
	}
	if k, ok := specials[ev.Code]; ok {
		return uint32(k), k, 0
	}
	return 0, 0, 0
}
