package terminal

import "strconv"

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyDelete

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Ctrl+letter (Ctrl+A = 0x01, Ctrl+Z = 0x1A)
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlK
	KeyCtrlL
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ

	// Ctrl+special
	KeyCtrlSpace
	KeyCtrlBackslash
	KeyCtrlBracketRight
	KeyCtrlCaret
	KeyCtrlUnderscore

	// KeyModifier is a lone modifier key press or release. Only reported
	// with keyboard enhancement; Event.Modifiers is the resulting set
	KeyModifier
)

// KeyAction distinguishes press, auto-repeat and release. Legacy terminal
// input reports presses only
type KeyAction uint8

const (
	KeyActionPress KeyAction = iota
	KeyActionRepeat
	KeyActionRelease
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
	ModMeta  Modifier = 1 << 3
)

// Has reports whether all bits of mod are set
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod
}

// ctrlLetters are the letters of KeyCtrlA..KeyCtrlZ in order. H, I, J and M
// are absent: their control bytes decode as Backspace, Tab and Enter
const ctrlLetters = "abcdefgklnopqrstuvwxyz"

// CtrlLetter returns the lowercase letter of a Ctrl+letter key
func (k Key) CtrlLetter() (rune, bool) {
	letters := ctrlLetters
	if k < KeyCtrlA || k > KeyCtrlZ {
		return 0, false
	}
	return rune(letters[k-KeyCtrlA]), true
}

// escapeSequence maps escape sequences to keys
// Key: sequence after ESC [ (e.g., "A" for up arrow)
type escapeSequence struct {
	seq string
	key Key
	mod Modifier
}

// Unmodified CSI sequences (ESC [ ...)
var csiSequences = []escapeSequence{
	{"A", KeyUp, ModNone},
	{"B", KeyDown, ModNone},
	{"C", KeyRight, ModNone},
	{"D", KeyLeft, ModNone},
	{"Z", KeyBacktab, ModShift},
	{"H", KeyHome, ModNone},
	{"F", KeyEnd, ModNone},
	{"1~", KeyHome, ModNone},
	{"4~", KeyEnd, ModNone},
	{"7~", KeyHome, ModNone},
	{"8~", KeyEnd, ModNone},
	{"[A", KeyF1, ModNone},
	{"[B", KeyF2, ModNone},
	{"[C", KeyF3, ModNone},
	{"[D", KeyF4, ModNone},
	{"[E", KeyF5, ModNone},
}

// xterm letter-final keys, modifiable as ESC [ 1 ; mod X
var csiLetterKeys = []struct {
	final byte
	key   Key
}{
	{'A', KeyUp}, {'B', KeyDown}, {'C', KeyRight}, {'D', KeyLeft},
	{'H', KeyHome}, {'F', KeyEnd},
	{'P', KeyF1}, {'Q', KeyF2}, {'R', KeyF3}, {'S', KeyF4},
}

// xterm tilde keys, modifiable as ESC [ N ; mod ~
var csiTildeKeys = []struct {
	code int
	key  Key
}{
	{2, KeyInsert}, {3, KeyDelete}, {5, KeyPageUp}, {6, KeyPageDown},
	{11, KeyF1}, {12, KeyF2}, {13, KeyF3}, {14, KeyF4},
	{15, KeyF5}, {17, KeyF6}, {18, KeyF7}, {19, KeyF8},
	{20, KeyF9}, {21, KeyF10}, {23, KeyF11}, {24, KeyF12},
}

// xtermModBits lists modifiers by bit position in the xterm parameter
var xtermModBits = [...]Modifier{ModShift, ModAlt, ModCtrl, ModMeta}

// xtermModifier decodes the xterm modifier parameter, which is 1 + bitmask
func xtermModifier(param int) Modifier {
	var m Modifier
	for i, mod := range xtermModBits {
		if (param-1)&(1<<i) != 0 {
			m |= mod
		}
	}
	return m
}

// buildCSITable expands letter and tilde keys across xterm modifier params 2-16
func buildCSITable() []escapeSequence {
	seqs := append([]escapeSequence(nil), csiSequences...)
	for _, k := range csiTildeKeys {
		code := strconv.Itoa(k.code)
		seqs = append(seqs, escapeSequence{code + "~", k.key, ModNone})
		for p := 2; p <= 16; p++ {
			seqs = append(seqs, escapeSequence{code + ";" + strconv.Itoa(p) + "~", k.key, xtermModifier(p)})
		}
	}
	for _, k := range csiLetterKeys {
		for p := 2; p <= 16; p++ {
			seqs = append(seqs, escapeSequence{"1;" + strconv.Itoa(p) + string(k.final), k.key, xtermModifier(p)})
		}
	}
	return seqs
}

// SS3 sequences (ESC O ...)
var ss3Sequences = []escapeSequence{
	{"A", KeyUp, ModNone},
	{"B", KeyDown, ModNone},
	{"C", KeyRight, ModNone},
	{"D", KeyLeft, ModNone},
	{"H", KeyHome, ModNone},
	{"F", KeyEnd, ModNone},
	{"P", KeyF1, ModNone},
	{"Q", KeyF2, ModNone},
	{"R", KeyF3, ModNone},
	{"S", KeyF4, ModNone},
	{"M", KeyEnter, ModNone}, // Keypad Enter
}

var csiMap = buildSequenceMap(buildCSITable())
var ss3Map = buildSequenceMap(ss3Sequences)

func buildSequenceMap(seqs []escapeSequence) map[string]escapeSequence {
	m := make(map[string]escapeSequence, len(seqs))
	for _, s := range seqs {
		m[s.seq] = s
	}
	return m
}

// lookupCSI performs zero-alloc map lookup
// The string([]byte) conversion inline in map access does not allocate
func lookupCSI(seq []byte) (Key, Modifier, bool) {
	if s, ok := csiMap[string(seq)]; ok {
		return s.key, s.mod, true
	}
	return KeyNone, ModNone, false
}

func lookupSS3(seq []byte) (Key, Modifier, bool) {
	if s, ok := ss3Map[string(seq)]; ok {
		return s.key, s.mod, true
	}
	return KeyNone, ModNone, false
}
