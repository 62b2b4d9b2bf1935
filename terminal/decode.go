package terminal

import (
	"bytes"
	"unicode/utf8"
)

var (
	pasteStart = []byte("\x1b[200~")
	pasteEnd   = []byte("\x1b[201~")
)

const (
	csiMaxBody = 24 // bytes after ESC [ before a sequence is treated as garbage
	sgrMaxLen  = 32
)

// controlKeys maps C0 bytes that are not Ctrl+letter chords
var controlKeys = [0x20]Key{
	0x00: KeyCtrlSpace,
	0x08: KeyBackspace,
	0x09: KeyTab,
	0x0a: KeyEnter,
	0x0d: KeyEnter,
	0x1b: KeyEscape,
	0x1c: KeyCtrlBackslash,
	0x1d: KeyCtrlBracketRight,
	0x1e: KeyCtrlCaret,
	0x1f: KeyCtrlUnderscore,
}

// decodeInput appends the events in data to dst and returns how many bytes
// it consumed. It stops at the first incomplete sequence; the caller keeps
// the remainder and retries when more bytes arrive
func decodeInput(data []byte, dst []Event) ([]Event, int) {
	i := 0
	for i < len(data) {
		ev, n := decodeOne(data[i:])
		if n == 0 {
			break
		}
		if !ev.swallowed() {
			dst = append(dst, ev)
		}
		i += n
	}
	return dst, i
}

// decodeOne decodes the event at the start of data; n is 0 if incomplete
func decodeOne(data []byte) (Event, int) {
	b := data[0]
	switch {
	case b >= 0x20 && b < 0x7f:
		return runeEvent(rune(b), ModNone), 1
	case b == 0x1b:
		return decodeEscape(data)
	case b < 0x20:
		return controlEvent(b), 1
	case b == 0x7f:
		return keyEvent(KeyBackspace, ModNone), 1
	}

	if !utf8.FullRune(data) {
		return Event{}, 0
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size == 1 {
		return swallow, 1
	}
	return runeEvent(r, ModNone), size
}

func controlEvent(b byte) Event {
	if k := controlKeys[b]; k != KeyNone {
		return keyEvent(k, ModNone)
	}
	if b >= 0x01 && b <= 0x1a {
		if k, ok := ctrlLetterKey(rune('a' + b - 1)); ok {
			return keyEvent(k, ModCtrl)
		}
	}
	return swallow
}

// ctrlLetterKey maps a letter to its Ctrl key constant
func ctrlLetterKey(letter rune) (Key, bool) {
	for k := KeyCtrlA; k <= KeyCtrlZ; k++ {
		if r, _ := k.CtrlLetter(); r == letter {
			return k, true
		}
	}
	return KeyNone, false
}

// decodeEscape handles everything introduced by ESC. A lone ESC is left
// pending; the reader turns it into the Escape key on poll timeout
func decodeEscape(data []byte) (Event, int) {
	if len(data) < 2 {
		return Event{}, 0
	}
	switch b := data[1]; {
	case b == '[':
		if bytes.HasPrefix(data, pasteStart) {
			return decodePaste(data)
		}
		return decodeCSI(data)
	case b == 'O':
		return decodeSS3(data)
	case b == 0x1b:
		return keyEvent(KeyEscape, ModAlt), 2
	case b < 0x20:
		ev := controlEvent(b)
		ev.Modifiers |= ModAlt
		return ev, 2
	case b < 0x7f:
		return runeEvent(rune(b), ModAlt), 2
	}
	// ESC before a non-ASCII byte: the byte decodes on its own next
	return keyEvent(KeyEscape, ModNone), 1
}

func decodePaste(data []byte) (Event, int) {
	body := data[len(pasteStart):]
	end := bytes.Index(body, pasteEnd)
	if end < 0 {
		return Event{}, 0
	}
	return Event{Type: EventPaste, Text: string(body[:end])}, len(pasteStart) + end + len(pasteEnd)
}

func isCSIFinal(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~'
}

func decodeCSI(data []byte) (Event, int) {
	if len(data) < 3 {
		return Event{}, 0
	}
	switch data[2] {
	case '<':
		return decodeSGRMouse(data)
	case 'I':
		return Event{Type: EventFocus, Focused: true}, 3
	case 'O':
		return Event{Type: EventFocus}, 3
	}

	body := data[2:]
	for j, b := range body {
		if j >= csiMaxBody {
			return swallow, 2 + j
		}
		// "[[" introduces linux console function keys
		if isCSIFinal(b) && !(j == 0 && b == '[') {
			if k, mod, ok := lookupCSI(body[:j+1]); ok {
				return keyEvent(k, mod), 3 + j
			}
			if ev, ok := decodeCSIParams(body[:j+1]); ok {
				return ev, 3 + j
			}
			return swallow, 3 + j
		}
		if b < 0x20 || b > 0x7e {
			return swallow, 2
		}
	}
	if len(body) >= csiMaxBody {
		return swallow, 2 + csiMaxBody
	}
	return Event{}, 0
}

func decodeSS3(data []byte) (Event, int) {
	if len(data) < 3 {
		return Event{}, 0
	}
	if k, mod, ok := lookupSS3(data[2:3]); ok {
		return keyEvent(k, mod), 3
	}
	return swallow, 3
}

// SGR mouse button byte layout
const (
	sgrButtonBits = 0x03
	sgrShift      = 1 << 2
	sgrAlt        = 1 << 3
	sgrCtrl       = 1 << 4
	sgrMotion     = 1 << 5
	sgrWheel      = 1 << 6
)

var sgrButtons = [4]MouseButton{MouseBtnLeft, MouseBtnMiddle, MouseBtnRight, MouseBtnNone}

var sgrMods = []struct {
	bit int
	mod Modifier
}{
	{sgrShift, ModShift},
	{sgrAlt, ModAlt},
	{sgrCtrl, ModCtrl},
}

// decodeSGRMouse parses ESC [ < btn ; x ; y (M|m); coordinates are 1-based
func decodeSGRMouse(data []byte) (Event, int) {
	end := bytes.IndexAny(data[3:min(len(data), sgrMaxLen)], "Mm")
	if end < 0 {
		if len(data) >= sgrMaxLen {
			return swallow, sgrMaxLen
		}
		return Event{}, 0
	}
	end += 3

	btn, x, y, ok := sgrParams(data[3:end])
	if !ok {
		return swallow, end + 1
	}

	ev := Event{Type: EventMouse, MouseX: x - 1, MouseY: y - 1}
	motion := btn&sgrMotion != 0
	if btn&sgrWheel != 0 {
		ev.MouseBtn = MouseBtnWheelDown
		if btn&sgrButtonBits == 0 {
			ev.MouseBtn = MouseBtnWheelUp
		}
		ev.MouseAction = MouseActionPress
	} else {
		ev.MouseBtn = sgrButtons[btn&sgrButtonBits]
		switch {
		case data[end] == 'm':
			ev.MouseAction = MouseActionRelease
		case motion && ev.MouseBtn != MouseBtnNone:
			ev.MouseAction = MouseActionDrag
		case motion:
			ev.MouseAction = MouseActionMove
		default:
			ev.MouseAction = MouseActionPress
		}
	}
	for _, m := range sgrMods {
		if btn&m.bit != 0 {
			ev.Modifiers |= m.mod
		}
	}
	return ev, end + 1
}

// sgrParams reads exactly three decimal fields separated by ';'
func sgrParams(p []byte) (btn, x, y int, ok bool) {
	var v [3]int
	field := 0
	for _, b := range p {
		if b == ';' {
			if field++; field > 2 {
				return
			}
			continue
		}
		if b < '0' || b > '9' {
			return
		}
		v[field] = v[field]*10 + int(b-'0')
		if v[field] > 9999 {
			return
		}
	}
	return v[0], v[1], v[2], field == 2
}
