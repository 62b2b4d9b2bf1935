package terminal

// Keyboard enhancement follows the kitty progressive protocol. With flags
// 1|2|4|8 pushed, keys arrive as CSI code[:shifted] ; mods[:event] u, and
// the legacy letter and tilde forms gain a :event subfield

// csiParams holds up to three ';' fields of up to three ':' subfields
type csiParams struct {
	v      [3][3]int
	n      [3]int // subfields seen per field
	fields int
}

// parseCSIParams parses parameter bytes such as "97:65;2:3". Any byte other
// than a digit, ';' or ':' fails
func parseCSIParams(p []byte) (csiParams, bool) {
	c := csiParams{fields: 1, n: [3]int{1}}
	f, s := 0, 0
	for _, b := range p {
		switch {
		case b == ';':
			if f++; f >= len(c.v) {
				return c, false
			}
			s = 0
			c.fields, c.n[f] = f+1, 1
		case b == ':':
			if s++; s >= len(c.v[f]) {
				return c, false
			}
			c.n[f] = s + 1
		case b >= '0' && b <= '9':
			c.v[f][s] = c.v[f][s]*10 + int(b-'0')
			if c.v[f][s] > 0x10ffff {
				return c, false
			}
		default:
			return c, false
		}
	}
	return c, true
}

// get returns field f subfield s, or def when absent or empty
func (c *csiParams) get(f, s, def int) int {
	if f >= c.fields || s >= c.n[f] || c.v[f][s] == 0 {
		return def
	}
	return c.v[f][s]
}

// kittyModBits maps protocol modifier bits; super and meta both become ModMeta,
// hyper and the lock states are dropped
var kittyModBits = [...]struct {
	bit int
	mod Modifier
}{
	{1, ModShift},
	{2, ModAlt},
	{4, ModCtrl},
	{8, ModMeta},
	{32, ModMeta},
}

// kittyModifier decodes a modifier parameter, which is 1 + bitmask
func kittyModifier(param int) Modifier {
	var m Modifier
	for _, b := range kittyModBits {
		if (param-1)&b.bit != 0 {
			m |= b.mod
		}
	}
	return m
}

func kittyAction(evt int) KeyAction {
	switch evt {
	case 2:
		return KeyActionRepeat
	case 3:
		return KeyActionRelease
	}
	return KeyActionPress
}

// Functional key codes in the CSI u form
var kittyKeys = map[int]Key{
	8:     KeyBackspace,
	9:     KeyTab,
	13:    KeyEnter,
	27:    KeyEscape,
	127:   KeyBackspace,
	57414: KeyEnter, // keypad
	57417: KeyLeft,
	57418: KeyRight,
	57419: KeyUp,
	57420: KeyDown,
	57421: KeyPageUp,
	57422: KeyPageDown,
	57423: KeyHome,
	57424: KeyEnd,
	57425: KeyInsert,
	57426: KeyDelete,
}

// Keypad keys that produce text
var kittyRunes = map[int]rune{
	57399: '0', 57400: '1', 57401: '2', 57402: '3', 57403: '4',
	57404: '5', 57405: '6', 57406: '7', 57407: '8', 57408: '9',
	57409: '.', 57410: '/', 57411: '*', 57412: '-', 57413: '+', 57415: '=',
}

// Left and right modifier keys
var kittyModKeys = map[int]Modifier{
	57441: ModShift, 57442: ModCtrl, 57443: ModAlt, 57444: ModMeta, 57446: ModMeta,
	57447: ModShift, 57448: ModCtrl, 57449: ModAlt, 57450: ModMeta, 57452: ModMeta,
}

const (
	kittyPrivateFirst = 57344
	kittyPrivateLast  = 63743
)

// decodeCSIParams decodes parameterized sequences the fixed tables miss:
// CSI u keys and letter or tilde keys carrying an event type. seq includes
// the final byte
func decodeCSIParams(seq []byte) (Event, bool) {
	if len(seq) < 2 || seq[0] < '0' || seq[0] > '9' {
		// Private replies such as CSI ? flags u are not keys
		return Event{}, false
	}
	final := seq[len(seq)-1]
	c, ok := parseCSIParams(seq[:len(seq)-1])
	if !ok {
		return Event{}, false
	}
	if final == 'u' {
		return decodeKittyKey(&c), true
	}
	return decodeModifiedKey(&c, final)
}

func decodeKittyKey(c *csiParams) Event {
	code := c.get(0, 0, 0)
	mods := kittyModifier(c.get(1, 0, 1))
	action := kittyAction(c.get(1, 1, 1))

	if m, ok := kittyModKeys[code]; ok {
		if action == KeyActionRelease {
			mods &^= m
		} else {
			mods |= m
		}
		return Event{Type: EventKey, Key: KeyModifier, Modifiers: mods, KeyAction: action}
	}

	ev := Event{Type: EventKey, Modifiers: mods, KeyAction: action}
	if k, ok := kittyKeys[code]; ok {
		ev.Key = k
		return ev
	}

	r, ok := kittyRunes[code]
	switch {
	case ok:
	case code < 0x20 || (code >= kittyPrivateFirst && code <= kittyPrivateLast):
		// Lock keys, media keys and the like
		return swallow
	default:
		r = rune(code)
		if mods.Has(ModShift) {
			if shifted := c.get(0, 1, 0); shifted != 0 {
				r = rune(shifted)
			}
		}
	}

	if mods.Has(ModCtrl) && r >= 'a' && r <= 'z' {
		if k, ok := ctrlLetterKey(r); ok {
			ev.Key = k
			return ev
		}
	}
	ev.Key, ev.Rune = KeyRune, r
	return ev
}

// decodeModifiedKey handles CSI 1 ; mods:event X and CSI n ; mods:event ~
func decodeModifiedKey(c *csiParams, final byte) (Event, bool) {
	k, ok := KeyNone, false
	mods := kittyModifier(c.get(1, 0, 1))

	switch final {
	case '~':
		switch code := c.get(0, 0, 0); code {
		case 1, 7:
			k, ok = KeyHome, true
		case 4, 8:
			k, ok = KeyEnd, true
		default:
			for _, t := range csiTildeKeys {
				if t.code == code {
					k, ok = t.key, true
					break
				}
			}
		}
	case 'Z':
		k, ok = KeyBacktab, true
		mods |= ModShift
	default:
		for _, t := range csiLetterKeys {
			if t.final == final {
				k, ok = t.key, true
				break
			}
		}
	}
	if !ok {
		return Event{}, false
	}
	ev := keyEvent(k, mods)
	ev.KeyAction = kittyAction(c.get(1, 1, 1))
	return ev, true
}

// takeQueryReplies strips replies to the keyboard flags query (CSI ? n u)
// and the device attributes query (CSI ? ... c) from buf. kitty reports a
// flags reply, done reports the attributes reply that always follows it.
// Other bytes are user input and are kept in order
func takeQueryReplies(buf []byte) (rest []byte, kitty, done bool) {
	rest = buf[:0]
	i := 0
	for i < len(buf) {
		if buf[i] != 0x1b || i+2 >= len(buf) || buf[i+1] != '[' || buf[i+2] != '?' {
			rest = append(rest, buf[i])
			i++
			continue
		}
		j := i + 3
		for j < len(buf) && (buf[j] == ';' || (buf[j] >= '0' && buf[j] <= '9')) {
			j++
		}
		if j >= len(buf) {
			// Partial reply; keep it for the next read
			rest = append(rest, buf[i:]...)
			break
		}
		switch buf[j] {
		case 'u':
			kitty = true
		case 'c':
			done = true
		default:
			rest = append(rest, buf[i:j+1]...)
		}
		i = j + 1
	}
	return rest, kitty, done
}
