package terminal

import "strconv"

// keyNames holds canonical names for non-generated keys
var keyNames = map[Key]string{
	KeyNone:             "none",
	KeyRune:             "rune",
	KeyEscape:           "escape",
	KeyEnter:            "enter",
	KeyTab:              "tab",
	KeyBacktab:          "backtab",
	KeyBackspace:        "backspace",
	KeyDelete:           "delete",
	KeyUp:               "up",
	KeyDown:             "down",
	KeyLeft:             "left",
	KeyRight:            "right",
	KeyHome:             "home",
	KeyEnd:              "end",
	KeyPageUp:           "page_up",
	KeyPageDown:         "page_down",
	KeyInsert:           "insert",
	KeyCtrlSpace:        "ctrl_space",
	KeyCtrlBackslash:    "ctrl_backslash",
	KeyCtrlBracketRight: "ctrl_bracket_right",
	KeyCtrlCaret:        "ctrl_caret",
	KeyCtrlUnderscore:   "ctrl_underscore",
	KeyModifier:         "modifier",
}

// String returns the canonical name, e.g. "f5", "ctrl_c", "page_up"
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyF1 && k <= KeyF12 {
		return "f" + strconv.Itoa(int(k-KeyF1)+1)
	}
	if r, ok := k.CtrlLetter(); ok {
		return "ctrl_" + string(r)
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}
