package terminal

import (
	"github.com/gdamore/tcell/v2"
)

// attrTcell pairs terminal attributes with their tcell equivalents
var attrTcell = []struct {
	attr Attr
	mask tcell.AttrMask
}{
	{AttrBold, tcell.AttrBold},
	{AttrDim, tcell.AttrDim},
	{AttrItalic, tcell.AttrItalic},
	{AttrUnderline, tcell.AttrUnderline},
	{AttrBlink, tcell.AttrBlink},
	{AttrReverse, tcell.AttrReverse},
	{AttrStrike, tcell.AttrStrikeThrough},
}

// TcellStyle converts a cell's colors and attributes to a tcell.Style
func TcellStyle(c Cell) tcell.Style {
	style := tcell.StyleDefault
	if c.Attrs&AttrFgDefault == 0 {
		style = style.Foreground(TcellColor(c.Fg))
	}
	if c.Attrs&AttrBgDefault == 0 {
		style = style.Background(TcellColor(c.Bg))
	}
	var mask tcell.AttrMask
	for _, a := range attrTcell {
		if c.Attrs&a.attr != 0 {
			mask |= a.mask
		}
	}
	return style.Attributes(mask)
}

// TcellColor converts RGB to a tcell true color
func TcellColor(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// CellFromTcell rebuilds a cell from tcell screen content
func CellFromTcell(r rune, style tcell.Style) Cell {
	fg, bg, mask := style.Decompose()
	c := Cell{Rune: r}

	if fg == tcell.ColorDefault {
		c.Attrs |= AttrFgDefault
	} else {
		c.Fg = RGBFromTcell(fg)
	}
	if bg == tcell.ColorDefault {
		c.Attrs |= AttrBgDefault
	} else {
		c.Bg = RGBFromTcell(bg)
	}
	for _, a := range attrTcell {
		if mask&a.mask != 0 {
			c.Attrs |= a.attr
		}
	}
	return c
}

// RGBFromTcell converts any valid tcell color, palette colors included
func RGBFromTcell(tc tcell.Color) RGB {
	r, g, b := tc.RGB()
	if r < 0 {
		return RGB{}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
}

func modFromTcell(m tcell.ModMask) Modifier {
	var mod Modifier
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if m&tcell.ModMeta != 0 {
		mod |= ModMeta
	}
	return mod
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyLF:         KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,

	tcell.KeyCtrlSpace:      KeyCtrlSpace,
	tcell.KeyCtrlBackslash:  KeyCtrlBackslash,
	tcell.KeyCtrlRightSq:    KeyCtrlBracketRight,
	tcell.KeyCtrlCarat:      KeyCtrlCaret,
	tcell.KeyCtrlUnderscore: KeyCtrlUnderscore,
}

// keyFromTcell maps a tcell key event; Tab, Enter and Backspace shadow their Ctrl aliases
func keyFromTcell(ev *tcell.EventKey) Event {
	out := Event{Type: EventKey, Modifiers: modFromTcell(ev.Modifiers())}
	k := ev.Key()
	if k == tcell.KeyRune {
		r := ev.Rune()
		// Newer tcell reports Ctrl+letter as a rune with ModCtrl
		if out.Modifiers.Has(ModCtrl) && r >= 'a' && r <= 'z' {
			if key, ok := ctrlLetterKey(r); ok {
				out.Key = key
				return out
			}
		}
		out.Key = KeyRune
		out.Rune = r
		return out
	}
	if key, ok := tcellKeys[k]; ok {
		out.Key = key
		return out
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		if key, ok := ctrlLetterKey(rune('a' + k - tcell.KeyCtrlA)); ok {
			out.Key = key
			out.Modifiers |= ModCtrl
			return out
		}
	}
	out.Key = KeyNone
	return out
}

// mouseFromTcell maps tcell button state; prev is the mask of the previous mouse event
func mouseFromTcell(ev *tcell.EventMouse, prev tcell.ButtonMask) Event {
	x, y := ev.Position()
	out := Event{Type: EventMouse, MouseX: x, MouseY: y, Modifiers: modFromTcell(ev.Modifiers())}
	btns := ev.Buttons()

	switch {
	case btns&tcell.WheelUp != 0:
		out.MouseBtn, out.MouseAction = MouseBtnWheelUp, MouseActionPress
		return out
	case btns&tcell.WheelDown != 0:
		out.MouseBtn, out.MouseAction = MouseBtnWheelDown, MouseActionPress
		return out
	}

	held := btns & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle | tcell.Button4 | tcell.Button5)
	switch {
	case held == 0 && prev != 0:
		out.MouseBtn = buttonFromTcell(prev)
		out.MouseAction = MouseActionRelease
	case held == 0:
		out.MouseAction = MouseActionMove
	case held == prev:
		out.MouseBtn = buttonFromTcell(held)
		out.MouseAction = MouseActionDrag
	default:
		out.MouseBtn = buttonFromTcell(held &^ prev)
		out.MouseAction = MouseActionPress
	}
	return out
}

func buttonFromTcell(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return MouseBtnLeft
	case b&tcell.ButtonMiddle != 0:
		return MouseBtnMiddle
	case b&tcell.ButtonSecondary != 0:
		return MouseBtnRight
	case b&tcell.Button4 != 0:
		return MouseBtnBack
	case b&tcell.Button5 != 0:
		return MouseBtnForward
	}
	return MouseBtnNone
}
