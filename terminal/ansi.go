package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	csi      = []byte("\x1b[")
	csiClear = []byte("\x1b[2J\x1b[H")
	csiSGR0  = []byte("\x1b[0m")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: ?7l keeps the cursor at the right edge instead of scrolling
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Mouse reporting
	csiMouseClickOn   = []byte("\x1b[?1000h")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseDragOn    = []byte("\x1b[?1002h")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseSGROn     = []byte("\x1b[?1006h")
	csiMouseSGROff    = []byte("\x1b[?1006l")

	// Focus reporting and bracketed paste
	csiFocusOn  = []byte("\x1b[?1004h")
	csiFocusOff = []byte("\x1b[?1004l")
	csiPasteOn  = []byte("\x1b[?2004h")
	csiPasteOff = []byte("\x1b[?2004l")

	// Keyboard protocol: query current flags, primary device attributes as
	// the reply terminator, push flags 1|2|4|8, pop
	csiKbdQuery = []byte("\x1b[?u")
	csiDAQuery  = []byte("\x1b[c")
	csiKbdPush  = []byte("\x1b[>15u")
	csiKbdPop   = []byte("\x1b[<u")

	// Color prefixes
	csiFg256     = []byte("\x1b[38;5;")
	csiBg256     = []byte("\x1b[48;5;")
	csiFgRGB     = []byte("\x1b[38;2;")
	csiBgRGB     = []byte("\x1b[48;2;")
	csiDefaultFg = []byte("\x1b[39m")
	csiDefaultBg = []byte("\x1b[49m")

	oscTitle = []byte("\x1b]0;")
	st       = []byte("\x07")
)

// SGR parameter per style attribute, in emission order
var attrSGR = [...]struct {
	attr  Attr
	param byte
}{
	{AttrBold, '1'},
	{AttrDim, '2'},
	{AttrItalic, '3'},
	{AttrUnderline, '4'},
	{AttrBlink, '5'},
	{AttrReverse, '7'},
	{AttrStrike, '9'},
}

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeCursorForward writes cursor forward N positions
func writeCursorForward(w *bufio.Writer, n int) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	if n > 1 {
		writeInt(w, n)
	}
	w.WriteByte('C')
}

// writeTitle sets the window title via OSC 0; control bytes are dropped
func writeTitle(w *bufio.Writer, title string) {
	w.Write(oscTitle)
	for _, r := range title {
		if r < 0x20 || r == 0x7f {
			continue
		}
		w.WriteRune(r)
	}
	w.Write(st)
}
