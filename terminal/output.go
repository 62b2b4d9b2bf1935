package terminal

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// unknownRune marks a front-buffer cell whose on-screen content is not known
const unknownRune rune = -1

// outputBuffer turns positioned cell writes into minimal terminal output.
// The front buffer mirrors what is on screen; writes matching it are skipped
type outputBuffer struct {
	front     []Cell
	width     int
	height    int
	colorMode ColorMode
	writer    *bufio.Writer

	cursorX      int
	cursorY      int
	cursorValid  bool
	cursorHidden bool

	// Last style written; persists across frames so an unchanged style is never re-emitted
	lastFg    RGB
	lastBg    RGB
	lastAttr  Attr
	lastValid bool

	// cellsWritten counts cells emitted by the last draw
	cellsWritten int
}

func newOutputBuffer(w io.Writer, colorMode ColorMode) *outputBuffer {
	return &outputBuffer{
		writer:    bufio.NewWriterSize(w, 131072), // 128KB buffer
		colorMode: colorMode,
	}
}

// resize updates buffer dimensions; all cells become unknown
func (o *outputBuffer) resize(width, height int) {
	size := width * height
	if size < 0 {
		size = 0
	}
	if cap(o.front) < size {
		o.front = make([]Cell, size)
	} else {
		o.front = o.front[:size]
	}
	o.width = width
	o.height = height

	for i := range o.front {
		o.front[i] = Cell{Rune: unknownRune}
	}
	o.cursorValid = false
}

// normalize zeroes color channels hidden by default-color flags
func normalize(c Cell) Cell {
	if c.Rune == 0 {
		c.Rune = ' '
	}
	if c.Attrs&AttrFgDefault != 0 {
		c.Fg = RGB{}
	}
	if c.Attrs&AttrBgDefault != 0 {
		c.Bg = RGB{}
	}
	return c
}

// cellEqual compares two normalized cells as they would appear on screen
func cellEqual(a, b Cell) bool {
	if a.Rune != b.Rune || a.Attrs != b.Attrs || a.Bg != b.Bg {
		return false
	}
	// Foreground is invisible on a plain space
	if a.Rune == ' ' && a.Attrs&(AttrUnderline|AttrReverse|AttrStrike) == 0 {
		return true
	}
	return a.Fg == b.Fg
}

// draw emits the writes, applies the cursor and flushes exactly once
func (o *outputBuffer) draw(writes []CellWrite, cur Cursor) error {
	w := o.writer
	o.cellsWritten = 0

	for _, cw := range writes {
		x, y := cw.X, cw.Y
		if x < 0 || y < 0 || x >= o.width || y >= o.height {
			continue
		}
		c := normalize(cw.Cell)
		idx := y*o.width + x
		if c.Rune == RuneContinuation {
			if o.wideLeftOf(idx) {
				continue
			}
			c.Rune = ' '
		}
		adv := runewidth.RuneWidth(c.Rune)
		if adv == 0 || c.Rune < 0x20 {
			// Control and zero-width runes would corrupt cursor tracking
			c.Rune = ' '
			adv = 1
		}
		if x+adv > o.width {
			c.Rune = ' '
			adv = 1
		}

		if cellEqual(c, o.front[idx]) {
			continue
		}

		o.moveTo(w, x, y)
		o.writeStyleCoalesced(w, c.Fg, c.Bg, c.Attrs)
		if c.Rune < 0x80 {
			w.WriteByte(byte(c.Rune))
		} else {
			w.WriteRune(c.Rune)
		}

		o.front[idx] = c
		for k := 1; k < adv; k++ {
			o.front[idx+k] = Cell{Rune: unknownRune}
		}
		o.cursorX = x + adv
		if o.cursorX >= o.width {
			// Autowrap is off; the cursor sticks to the last column
			o.cursorValid = false
		}
		o.cellsWritten++
	}

	o.applyCursor(w, cur)
	return w.Flush()
}

// wideLeftOf reports whether the cell at idx is the covered half of a wide
// glyph still on screen
func (o *outputBuffer) wideLeftOf(idx int) bool {
	if idx%o.width == 0 || o.front[idx].Rune != unknownRune {
		return false
	}
	lead := o.front[idx-1].Rune
	return lead != unknownRune && runewidth.RuneWidth(lead) == 2
}

// moveTo positions the cursor, preferring relative forward motion on the same row
func (o *outputBuffer) moveTo(w *bufio.Writer, x, y int) {
	if o.cursorValid && x == o.cursorX && y == o.cursorY {
		return
	}
	if o.cursorValid && y == o.cursorY && x > o.cursorX {
		writeCursorForward(w, x-o.cursorX)
	} else {
		writeCursorPos(w, x, y)
	}
	o.cursorX = x
	o.cursorY = y
	o.cursorValid = true
}

func (o *outputBuffer) applyCursor(w *bufio.Writer, cur Cursor) {
	if cur.Hidden || o.width == 0 || o.height == 0 {
		if !o.cursorHidden {
			w.Write(csiCursorHide)
			o.cursorHidden = true
		}
		return
	}
	x := min(max(cur.X, 0), o.width-1)
	y := min(max(cur.Y, 0), o.height-1)
	o.moveTo(w, x, y)
	if o.cursorHidden {
		w.Write(csiCursorShow)
		o.cursorHidden = false
	}
}

// writeStyleCoalesced emits a single combined SGR sequence when style changes
func (o *outputBuffer) writeStyleCoalesced(w *bufio.Writer, fg, bg RGB, attr Attr) {
	fgChanged := !o.lastValid || fg != o.lastFg || (attr&AttrFgDefault) != (o.lastAttr&AttrFgDefault)
	bgChanged := !o.lastValid || bg != o.lastBg || (attr&AttrBgDefault) != (o.lastAttr&AttrBgDefault)
	styleAttr := attr & AttrStyle
	attrChanged := !o.lastValid || styleAttr != o.lastAttr&AttrStyle

	if !fgChanged && !bgChanged && !attrChanged {
		return
	}

	switch {
	case attrChanged:
		// Attributes can only be cleared by a reset, so restate everything
		w.Write(csi)
		w.WriteByte('0')
		for _, a := range attrSGR {
			if styleAttr&a.attr != 0 {
				w.WriteByte(';')
				w.WriteByte(a.param)
			}
		}
		w.WriteByte(';')
		o.writeFgParams(w, fg, attr)
		w.WriteByte(';')
		o.writeBgParams(w, bg, attr)
		w.WriteByte('m')
	case fgChanged && bgChanged:
		w.Write(csi)
		o.writeFgParams(w, fg, attr)
		w.WriteByte(';')
		o.writeBgParams(w, bg, attr)
		w.WriteByte('m')
	case fgChanged:
		o.writeFgFull(w, fg, attr)
	default:
		o.writeBgFull(w, bg, attr)
	}

	o.lastFg = fg
	o.lastBg = bg
	o.lastAttr = attr
	o.lastValid = true
}

// writeFgParams writes fg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputBuffer) writeFgParams(w *bufio.Writer, fg RGB, attr Attr) {
	switch {
	case attr&AttrFgDefault != 0:
		w.WriteString("39")
	case o.colorMode == ColorModeTrueColor:
		w.WriteString("38;2;")
		writeRGB(w, fg)
	default:
		w.WriteString("38;5;")
		writeInt(w, int(RGBTo256(fg)))
	}
}

// writeBgParams writes bg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputBuffer) writeBgParams(w *bufio.Writer, bg RGB, attr Attr) {
	switch {
	case attr&AttrBgDefault != 0:
		w.WriteString("49")
	case o.colorMode == ColorModeTrueColor:
		w.WriteString("48;2;")
		writeRGB(w, bg)
	default:
		w.WriteString("48;5;")
		writeInt(w, int(RGBTo256(bg)))
	}
}

func (o *outputBuffer) writeFgFull(w *bufio.Writer, fg RGB, attr Attr) {
	switch {
	case attr&AttrFgDefault != 0:
		w.Write(csiDefaultFg)
	case o.colorMode == ColorModeTrueColor:
		w.Write(csiFgRGB)
		writeRGB(w, fg)
		w.WriteByte('m')
	default:
		w.Write(csiFg256)
		writeInt(w, int(RGBTo256(fg)))
		w.WriteByte('m')
	}
}

func (o *outputBuffer) writeBgFull(w *bufio.Writer, bg RGB, attr Attr) {
	switch {
	case attr&AttrBgDefault != 0:
		w.Write(csiDefaultBg)
	case o.colorMode == ColorModeTrueColor:
		w.Write(csiBgRGB)
		writeRGB(w, bg)
		w.WriteByte('m')
	default:
		w.Write(csiBg256)
		writeInt(w, int(RGBTo256(bg)))
		w.WriteByte('m')
	}
}

func writeRGB(w *bufio.Writer, c RGB) {
	writeInt(w, int(c.R))
	w.WriteByte(';')
	writeInt(w, int(c.G))
	w.WriteByte(';')
	writeInt(w, int(c.B))
}

// clear blanks the whole screen in the given colors
func (o *outputBuffer) clear(colors Colors) error {
	w := o.writer
	blank := normalize(colors.Blank())

	o.writeStyleCoalesced(w, blank.Fg, blank.Bg, blank.Attrs)
	// ED 2 paints with the current background (BCE)
	w.Write(csiClear)
	o.cursorX, o.cursorY = 0, 0
	o.cursorValid = true

	for i := range o.front {
		o.front[i] = blank
	}
	return w.Flush()
}

// cellAt returns the front-buffer cell, used by tests
func (o *outputBuffer) cellAt(x, y int) Cell {
	if x < 0 || y < 0 || x >= o.width || y >= o.height {
		return Cell{Rune: unknownRune}
	}
	return o.front[y*o.width+x]
}
