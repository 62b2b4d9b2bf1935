package render

import (
	"github.com/lixenwraith/termsprite/terminal"
)

// frameBuffer is the compositor's scratch surface: a full-window cell array
// with a dirty mask. Only dirty cells accept paint and only dirty cells are
// emitted. span bounds every cell marked since the last reset
type frameBuffer struct {
	cells  []terminal.Cell
	dirty  []bool
	width  int
	height int
	span   Rect
}

func newFrameBuffer(width, height int) *frameBuffer {
	b := &frameBuffer{}
	b.resize(width, height)
	return b
}

// resize adjusts dimensions, reallocating only if capacity is insufficient
func (b *frameBuffer) resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]terminal.Cell, size)
		b.dirty = make([]bool, size)
	} else {
		b.cells = b.cells[:size]
		b.dirty = b.dirty[:size]
		clear(b.dirty)
	}
	b.width = width
	b.height = height
	b.span = Rect{}
}

// reset clears the dirty mask inside the previous span
func (b *frameBuffer) reset() {
	if b.span.Empty() {
		return
	}
	for y := b.span.Y; y < b.span.Bottom(); y++ {
		row := y * b.width
		clear(b.dirty[row+b.span.X : row+b.span.Right()])
	}
	b.span = Rect{}
}

// markAll marks the whole window dirty and fills it with blank using exponential copy
func (b *frameBuffer) markAll(blank terminal.Cell) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = blank
	b.dirty[0] = true
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
	for filled := 1; filled < len(b.dirty); filled *= 2 {
		copy(b.dirty[filled:], b.dirty[:filled])
	}
	b.span = Rect{W: b.width, H: b.height}
}

// mark blanks r, clipped to the window, and opens it for painting
func (b *frameBuffer) mark(r Rect, blank terminal.Cell) {
	r = r.Clip(b.width, b.height)
	if r.Empty() {
		return
	}
	for y := r.Y; y < r.Bottom(); y++ {
		row := y * b.width
		for x := r.X; x < r.Right(); x++ {
			b.cells[row+x] = blank
			b.dirty[row+x] = true
		}
	}
	b.span = b.span.Bounds(r)
}

func (b *frameBuffer) isDirty(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.dirty[y*b.width+x]
}

// set writes c at (x, y) if the cell is dirty
func (b *frameBuffer) set(x, y int, c terminal.Cell) bool {
	if !b.isDirty(x, y) {
		return false
	}
	b.cells[y*b.width+x] = c
	return true
}

func (b *frameBuffer) at(x, y int) terminal.Cell {
	return b.cells[y*b.width+x]
}

// appendWrites appends every dirty cell to dst in row-major order
func (b *frameBuffer) appendWrites(dst []terminal.CellWrite) []terminal.CellWrite {
	for y := b.span.Y; y < b.span.Bottom(); y++ {
		row := y * b.width
		for x := b.span.X; x < b.span.Right(); x++ {
			if b.dirty[row+x] {
				dst = append(dst, terminal.CellWrite{X: x, Y: y, Cell: b.cells[row+x]})
			}
		}
	}
	return dst
}
