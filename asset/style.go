package asset

import (
	"github.com/lixenwraith/termsprite/terminal"
)

// Color is an optional RGB value; the zero Color inherits
type Color struct {
	RGB   terminal.RGB
	Valid bool
}

// RGB returns a set color
func RGB(r, g, b uint8) Color {
	return Color{RGB: terminal.RGB{R: r, G: g, B: b}, Valid: true}
}

// ColorOf wraps a terminal color
func ColorOf(c terminal.RGB) Color {
	return Color{RGB: c, Valid: true}
}

// Style is a foreground, background and attribute set for one cell
type Style struct {
	Fg    Color
	Bg    Color
	Attrs terminal.Attr
}

// Offset is a cell position relative to a sprite's top-left
type Offset struct {
	X, Y int
}

// StyleMap is a default style plus sparse per-cell overrides.
// The zero StyleMap resolves every cell to the global window colors
type StyleMap struct {
	Default Style
	cells   map[Offset]Style
}

// NewStyleMap returns an empty map
func NewStyleMap() StyleMap {
	return StyleMap{}
}

// WithFg returns a copy with the default foreground set
func (m StyleMap) WithFg(c Color) StyleMap {
	m.Default.Fg = c
	return m
}

// WithBg returns a copy with the default background set
func (m StyleMap) WithBg(c Color) StyleMap {
	m.Default.Bg = c
	return m
}

// WithColors returns a copy with both default colors set
func (m StyleMap) WithColors(fg, bg Color) StyleMap {
	m.Default.Fg = fg
	m.Default.Bg = bg
	return m
}

// WithAttrs returns a copy with the default attributes set
func (m StyleMap) WithAttrs(a terminal.Attr) StyleMap {
	m.Default.Attrs = a & terminal.AttrStyle
	return m
}

// Set overrides the style at offset o
func (m *StyleMap) Set(o Offset, s Style) {
	if m.cells == nil {
		m.cells = make(map[Offset]Style)
	}
	s.Attrs &= terminal.AttrStyle
	m.cells[o] = s
}

// Override returns the style set at o, if any
func (m StyleMap) Override(o Offset) (Style, bool) {
	s, ok := m.cells[o]
	return s, ok
}

// Len returns the number of overrides
func (m StyleMap) Len() int {
	return len(m.cells)
}

// Resolve returns the cell style at (x, y). Each color falls back from the
// override to the default, then to the global colors; attributes come from
// the override when one exists. The returned cell has no rune
func (m StyleMap) Resolve(x, y int, global terminal.Colors) terminal.Cell {
	style := m.Default
	if o, ok := m.cells[Offset{X: x, Y: y}]; ok {
		if o.Fg.Valid {
			style.Fg = o.Fg
		}
		if o.Bg.Valid {
			style.Bg = o.Bg
		}
		style.Attrs = o.Attrs
	}

	c := terminal.Cell{Attrs: style.Attrs & terminal.AttrStyle}
	if style.Fg.Valid {
		c.Fg = style.Fg.RGB
	} else {
		c.Fg = global.Fg
		c.Attrs |= global.Attrs & terminal.AttrFgDefault
	}
	if style.Bg.Valid {
		c.Bg = style.Bg.RGB
	} else {
		c.Bg = global.Bg
		c.Attrs |= global.Attrs & terminal.AttrBgDefault
	}
	return c
}

// Clone returns a copy whose overrides are independent of m
func (m StyleMap) Clone() StyleMap {
	if m.cells == nil {
		return m
	}
	cells := make(map[Offset]Style, len(m.cells))
	for k, v := range m.cells {
		cells[k] = v
	}
	m.cells = cells
	return m
}
