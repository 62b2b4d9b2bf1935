package render

import (
	"github.com/lixenwraith/termsprite/terminal"
)

// Compositor turns damage into cell writes
type Compositor struct {
	buf    *frameBuffer
	writes []terminal.CellWrite
}

// NewCompositor creates a compositor for a width x height window
func NewCompositor(width, height int) *Compositor {
	return &Compositor{buf: newFrameBuffer(width, height)}
}

// Compose blanks every damaged region to the window colors, repaints the
// redraw set in paint order into damaged cells only, and returns the damaged
// cells row-major. The returned slice is reused by the next call
func (c *Compositor) Compose(scene *Scene, dmg Damage) []terminal.CellWrite {
	if c.buf.width != scene.Width || c.buf.height != scene.Height {
		c.buf.resize(scene.Width, scene.Height)
	} else {
		c.buf.reset()
	}

	blank := scene.Colors.Blank()
	if dmg.Full {
		c.buf.markAll(blank)
	} else {
		for _, g := range dmg.regions {
			c.buf.mark(g.Old, blank)
			c.buf.mark(g.New, blank)
		}
		for _, r := range dmg.Vacated {
			c.buf.mark(r, blank)
		}
	}

	for _, id := range dmg.Redraw {
		if it, ok := scene.Item(id); ok {
			c.paint(it, scene.Colors)
		}
	}

	c.writes = c.buf.appendWrites(c.writes[:0])
	return c.writes
}

// paint draws one sprite into the dirty cells it covers.
// Absent cells never paint; transparent sprites skip spaces
func (c *Compositor) paint(it *Item, colors terminal.Colors) {
	if it.Rect.Empty() {
		return
	}
	clip := it.Rect.Clip(c.buf.width, c.buf.height)
	transparent := it.View.Visibility.IsTransparent()

	for y := clip.Y; y < clip.Bottom(); y++ {
		dy := y - it.Rect.Y
		for x := clip.X; x < clip.Right(); x++ {
			if !c.buf.isDirty(x, y) {
				continue
			}
			dx := x - it.Rect.X
			glyph, ok := it.Sprite.GlyphAt(dx, dy)
			if !ok || (glyph == ' ' && transparent) {
				continue
			}
			cell := it.Style.Resolve(dx, dy, colors)
			cell.Rune = glyph
			c.buf.set(x, y, cell)
		}
	}
}

// cellAt returns the composited cell at (x, y), used by tests
func (c *Compositor) cellAt(x, y int) terminal.Cell {
	return c.buf.at(x, y)
}
