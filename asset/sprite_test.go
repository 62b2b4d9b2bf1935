package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/termsprite/terminal"
)

func TestSpriteDimensions(t *testing.T) {
	s := NewSprite("abc\nde\r\nfghij")
	assert.Equal(t, 5, s.Width())
	assert.Equal(t, 3, s.Height())
	cx, cy := s.Center()
	assert.Equal(t, 2, cx)
	assert.Equal(t, 1, cy)
	assert.Equal(t, []string{"abc", "de", "fghij"}, s.Rows())
}

func TestSpriteGlyphAtAbsentCells(t *testing.T) {
	s := NewSprite("ab\nc")

	r, ok := s.GlyphAt(1, 0)
	assert.True(t, ok)
	assert.Equal(t, 'b', r)

	_, ok = s.GlyphAt(1, 1)
	assert.False(t, ok, "past the end of a short row")
	_, ok = s.GlyphAt(-1, 0)
	assert.False(t, ok)
	_, ok = s.GlyphAt(0, 2)
	assert.False(t, ok)
}

func TestSpriteWidthCountsRunes(t *testing.T) {
	s := NewSprite("╔══╗")
	assert.Equal(t, 4, s.Width())
}

func TestSpriteWideRunesTakeTwoCells(t *testing.T) {
	s := NewSprite("漢a\nb")
	assert.Equal(t, 3, s.Width())

	r, ok := s.GlyphAt(0, 0)
	assert.True(t, ok)
	assert.Equal(t, '漢', r)
	r, ok = s.GlyphAt(1, 0)
	assert.True(t, ok)
	assert.Equal(t, Continuation, r)
	r, _ = s.GlyphAt(2, 0)
	assert.Equal(t, 'a', r)

	assert.Equal(t, []string{"漢a", "b"}, s.Rows())
}

func TestEmptySprite(t *testing.T) {
	s := NewSprite("")
	assert.Equal(t, 0, s.Width())
	assert.Equal(t, 1, s.Height())
	assert.True(t, s.Empty())
	assert.True(t, Sprite{}.Empty())
}

func TestStyleMapResolveFallbacks(t *testing.T) {
	global := terminal.NewColors(terminal.RGBWhite, terminal.RGBBlack)
	red := RGB(255, 0, 0)
	blue := RGB(0, 0, 255)

	m := NewStyleMap().WithFg(red).WithAttrs(terminal.AttrBold)
	m.Set(Offset{X: 1, Y: 0}, Style{Bg: blue, Attrs: terminal.AttrUnderline})

	c := m.Resolve(0, 0, global)
	assert.Equal(t, red.RGB, c.Fg, "default fg")
	assert.Equal(t, terminal.RGBBlack, c.Bg, "global bg")
	assert.Equal(t, terminal.AttrBold, c.Attrs)

	c = m.Resolve(1, 0, global)
	assert.Equal(t, red.RGB, c.Fg, "override without fg falls back to default")
	assert.Equal(t, blue.RGB, c.Bg)
	assert.Equal(t, terminal.AttrUnderline, c.Attrs, "override attributes replace default")
}

func TestEmptyStyleMapUsesGlobalColors(t *testing.T) {
	c := NewStyleMap().Resolve(3, 3, terminal.TermColors())
	assert.Equal(t, terminal.AttrColorDefault, c.Attrs)

	global := terminal.NewColors(terminal.RGB{R: 1, G: 2, B: 3}, terminal.RGB{R: 4, G: 5, B: 6})
	c = StyleMap{}.Resolve(0, 0, global)
	assert.Equal(t, global.Fg, c.Fg)
	assert.Equal(t, global.Bg, c.Bg)
	assert.Equal(t, terminal.AttrNone, c.Attrs)
}

func TestStyleMapCloneIsIndependent(t *testing.T) {
	m := NewStyleMap()
	m.Set(Offset{}, Style{Fg: RGB(1, 1, 1)})
	c := m.Clone()
	c.Set(Offset{X: 1}, Style{})
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
}
