// Package asset holds the sprite and style data model, a handle arena for
// storing them, and loaders for sprite text files and style documents.
package asset

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termsprite/terminal"
)

// Continuation is the glyph of the second cell of a double-width rune
const Continuation = terminal.RuneContinuation

// Sprite is an immutable grid of glyph rows laid out in terminal cells.
// A double-width rune takes two cells, the second holding Continuation.
// Rows are not padded; a short row leaves the cells past its end absent
type Sprite struct {
	rows  [][]rune
	width int
}

// NewSprite splits text into rows on '\n', dropping a trailing '\r' per row
func NewSprite(text string) Sprite {
	lines := strings.Split(text, "\n")
	return NewSpriteRows(lines...)
}

// NewSpriteRows builds a sprite from explicit rows
func NewSpriteRows(lines ...string) Sprite {
	if len(lines) == 0 {
		lines = []string{""}
	}
	s := Sprite{rows: make([][]rune, len(lines))}
	for i, line := range lines {
		s.rows[i] = layoutRow(strings.TrimSuffix(line, "\r"))
		s.width = max(s.width, len(s.rows[i]))
	}
	return s
}

func layoutRow(line string) []rune {
	cells := make([]rune, 0, len(line))
	for _, r := range line {
		cells = append(cells, r)
		if runewidth.RuneWidth(r) == 2 {
			cells = append(cells, Continuation)
		}
	}
	return cells
}

// Width is the longest row length in cells
func (s Sprite) Width() int { return s.width }

// Height is the row count
func (s Sprite) Height() int { return len(s.rows) }

// Center returns (Width/2, Height/2), for layout math
func (s Sprite) Center() (int, int) {
	return s.width / 2, len(s.rows) / 2
}

// Empty reports a zero-area sprite
func (s Sprite) Empty() bool {
	return s.width == 0 || len(s.rows) == 0
}

// GlyphAt returns the glyph at (x, y); ok is false for absent cells
func (s Sprite) GlyphAt(x, y int) (rune, bool) {
	if y < 0 || y >= len(s.rows) || x < 0 {
		return 0, false
	}
	row := s.rows[y]
	if x >= len(row) {
		return 0, false
	}
	return row[x], true
}

// Rows returns the rows as strings
func (s Sprite) Rows() []string {
	out := make([]string, len(s.rows))
	var b strings.Builder
	for i, row := range s.rows {
		b.Reset()
		for _, r := range row {
			if r != Continuation {
				b.WriteRune(r)
			}
		}
		out[i] = b.String()
	}
	return out
}

// String joins the rows with '\n'
func (s Sprite) String() string {
	return strings.Join(s.Rows(), "\n")
}
