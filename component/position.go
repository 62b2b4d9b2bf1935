// Package component defines the per-entity scene components.
package component

// Position places a sprite's top-left cell; Z orders painting, higher on top
type Position struct {
	X, Y int
	Z    int
}

// Translate returns the position moved by (dx, dy)
func (p Position) Translate(dx, dy int) Position {
	p.X += dx
	p.Y += dy
	return p
}
