// Package render computes per-frame damage over the scene, composites the
// damaged cells and hands them to the terminal writer.
package render

// Rect is a half-open cell rectangle [X, X+W) x [Y, Y+H)
type Rect struct {
	X, Y int
	W, H int
}

// Empty reports zero area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Right and Bottom are exclusive edges
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Intersects reports whether r and o share at least one cell
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the shared area, ok false when disjoint
func (r Rect) Intersect(o Rect) (Rect, bool) {
	minX := max(r.X, o.X)
	minY := max(r.Y, o.Y)
	maxX := min(r.Right(), o.Right())
	maxY := min(r.Bottom(), o.Bottom())
	if maxX <= minX || maxY <= minY {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// Bounds returns the smallest rect covering both; empty inputs are ignored
func (r Rect) Bounds(o Rect) Rect {
	switch {
	case r.Empty():
		return o
	case o.Empty():
		return r
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	return Rect{X: minX, Y: minY, W: max(r.Right(), o.Right()) - minX, H: max(r.Bottom(), o.Bottom()) - minY}
}

// Contains reports whether cell (x, y) is inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clip limits r to a width x height window at the origin
func (r Rect) Clip(width, height int) Rect {
	c, ok := r.Intersect(Rect{W: width, H: height})
	if !ok {
		return Rect{}
	}
	return c
}

// Region is the set union of up to two rects, the footprint a change
// repaints: where an entity is now and where it was
type Region struct {
	Old, New Rect
}

// Empty reports that neither rect has area
func (g Region) Empty() bool {
	return g.Old.Empty() && g.New.Empty()
}

// Intersects reports whether r overlaps either rect of the region
func (g Region) Intersects(r Rect) bool {
	return g.Old.Intersects(r) || g.New.Intersects(r)
}
