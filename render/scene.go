package render

import (
	"cmp"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/engine"
	"github.com/lixenwraith/termsprite/terminal"
)

// Item is one live entity with its assets resolved for this frame
type Item struct {
	View   engine.EntityView
	Sprite asset.Sprite
	Style  asset.StyleMap
	Rect   Rect // current footprint; empty when hidden or unresolvable
}

func (it *Item) record() EntityRecord {
	return EntityRecord{
		Rect:    it.Rect,
		Sprite:  it.View.Sprite,
		Style:   it.View.Style,
		Hidden:  it.View.Visibility.Hidden,
		Version: it.View.Versions.Max(),
	}
}

// Scene is the frozen input of one render pass
type Scene struct {
	Width  int
	Height int
	Colors terminal.Colors
	Items  []Item // ascending entity id

	index map[engine.Entity]int
}

// NewScene indexes items; they must already be in ascending id order
func NewScene(width, height int, colors terminal.Colors, items []Item) *Scene {
	s := &Scene{Width: width, Height: height, Colors: colors}
	s.reset(items)
	return s
}

func (s *Scene) reset(items []Item) {
	s.Items = items
	if s.index == nil {
		s.index = make(map[engine.Entity]int, len(items))
	} else {
		clear(s.index)
	}
	for i := range items {
		s.index[items[i].View.ID] = i
	}
}

// Item returns the live entity e
func (s *Scene) Item(e engine.Entity) (*Item, bool) {
	i, ok := s.index[e]
	if !ok {
		return nil, false
	}
	return &s.Items[i], true
}

// compare orders by z then id; unknown ids sort last
func (s *Scene) compare(a, b engine.Entity) int {
	ia, okA := s.index[a]
	ib, okB := s.index[b]
	if !okA || !okB {
		switch {
		case okA:
			return -1
		case okB:
			return 1
		}
		return cmp.Compare(a, b)
	}
	if c := cmp.Compare(s.Items[ia].View.Position.Z, s.Items[ib].View.Position.Z); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// footprint is the rect a sprite occupies at pos
func footprint(view engine.EntityView, sprite asset.Sprite) Rect {
	if view.Visibility.Hidden {
		return Rect{}
	}
	return Rect{X: view.Position.X, Y: view.Position.Y, W: sprite.Width(), H: sprite.Height()}
}
