package render

import (
	"slices"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/engine"
	"github.com/lixenwraith/termsprite/terminal"
)

// EntityRecord is what the last completed frame drew for one entity
type EntityRecord struct {
	Rect    Rect // empty when hidden or unresolvable
	Sprite  asset.SpriteHandle
	Style   asset.StyleHandle
	Hidden  bool
	Version uint64 // Versions.Max observed at render time
}

// RedrawSet is the per-frame set of entities that must repaint
type RedrawSet struct {
	ids   []engine.Entity
	index map[engine.Entity]struct{}
}

// Add inserts e, reporting false if it was already present
func (s *RedrawSet) Add(e engine.Entity) bool {
	if s.index == nil {
		s.index = make(map[engine.Entity]struct{})
	}
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = struct{}{}
	s.ids = append(s.ids, e)
	return true
}

func (s *RedrawSet) Has(e engine.Entity) bool {
	_, ok := s.index[e]
	return ok
}

func (s *RedrawSet) Len() int { return len(s.ids) }

// Reset empties the set keeping its storage
func (s *RedrawSet) Reset() {
	s.ids = s.ids[:0]
	clear(s.index)
}

// IDs returns members in insertion order; the slice is reused by Reset
func (s *RedrawSet) IDs() []engine.Entity { return s.ids }

// Sorted returns members in paint order: ascending z, then ascending id
func (s *RedrawSet) Sorted(scene *Scene) []engine.Entity {
	out := slices.Clone(s.ids)
	slices.SortFunc(out, func(a, b engine.Entity) int {
		return scene.compare(a, b)
	})
	return out
}

// State is carried between render passes. Previous reflects the end of the
// last completed pass only; it is committed after the terminal accepted the
// frame
type State struct {
	Previous     map[engine.Entity]EntityRecord
	Redraw       RedrawSet
	WindowColors terminal.Colors
	Width        int
	Height       int

	rendered bool
}

func newState() State {
	return State{Previous: make(map[engine.Entity]EntityRecord)}
}

// NeedsFull reports whether the next pass must repaint the whole window
func (s *State) NeedsFull(width, height int, colors terminal.Colors) bool {
	return !s.rendered || width != s.Width || height != s.Height || colors != s.WindowColors
}

// Rendered reports whether any frame has been committed
func (s *State) Rendered() bool { return s.rendered }

// invalidate forces the next pass to be a full redraw
func (s *State) invalidate() { s.rendered = false }

// commit records scene as drawn. Records of entities missing from scene
// have had their vacated rect blanked this frame and are dropped
func (s *State) commit(scene *Scene) {
	if s.Previous == nil {
		s.Previous = make(map[engine.Entity]EntityRecord, len(scene.Items))
	}
	for id := range s.Previous {
		if _, ok := scene.index[id]; !ok {
			delete(s.Previous, id)
		}
	}
	for i := range scene.Items {
		it := &scene.Items[i]
		s.Previous[it.View.ID] = it.record()
	}
	s.WindowColors = scene.Colors
	s.Width = scene.Width
	s.Height = scene.Height
	s.rendered = true
}
