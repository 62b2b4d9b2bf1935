// Package engine is the scene store: entities with a position, sprite and
// style handles and a visibility, each field stamped with a world-global
// monotonically increasing version on every change.
package engine

import (
	"sort"
	"sync"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/component"
)

// Entity is a stable id allocated in spawn order and never reused
type Entity uint64

// Spec describes an entity to spawn
type Spec struct {
	Position   component.Position
	Sprite     asset.SpriteHandle
	Style      asset.StyleHandle // zero handle uses the default style map
	Visibility component.Visibility
}

// Versions holds the world version at which each field last changed
type Versions struct {
	Position   uint64
	Sprite     uint64
	Style      uint64
	Visibility uint64
	Spawned    uint64
}

// Max returns the newest field version
func (v Versions) Max() uint64 {
	return max(v.Position, v.Sprite, v.Style, v.Visibility, v.Spawned)
}

// EntityView is a read-only copy of one entity
type EntityView struct {
	ID         Entity
	Position   component.Position
	Sprite     asset.SpriteHandle
	Style      asset.StyleHandle
	Visibility component.Visibility
	Versions   Versions
}

// World contains all scene entities using typed stores
type World struct {
	mu           sync.RWMutex
	nextEntityID Entity
	version      uint64

	Positions  *Store[component.Position]
	Sprites    *Store[asset.SpriteHandle]
	Styles     *Store[asset.StyleHandle]
	Visibility *Store[component.Visibility]

	spawned map[Entity]uint64
	live    []Entity // ascending id
	removed []Entity // despawned since the last DrainRemoved
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		nextEntityID: 1,
		Positions:    NewStore[component.Position](),
		Sprites:      NewStore[asset.SpriteHandle](),
		Styles:       NewStore[asset.StyleHandle](),
		Visibility:   NewStore[component.Visibility](),
		spawned:      make(map[Entity]uint64),
	}
}

// bump advances the world version; callers hold w.mu
func (w *World) bump() uint64 {
	w.version++
	return w.version
}

// Spawn creates an entity; ids increase strictly with spawn order
func (w *World) Spawn(spec Spec) Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := w.nextEntityID
	w.nextEntityID++
	v := w.bump()

	w.spawned[e] = v
	w.Positions.set(e, spec.Position, v)
	w.Sprites.set(e, spec.Sprite, v)
	w.Styles.set(e, spec.Style, v)
	w.Visibility.set(e, spec.Visibility, v)
	w.live = append(w.live, e)
	return e
}

// Despawn removes an entity; the render pass learns of it via DrainRemoved
func (w *World) Despawn(e Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.spawned[e]; !ok {
		return false
	}
	delete(w.spawned, e)
	w.Positions.remove(e)
	w.Sprites.remove(e)
	w.Styles.remove(e)
	w.Visibility.remove(e)

	i := sort.Search(len(w.live), func(i int) bool { return w.live[i] >= e })
	if i < len(w.live) && w.live[i] == e {
		w.live = append(w.live[:i], w.live[i+1:]...)
	}
	w.removed = append(w.removed, e)
	w.bump()
	return true
}

// Alive reports whether e is spawned and not yet despawned
func (w *World) Alive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.spawned[e]
	return ok
}

func setField[T comparable](w *World, s *Store[T], e Entity, val T) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.spawned[e]; !ok {
		return false
	}
	if cur, ok := s.Get(e); ok && cur == val {
		return true
	}
	s.set(e, val, w.bump())
	return true
}

// SetPosition moves an entity to pos, z included
func (w *World) SetPosition(e Entity, pos component.Position) bool {
	return setField(w, w.Positions, e, pos)
}

// Move translates an entity by (dx, dy)
func (w *World) Move(e Entity, dx, dy int) bool {
	pos, ok := w.Positions.Get(e)
	if !ok {
		return false
	}
	return w.SetPosition(e, pos.Translate(dx, dy))
}

// SetSprite swaps the entity's sprite handle
func (w *World) SetSprite(e Entity, h asset.SpriteHandle) bool {
	return setField(w, w.Sprites, e, h)
}

// SetStyle swaps the entity's style handle
func (w *World) SetStyle(e Entity, h asset.StyleHandle) bool {
	return setField(w, w.Styles, e, h)
}

// SetVisibility changes blend mode or hidden flag
func (w *World) SetVisibility(e Entity, v component.Visibility) bool {
	return setField(w, w.Visibility, e, v)
}

// Touch marks sprite and style as changed, for content replaced behind
// an unchanged handle
func (w *World) Touch(e Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.spawned[e]; !ok {
		return false
	}
	v := w.bump()
	w.Sprites.touch(e, v)
	w.Styles.touch(e, v)
	return true
}

// Get returns a view of one entity
func (w *World) Get(e Entity) (EntityView, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.viewLocked(e)
}

func (w *World) viewLocked(e Entity) (EntityView, bool) {
	spawned, ok := w.spawned[e]
	if !ok {
		return EntityView{}, false
	}
	pos, _ := w.Positions.getVersioned(e)
	sprite, _ := w.Sprites.getVersioned(e)
	style, _ := w.Styles.getVersioned(e)
	vis, _ := w.Visibility.getVersioned(e)
	return EntityView{
		ID:         e,
		Position:   pos.value,
		Sprite:     sprite.value,
		Style:      style.value,
		Visibility: vis.value,
		Versions: Versions{
			Position:   pos.version,
			Sprite:     sprite.version,
			Style:      style.version,
			Visibility: vis.version,
			Spawned:    spawned,
		},
	}, true
}

// Snapshot appends a view of every live entity to dst in ascending id order
func (w *World) Snapshot(dst []EntityView) []EntityView {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, e := range w.live {
		if v, ok := w.viewLocked(e); ok {
			dst = append(dst, v)
		}
	}
	return dst
}

// DrainRemoved appends entities despawned since the previous call and resets the list
func (w *World) DrainRemoved(dst []Entity) []Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	dst = append(dst, w.removed...)
	w.removed = w.removed[:0]
	return dst
}

// Version returns the current world version; it increases on every change
func (w *World) Version() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.version
}

// Len returns the live entity count
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.live)
}

// Clear despawns everything; ids keep increasing
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.removed = append(w.removed, w.live...)
	w.live = w.live[:0]
	w.spawned = make(map[Entity]uint64)
	w.Positions.clear()
	w.Sprites.clear()
	w.Styles.clear()
	w.Visibility.clear()
	w.bump()
}
