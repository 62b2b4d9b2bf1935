package asset

import (
	"sync"

	"github.com/pkg/errors"
)

// SpriteHandle and StyleHandle are the handles entities hold
type (
	SpriteHandle = Handle[Sprite]
	StyleHandle  = Handle[StyleMap]
)

// Loaded is the result of LoadFile; only the handle for Kind is set
type Loaded struct {
	Kind   Kind
	Sprite SpriteHandle
	Style  StyleHandle
}

// Store owns sprite and style arenas. Loading may happen on any goroutine;
// the render pass only reads
type Store struct {
	mu      sync.RWMutex
	sprites Arena[Sprite]
	styles  Arena[StyleMap]
}

// NewStore creates an empty asset store
func NewStore() *Store {
	return &Store{}
}

func (s *Store) AddSprite(sp Sprite) SpriteHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sprites.Add(sp)
}

func (s *Store) AddStyle(m StyleMap) StyleHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styles.Add(m)
}

// Sprite resolves a sprite handle
func (s *Store) Sprite(h SpriteHandle) (Sprite, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sprites.Get(h)
}

// Style resolves a style handle; the zero handle is the empty default map
func (s *Store) Style(h StyleHandle) (StyleMap, bool) {
	if h.IsZero() {
		return StyleMap{}, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.styles.Get(h)
}

// ReplaceSprite swaps the sprite behind a live handle. Entities using it are
// repainted only when the rect changes; a same-size swap needs World.Touch
func (s *Store) ReplaceSprite(h SpriteHandle, sp Sprite) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sprites.Replace(h, sp)
}

// ReplaceStyle swaps the style map behind a live handle. Entities using it
// are not repainted until the host calls World.Touch on them
func (s *Store) ReplaceStyle(h StyleHandle, m StyleMap) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styles.Replace(h, m)
}

func (s *Store) RemoveSprite(h SpriteHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sprites.Remove(h)
}

func (s *Store) RemoveStyle(h StyleHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styles.Remove(h)
}

// Counts returns live sprite and style counts
func (s *Store) Counts() (sprites, styles int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sprites.Len(), s.styles.Len()
}

// LoadSprite reads a UTF-8 text file into a sprite
func (s *Store) LoadSprite(path string) (SpriteHandle, error) {
	data, err := readAsset(path, KindSprite)
	if err != nil {
		return SpriteHandle{}, err
	}
	sp, err := DecodeSprite(data)
	if err != nil {
		return SpriteHandle{}, &LoadError{Path: path, Kind: KindSprite, Err: err}
	}
	return s.AddSprite(sp), nil
}

// LoadStyleMap reads a YAML style document
func (s *Store) LoadStyleMap(path string) (StyleHandle, error) {
	data, err := readAsset(path, KindStyleMap)
	if err != nil {
		return StyleHandle{}, err
	}
	m, err := DecodeStyleMap(data)
	if err != nil {
		return StyleHandle{}, &LoadError{Path: path, Kind: KindStyleMap, Err: err}
	}
	return s.AddStyle(m), nil
}

// LoadFile dispatches on extension: .txt sprites, .stylemap/.yaml/.yml styles
func (s *Store) LoadFile(path string) (Loaded, error) {
	kind, ok := KindForPath(path)
	if !ok {
		return Loaded{}, &LoadError{Path: path, Err: errors.WithStack(ErrUnsupportedExtension)}
	}
	out := Loaded{Kind: kind}
	var err error
	switch kind {
	case KindSprite:
		out.Sprite, err = s.LoadSprite(path)
	case KindStyleMap:
		out.Style, err = s.LoadStyleMap(path)
	}
	return out, err
}
