// Package event translates terminal device events into the host's input
// event shapes, once per tick.
package event

import (
	"github.com/lixenwraith/termsprite/terminal"
)

// Type discriminates host events
type Type uint8

const (
	TypeNone Type = iota

	// TypeKeyboard is a key press, repeat or release
	// Trigger: terminal key event | Payload: KeyboardInput
	TypeKeyboard

	// TypeModifier is a modifier press or release
	// Trigger: modifier set differs from the previous key event, or a lone
	// modifier key report | Payload: ModifierInput
	TypeModifier

	// TypeMouse is a button, wheel or motion report
	// Trigger: terminal mouse event | Payload: MouseInput
	TypeMouse

	// TypeWindowResized carries the new window size
	// Trigger: terminal resize | Payload: WindowResized
	TypeWindowResized

	// TypeWindowFocused reports focus gained or lost
	// Trigger: terminal focus report | Payload: WindowFocused
	TypeWindowFocused

	// TypePaste carries bracketed paste text
	// Trigger: terminal paste | Payload: Paste
	TypePaste
)

var typeNames = [...]string{
	TypeNone:          "none",
	TypeKeyboard:      "keyboard",
	TypeModifier:      "modifier",
	TypeMouse:         "mouse",
	TypeWindowResized: "window_resized",
	TypeWindowFocused: "window_focused",
	TypePaste:         "paste",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// ButtonState is pressed, released or, for keys only, auto-repeated
type ButtonState uint8

const (
	Pressed ButtonState = iota
	Released
	Repeated
)

func (s ButtonState) String() string {
	switch s {
	case Released:
		return "released"
	case Repeated:
		return "repeated"
	}
	return "pressed"
}

// Event is one host input event; switch on the concrete type
type Event interface {
	Type() Type
}

// KeyboardInput is a key press. Releases and repeats are only reported by
// terminals with keyboard enhancement active
type KeyboardInput struct {
	Key       terminal.Key
	Rune      rune // set when Key is terminal.KeyRune
	Modifiers terminal.Modifier
	State     ButtonState
}

// ModifierInput is one modifier key changing state
type ModifierInput struct {
	Modifier terminal.Modifier // exactly one flag
	State    ButtonState
}

type MouseInput struct {
	X, Y      int
	Button    terminal.MouseButton
	Action    terminal.MouseAction
	Modifiers terminal.Modifier
}

type WindowResized struct {
	Width, Height int
}

type WindowFocused struct {
	Focused bool
}

type Paste struct {
	Text string
}

func (KeyboardInput) Type() Type { return TypeKeyboard }
func (ModifierInput) Type() Type { return TypeModifier }
func (MouseInput) Type() Type    { return TypeMouse }
func (WindowResized) Type() Type { return TypeWindowResized }
func (WindowFocused) Type() Type { return TypeWindowFocused }
func (Paste) Type() Type         { return TypePaste }
