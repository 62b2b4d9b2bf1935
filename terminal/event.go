package terminal

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventPaste
	EventMouse
	EventFocus
	EventError  // read failure, Err is set
	EventClosed // input stream ended
)

// Event is one decoded device input. Fields outside the event's type are zero
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	KeyAction KeyAction // EventKey

	Width, Height int    // EventResize
	Focused       bool   // EventFocus
	Text          string // EventPaste
	Err           error  // EventError

	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

// IsInterrupt reports whether the event is the Ctrl-C chord, in either the
// legacy control-byte form or the rune-with-modifier form. Releases do not count
func (e Event) IsInterrupt() bool {
	if e.Type != EventKey || e.KeyAction == KeyActionRelease {
		return false
	}
	switch e.Key {
	case KeyCtrlC:
		return true
	case KeyRune:
		return (e.Rune == 'c' || e.Rune == 'C') && e.Modifiers.Has(ModCtrl)
	}
	return false
}

func keyEvent(k Key, mod Modifier) Event {
	return Event{Type: EventKey, Key: k, Modifiers: mod}
}

func runeEvent(r rune, mod Modifier) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Modifiers: mod}
}

// swallow marks a recognized but meaningless sequence; decoders drop it
var swallow = Event{Type: EventKey, Key: KeyNone}

func (e Event) swallowed() bool {
	return e.Type == EventKey && e.Key == KeyNone
}
