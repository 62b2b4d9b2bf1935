package event

import (
	"unicode"

	"github.com/lixenwraith/termsprite/terminal"
)

var keyStates = [...]ButtonState{
	terminal.KeyActionPress:   Pressed,
	terminal.KeyActionRepeat:  Repeated,
	terminal.KeyActionRelease: Released,
}

// modifierOrder is the order synthesized modifier events are emitted in
var modifierOrder = [...]terminal.Modifier{
	terminal.ModShift,
	terminal.ModCtrl,
	terminal.ModAlt,
	terminal.ModMeta,
}

// Batch is the translated input of one tick
type Batch struct {
	Events []Event

	// Exit is set when the interrupt key was seen
	Exit bool

	// Resized is set when at least one resize arrived; Width and Height
	// hold the latest size
	Resized       bool
	Width, Height int
}

// Reset empties the batch keeping its storage
func (b *Batch) Reset() {
	clear(b.Events)
	b.Events = b.Events[:0]
	b.Exit = false
	b.Resized = false
	b.Width, b.Height = 0, 0
}

// Translator converts terminal events and tracks window size, focus and
// the modifier set between ticks. Not safe for concurrent use
type Translator struct {
	mods    terminal.Modifier
	width   int
	height  int
	focused bool
	batch   Batch
}

// NewTranslator starts with the given window size and focus assumed
func NewTranslator(width, height int) *Translator {
	return &Translator{width: width, height: height, focused: true}
}

// Size returns the latest window size seen
func (t *Translator) Size() (int, int) { return t.width, t.height }

// Focused returns the latest focus state seen
func (t *Translator) Focused() bool { return t.focused }

// Modifiers returns the modifier set of the last key event
func (t *Translator) Modifiers() terminal.Modifier { return t.mods }

// Translate converts one tick's terminal events. The returned batch is
// reused by the next call
func (t *Translator) Translate(evs []terminal.Event) *Batch {
	b := &t.batch
	b.Reset()

	for i := range evs {
		ev := &evs[i]
		switch ev.Type {
		case terminal.EventKey:
			t.key(b, ev)
		case terminal.EventMouse:
			b.Events = append(b.Events, MouseInput{
				X:         ev.MouseX,
				Y:         ev.MouseY,
				Button:    ev.MouseBtn,
				Action:    ev.MouseAction,
				Modifiers: ev.Modifiers,
			})
		case terminal.EventResize:
			t.width, t.height = ev.Width, ev.Height
			b.Resized = true
			b.Width, b.Height = ev.Width, ev.Height
			b.Events = append(b.Events, WindowResized{Width: ev.Width, Height: ev.Height})
		case terminal.EventFocus:
			t.focused = ev.Focused
			b.Events = append(b.Events, WindowFocused{Focused: ev.Focused})
		case terminal.EventPaste:
			b.Events = append(b.Events, Paste{Text: ev.Text})
		}
	}
	return b
}

func (t *Translator) key(b *Batch, ev *terminal.Event) {
	if ev.IsInterrupt() {
		b.Exit = true
	}

	mods := ev.Modifiers
	// An uppercase rune implies Shift even when the terminal does not say so
	if ev.Key == terminal.KeyRune && unicode.IsUpper(ev.Rune) {
		mods |= terminal.ModShift
	}

	if delta := mods ^ t.mods; delta != 0 {
		for _, m := range modifierOrder {
			if delta&m == 0 {
				continue
			}
			state := Released
			if mods&m != 0 {
				state = Pressed
			}
			b.Events = append(b.Events, ModifierInput{Modifier: m, State: state})
		}
		t.mods = mods
	}

	// A lone modifier key only moves the modifier set
	if ev.Key == terminal.KeyModifier {
		return
	}

	state := Pressed
	if int(ev.KeyAction) < len(keyStates) {
		state = keyStates[ev.KeyAction]
	}
	b.Events = append(b.Events, KeyboardInput{
		Key:       ev.Key,
		Rune:      ev.Rune,
		Modifiers: mods,
		State:     state,
	})
}
