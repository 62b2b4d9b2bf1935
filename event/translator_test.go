package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termsprite/terminal"
)

func keyEv(k terminal.Key, r rune, m terminal.Modifier) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: k, Rune: r, Modifiers: m}
}

func TestTranslateCtrlCRequestsExit(t *testing.T) {
	tr := NewTranslator(80, 24)
	b := tr.Translate([]terminal.Event{keyEv(terminal.KeyCtrlC, 0, terminal.ModCtrl)})
	assert.True(t, b.Exit)

	b = tr.Translate([]terminal.Event{keyEv(terminal.KeyRune, 'c', terminal.ModNone)})
	assert.False(t, b.Exit, "exit flag must not carry over between ticks")
}

func TestTranslateSynthesizesModifierChanges(t *testing.T) {
	tr := NewTranslator(80, 24)

	b := tr.Translate([]terminal.Event{
		keyEv(terminal.KeyRune, 'x', terminal.ModAlt),
		keyEv(terminal.KeyRune, 'y', terminal.ModAlt),
		keyEv(terminal.KeyRune, 'z', terminal.ModNone),
	})
	require.Len(t, b.Events, 5)
	assert.Equal(t, ModifierInput{Modifier: terminal.ModAlt, State: Pressed}, b.Events[0])
	assert.Equal(t, TypeKeyboard, b.Events[1].Type())
	assert.Equal(t, TypeKeyboard, b.Events[2].Type(), "unchanged modifiers emit nothing")
	assert.Equal(t, ModifierInput{Modifier: terminal.ModAlt, State: Released}, b.Events[3])
	assert.Equal(t, KeyboardInput{Key: terminal.KeyRune, Rune: 'z', State: Pressed}, b.Events[4])
}

func TestTranslateModifierStatePersistsAcrossTicks(t *testing.T) {
	tr := NewTranslator(80, 24)
	tr.Translate([]terminal.Event{keyEv(terminal.KeyUp, 0, terminal.ModCtrl|terminal.ModShift)})
	assert.Equal(t, terminal.ModCtrl|terminal.ModShift, tr.Modifiers())

	b := tr.Translate([]terminal.Event{keyEv(terminal.KeyUp, 0, terminal.ModShift)})
	require.Len(t, b.Events, 2)
	assert.Equal(t, ModifierInput{Modifier: terminal.ModCtrl, State: Released}, b.Events[0])
}

func TestTranslateUppercaseImpliesShift(t *testing.T) {
	tr := NewTranslator(80, 24)
	b := tr.Translate([]terminal.Event{keyEv(terminal.KeyRune, 'Q', terminal.ModNone)})
	require.Len(t, b.Events, 2)
	assert.Equal(t, ModifierInput{Modifier: terminal.ModShift, State: Pressed}, b.Events[0])
	kb := b.Events[1].(KeyboardInput)
	assert.True(t, kb.Modifiers.Has(terminal.ModShift))
}

func TestTranslateKeyActions(t *testing.T) {
	tr := NewTranslator(80, 24)
	press := keyEv(terminal.KeyRune, 'w', terminal.ModNone)
	repeat, release := press, press
	repeat.KeyAction = terminal.KeyActionRepeat
	release.KeyAction = terminal.KeyActionRelease

	b := tr.Translate([]terminal.Event{press, repeat, release})
	require.Len(t, b.Events, 3)
	assert.Equal(t, Pressed, b.Events[0].(KeyboardInput).State)
	assert.Equal(t, Repeated, b.Events[1].(KeyboardInput).State)
	assert.Equal(t, Released, b.Events[2].(KeyboardInput).State)
}

func TestTranslateReleasedCtrlCDoesNotExit(t *testing.T) {
	tr := NewTranslator(80, 24)
	ev := keyEv(terminal.KeyCtrlC, 0, terminal.ModCtrl)
	ev.KeyAction = terminal.KeyActionRelease
	b := tr.Translate([]terminal.Event{ev})
	assert.False(t, b.Exit)
}

func TestTranslateLoneModifierKey(t *testing.T) {
	tr := NewTranslator(80, 24)
	b := tr.Translate([]terminal.Event{keyEv(terminal.KeyModifier, 0, terminal.ModShift)})
	require.Len(t, b.Events, 1)
	assert.Equal(t, ModifierInput{Modifier: terminal.ModShift, State: Pressed}, b.Events[0])

	release := keyEv(terminal.KeyModifier, 0, terminal.ModNone)
	release.KeyAction = terminal.KeyActionRelease
	b = tr.Translate([]terminal.Event{release})
	require.Len(t, b.Events, 1)
	assert.Equal(t, ModifierInput{Modifier: terminal.ModShift, State: Released}, b.Events[0])
	assert.Equal(t, terminal.ModNone, tr.Modifiers())
}

func TestTranslateResizeTracksSize(t *testing.T) {
	tr := NewTranslator(80, 24)
	b := tr.Translate([]terminal.Event{
		{Type: terminal.EventResize, Width: 100, Height: 30},
		{Type: terminal.EventResize, Width: 90, Height: 20},
	})
	assert.True(t, b.Resized)
	assert.Equal(t, 90, b.Width)
	assert.Equal(t, 20, b.Height)
	w, h := tr.Size()
	assert.Equal(t, [2]int{90, 20}, [2]int{w, h})
	assert.Len(t, b.Events, 2)

	b = tr.Translate(nil)
	assert.False(t, b.Resized)
	assert.Empty(t, b.Events)
}

func TestTranslateMouseFocusPaste(t *testing.T) {
	tr := NewTranslator(80, 24)
	b := tr.Translate([]terminal.Event{
		{Type: terminal.EventMouse, MouseX: 3, MouseY: 4, MouseBtn: terminal.MouseBtnLeft, MouseAction: terminal.MouseActionPress},
		{Type: terminal.EventFocus, Focused: false},
		{Type: terminal.EventPaste, Text: "hello\nworld"},
	})
	require.Len(t, b.Events, 3)
	assert.Equal(t, MouseInput{X: 3, Y: 4, Button: terminal.MouseBtnLeft, Action: terminal.MouseActionPress}, b.Events[0])
	assert.Equal(t, WindowFocused{Focused: false}, b.Events[1])
	assert.Equal(t, Paste{Text: "hello\nworld"}, b.Events[2])
	assert.False(t, tr.Focused())
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "window_resized", TypeWindowResized.String())
	assert.Equal(t, "unknown", Type(99).String())
	assert.Equal(t, "released", Released.String())
	assert.Equal(t, "repeated", Repeated.String())
}
