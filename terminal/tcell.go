package terminal

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// tcellTerminal implements Terminal on top of a tcell.Screen.
// tcell owns the screen lifecycle, so Abort cannot keep the alternate screen
// and behaves like Fini
type tcellTerminal struct {
	screen tcell.Screen
	opts   Options

	events chan Event
	done   chan struct{}

	mu          sync.Mutex
	initialized bool
	restored    bool
}

// NewTcell creates a Terminal backed by tcell
func NewTcell(opts Options) (Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "create tcell screen")
	}
	return newTcellTerminal(screen, opts), nil
}

// NewTcellScreen wraps an existing screen, e.g. tcell.NewSimulationScreen
func NewTcellScreen(screen tcell.Screen, opts Options) Terminal {
	return newTcellTerminal(screen, opts)
}

func newTcellTerminal(screen tcell.Screen, opts Options) *tcellTerminal {
	return &tcellTerminal{
		screen: screen,
		opts:   opts,
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
}

func (t *tcellTerminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return errors.Wrap(err, "init tcell screen")
	}

	if t.opts.Mouse {
		t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	}
	if t.opts.Focus {
		t.screen.EnableFocus()
	}
	if t.opts.Paste {
		t.screen.EnablePaste()
	}
	if t.opts.Title != "" {
		t.screen.SetTitle(t.opts.Title)
	}
	t.screen.HideCursor()
	t.clearLocked(t.opts.Colors)

	t.initialized = true
	go t.pump()
	return nil
}

// pump converts tcell events until the screen is finalized
func (t *tcellTerminal) pump() {
	defer close(t.done)

	var prevButtons tcell.ButtonMask
	var paste *strings.Builder

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			if paste != nil {
				switch e.Key() {
				case tcell.KeyRune:
					paste.WriteRune(e.Rune())
				case tcell.KeyEnter, tcell.KeyLF:
					paste.WriteByte('\n')
				case tcell.KeyTab:
					paste.WriteByte('\t')
				}
				continue
			}
			t.send(keyFromTcell(e))
		case *tcell.EventMouse:
			out := mouseFromTcell(e, prevButtons)
			prevButtons = e.Buttons() &^ (tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight)
			t.send(out)
		case *tcell.EventResize:
			w, h := e.Size()
			t.send(Event{Type: EventResize, Width: w, Height: h})
		case *tcell.EventFocus:
			t.send(Event{Type: EventFocus, Focused: e.Focused})
		case *tcell.EventPaste:
			if e.Start() {
				paste = &strings.Builder{}
			} else if paste != nil {
				t.send(Event{Type: EventPaste, Text: paste.String()})
				paste = nil
			}
		case *tcell.EventInterrupt:
			if posted, ok := e.Data().(Event); ok {
				t.send(posted)
			}
		}
	}
}

func (t *tcellTerminal) send(ev Event) {
	select {
	case t.events <- ev:
	default:
		// Queue full, drop
	}
}

func (t *tcellTerminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restoreLocked()
}

func (t *tcellTerminal) Abort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restoreLocked()
}

func (t *tcellTerminal) restoreLocked() {
	if !t.initialized || t.restored {
		return
	}
	t.restored = true
	if t.opts.Mouse {
		t.screen.DisableMouse()
	}
	if t.opts.Focus {
		t.screen.DisableFocus()
	}
	if t.opts.Paste {
		t.screen.DisablePaste()
	}
	t.screen.ShowCursor(0, 0)
	t.screen.Fini()
}

func (t *tcellTerminal) Size() (int, int) {
	return t.screen.Size()
}

func (t *tcellTerminal) ColorMode() ColorMode {
	if t.opts.ColorMode != ColorModeAuto {
		return t.opts.ColorMode
	}
	if t.screen.Colors() > 256 {
		return ColorModeTrueColor
	}
	return ColorMode256
}

func (t *tcellTerminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.restored {
		return
	}
	t.screen.SetTitle(title)
}

func (t *tcellTerminal) Clear(colors Colors) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.restored {
		return nil
	}
	t.clearLocked(colors)
	return nil
}

func (t *tcellTerminal) clearLocked(colors Colors) {
	t.screen.SetStyle(TcellStyle(colors.Blank()))
	t.screen.Clear()
	t.screen.Show()
}

// Draw sets cell contents and presents them with a single Show
func (t *tcellTerminal) Draw(writes []CellWrite, cursor Cursor) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.restored {
		return nil
	}

	for _, cw := range writes {
		r := cw.Cell.Rune
		if r == RuneContinuation {
			// tcell lays out the wide glyph to the left itself
			continue
		}
		if r == 0 {
			r = ' '
		}
		t.screen.SetContent(cw.X, cw.Y, r, nil, TcellStyle(cw.Cell))
	}
	if cursor.Hidden {
		t.screen.HideCursor()
	} else {
		t.screen.ShowCursor(cursor.X, cursor.Y)
	}
	t.screen.Show()
	return nil
}

func (t *tcellTerminal) DrainEvents(dst []Event, max int) ([]Event, error) {
	for n := 0; max <= 0 || n < max; n++ {
		select {
		case ev := <-t.events:
			dst = append(dst, ev)
		case <-t.done:
			// Screen finalized; hand out what is still queued first
			select {
			case ev := <-t.events:
				dst = append(dst, ev)
				continue
			default:
			}
			return dst, ErrInputClosed
		default:
			return dst, nil
		}
	}
	return dst, nil
}

// PostEvent injects a synthetic event through the tcell queue
func (t *tcellTerminal) PostEvent(ev Event) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(ev)) // best-effort; queue may be full
}

// cellAt reads back presented content, used by tests
func (t *tcellTerminal) cellAt(x, y int) Cell {
	mainc, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return CellFromTcell(mainc, style)
}
