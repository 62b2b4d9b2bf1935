package terminal

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"
)

// fakeBackend records output and feeds scripted input
type fakeBackend struct {
	mu       sync.Mutex
	out      bytes.Buffer
	width    int
	height   int
	inited   int
	finished int
	input    chan []byte
	resize   func(w, h int)
}

func newFakeBackend(w, h int) *fakeBackend {
	return &fakeBackend{width: w, height: h, input: make(chan []byte, 8)}
}

func (b *fakeBackend) Init() error { b.inited++; return nil }
func (b *fakeBackend) Fini()       { b.finished++ }

func (b *fakeBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *fakeBackend) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.Write(p)
}

func (b *fakeBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case data, ok := <-b.input:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-stopCh:
		return nil, nil
	}
}

func (b *fakeBackend) SetResizeHandler(h func(w, h int)) { b.resize = h }

func (b *fakeBackend) output() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.out.Bytes()...)
}

func (b *fakeBackend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out.Reset()
}

func initFake(t *testing.T, opts Options) (*ansiTerminal, *fakeBackend) {
	t.Helper()
	b := newFakeBackend(20, 6)
	if opts.ColorMode == ColorModeAuto {
		opts.ColorMode = ColorModeTrueColor
	}
	term := newANSI(b, opts)
	if err := term.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return term, b
}

// drainUntil polls DrainEvents until pred matches or the deadline passes
func drainUntil(t *testing.T, term Terminal, pred func(Event) bool) (Event, bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	var buf []Event
	for time.Now().Before(deadline) {
		buf, _ = term.DrainEvents(buf[:0], 0)
		for _, ev := range buf {
			if pred(ev) {
				return ev, true
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return Event{}, false
}

func TestInitEntersModes(t *testing.T) {
	term, b := initFake(t, Options{Mouse: true, Focus: true, Paste: true, Title: "sprites"})
	defer term.Fini()

	out := b.output()
	for name, seq := range map[string][]byte{
		"alt screen": csiAltScreenEnter,
		"hide":       csiCursorHide,
		"autowrap":   csiAutoWrapOff,
		"sgr mouse":  csiMouseSGROn,
		"click":      csiMouseClickOn,
		"drag":       csiMouseDragOn,
		"focus":      csiFocusOn,
		"paste":      csiPasteOn,
		"title":      []byte("\x1b]0;sprites\x07"),
		"clear":      csiClear,
	} {
		if !bytes.Contains(out, seq) {
			t.Errorf("Init output missing %s sequence", name)
		}
	}
	if b.inited != 1 {
		t.Errorf("backend Init called %d times", b.inited)
	}
}

func TestInitWithoutCaptureFlags(t *testing.T) {
	term, b := initFake(t, Options{})
	defer term.Fini()

	out := b.output()
	if bytes.Contains(out, csiMouseSGROn) || bytes.Contains(out, csiFocusOn) || bytes.Contains(out, csiPasteOn) {
		t.Errorf("capture enabled without being requested: %q", out)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	term, b := initFake(t, Options{})
	defer term.Fini()
	if err := term.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if b.inited != 1 {
		t.Errorf("backend Init called %d times", b.inited)
	}
}

func TestFiniLeavesAlternateScreen(t *testing.T) {
	term, b := initFake(t, Options{Mouse: true})
	b.reset()

	term.Fini()
	out := b.output()
	for name, seq := range map[string][]byte{
		"alt exit": csiAltScreenExit,
		"show":     csiCursorShow,
		"mouse":    csiMouseSGROff,
		"autowrap": csiAutoWrapOn,
		"sgr0":     csiSGR0,
	} {
		if !bytes.Contains(out, seq) {
			t.Errorf("Fini output missing %s sequence", name)
		}
	}

	b.reset()
	term.Fini()
	if len(b.output()) != 0 {
		t.Errorf("second Fini wrote %q", b.output())
	}
	if b.finished != 1 {
		t.Errorf("backend Fini called %d times", b.finished)
	}
}

func TestAbortKeepsAlternateScreen(t *testing.T) {
	term, b := initFake(t, Options{})
	b.reset()

	term.Abort()
	out := b.output()
	if bytes.Contains(out, csiAltScreenExit) {
		t.Error("Abort must not leave the alternate screen")
	}
	if !bytes.Contains(out, csiCursorShow) {
		t.Error("Abort should restore the cursor")
	}

	// A later clean Fini still leaves it
	b.reset()
	term.Fini()
	if !bytes.Contains(b.output(), csiAltScreenExit) {
		t.Error("Fini after Abort should leave the alternate screen")
	}
	if b.finished != 1 {
		t.Errorf("backend Fini called %d times", b.finished)
	}
}

func TestDrawBeforeInitIsNoop(t *testing.T) {
	b := newFakeBackend(10, 2)
	term := newANSI(b, Options{ColorMode: ColorModeTrueColor})
	if err := term.Draw([]CellWrite{{Cell: Cell{Rune: 'x'}}}, Cursor{Hidden: true}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(b.output()) != 0 {
		t.Errorf("Draw before Init wrote %q", b.output())
	}
	events, err := term.DrainEvents(nil, 0)
	if err != nil || len(events) != 0 {
		t.Errorf("DrainEvents before Init = %v, %v", events, err)
	}
}

func TestDrainEventsInput(t *testing.T) {
	term, b := initFake(t, Options{})
	defer term.Fini()

	b.input <- []byte("q")
	ev, ok := drainUntil(t, term, func(ev Event) bool { return ev.Type == EventKey })
	if !ok {
		t.Fatal("key event never arrived")
	}
	if ev.Rune != 'q' {
		t.Errorf("rune = %q", ev.Rune)
	}
}

func TestDrainEventsRespectsMax(t *testing.T) {
	term, _ := initFake(t, Options{})
	defer term.Fini()

	for i := 0; i < 5; i++ {
		term.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: rune('a' + i)})
	}
	events, err := term.DrainEvents(nil, 3)
	if err != nil {
		t.Fatalf("DrainEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	rest, _ := term.DrainEvents(nil, 0)
	if len(rest) != 2 || rest[0].Rune != 'd' {
		t.Errorf("remaining events = %+v", rest)
	}
}

func TestDrainEventsResize(t *testing.T) {
	term, b := initFake(t, Options{})
	defer term.Fini()

	b.mu.Lock()
	b.width, b.height = 30, 8
	b.mu.Unlock()
	b.resize(30, 8)

	events, err := term.DrainEvents(nil, 0)
	if err != nil {
		t.Fatalf("DrainEvents: %v", err)
	}
	if len(events) != 1 || events[0].Type != EventResize || events[0].Width != 30 || events[0].Height != 8 {
		t.Fatalf("expected resize event, got %+v", events)
	}
	if term.output.width != 30 || term.output.height != 8 {
		t.Errorf("output not resized: %dx%d", term.output.width, term.output.height)
	}
}

func TestDrainEventsClosedInput(t *testing.T) {
	term, b := initFake(t, Options{})
	defer term.Fini()

	close(b.input)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := term.DrainEvents(nil, 0); err != nil {
			if err != ErrInputClosed {
				t.Fatalf("expected ErrInputClosed, got %v", err)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("closed input never reported")
}

func TestSetTitleDropsControlBytes(t *testing.T) {
	term, b := initFake(t, Options{})
	defer term.Fini()
	b.reset()

	term.SetTitle("a\x1bb")
	if got := string(b.output()); got != "\x1b]0;ab\x07" {
		t.Errorf("title output = %q", got)
	}
}
