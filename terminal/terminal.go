package terminal

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Attr represents text attributes (bitmask)
type Attr uint16

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
	AttrStrike    Attr = 1 << 6
	AttrFgDefault Attr = 1 << 8 // Fg ignored, terminal default foreground
	AttrBgDefault Attr = 1 << 9 // Bg ignored, terminal default background
)

// AttrStyle masks only the style bits (excludes color mode flags)
const AttrStyle Attr = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrBlink | AttrReverse | AttrStrike

// AttrColorDefault masks the default-color flags
const AttrColorDefault Attr = AttrFgDefault | AttrBgDefault

// Cell represents a single terminal cell
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// RuneContinuation fills the second column of a double-width glyph. Devices
// draw nothing for it while the glyph to its left is intact, and a blank
// otherwise
const RuneContinuation rune = -2

// CellWrite is one positioned cell produced by the compositor
type CellWrite struct {
	X, Y int
	Cell Cell
}

// Colors are the global window colors used for blank cells and unstyled glyphs
type Colors struct {
	Fg    RGB
	Bg    RGB
	Attrs Attr // only AttrFgDefault / AttrBgDefault are meaningful
}

// TermColors uses the terminal's own default foreground and background
func TermColors() Colors {
	return Colors{Attrs: AttrColorDefault}
}

// NewColors returns explicit RGB window colors
func NewColors(fg, bg RGB) Colors {
	return Colors{Fg: fg, Bg: bg}
}

// Blank returns a space cell in the window colors
func (c Colors) Blank() Cell {
	return Cell{Rune: ' ', Fg: c.Fg, Bg: c.Bg, Attrs: c.Attrs & AttrColorDefault}
}

// Cursor is the cursor state applied at the end of each frame
type Cursor struct {
	X, Y   int
	Hidden bool
}

// Options configures device initialization
type Options struct {
	ColorMode ColorMode
	Mouse     bool
	Focus     bool
	Paste     bool
	Title     string
	Colors    Colors

	// KeyboardEnhancement requests key release, repeat and lone modifier
	// reports where the terminal supports the kitty keyboard protocol.
	// The ANSI device queries support during Init; tcell ignores it
	KeyboardEnhancement bool
}

// KeyboardReporter is implemented by devices that can enable keyboard
// enhancement
type KeyboardReporter interface {
	KeyboardEnhanced() bool
}

// Terminal is a controllable character-cell device
type Terminal interface {
	// Init enters raw mode, alternate screen, hides cursor, enables capture flags
	Init() error

	// Fini restores terminal state on clean shutdown, including leaving the
	// alternate screen. Safe to call multiple times
	Fini()

	// Abort restores raw mode and capture flags but stays on the alternate
	// screen so crash diagnostics remain visible. Safe to call multiple times
	Abort()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// ColorMode returns detected color capability
	ColorMode() ColorMode

	// SetTitle sets the window title
	SetTitle(title string)

	// Clear fills the screen with blank cells in the given colors
	Clear(colors Colors) error

	// Draw writes row-major cell writes, applies the cursor and flushes once
	Draw(writes []CellWrite, cursor Cursor) error

	// DrainEvents appends every currently buffered event, up to max, without blocking
	DrainEvents(dst []Event, max int) ([]Event, error)

	// PostEvent injects a synthetic event
	PostEvent(Event)
}

// ErrInputClosed is returned by DrainEvents after the input stream ended
var ErrInputClosed = errors.New("terminal input closed")

// ansiTerminal implements Terminal using the Backend interface
type ansiTerminal struct {
	backend Backend
	opts    Options

	output      *outputBuffer
	input       *inputReader
	resizeCh    chan ResizeEvent
	syntheticCh chan Event

	mu          sync.Mutex
	initialized bool
	restored    bool
	altScreen   bool
	kbdPushed   bool
}

// kbdProbeTimeout bounds the wait for replies to the keyboard protocol query
var kbdProbeTimeout = 200 * time.Millisecond

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// New creates the native ANSI terminal device
func New(opts Options) Terminal {
	return newANSI(newBackend(), opts)
}

func newANSI(b Backend, opts Options) *ansiTerminal {
	if opts.ColorMode == ColorModeAuto {
		opts.ColorMode = DetectColorMode()
	}
	return &ansiTerminal{
		backend:     b,
		opts:        opts,
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan ResizeEvent, 1),
		output:      newOutputBuffer(b, opts.ColorMode),
	}
}

// Init enters raw mode and sets up terminal
func (t *ansiTerminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return errors.Wrap(err, "enable raw mode")
	}

	w, h := t.backend.Size()
	t.output.resize(w, h)

	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		// Keep only the latest size pending
		select {
		case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
			default:
			}
		}
	})

	out := t.output.writer
	out.Write(csiAltScreenEnter)
	out.Write(csiCursorHide)
	// Prevents terminal scroll on bottom-right corner write
	out.Write(csiAutoWrapOff)
	if t.opts.Mouse {
		out.Write(csiMouseSGROn)
		out.Write(csiMouseClickOn)
		out.Write(csiMouseDragOn)
	}
	if t.opts.Focus {
		out.Write(csiFocusOn)
	}
	if t.opts.Paste {
		out.Write(csiPasteOn)
	}
	if t.opts.Title != "" {
		writeTitle(out, t.opts.Title)
	}
	if err := out.Flush(); err != nil {
		t.backend.Fini()
		return errors.Wrap(err, "enter alternate screen")
	}
	t.altScreen = true
	t.output.cursorHidden = true

	if err := t.output.clear(t.opts.Colors); err != nil {
		t.restoreLocked(true)
		return errors.Wrap(err, "clear screen")
	}

	if t.opts.KeyboardEnhancement {
		if err := t.enhanceKeyboard(); err != nil {
			t.restoreLocked(true)
			return errors.Wrap(err, "keyboard enhancement")
		}
	}

	t.input.start()

	t.initialized = true
	return nil
}

// enhanceKeyboard queries the keyboard protocol and pushes the enhanced
// flags when the terminal answers. Input typed during the query is kept for
// the reader
func (t *ansiTerminal) enhanceKeyboard() error {
	out := t.output.writer
	out.Write(csiKbdQuery)
	out.Write(csiDAQuery)
	if err := out.Flush(); err != nil {
		return err
	}

	stop := make(chan struct{})
	timer := time.AfterFunc(kbdProbeTimeout, func() { close(stop) })
	defer timer.Stop()

	var buf []byte
	supported := false
	for {
		data, err := t.backend.Read(stop)
		if err != nil || data == nil {
			// Read failures resurface from the input reader
			break
		}
		buf = append(buf, data...)
		var kitty, done bool
		buf, kitty, done = takeQueryReplies(buf)
		supported = supported || kitty
		if done {
			break
		}
	}
	if len(buf) > 0 {
		t.input.pending = append(t.input.pending, buf...)
		t.input.feed()
	}

	if !supported {
		return nil
	}
	out.Write(csiKbdPush)
	if err := out.Flush(); err != nil {
		return err
	}
	t.kbdPushed = true
	return nil
}

// KeyboardEnhanced reports whether enhanced keyboard flags are active
func (t *ansiTerminal) KeyboardEnhanced() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.kbdPushed && !t.restored
}

// Fini restores terminal state, leaving the alternate screen
func (t *ansiTerminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restoreLocked(true)
}

// Abort restores terminal modes but keeps the alternate screen content
func (t *ansiTerminal) Abort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restoreLocked(false)
}

func (t *ansiTerminal) restoreLocked(leaveAlt bool) {
	if t.restored {
		// A prior Abort may still leave the alternate screen on a later Fini
		if leaveAlt && t.altScreen {
			t.backend.Write(csiAltScreenExit)
			t.altScreen = false
		}
		return
	}
	if !t.initialized && !t.altScreen {
		return
	}

	if t.input != nil {
		t.input.stop()
	}

	w := t.output.writer
	if t.kbdPushed {
		w.Write(csiKbdPop)
		t.kbdPushed = false
	}
	if t.opts.Mouse {
		w.Write(csiMouseMotionOff)
		w.Write(csiMouseDragOff)
		w.Write(csiMouseClickOff)
		w.Write(csiMouseSGROff)
	}
	if t.opts.Focus {
		w.Write(csiFocusOff)
	}
	if t.opts.Paste {
		w.Write(csiPasteOff)
	}
	w.Write(csiSGR0)
	w.Write(csiCursorShow)
	if leaveAlt && t.altScreen {
		w.Write(csiAltScreenExit)
		t.altScreen = false
	}
	// Re-enable auto-wrap after leaving alt screen so the main buffer wraps
	w.Write(csiAutoWrapOn)
	w.Flush()

	t.backend.Fini()
	t.restored = true
}

func (t *ansiTerminal) Size() (int, int) {
	return t.backend.Size()
}

func (t *ansiTerminal) ColorMode() ColorMode {
	return t.output.colorMode
}

func (t *ansiTerminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.restored {
		return
	}
	writeTitle(t.output.writer, title)
	t.output.writer.Flush()
}

// Clear fills screen with blank cells in the given window colors
func (t *ansiTerminal) Clear(colors Colors) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.restored {
		return nil
	}
	w, h := t.backend.Size()
	if w != t.output.width || h != t.output.height {
		t.output.resize(w, h)
	}
	return t.output.clear(colors)
}

// Draw writes the frame's cell writes and flushes once
func (t *ansiTerminal) Draw(writes []CellWrite, cursor Cursor) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.restored {
		return nil
	}
	return t.output.draw(writes, cursor)
}

// DrainEvents reads everything currently buffered without waiting
func (t *ansiTerminal) DrainEvents(dst []Event, max int) ([]Event, error) {
	var inputCh <-chan Event
	if t.input != nil {
		inputCh = t.input.events()
	}
	for n := 0; max <= 0 || n < max; n++ {
		var ev Event
		select {
		case ev = <-t.syntheticCh:
		case ev = <-inputCh:
		case re := <-t.resizeCh:
			t.mu.Lock()
			t.output.resize(re.Width, re.Height)
			t.mu.Unlock()
			ev = Event{Type: EventResize, Width: re.Width, Height: re.Height}
		default:
			return dst, nil
		}

		switch ev.Type {
		case EventError:
			return dst, errors.Wrap(ev.Err, "read terminal input")
		case EventClosed:
			return dst, ErrInputClosed
		}
		dst = append(dst, ev)
	}
	return dst, nil
}

// PostEvent injects a synthetic event
func (t *ansiTerminal) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
		// Channel full, drop
	}
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if no Terminal handle is reachable
func EmergencyReset(w io.Writer) {
	// Popping with nothing pushed is a no-op
	w.Write(csiKbdPop)
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)
	w.Write(csiFocusOff)
	w.Write(csiPasteOff)

	w.Write(csiCursorShow)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
