package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// stopTimeout bounds how long stop waits for a reader stuck in a blocking read
const stopTimeout = 100 * time.Millisecond

// inputReader decodes backend bytes into events on its own goroutine.
// Bytes of an incomplete sequence stay in pending until the next read
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu      sync.Mutex
	running bool

	pending []byte
	decoded []Event
}

func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		pending: make([]byte, 0, 256),
	}
}

func (r *inputReader) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	go r.readLoop()
}

func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	select {
	case <-r.doneCh:
	case <-time.After(stopTimeout):
	}
}

func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)
	defer func() {
		if p := recover(); p != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", p)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		switch {
		case err == io.EOF:
			r.send(Event{Type: EventClosed})
			return
		case err != nil:
			r.send(Event{Type: EventError, Err: err})
			return
		case data == nil:
			return // stop requested
		case len(data) == 0:
			// Poll timeout: nothing followed the ESC, so it was the key itself
			if len(r.pending) == 1 && r.pending[0] == 0x1b {
				r.send(keyEvent(KeyEscape, ModNone))
				r.pending = r.pending[:0]
			}
			continue
		}

		r.pending = append(r.pending, data...)
		r.feed()
	}
}

// feed decodes pending bytes and forwards the events, keeping any tail
func (r *inputReader) feed() int {
	var n int
	r.decoded, n = decodeInput(r.pending, r.decoded[:0])
	for _, ev := range r.decoded {
		r.send(ev)
	}
	r.pending = r.pending[:copy(r.pending, r.pending[n:])]
	return n
}

// send never blocks; events are dropped while the queue is full
func (r *inputReader) send(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
	}
}
