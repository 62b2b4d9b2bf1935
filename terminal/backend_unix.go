//go:build unix

package terminal

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const (
	// pollTimeoutMs bounds each blocking poll so the stop channel is observed
	pollTimeoutMs = 100
	readBufSize   = 256

	fallbackWidth  = 80
	fallbackHeight = 24
)

// unixBackend drives a tty through x/term raw mode and x/sys poll/ioctl
type unixBackend struct {
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State
	buf     []byte

	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

func newBackend() Backend {
	return newFileBackend(os.Stdin, os.Stdout)
}

func newFileBackend(in, out *os.File) *unixBackend {
	return &unixBackend{
		out:   out,
		inFd:  int(in.Fd()),
		outFd: int(out.Fd()),
		buf:   make([]byte, readBufSize),
	}
}

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return errors.New("stdin is not a terminal")
	}
	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return errors.Wrap(err, "make raw")
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) Fini() {
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
		b.resizeStopCh = nil
	}
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(b.outFd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return fallbackWidth, fallbackHeight
	}
	return int(ws.Col), int(ws.Row)
}

func (b *unixBackend) Write(p []byte) (int, error) {
	return b.out.Write(p)
}

// Read returns a fresh slice per call; the reader goroutine keeps it
func (b *unixBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	fds := []unix.PollFd{{Fd: int32(b.inFd), Events: unix.POLLIN}}
	for {
		select {
		case <-stopCh:
			return nil, nil
		default:
		}

		n, err := unix.Poll(fds, pollTimeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, errors.Wrap(err, "poll stdin")
		}
		if n == 0 {
			// Timeout; empty read lets the reader flush a pending ESC
			return []byte{}, nil
		}

		rn, err := unix.Read(b.inFd, b.buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return nil, errors.Wrap(err, "read stdin")
		}
		if rn == 0 {
			return nil, io.EOF
		}
		return append([]byte(nil), b.buf[:rn]...), nil
	}
}

func (b *unixBackend) SetResizeHandler(handler func(width, height int)) {
	b.resizeStopCh = make(chan struct{})
	b.resizeDoneCh = make(chan struct{})

	go func() {
		defer close(b.resizeDoneCh)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-b.resizeStopCh:
				return
			case <-sigCh:
				handler(b.Size())
			}
		}
	}()
}
