package runner

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Replaced in tests
var (
	crashOut  io.Writer = os.Stderr
	crashExit           = os.Exit
)

// HandleCrash aborts the terminal, keeping the alternate screen so the
// report stays visible, prints the panic with its stack and exits
func (r *Runner) HandleCrash(p any) {
	if p == nil {
		return
	}
	r.term.Abort()
	r.log.Error().Interface("panic", p).Msg("goroutine crashed")

	// Raw mode may still be settling; \r\n keeps lines from zig-zagging
	fmt.Fprintf(crashOut, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", p)
	fmt.Fprintf(crashOut, "Stack Trace:\r\n%s\r\n", debug.Stack())
	if f, ok := crashOut.(*os.File); ok {
		f.Sync()
	}
	crashExit(1)
}

// Go runs fn on a new goroutine with crash handling.
// Use it instead of the go keyword for host goroutines that outlive a tick
func (r *Runner) Go(fn func()) {
	go func() {
		defer func() {
			if p := recover(); p != nil {
				r.HandleCrash(p)
			}
		}()
		fn()
	}()
}
