package status

import (
	"sync/atomic"
	"unicode/utf8"
)

// MaxStringLen bounds stored strings in bytes
const MaxStringLen = 32

// AtomicString holds a short label such as a backend or mode name.
// The zero value loads as ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store saves val, cut at MaxStringLen on a rune boundary
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		cut := MaxStringLen
		for cut > 0 && !utf8.RuneStart(val[cut]) {
			cut--
		}
		val = val[:cut]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
