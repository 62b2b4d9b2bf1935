//go:build unix

package terminal

import (
	"os"
	"strings"
)

// trueColorEnv lists variables whose presence marks a 24-bit capable emulator
var trueColorEnv = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"WEZTERM_PANE",
}

// DetectColorMode determines color capability from the environment
func DetectColorMode() ColorMode {
	return detectColorMode(os.Getenv)
}

func detectColorMode(getenv func(string) string) ColorMode {
	switch strings.ToLower(getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return ColorModeTrueColor
	}
	for _, name := range trueColorEnv {
		if getenv(name) != "" {
			return ColorModeTrueColor
		}
	}
	term := strings.ToLower(getenv("TERM"))
	for _, marker := range []string{"truecolor", "24bit", "direct"} {
		if strings.Contains(term, marker) {
			return ColorModeTrueColor
		}
	}
	return ColorMode256
}

// resetTerminalMode restores cooked mode on the controlling tty, best
// effort for crash recovery
func resetTerminalMode() {
	// /dev/tty works even if stdin is redirected
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()
	restoreCooked(int(tty.Fd()))
}
