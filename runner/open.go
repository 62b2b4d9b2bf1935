package runner

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/config"
	"github.com/lixenwraith/termsprite/engine"
	"github.com/lixenwraith/termsprite/terminal"
)

// OpenTerminal creates the device the settings name; it is not initialized
func OpenTerminal(s config.Settings) (terminal.Terminal, error) {
	opts, err := s.TerminalOptions()
	if err != nil {
		return nil, err
	}
	switch s.Backend {
	case config.BackendTcell:
		return terminal.NewTcell(opts)
	case config.BackendANSI, "":
		return terminal.New(opts), nil
	}
	return nil, errors.Errorf("unknown backend %q", s.Backend)
}

// NewFromSettings opens and initializes the configured device
func NewFromSettings(s config.Settings, world *engine.World, assets *asset.Store, log zerolog.Logger) (*Runner, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	term, err := OpenTerminal(s)
	if err != nil {
		return nil, err
	}
	colors, err := s.WindowColors()
	if err != nil {
		return nil, err
	}
	return New(term, world, assets, Options{
		FrameInterval:    s.FrameInterval,
		MaxEventsPerTick: s.MaxEventsPerTick,
		Colors:           colors,
		Backend:          s.Backend,
		Logger:           log,
	})
}
