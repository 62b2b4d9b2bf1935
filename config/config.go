// Package config loads window and loop settings from YAML.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/logging"
	"github.com/lixenwraith/termsprite/terminal"
)

// Backend names
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Colors are the global window colors; empty or "inherit" keeps the
// terminal's own default
type Colors struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
}

type Log struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	File    string `yaml:"file"`
	MaxSize int64  `yaml:"max_size"`
	Level   string `yaml:"level"`
}

// Settings is the full configuration document
type Settings struct {
	Title            string        `yaml:"title"`
	Colors           Colors        `yaml:"colors"`
	FrameInterval    time.Duration `yaml:"frame_interval"`
	ColorMode        string        `yaml:"color_mode"`
	Backend          string        `yaml:"backend"`
	Mouse            bool          `yaml:"mouse"`
	Focus            bool          `yaml:"focus"`
	Paste            bool          `yaml:"paste"`
	Keyboard         bool          `yaml:"keyboard_enhancement"`
	MaxEventsPerTick int           `yaml:"max_events_per_tick"`
	Log              Log           `yaml:"log"`
}

// Default returns settings for a ~60fps loop on the ANSI device
func Default() Settings {
	return Settings{
		FrameInterval:    16 * time.Millisecond,
		ColorMode:        "auto",
		Backend:          BackendANSI,
		Mouse:            true,
		Focus:            true,
		Keyboard:         true,
		MaxEventsPerTick: 256,
		Log: Log{
			Dir:     logging.DefaultDir,
			File:    logging.DefaultFile,
			MaxSize: logging.DefaultMaxSize,
			Level:   "info",
		},
	}
}

// Load reads path over the defaults and validates the result
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults; unknown keys are rejected
func Parse(data []byte) (Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, errors.Wrap(err, "decode config")
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects values the loop or devices cannot use
func (s Settings) Validate() error {
	if s.FrameInterval < 0 {
		return errors.Errorf("frame_interval must not be negative, got %v", s.FrameInterval)
	}
	if s.MaxEventsPerTick < 0 {
		return errors.Errorf("max_events_per_tick must not be negative, got %d", s.MaxEventsPerTick)
	}
	switch s.Backend {
	case BackendANSI, BackendTcell:
	default:
		return errors.Errorf("unknown backend %q", s.Backend)
	}
	if _, err := terminal.ParseColorMode(s.ColorMode); err != nil {
		return err
	}
	if _, err := s.WindowColors(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(s.Log.Level); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

// WindowColors resolves the configured global colors
func (s Settings) WindowColors() (terminal.Colors, error) {
	fg, err := asset.ParseColor(s.Colors.Foreground)
	if err != nil {
		return terminal.Colors{}, errors.WithMessage(err, "colors.foreground")
	}
	bg, err := asset.ParseColor(s.Colors.Background)
	if err != nil {
		return terminal.Colors{}, errors.WithMessage(err, "colors.background")
	}

	c := terminal.Colors{Fg: fg.RGB, Bg: bg.RGB}
	if !fg.Valid {
		c.Attrs |= terminal.AttrFgDefault
	}
	if !bg.Valid {
		c.Attrs |= terminal.AttrBgDefault
	}
	return c, nil
}

// TerminalOptions builds device options
func (s Settings) TerminalOptions() (terminal.Options, error) {
	mode, err := terminal.ParseColorMode(s.ColorMode)
	if err != nil {
		return terminal.Options{}, err
	}
	colors, err := s.WindowColors()
	if err != nil {
		return terminal.Options{}, err
	}
	return terminal.Options{
		ColorMode: mode,
		Mouse:     s.Mouse,
		Focus:     s.Focus,
		Paste:     s.Paste,
		Title:     s.Title,
		Colors:    colors,

		KeyboardEnhancement: s.Keyboard,
	}, nil
}

// LogOptions builds logging options; an invalid level falls back to info
func (s Settings) LogOptions() logging.Options {
	level, err := zerolog.ParseLevel(s.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return logging.Options{
		Enabled: s.Log.Enabled,
		Dir:     s.Log.Dir,
		File:    s.Log.File,
		MaxSize: s.Log.MaxSize,
		Level:   level,
	}
}
