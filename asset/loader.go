package asset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/termsprite/terminal"
)

var (
	ErrInvalidUTF8          = errors.New("invalid UTF-8 text")
	ErrUnknownColor         = errors.New("unknown color")
	ErrUnknownAttribute     = errors.New("unknown attribute")
	ErrUnsupportedExtension = errors.New("unsupported asset extension")
)

// Kind identifies the asset type a file decodes into
type Kind uint8

const (
	KindSprite Kind = iota + 1
	KindStyleMap
)

func (k Kind) String() string {
	switch k {
	case KindSprite:
		return "sprite"
	case KindStyleMap:
		return "stylemap"
	}
	return "unknown"
}

// LoadError reports a failed asset decode
type LoadError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// KindForPath maps a file extension to an asset kind
func KindForPath(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return KindSprite, true
	case ".stylemap", ".yaml", ".yml":
		return KindStyleMap, true
	}
	return 0, false
}

// DecodeSprite validates UTF-8 and builds a sprite; a single trailing newline
// ends the last row rather than adding an empty one
func DecodeSprite(data []byte) (Sprite, error) {
	if !utf8.Valid(data) {
		return Sprite{}, errors.WithStack(ErrInvalidUTF8)
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	return NewSprite(string(data)), nil
}

type styleDocument struct {
	Foreground string         `yaml:"foreground"`
	Background string         `yaml:"background"`
	Attributes []string       `yaml:"attributes"`
	Cells      []cellDocument `yaml:"cells"`
}

type cellDocument struct {
	X          int      `yaml:"x"`
	Y          int      `yaml:"y"`
	Foreground string   `yaml:"foreground"`
	Background string   `yaml:"background"`
	Attributes []string `yaml:"attributes"`
}

// DecodeStyleMap parses a YAML style document
func DecodeStyleMap(data []byte) (StyleMap, error) {
	var doc styleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return StyleMap{}, errors.Wrap(err, "parse style document")
	}

	var m StyleMap
	var err error
	if m.Default, err = decodeStyle(doc.Foreground, doc.Background, doc.Attributes); err != nil {
		return StyleMap{}, errors.WithMessage(err, "default style")
	}
	for i, c := range doc.Cells {
		if c.X < 0 || c.Y < 0 {
			return StyleMap{}, errors.Errorf("cell %d: negative offset (%d,%d)", i, c.X, c.Y)
		}
		s, err := decodeStyle(c.Foreground, c.Background, c.Attributes)
		if err != nil {
			return StyleMap{}, errors.WithMessagef(err, "cell %d", i)
		}
		m.Set(Offset{X: c.X, Y: c.Y}, s)
	}
	return m, nil
}

func decodeStyle(fg, bg string, attrs []string) (Style, error) {
	var s Style
	var err error
	if s.Fg, err = ParseColor(fg); err != nil {
		return Style{}, errors.WithMessage(err, "foreground")
	}
	if s.Bg, err = ParseColor(bg); err != nil {
		return Style{}, errors.WithMessage(err, "background")
	}
	if s.Attrs, err = ParseAttributes(attrs); err != nil {
		return Style{}, err
	}
	return s, nil
}

// ParseColor accepts "#rrggbb", a tcell color name, or "" / "inherit" for unset
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "inherit" {
		return Color{}, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, errors.Wrapf(ErrUnknownColor, "%q", s)
		}
		r, g, b := c.RGB255()
		return RGB(r, g, b), nil
	}
	tc, ok := tcell.ColorNames[s]
	if !ok {
		return Color{}, errors.Wrapf(ErrUnknownColor, "%q", s)
	}
	return ColorOf(terminal.RGBFromTcell(tc)), nil
}

var attributeNames = map[string]terminal.Attr{
	"bold":          terminal.AttrBold,
	"dim":           terminal.AttrDim,
	"italic":        terminal.AttrItalic,
	"underline":     terminal.AttrUnderline,
	"blink":         terminal.AttrBlink,
	"reverse":       terminal.AttrReverse,
	"strike":        terminal.AttrStrike,
	"strikethrough": terminal.AttrStrike,
}

// ParseAttributes maps attribute names to an Attr set
func ParseAttributes(names []string) (terminal.Attr, error) {
	var a terminal.Attr
	for _, n := range names {
		v, ok := attributeNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, errors.Wrapf(ErrUnknownAttribute, "%q", n)
		}
		a |= v
	}
	return a, nil
}

func readAsset(path string, kind Kind) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: kind, Err: errors.WithStack(err)}
	}
	return data, nil
}
