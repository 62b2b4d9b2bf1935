package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termsprite/terminal"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const boxStyle = `
foreground: white
background: "#1a1b26"
attributes: [bold]
cells:
  - {x: 0, y: 0, foreground: red, attributes: [underline]}
  - {x: 2, y: 1, background: "#00ff00"}
`

func TestDecodeStyleMap(t *testing.T) {
	m, err := DecodeStyleMap([]byte(boxStyle))
	require.NoError(t, err)

	assert.Equal(t, RGB(255, 255, 255), m.Default.Fg)
	assert.Equal(t, RGB(0x1a, 0x1b, 0x26), m.Default.Bg)
	assert.Equal(t, terminal.AttrBold, m.Default.Attrs)
	assert.Equal(t, 2, m.Len())

	o, ok := m.Override(Offset{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, RGB(255, 0, 0), o.Fg)
	assert.False(t, o.Bg.Valid)
	assert.Equal(t, terminal.AttrUnderline, o.Attrs)

	c := m.Resolve(2, 1, terminal.TermColors())
	assert.Equal(t, terminal.RGB{G: 255}, c.Bg)
	assert.Equal(t, terminal.RGBWhite, c.Fg)
}

func TestDecodeStyleMapErrors(t *testing.T) {
	_, err := DecodeStyleMap([]byte("foreground: notacolor"))
	assert.True(t, errors.Is(err, ErrUnknownColor), "got %v", err)

	_, err = DecodeStyleMap([]byte("cells:\n  - {x: 0, y: 0, attributes: [sparkle]}"))
	assert.True(t, errors.Is(err, ErrUnknownAttribute), "got %v", err)

	_, err = DecodeStyleMap([]byte("background: \"#zzzzzz\""))
	assert.True(t, errors.Is(err, ErrUnknownColor), "got %v", err)

	_, err = DecodeStyleMap([]byte("cells: [oops"))
	assert.Error(t, err)
}

func TestParseColorInherit(t *testing.T) {
	for _, s := range []string{"", "inherit", "  "} {
		c, err := ParseColor(s)
		require.NoError(t, err)
		assert.False(t, c.Valid, "%q should be unset", s)
	}
}

func TestDecodeSprite(t *testing.T) {
	s, err := DecodeSprite([]byte("ab\ncd\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Height(), "trailing newline ends the last row")

	_, err = DecodeSprite([]byte{0xff, 0xfe})
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
}

func TestStoreLoadFile(t *testing.T) {
	store := NewStore()

	spritePath := writeFile(t, "ship.txt", " /\\\n/__\\\n")
	loaded, err := store.LoadFile(spritePath)
	require.NoError(t, err)
	assert.Equal(t, KindSprite, loaded.Kind)
	sp, ok := store.Sprite(loaded.Sprite)
	require.True(t, ok)
	assert.Equal(t, 4, sp.Width())

	stylePath := writeFile(t, "ship.stylemap", boxStyle)
	loaded, err = store.LoadFile(stylePath)
	require.NoError(t, err)
	assert.Equal(t, KindStyleMap, loaded.Kind)
	_, ok = store.Style(loaded.Style)
	assert.True(t, ok)

	sprites, styles := store.Counts()
	assert.Equal(t, 1, sprites)
	assert.Equal(t, 1, styles)
}

func TestStoreLoadErrorsAreTyped(t *testing.T) {
	store := NewStore()

	_, err := store.LoadFile("ship.png")
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, ErrUnsupportedExtension))

	bad := writeFile(t, "bad.txt", "\xff")
	_, err = store.LoadFile(bad)
	require.True(t, errors.As(err, &le))
	assert.Equal(t, bad, le.Path)
	assert.Equal(t, KindSprite, le.Kind)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))

	badStyle := writeFile(t, "bad.yaml", "foreground: chartreuse-ish")
	_, err = store.LoadFile(badStyle)
	require.True(t, errors.As(err, &le))
	assert.Equal(t, KindStyleMap, le.Kind)

	_, err = store.LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStoreZeroStyleHandleIsDefault(t *testing.T) {
	store := NewStore()
	m, ok := store.Style(StyleHandle{})
	require.True(t, ok)
	assert.Equal(t, 0, m.Len())
}
