package render

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/component"
	"github.com/lixenwraith/termsprite/engine"
	"github.com/lixenwraith/termsprite/status"
	"github.com/lixenwraith/termsprite/terminal"
)

var errDrawFailed = errors.New("draw failed")

// fakeTerm keeps a model of what is on screen
type fakeTerm struct {
	width, height int
	screen        []terminal.Cell
	clears        int
	draws         int
	last          []terminal.CellWrite
	drawErr       error
}

func newFakeTerm(w, h int) *fakeTerm {
	return &fakeTerm{width: w, height: h, screen: make([]terminal.Cell, w*h)}
}

func (f *fakeTerm) Init() error                     { return nil }
func (f *fakeTerm) Fini()                           {}
func (f *fakeTerm) Abort()                          {}
func (f *fakeTerm) Size() (int, int)                { return f.width, f.height }
func (f *fakeTerm) ColorMode() terminal.ColorMode   { return terminal.ColorModeTrueColor }
func (f *fakeTerm) SetTitle(string)                 {}
func (f *fakeTerm) PostEvent(terminal.Event)        {}
func (f *fakeTerm) resize(w, h int)                 { f.width, f.height = w, h; f.screen = make([]terminal.Cell, w*h) }
func (f *fakeTerm) at(x, y int) terminal.Cell       { return f.screen[y*f.width+x] }
func (f *fakeTerm) DrainEvents(dst []terminal.Event, _ int) ([]terminal.Event, error) {
	return dst, nil
}

func (f *fakeTerm) Clear(c terminal.Colors) error {
	f.clears++
	for i := range f.screen {
		f.screen[i] = c.Blank()
	}
	return nil
}

func (f *fakeTerm) Draw(writes []terminal.CellWrite, _ terminal.Cursor) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	f.draws++
	f.last = append(f.last[:0], writes...)
	for _, w := range writes {
		f.screen[w.Y*f.width+w.X] = w.Cell
	}
	return nil
}

type fixture struct {
	t      *testing.T
	term   *fakeTerm
	world  *engine.World
	assets *asset.Store
	r      *Renderer
	reg    *status.Registry
}

func newFixture(t *testing.T, w, h int) *fixture {
	t.Helper()
	f := &fixture{
		t:      t,
		term:   newFakeTerm(w, h),
		world:  engine.NewWorld(),
		assets: asset.NewStore(),
		reg:    status.NewRegistry(),
	}
	f.r = NewRenderer(f.term, f.world, f.assets, Options{
		Colors:  terminal.NewColors(terminal.RGBWhite, terminal.RGBBlack),
		Logger:  zerolog.Nop(),
		Metrics: status.NewRenderMetrics(f.reg),
	})
	return f
}

func (f *fixture) spawn(text string, x, y, z int, vis component.Visibility) engine.Entity {
	return f.spawnStyled(text, x, y, z, vis, asset.StyleHandle{})
}

func (f *fixture) spawnStyled(text string, x, y, z int, vis component.Visibility, style asset.StyleHandle) engine.Entity {
	return f.world.Spawn(engine.Spec{
		Position:   component.Position{X: x, Y: y, Z: z},
		Sprite:     f.assets.AddSprite(asset.NewSprite(text)),
		Style:      style,
		Visibility: vis,
	})
}

func (f *fixture) render() Stats {
	f.t.Helper()
	st, err := f.r.Render()
	if err != nil {
		f.t.Fatalf("Render: %v", err)
	}
	return st
}

func (f *fixture) redrawn(e engine.Entity) bool {
	return f.r.State().Redraw.Has(e)
}
