package runner

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/component"
	"github.com/lixenwraith/termsprite/config"
	"github.com/lixenwraith/termsprite/engine"
	"github.com/lixenwraith/termsprite/status"
	"github.com/lixenwraith/termsprite/terminal"
)

// spyTerm counts lifecycle calls on a real device
type spyTerm struct {
	terminal.Terminal
	inits, finis, aborts atomic.Int32
	initErr              error
}

func (s *spyTerm) Init() error {
	s.inits.Add(1)
	if s.initErr != nil {
		return s.initErr
	}
	return s.Terminal.Init()
}

func (s *spyTerm) Fini()  { s.finis.Add(1); s.Terminal.Fini() }
func (s *spyTerm) Abort() { s.aborts.Add(1); s.Terminal.Abort() }

type harness struct {
	sim    tcell.SimulationScreen
	term   *spyTerm
	world  *engine.World
	assets *asset.Store
	runner *Runner
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	h := &harness{
		sim:    sim,
		term:   &spyTerm{Terminal: terminal.NewTcellScreen(sim, terminal.Options{ColorMode: terminal.ColorModeTrueColor})},
		world:  engine.NewWorld(),
		assets: asset.NewStore(),
	}
	opts.Logger = zerolog.Nop()
	r, err := New(h.term, h.world, h.assets, opts)
	require.NoError(t, err)
	h.runner = r
	return h
}

func (h *harness) runeAt(x, y int) rune {
	mainc, _, _, _ := h.sim.GetContent(x, y) //nolint:staticcheck
	return mainc
}

func runCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRunRendersAndExitsOnRequest(t *testing.T) {
	h := newHarness(t, Options{})

	var seen rune
	err := h.runner.Run(runCtx(t), func(tick *Tick) error {
		switch tick.Frame {
		case 0:
			tick.World.Spawn(engine.Spec{
				Position: component.Position{X: 2, Y: 1},
				Sprite:   tick.Assets.AddSprite(asset.NewSprite("hi")),
			})
		case 1:
			// Frame 0 has been presented by now
			seen = h.runeAt(3, 1)
		case 2:
			tick.Exit()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 'i', seen)
	assert.Equal(t, int32(1), h.term.finis.Load())
	assert.Zero(t, h.term.aborts.Load())

	snap := h.runner.Registry().Snapshot()
	assert.Equal(t, int64(3), snap[status.MetricFrames], "the exiting tick still renders")
}

func TestRunExitsOnCtrlC(t *testing.T) {
	h := newHarness(t, Options{FrameInterval: time.Millisecond})
	h.sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	ctx := runCtx(t)
	var ticks int
	err := h.runner.Run(ctx, func(tick *Tick) error {
		ticks++
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, ctx.Err(), "loop should stop on the interrupt key, not the timeout")
	assert.Positive(t, ticks)
	assert.Equal(t, int32(1), h.term.finis.Load())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	h := newHarness(t, Options{FrameInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	err := h.runner.Run(ctx, func(tick *Tick) error {
		if tick.Frame == 3 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), h.term.finis.Load())
}

func TestRunUpdateErrorRestoresTerminal(t *testing.T) {
	h := newHarness(t, Options{})
	boom := errors.New("boom")

	err := h.runner.Run(runCtx(t), func(*Tick) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), h.term.finis.Load())
}

func TestRunPanicAbortsAndRepanics(t *testing.T) {
	h := newHarness(t, Options{})

	assert.PanicsWithValue(t, "host bug", func() {
		h.runner.Run(runCtx(t), func(*Tick) error { panic("host bug") })
	})
	assert.Equal(t, int32(1), h.term.aborts.Load())
	assert.Zero(t, h.term.finis.Load(), "panic path must keep the alternate screen")
}

func TestRunResizeReachesRenderer(t *testing.T) {
	h := newHarness(t, Options{})
	h.term.PostEvent(terminal.Event{Type: terminal.EventResize, Width: 30, Height: 7})

	deadline := time.Now().Add(2 * time.Second)
	err := h.runner.Run(runCtx(t), func(tick *Tick) error {
		if w, hh := tick.Renderer.Size(); w == 30 && hh == 7 {
			tick.Exit()
		} else if time.Now().After(deadline) {
			return errors.New("resize never arrived")
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNewInitFailureIsFatal(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	spy := &spyTerm{Terminal: terminal.NewTcellScreen(sim, terminal.Options{}), initErr: errors.New("no tty")}
	_, err := New(spy, engine.NewWorld(), asset.NewStore(), Options{Logger: zerolog.Nop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init terminal")
}

func TestHandleCrashAbortsAndExits(t *testing.T) {
	h := newHarness(t, Options{})
	var out bytes.Buffer
	var code int
	prevOut, prevExit := crashOut, crashExit
	crashOut, crashExit = &out, func(c int) { code = c }
	t.Cleanup(func() { crashOut, crashExit = prevOut, prevExit })

	h.runner.HandleCrash("worker died")
	assert.Equal(t, 1, code)
	assert.Equal(t, int32(1), h.term.aborts.Load())
	assert.Contains(t, out.String(), "CRASH DETECTED: worker died")
	h.runner.Close()
}

func TestOpenTerminalRejectsUnknownBackend(t *testing.T) {
	s := config.Default()
	s.Backend = "curses"
	_, err := OpenTerminal(s)
	assert.Error(t, err)

	_, err = NewFromSettings(s, engine.NewWorld(), asset.NewStore(), zerolog.Nop())
	assert.Error(t, err)
}
