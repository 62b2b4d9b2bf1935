// Package runner drives the single-threaded tick loop: drain input,
// translate, host update, render, pace. The terminal is restored on every
// exit path.
package runner

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/engine"
	"github.com/lixenwraith/termsprite/event"
	"github.com/lixenwraith/termsprite/render"
	"github.com/lixenwraith/termsprite/status"
	"github.com/lixenwraith/termsprite/terminal"
)

// shutdownSignals end the loop like a cancelled context, so teardown runs
// instead of the default handler killing the process in raw mode
var shutdownSignals = []os.Signal{syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}

// Options configures a Runner
type Options struct {
	FrameInterval    time.Duration // 0 runs ticks back to back
	MaxEventsPerTick int           // 0 drains everything buffered
	Colors           terminal.Colors
	Backend          string // reported in metrics only
	Logger           zerolog.Logger
	Registry         *status.Registry // nil creates one
}

// Tick is handed to the host update once per loop iteration
type Tick struct {
	Frame    uint64
	Delta    time.Duration // since the previous tick started
	Input    *event.Batch
	World    *engine.World
	Assets   *asset.Store
	Renderer *render.Renderer

	exit bool
}

// Exit requests shutdown after this tick renders
func (t *Tick) Exit() { t.exit = true }

// UpdateFunc is the host's per-tick scene mutation
type UpdateFunc func(*Tick) error

// Runner owns the terminal for its lifetime
type Runner struct {
	term       terminal.Terminal
	world      *engine.World
	assets     *asset.Store
	renderer   *render.Renderer
	translator *event.Translator
	log        zerolog.Logger
	reg        *status.Registry
	opts       Options

	focused *atomic.Bool
	events  []terminal.Event
	frame   uint64
}

// New initializes the terminal; failure is fatal and nothing is left enabled
func New(term terminal.Terminal, world *engine.World, assets *asset.Store, opts Options) (*Runner, error) {
	if err := term.Init(); err != nil {
		return nil, errors.Wrap(err, "init terminal")
	}

	reg := opts.Registry
	if reg == nil {
		reg = status.NewRegistry()
	}
	reg.Strings.Get(status.MetricBackend).Store(opts.Backend)
	reg.Strings.Get(status.MetricColorMode).Store(term.ColorMode().String())
	if kr, ok := term.(terminal.KeyboardReporter); ok {
		reg.Bools.Get(status.MetricKeyboard).Store(kr.KeyboardEnhanced())
	}
	focused := reg.Bools.Get(status.MetricFocused)
	focused.Store(true)

	w, h := term.Size()
	r := &Runner{
		term:   term,
		world:  world,
		assets: assets,
		renderer: render.NewRenderer(term, world, assets, render.Options{
			Colors:  opts.Colors,
			Logger:  opts.Logger,
			Metrics: status.NewRenderMetrics(reg),
		}),
		translator: event.NewTranslator(w, h),
		log:        opts.Logger,
		reg:        reg,
		opts:       opts,
		focused:    focused,
	}
	r.log.Info().Int("width", w).Int("height", h).Str("color_mode", term.ColorMode().String()).Msg("terminal initialized")
	return r, nil
}

// Renderer returns the render pass, for colors and cursor setup before Run
func (r *Runner) Renderer() *render.Renderer { return r.renderer }

// Registry returns the metrics registry
func (r *Runner) Registry() *status.Registry { return r.reg }

// Close restores the terminal for a Runner that never ran
func (r *Runner) Close() { r.term.Fini() }

// Run loops until the host or the interrupt key requests exit, ctx is
// cancelled, a shutdown signal arrives, or an error occurs. Exit requests take effect after the
// in-flight tick has rendered. A panic aborts the terminal, keeping the
// alternate screen, and is re-raised
func (r *Runner) Run(parent context.Context, update UpdateFunc) (err error) {
	// Registered first so the handler outlives teardown
	ctx, stopSignals := signal.NotifyContext(parent, shutdownSignals...)
	defer stopSignals()

	defer func() {
		if p := recover(); p != nil {
			r.term.Abort()
			r.log.Error().Interface("panic", p).Uint64("frame", r.frame).Msg("tick panicked")
			panic(p)
		}
		r.term.Fini()
		r.log.Info().Uint64("frames", r.frame).Fields(r.reg.Snapshot()).Msg("terminal restored")
	}()

	var timer *time.Timer
	if r.opts.FrameInterval > 0 {
		timer = time.NewTimer(r.opts.FrameInterval)
		defer timer.Stop()
	}

	last := time.Now()
	for {
		if ctx.Err() != nil {
			r.logStop(parent)
			return nil
		}

		start := time.Now()
		exit, err := r.tick(update, start.Sub(last))
		if err != nil {
			return err
		}
		last = start
		if exit {
			return nil
		}

		if timer == nil {
			continue
		}
		wait := r.opts.FrameInterval - time.Since(start)
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			r.logStop(parent)
			return nil
		case <-timer.C:
		}
	}
}

// logStop records why the loop context ended
func (r *Runner) logStop(parent context.Context) {
	if parent.Err() != nil {
		r.log.Info().Err(parent.Err()).Msg("context done, exiting")
		return
	}
	r.log.Info().Msg("shutdown signal, exiting")
}

// tick runs one iteration and reports whether exit was requested
func (r *Runner) tick(update UpdateFunc, delta time.Duration) (bool, error) {
	var err error
	r.events, err = r.term.DrainEvents(r.events[:0], r.opts.MaxEventsPerTick)
	if err != nil {
		return false, errors.Wrap(err, "drain input")
	}

	batch := r.translator.Translate(r.events)
	if batch.Resized {
		r.renderer.Resize(batch.Width, batch.Height)
		r.log.Debug().Int("width", batch.Width).Int("height", batch.Height).Msg("window resized")
	}
	r.focused.Store(r.translator.Focused())

	t := Tick{
		Frame:    r.frame,
		Delta:    delta,
		Input:    batch,
		World:    r.world,
		Assets:   r.assets,
		Renderer: r.renderer,
	}
	if update != nil {
		if err := update(&t); err != nil {
			return false, errors.Wrap(err, "update")
		}
	}

	if _, err := r.renderer.Render(); err != nil {
		return false, errors.Wrap(err, "render")
	}
	r.frame++

	if batch.Exit {
		r.log.Info().Msg("interrupt key, exiting")
	}
	return batch.Exit || t.exit, nil
}
