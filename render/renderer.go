package render

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/termsprite/asset"
	"github.com/lixenwraith/termsprite/engine"
	"github.com/lixenwraith/termsprite/status"
	"github.com/lixenwraith/termsprite/terminal"
)

// Options configures a Renderer
type Options struct {
	Colors  terminal.Colors
	Logger  zerolog.Logger
	Metrics *status.RenderMetrics // nil disables metrics
}

// Stats describes one completed render pass
type Stats struct {
	Entities int
	Redrawn  int
	Vacated  int
	Cells    int
	Full     bool
	Duration time.Duration
}

// Renderer owns the render pass: damage, composition, terminal write and
// state commit. It is driven from the loop goroutine only
type Renderer struct {
	term   terminal.Terminal
	world  *engine.World
	assets *asset.Store
	log    zerolog.Logger
	stats  *status.RenderMetrics

	state      State
	damage     DamageEngine
	compositor *Compositor
	scene      Scene

	width  int
	height int
	colors terminal.Colors
	cursor terminal.Cursor

	views   []engine.EntityView
	items   []Item
	removed []engine.Entity
}

// NewRenderer creates a renderer sized to the terminal's current dimensions
func NewRenderer(term terminal.Terminal, world *engine.World, assets *asset.Store, opts Options) *Renderer {
	w, h := term.Size()
	return &Renderer{
		term:       term,
		world:      world,
		assets:     assets,
		log:        opts.Logger,
		stats:      opts.Metrics,
		state:      newState(),
		compositor: NewCompositor(w, h),
		width:      w,
		height:     h,
		colors:     opts.Colors,
		cursor:     terminal.Cursor{Hidden: true},
	}
}

// Resize updates the window dimensions used by the next frame
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = max(width, 0), max(height, 0)
}

// Size returns the tracked window dimensions
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// SetColors changes the global window colors; the next frame is a full redraw
func (r *Renderer) SetColors(c terminal.Colors) { r.colors = c }

// Colors returns the global window colors
func (r *Renderer) Colors() terminal.Colors { return r.colors }

// SetCursor sets the cursor applied at the end of each frame
func (r *Renderer) SetCursor(c terminal.Cursor) { r.cursor = c }

// State exposes render state for inspection; callers must not mutate it
func (r *Renderer) State() *State { return &r.state }

// Invalidate forces the next frame to clear and repaint everything
func (r *Renderer) Invalidate() { r.state.invalidate() }

// buildScene snapshots the world and resolves assets
func (r *Renderer) buildScene() *Scene {
	r.views = r.world.Snapshot(r.views[:0])
	// Removal is detected against Previous; the list only needs draining
	r.removed = r.world.DrainRemoved(r.removed[:0])

	r.items = r.items[:0]
	for _, v := range r.views {
		it := Item{View: v}
		sprite, ok := r.assets.Sprite(v.Sprite)
		if !ok {
			r.log.Debug().Uint64("entity", uint64(v.ID)).Msg("sprite handle unresolved, treated as zero area")
		} else {
			it.Sprite = sprite
			it.Rect = footprint(v, sprite)
		}
		style, ok := r.assets.Style(v.Style)
		if !ok {
			r.log.Debug().Uint64("entity", uint64(v.ID)).Msg("style handle unresolved, using window colors")
			style = asset.NewStyleMap()
		}
		it.Style = style
		r.items = append(r.items, it)
	}

	r.scene.Width, r.scene.Height, r.scene.Colors = r.width, r.height, r.colors
	r.scene.reset(r.items)
	return &r.scene
}

// Render runs one pass. State is only committed after the terminal accepted
// the frame; a failed pass is diffed again against the last committed frame
func (r *Renderer) Render() (Stats, error) {
	start := time.Now()

	scene := r.buildScene()
	dmg := r.damage.Compute(&r.state, scene)

	if dmg.Full {
		if err := r.term.Clear(scene.Colors); err != nil {
			return Stats{}, errors.Wrap(err, "clear window")
		}
	}

	writes := r.compositor.Compose(scene, dmg)
	if err := r.term.Draw(writes, r.cursor); err != nil {
		return Stats{}, errors.Wrap(err, "draw frame")
	}
	r.state.commit(scene)

	st := Stats{
		Entities: len(scene.Items),
		Redrawn:  len(dmg.Redraw),
		Vacated:  len(dmg.Vacated),
		Cells:    len(writes),
		Full:     dmg.Full,
		Duration: time.Since(start),
	}
	if r.stats != nil {
		r.stats.Record(st.Entities, st.Redrawn, st.Cells, st.Full, st.Duration)
	}
	if st.Redrawn > 0 || st.Vacated > 0 {
		r.log.Debug().
			Int("entities", st.Entities).
			Int("redrawn", st.Redrawn).
			Int("vacated", st.Vacated).
			Int("cells", st.Cells).
			Bool("full", st.Full).
			Dur("took", st.Duration).
			Msg("frame")
	}
	return st, nil
}
