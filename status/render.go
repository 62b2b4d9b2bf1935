package status

import (
	"sync/atomic"
	"time"
)

// Metric names written by the render pass
const (
	MetricFrames          = "render.frames"
	MetricEntitiesRedrawn = "render.entities_redrawn"
	MetricCellsWritten    = "render.cells_written"
	MetricFullRedraws     = "render.full_redraws"
	MetricLastFrameUs     = "render.last_frame_us"
	MetricAvgFrameUs      = "render.avg_frame_us"
	MetricEntities        = "scene.entities"
	MetricBackend         = "terminal.backend"
	MetricColorMode       = "terminal.color_mode"
	MetricFocused         = "terminal.focused"
	MetricKeyboard        = "terminal.keyboard_enhanced"
)

// avgWeight is the EWMA weight of the newest frame time
const avgWeight = 0.1

// RenderMetrics caches the render pass's metric pointers
type RenderMetrics struct {
	Frames          *atomic.Int64
	EntitiesRedrawn *atomic.Int64
	CellsWritten    *atomic.Int64
	FullRedraws     *atomic.Int64
	LastFrameUs     *atomic.Int64
	AvgFrameUs      *AtomicFloat
	Entities        *atomic.Int64
}

// NewRenderMetrics registers the render metrics in r
func NewRenderMetrics(r *Registry) *RenderMetrics {
	return &RenderMetrics{
		Frames:          r.Ints.Get(MetricFrames),
		EntitiesRedrawn: r.Ints.Get(MetricEntitiesRedrawn),
		CellsWritten:    r.Ints.Get(MetricCellsWritten),
		FullRedraws:     r.Ints.Get(MetricFullRedraws),
		LastFrameUs:     r.Ints.Get(MetricLastFrameUs),
		AvgFrameUs:      r.Floats.Get(MetricAvgFrameUs),
		Entities:        r.Ints.Get(MetricEntities),
	}
}

// Record accumulates one completed frame
func (m *RenderMetrics) Record(entities, redrawn, cells int, full bool, d time.Duration) {
	n := m.Frames.Add(1)
	m.EntitiesRedrawn.Add(int64(redrawn))
	m.CellsWritten.Add(int64(cells))
	if full {
		m.FullRedraws.Add(1)
	}
	m.Entities.Store(int64(entities))

	us := d.Microseconds()
	m.LastFrameUs.Store(us)
	m.AvgFrameUs.Update(func(prev float64) float64 {
		if n == 1 {
			return float64(us)
		}
		return prev + avgWeight*(float64(us)-prev)
	})
}
