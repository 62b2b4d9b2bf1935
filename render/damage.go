package render

import (
	"slices"

	"github.com/lixenwraith/termsprite/engine"
)

// Damage is the output of one damage pass
type Damage struct {
	Redraw  []engine.Entity // paint order: ascending z, then id
	Vacated []Rect          // rects of entities removed since the last frame
	Full    bool            // whole window must be cleared and repainted

	regions []Region
}

// DamageEngine computes the entities a frame must repaint. The worklist and
// scratch storage are reused across frames
type DamageEngine struct {
	queue   []Region
	regions []Region
	gone    []engine.Entity
}

// regionOf is where an entity was and is
func regionOf(st *State, it *Item) Region {
	g := Region{New: it.Rect}
	if prev, ok := st.Previous[it.View.ID]; ok {
		g.Old = prev.Rect
	}
	return g
}

// changed reports whether the entity must repaint on its own account
func changed(st *State, it *Item) bool {
	prev, ok := st.Previous[it.View.ID]
	if !ok {
		return true
	}
	// Geometry can change behind an unchanged handle when an asset is replaced or removed
	return it.View.Versions.Max() > prev.Version || prev.Rect != it.Rect
}

// Compute resets st.Redraw and fills it with the transitive closure of
// entities overlapping a changed footprint
func (d *DamageEngine) Compute(st *State, scene *Scene) Damage {
	st.Redraw.Reset()
	d.queue = d.queue[:0]
	d.regions = d.regions[:0]

	if st.NeedsFull(scene.Width, scene.Height, scene.Colors) {
		for i := range scene.Items {
			it := &scene.Items[i]
			if it.Rect.Empty() {
				continue
			}
			st.Redraw.Add(it.View.ID)
		}
		return Damage{Redraw: st.Redraw.Sorted(scene), Full: true}
	}

	var dmg Damage

	// Seeds: changed or newly spawned entities
	for i := range scene.Items {
		it := &scene.Items[i]
		if !changed(st, it) {
			continue
		}
		g := regionOf(st, it)
		if g.Empty() {
			continue
		}
		st.Redraw.Add(it.View.ID)
		d.queue = append(d.queue, g)
		d.regions = append(d.regions, g)
	}

	// Seeds: removed entities contribute only their vacated rect
	d.gone = d.gone[:0]
	for id, prev := range st.Previous {
		if _, ok := scene.index[id]; !ok && !prev.Rect.Empty() {
			d.gone = append(d.gone, id)
		}
	}
	slices.Sort(d.gone)
	for _, id := range d.gone {
		r := st.Previous[id].Rect
		dmg.Vacated = append(dmg.Vacated, r)
		g := Region{Old: r}
		d.queue = append(d.queue, g)
		d.regions = append(d.regions, g)
	}

	// Expand to a fixed point through a FIFO worklist
	for head := 0; head < len(d.queue); head++ {
		g := d.queue[head]
		for i := range scene.Items {
			it := &scene.Items[i]
			if it.Rect.Empty() || st.Redraw.Has(it.View.ID) || !g.Intersects(it.Rect) {
				continue
			}
			st.Redraw.Add(it.View.ID)
			ng := regionOf(st, it)
			d.queue = append(d.queue, ng)
			d.regions = append(d.regions, ng)
		}
	}

	dmg.Redraw = st.Redraw.Sorted(scene)
	dmg.regions = d.regions
	return dmg
}
