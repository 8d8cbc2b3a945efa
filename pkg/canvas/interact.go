package canvas

import "github.com/linkscope/linkscope/pkg/geom"

// State is the pointer interaction state. Hover is tracked orthogonally and
// exists in every state.
type State int

const (
	StateIdle State = iota
	StatePanning
	StateDragging
)

func (s State) String() string {
	switch s {
	case StatePanning:
		return "panning"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Press handles a primary-button press at a device-pixel position. Hitting an
// entity starts a drag and marks it selected; hitting empty space starts a
// pan, capturing the pixel anchor and a viewport snapshot.
func (c *Canvas) Press(px geom.Point) {
	if !c.store.Loaded() || !c.vp.Valid() || !c.vp.ContainsDevice(px) {
		return
	}
	if id, ok := c.hit.EntityAt(c.vp.DeviceToData(px)); ok {
		c.state = StateDragging
		c.dragged = id
		c.resolver.Selected = id
		c.resolver.ResolveOne(id)
		return
	}
	c.state = StatePanning
	c.panStart = px
	c.panSnap = c.vp.Snapshot()
}

// Move handles pointer motion. Motion outside the drawable area clears the
// hover mark and is otherwise ignored; an in-flight drag or pan resumes when
// the pointer re-enters, and only a release ends it (pointer capture
// semantics).
func (c *Canvas) Move(px geom.Point) {
	if !c.store.Loaded() || !c.vp.Valid() {
		return
	}
	if !c.vp.ContainsDevice(px) {
		c.setHovered(-1)
		return
	}

	if c.state == StatePanning {
		// Re-apply the full delta to the press-time snapshot; accumulating
		// per-event deltas would compound rounding error.
		delta := px.Sub(c.panStart)
		c.vp.Restore(c.panSnap)
		c.vp.PanBy(delta)
		c.surf.RequestRedraw()
		return
	}

	data := c.vp.DeviceToData(px)
	if id, ok := c.hit.EntityAt(data); ok {
		c.setHovered(id)
	} else {
		c.setHovered(-1)
	}

	if c.state == StateDragging && c.dragged >= 0 {
		if err := c.store.SetPosition(c.dragged, data); err != nil {
			return
		}
		c.resolver.ResolveOne(c.dragged)
	}
}

// Release ends a drag or pan: clears selection and the pan anchor, and runs
// one final partial resolve so the released entity settles without its
// highlight.
func (c *Canvas) Release() {
	prev := c.dragged
	c.state = StateIdle
	c.dragged = -1
	c.resolver.Selected = -1
	c.panSnap = geom.Viewport{}
	if prev >= 0 {
		c.resolver.ResolveOne(prev)
		return
	}
	c.surf.RequestRedraw()
}

// PointerLeave clears the hover mark when the pointer leaves the drawable
// area. Drag and pan are unaffected; they end only on release.
func (c *Canvas) PointerLeave() {
	c.setHovered(-1)
}

// Scroll zooms at the cursor (or at the view center when the cursor has no
// valid data coordinate) and re-resolves the whole scene, since the pixel-
// constant node radius changed globally. Ignored while panning; no state
// transition happens.
func (c *Canvas) Scroll(px geom.Point, zoomIn bool) {
	if !c.store.Loaded() || c.state == StatePanning {
		return
	}
	factor := geom.WheelZoomOut
	if zoomIn {
		factor = geom.WheelZoomIn
	}
	anchor := c.vp.Center()
	if c.vp.Valid() && c.vp.ContainsDevice(px) {
		anchor = c.vp.DeviceToData(px)
	}
	c.vp.ZoomAtPoint(anchor, factor)
	c.resolver.ResolveAll()
}

// State returns the current interaction state.
func (c *Canvas) State() State { return c.state }

// Hovered returns the hovered entity index, or -1.
func (c *Canvas) Hovered() int { return c.hovered }

// Dragged returns the entity being dragged, or -1.
func (c *Canvas) Dragged() int { return c.dragged }

// setHovered updates the hover mark and re-renders only the two shapes whose
// highlight changed; no position is touched.
func (c *Canvas) setHovered(id int) {
	if id == c.hovered {
		return
	}
	old := c.hovered
	c.hovered = id
	c.resolver.Hovered = id
	if old >= 0 {
		c.resolver.ResolveMark(old)
	}
	if id >= 0 {
		c.resolver.ResolveMark(id)
	}
	c.surf.RequestRedraw()
}
