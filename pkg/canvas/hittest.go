package canvas

import "github.com/linkscope/linkscope/pkg/geom"

// HitTester answers "which entity, if any, is at this data-space point". It
// uses the viewport's node radius, the same value the resolver renders with,
// so whatever looks clickable is clickable.
type HitTester struct {
	store *Store
	vp    *geom.Viewport
}

// NewHitTester wires a hit tester over the store and viewport.
func NewHitTester(store *Store, vp *geom.Viewport) *HitTester {
	return &HitTester{store: store, vp: vp}
}

// EntityAt returns the index of the entity containing p, or false when none
// does, when p lies outside the visible extent, or when the viewport is
// degenerate. Overlapping entities tie-break deterministically: the first by
// insertion order wins.
func (h *HitTester) EntityAt(p geom.Point) (int, bool) {
	if !h.vp.Valid() || !h.vp.ContainsData(p) {
		return -1, false
	}
	radius := h.vp.NodeRadius()
	r2 := radius * radius
	for i, pos := range h.store.Positions() {
		if pos.Dist2(p) <= r2 {
			return i, true
		}
	}
	return -1, false
}
