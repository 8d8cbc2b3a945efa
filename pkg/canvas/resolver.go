package canvas

import (
	"math"

	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/model"
)

const (
	// DefaultNodeSize is the data-space footprint of a meta-graph entity:
	// bare nodes are circles of half this diameter, self-loops are
	// lemniscates of width DefaultNodeSize*0.7.
	DefaultNodeSize = 0.15

	// loopSamples is the number of polyline samples of a self-loop curve.
	loopSamples = 100

	// loopArrowSample is where the direction marker sits on the loop,
	// counted from the end of the sample array.
	loopArrowSample = 20
)

// Resolver maps entities and their load-time classification to drawable
// shapes, and computes connection points: the exact point where an incident
// arrow terminates, which is not always the entity's raw position.
//
// It is a pure function of the store, the viewport and the hover/selection
// marks; all mutation flows out through the Surface.
type Resolver struct {
	store *Store
	vp    *geom.Viewport
	surf  Surface

	// NodeSize is the meta-graph entity footprint in data units.
	NodeSize float64

	// Hovered and Selected mark entities that render highlighted; -1 means
	// none.
	Hovered, Selected int
}

// NewResolver wires a resolver over the given store, viewport and surface.
func NewResolver(store *Store, vp *geom.Viewport, surf Surface) *Resolver {
	return &Resolver{
		store:    store,
		vp:       vp,
		surf:     surf,
		NodeSize: DefaultNodeSize,
		Hovered:  -1,
		Selected: -1,
	}
}

// ResolveAll rebuilds the full scene: every entity and, for the plain graph,
// every edge. Used on load, relayout, viewport reset and zoom (the pixel-
// constant node radius changes globally with the zoom level).
func (r *Resolver) ResolveAll() {
	g := r.store.Graph()
	if g == nil {
		return
	}
	r.surf.Clear()
	if g.Kind() == model.Plain {
		for _, e := range g.Edges() {
			r.surf.Upsert(EdgeKey(e), r.edgeShape(e))
		}
	}
	for i := 0; i < g.Len(); i++ {
		r.surf.Upsert(EntityKey(i), r.entityShape(i))
	}
	r.surf.RequestRedraw()
}

// ResolveOne recomputes the shape of one entity plus everything whose
// geometry depends on it: its incident edges, the links whose arrows
// terminate on it, and, one hop further, links whose connection point is
// the midpoint of such a referencing link's arrow. That last hop is the one
// place a naive touch-only-direct-neighbors rule would leave stale shapes.
func (r *Resolver) ResolveOne(i int) {
	g := r.store.Graph()
	if g == nil || i < 0 || i >= g.Len() {
		return
	}

	if g.Kind() == model.Plain {
		r.surf.Upsert(EntityKey(i), r.entityShape(i))
		for _, e := range r.store.Neighbors(i) {
			r.surf.Upsert(EdgeKey(e), r.edgeShape(e))
		}
		r.surf.RequestRedraw()
		return
	}

	for idx := range r.affectedBy(i) {
		r.surf.Upsert(EntityKey(idx), r.entityShape(idx))
	}
	r.surf.RequestRedraw()
}

// ResolveMark re-renders a single entity's own shape, used when only its
// highlight state changed. Positions and dependents are untouched.
func (r *Resolver) ResolveMark(i int) {
	g := r.store.Graph()
	if g == nil || i < 0 || i >= g.Len() {
		return
	}
	r.surf.Upsert(EntityKey(i), r.entityShape(i))
}

// affectedBy returns the set of meta-graph entities whose rendered geometry
// depends on entity i's position: i itself, every link referencing i, and
// every link referencing one of those when it is a regular link (its arrow
// midpoint moved with i).
func (r *Resolver) affectedBy(i int) map[int]struct{} {
	g := r.store.Graph()
	affected := map[int]struct{}{i: {}}

	first := r.referencing(i)
	for _, b := range first {
		affected[b] = struct{}{}
	}
	for _, b := range first {
		if g.Entity(b).Link.Kind != model.Regular {
			continue
		}
		for _, c := range r.referencing(b) {
			affected[c] = struct{}{}
		}
	}
	return affected
}

// referencing returns the entities whose from/to fields name entity i.
func (r *Resolver) referencing(i int) []int {
	g := r.store.Graph()
	id := g.Entity(i).Link.ID
	var out []int
	for _, e := range r.store.Neighbors(i) {
		other := e.From
		if other == i {
			other = e.To
		}
		if other == i {
			continue
		}
		l := g.Entity(other).Link
		if (l.From != nil && *l.From == id) || (l.To != nil && *l.To == id) {
			out = append(out, other)
		}
	}
	return out
}

// entityShape builds the drawable shape for one entity.
func (r *Resolver) entityShape(i int) Shape {
	g := r.store.Graph()
	ent := g.Entity(i)
	pos := r.store.Position(i)
	hov := i == r.Hovered
	sel := i == r.Selected

	if g.Kind() == model.Plain {
		return Shape{
			Kind:      ShapeCircle,
			Center:    pos,
			Radius:    r.vp.NodeRadius(),
			Label:     ent.Label,
			Highlight: hov,
			Selected:  sel,
		}
	}

	switch ent.Link.Kind {
	case model.SelfLoop:
		return r.loopShape(i, pos, hov, sel)
	case model.Regular:
		return Shape{
			Kind:      ShapeArrow,
			Center:    pos,
			From:      r.arrowEndpoint(*ent.Link.From, pos),
			To:        r.arrowEndpoint(*ent.Link.To, pos),
			Label:     ent.Label,
			Highlight: hov,
			Selected:  sel,
		}
	default: // bare node
		return Shape{
			Kind:      ShapeCircle,
			Center:    pos,
			Radius:    r.NodeSize / 2,
			Label:     ent.Label,
			Highlight: hov,
			Selected:  sel,
		}
	}
}

// edgeShape builds a plain-graph arrow. Endpoints are the nodes' raw
// positions: plain nodes have no connection-point indirection.
func (r *Resolver) edgeShape(e model.Edge) Shape {
	return Shape{
		Kind: ShapeArrow,
		From: r.store.Position(e.From),
		To:   r.store.Position(e.To),
	}
}

// loopShape samples the closed lemniscate of a self-loop around its position,
// with width a = NodeSize*0.7, and places a short direction marker near the
// end of the sample run.
func (r *Resolver) loopShape(i int, pos geom.Point, hov, sel bool) Shape {
	a := r.NodeSize * 0.7
	pts := make([]geom.Point, loopSamples)
	for s := 0; s < loopSamples; s++ {
		t := 2 * math.Pi * float64(s) / loopSamples
		sin, cos := math.Sin(t), math.Cos(t)
		den := 1 + cos*cos
		pts[s] = geom.Point{
			X: pos.X + a*sin/den,
			Y: pos.Y + a*sin*cos/den,
		}
	}
	m := loopSamples - loopArrowSample
	return Shape{
		Kind:      ShapeLoop,
		Center:    pos,
		Radius:    a,
		Loop:      pts,
		From:      pts[m],
		To:        pts[m+1],
		Label:     r.store.Graph().Entity(i).Label,
		SelfLink:  true,
		Highlight: hov,
		Selected:  sel,
	}
}

// arrowEndpoint computes where an arrow referencing link id ref terminates.
// selfPos is the referencing link's own position, used to pick the side of a
// self-loop target. An id that names no loaded link terminates at the origin,
// matching how absent references have always rendered.
func (r *Resolver) arrowEndpoint(ref int, selfPos geom.Point) geom.Point {
	g := r.store.Graph()
	ti, ok := g.LinkIndex(ref)
	if !ok {
		return geom.Point{}
	}
	target := g.Entity(ti).Link
	pos := r.store.Position(ti)

	switch target.Kind {
	case model.Regular:
		// Terminate at the midpoint of the referenced link's own arrow,
		// computed from its endpoints' raw positions: one level deep, no
		// further recursion.
		return geom.Mid(r.refPosition(target.From), r.refPosition(target.To))
	case model.SelfLoop:
		return r.loopConnection(pos, selfPos)
	default:
		return pos
	}
}

// refPosition resolves an optional link reference to a raw position; absent
// references and unknown ids sit at the origin.
func (r *Resolver) refPosition(ref *int) geom.Point {
	if ref == nil {
		return geom.Point{}
	}
	if i, ok := r.store.Graph().LinkIndex(*ref); ok {
		return r.store.Position(i)
	}
	return geom.Point{}
}

// loopConnection projects the external point's direction onto the loop's
// connection radius (loopSize*0.7), so arrows meet the curve instead of
// crossing through it. Coincident points substitute a fixed displacement
// rather than dividing by zero.
func (r *Resolver) loopConnection(loopPos, external geom.Point) geom.Point {
	d := external.Sub(loopPos)
	if d.X == 0 && d.Y == 0 {
		d = geom.Point{X: r.NodeSize * 0.5, Y: 0}
	}
	angle := math.Atan2(d.Y, d.X)
	radius := r.NodeSize * 0.7 * 0.7
	return geom.Point{
		X: loopPos.X + radius*math.Cos(angle),
		Y: loopPos.Y + radius*math.Sin(angle),
	}
}
