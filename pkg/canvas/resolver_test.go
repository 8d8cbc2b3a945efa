package canvas

import (
	"math"
	"strings"
	"testing"

	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/loader"
)

// recordingSurface captures surface mutations for assertions.
type recordingSurface struct {
	shapes  map[ShapeKey]Shape
	upserts []ShapeKey
	clears  int
	redraws int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{shapes: make(map[ShapeKey]Shape)}
}

func (s *recordingSurface) Upsert(k ShapeKey, shape Shape) {
	s.shapes[k] = shape
	s.upserts = append(s.upserts, k)
}

func (s *recordingSurface) Remove(k ShapeKey) { delete(s.shapes, k) }

func (s *recordingSurface) Clear() {
	s.shapes = make(map[ShapeKey]Shape)
	s.clears++
}

func (s *recordingSurface) RequestRedraw() { s.redraws++ }

func (s *recordingSurface) reset() {
	s.upserts = nil
}

func loadMeta(t *testing.T, src string) (*Store, *geom.Viewport, *recordingSurface, *Resolver) {
	t.Helper()
	g, err := loader.ReadMeta(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store := NewStore()
	store.Load(g)
	vp := geom.NewViewport(800, 600, 1)
	surf := newRecordingSurface()
	return store, vp, surf, NewResolver(store, vp, surf)
}

func TestResolveAllPlain(t *testing.T) {
	g, err := loader.ReadPlain(strings.NewReader("from,to\na,b\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store := NewStore()
	store.Load(g)
	store.SetPosition(0, geom.Point{X: -1, Y: 0})
	store.SetPosition(1, geom.Point{X: 1, Y: 0})
	vp := geom.NewViewport(800, 600, 1)
	vp.AutoFit(store.Positions())
	surf := newRecordingSurface()
	r := NewResolver(store, vp, surf)

	r.ResolveAll()

	if surf.clears != 1 || surf.redraws != 1 {
		t.Errorf("clears=%d redraws=%d, want 1 and 1", surf.clears, surf.redraws)
	}
	edge, ok := surf.shapes[ShapeKey{A: 0, B: 1, Edge: true}]
	if !ok {
		t.Fatal("edge shape missing")
	}
	if edge.Kind != ShapeArrow || edge.From != (geom.Point{X: -1}) || edge.To != (geom.Point{X: 1}) {
		t.Errorf("edge = %+v, want arrow from raw positions", edge)
	}
	node := surf.shapes[EntityKey(0)]
	if node.Kind != ShapeCircle {
		t.Errorf("node kind = %v, want circle", node.Kind)
	}
	if math.Abs(node.Radius-vp.NodeRadius()) > 1e-12 {
		t.Errorf("node radius = %v, want viewport radius %v", node.Radius, vp.NodeRadius())
	}
}

func TestSelfEdgeKeepsNodeShape(t *testing.T) {
	g, err := loader.ReadPlain(strings.NewReader("from,to\na,a\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store := NewStore()
	store.Load(g)
	vp := geom.NewViewport(800, 600, 1)
	vp.AutoFit(store.Positions())
	surf := newRecordingSurface()
	r := NewResolver(store, vp, surf)

	r.ResolveAll()
	if got := surf.shapes[EntityKey(0)].Kind; got != ShapeCircle {
		t.Fatalf("node kind = %v after full resolve, want circle", got)
	}

	// A partial resolve re-sends the self-edge arrow; its key must not
	// replace the node's own shape.
	r.ResolveOne(0)
	if got := surf.shapes[EntityKey(0)].Kind; got != ShapeCircle {
		t.Errorf("node kind = %v after partial resolve, want circle", got)
	}
	if _, ok := surf.shapes[ShapeKey{A: 0, B: 0, Edge: true}]; !ok {
		t.Error("self-edge arrow shape missing")
	}
}

func TestMetaLoopShape(t *testing.T) {
	store, _, surf, r := loadMeta(t, "from,to\n1,1\n")
	store.SetPosition(0, geom.Point{X: 2, Y: 3})

	r.ResolveAll()

	s := surf.shapes[EntityKey(0)]
	if s.Kind != ShapeLoop || !s.SelfLink {
		t.Fatalf("shape = %+v, want self-link loop", s)
	}
	if len(s.Loop) != 100 {
		t.Fatalf("loop samples = %d, want 100", len(s.Loop))
	}
	// Sample 0 has t=0, so it sits exactly at the loop center.
	if s.Loop[0] != (geom.Point{X: 2, Y: 3}) {
		t.Errorf("sample 0 = %v, want the center", s.Loop[0])
	}
	a := DefaultNodeSize * 0.7
	for i, p := range s.Loop {
		if math.Abs(p.X-2) > a+1e-9 || math.Abs(p.Y-3) > a+1e-9 {
			t.Errorf("sample %d at %v, outside the a=%v envelope", i, p, a)
		}
	}
	// Direction marker sits at samples 80 -> 81.
	if s.From != s.Loop[80] || s.To != s.Loop[81] {
		t.Errorf("marker = %v->%v, want samples 80->81", s.From, s.To)
	}
}

func TestMetaRegularLinkEndpoints(t *testing.T) {
	// Row 1 is a self-loop; row 2 is a regular link naming itself in from and
	// the loop in to.
	store, _, surf, r := loadMeta(t, "from,to\n1,1\n2,1\n")
	store.SetPosition(0, geom.Point{})
	store.SetPosition(1, geom.Point{X: 1, Y: 0})

	r.ResolveAll()

	s := surf.shapes[EntityKey(1)]
	if s.Kind != ShapeArrow {
		t.Fatalf("shape = %+v, want arrow", s)
	}

	// From references link 2 itself: the midpoint of its own refs' raw
	// positions, (pos(2) + pos(1)) / 2 = (0.5, 0).
	if s.From != (geom.Point{X: 0.5, Y: 0}) {
		t.Errorf("from = %v, want (0.5, 0)", s.From)
	}

	// To references the self-loop: projected onto the loop's connection
	// radius toward the arrow's own position.
	wantTo := geom.Point{X: DefaultNodeSize * 0.7 * 0.7, Y: 0}
	if math.Abs(s.To.X-wantTo.X) > 1e-12 || math.Abs(s.To.Y-wantTo.Y) > 1e-12 {
		t.Errorf("to = %v, want %v", s.To, wantTo)
	}
}

func TestLoopConnectionCoincidentPoints(t *testing.T) {
	store, _, surf, r := loadMeta(t, "from,to\n1,1\n2,1\n")
	// Both entities at the origin: the substitute displacement points along
	// +x, so the connection point lands at (radius, 0).
	store.SetPosition(0, geom.Point{})
	store.SetPosition(1, geom.Point{})

	r.ResolveAll()

	s := surf.shapes[EntityKey(1)]
	wantTo := geom.Point{X: DefaultNodeSize * 0.7 * 0.7, Y: 0}
	if math.Abs(s.To.X-wantTo.X) > 1e-12 || math.Abs(s.To.Y-wantTo.Y) > 1e-12 {
		t.Errorf("to = %v, want %v", s.To, wantTo)
	}
}

func TestMetaAbsentReferenceRendersAtOrigin(t *testing.T) {
	store, _, surf, r := loadMeta(t, "from,to\n7,8\n")
	store.SetPosition(0, geom.Point{X: 5, Y: 5})

	r.ResolveAll()

	s := surf.shapes[EntityKey(0)]
	if s.Kind != ShapeArrow {
		t.Fatalf("shape = %+v, want arrow (both refs present)", s)
	}
	if s.From != (geom.Point{}) || s.To != (geom.Point{}) {
		t.Errorf("endpoints = %v->%v, want origin for unknown ids", s.From, s.To)
	}
}

func TestBareNodeShape(t *testing.T) {
	_, _, surf, r := loadMeta(t, "from,to\n,\n")
	r.ResolveAll()

	s := surf.shapes[EntityKey(0)]
	if s.Kind != ShapeCircle || s.SelfLink {
		t.Fatalf("shape = %+v, want plain circle", s)
	}
	if s.Radius != DefaultNodeSize/2 {
		t.Errorf("radius = %v, want %v", s.Radius, DefaultNodeSize/2)
	}
}

func TestResolveOnePlainTouchesEntityAndIncidentEdges(t *testing.T) {
	g, err := loader.ReadPlain(strings.NewReader("from,to\na,b\nb,c\nc,d\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store := NewStore()
	store.Load(g)
	surf := newRecordingSurface()
	r := NewResolver(store, geom.NewViewport(800, 600, 1), surf)
	r.ResolveAll()
	surf.reset()

	bi, _ := g.NodeIndex("b")
	r.ResolveOne(bi)

	wantKeys := map[ShapeKey]bool{
		EntityKey(bi): true,
		{0, 1, true}:  true, // a -> b
		{1, 2, true}:  true, // b -> c
	}
	if len(surf.upserts) != len(wantKeys) {
		t.Fatalf("upserts = %v, want exactly %d keys", surf.upserts, len(wantKeys))
	}
	for _, k := range surf.upserts {
		if !wantKeys[k] {
			t.Errorf("unexpected upsert %v (edge c->d must not be touched)", k)
		}
	}
}

func TestResolveOneMetaTransitiveChain(t *testing.T) {
	// A (row 1) is bare; B (row 2) is a regular link referencing A on both
	// sides; C (row 3) is a regular link referencing B. Moving A must refresh
	// C too: C's endpoint is the midpoint of B's arrow, which follows A.
	store, _, surf, r := loadMeta(t, "from,to\n,\n1,1\n2,2\n")
	store.SetPosition(0, geom.Point{X: 1, Y: 1})

	r.ResolveAll()
	surf.reset()

	r.ResolveOne(0)

	touched := make(map[ShapeKey]bool)
	for _, k := range surf.upserts {
		touched[k] = true
	}
	for i := 0; i < 3; i++ {
		if !touched[EntityKey(i)] {
			t.Errorf("entity %d not refreshed after moving entity 0", i)
		}
	}

	// And C's geometry actually reflects A's position: B's arrow runs from
	// its own midpoint computation, both endpoints at A.
	b := surf.shapes[EntityKey(1)]
	if b.From != (geom.Point{X: 1, Y: 1}) || b.To != (geom.Point{X: 1, Y: 1}) {
		t.Errorf("B endpoints = %v->%v, want A's position", b.From, b.To)
	}
	c := surf.shapes[EntityKey(2)]
	if c.From != (geom.Point{X: 1, Y: 1}) {
		t.Errorf("C from = %v, want B's arrow midpoint (1,1)", c.From)
	}
}

func TestResolveMarksDraggedAsSelected(t *testing.T) {
	_, _, surf, r := loadMeta(t, "from,to\n,\n")
	r.Selected = 0
	r.ResolveAll()

	s := surf.shapes[EntityKey(0)]
	if !s.Selected || s.Highlight {
		t.Errorf("marks: selected=%v highlight=%v, want selected only", s.Selected, s.Highlight)
	}
}

func TestResolveMarkTogglesHighlightOnly(t *testing.T) {
	_, _, surf, r := loadMeta(t, "from,to\n,\n,\n")
	r.ResolveAll()
	surf.reset()

	r.Hovered = 1
	r.ResolveMark(1)

	if len(surf.upserts) != 1 || surf.upserts[0] != EntityKey(1) {
		t.Fatalf("upserts = %v, want only entity 1", surf.upserts)
	}
	if !surf.shapes[EntityKey(1)].Highlight {
		t.Error("entity 1 not highlighted")
	}
	if surf.shapes[EntityKey(0)].Highlight {
		t.Error("entity 0 picked up a highlight")
	}
}
