package canvas

import (
	"strings"
	"testing"

	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/loader"
)

func hitFixture(t *testing.T) (*Store, *geom.Viewport, *HitTester) {
	t.Helper()
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
	return store, vp, NewHitTester(store, vp)
}

func TestEntityAtUsesRenderRadius(t *testing.T) {
	_, vp, hit := hitFixture(t)
	r := vp.NodeRadius()

	if i, ok := hit.EntityAt(geom.Point{X: -1 + r*0.9, Y: 0}); !ok || i != 0 {
		t.Errorf("point inside radius: got %d,%v, want 0,true", i, ok)
	}
	if _, ok := hit.EntityAt(geom.Point{X: -1 + r*1.1, Y: 0}); ok {
		t.Error("point outside radius reported a hit")
	}
	// The boundary itself is inside.
	if i, ok := hit.EntityAt(geom.Point{X: -1 + r, Y: 0}); !ok || i != 0 {
		t.Errorf("point on boundary: got %d,%v, want 0,true", i, ok)
	}
}

func TestEntityAtTieBreaksByInsertionOrder(t *testing.T) {
	store, _, hit := hitFixture(t)
	store.SetPosition(1, store.Position(0))

	if i, ok := hit.EntityAt(store.Position(0)); !ok || i != 0 {
		t.Errorf("overlap hit = %d,%v, want the first-registered entity 0", i, ok)
	}
}

func TestEntityAtOutsideExtent(t *testing.T) {
	_, vp, hit := hitFixture(t)
	if _, ok := hit.EntityAt(geom.Point{X: vp.X.Max + 1, Y: 0}); ok {
		t.Error("hit outside the visible extent")
	}
}

func TestEntityAtDegenerateViewport(t *testing.T) {
	store, _, _ := hitFixture(t)
	vp := geom.NewViewport(0, 0, 1)
	hit := NewHitTester(store, vp)
	if _, ok := hit.EntityAt(store.Position(0)); ok {
		t.Error("hit with a degenerate viewport")
	}
}
