package canvas

import (
	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/model"
)

// ShapeKind discriminates the drawable geometry variants.
type ShapeKind int

const (
	// ShapeCircle is a filled disc: a plain node or a bare-node link.
	ShapeCircle ShapeKind = iota
	// ShapeArrow is a directed segment with an arrowhead at To.
	ShapeArrow
	// ShapeLoop is the closed lemniscate of a self-loop, with a short
	// direction marker near one of its samples.
	ShapeLoop
)

// Shape is resolved render geometry in data space. The renderer boundary is a
// retained-shape surface: shapes are addressed by key and updated
// individually, so a drag only re-sends the geometry that actually changed.
type Shape struct {
	Kind ShapeKind

	// Circle and loop geometry.
	Center geom.Point
	Radius float64
	Loop   []geom.Point // lemniscate polyline, closed implicitly

	// Arrow geometry. For loops this is the direction marker segment.
	From, To geom.Point

	Label     string
	SelfLink  bool // color class: self-loops render in the self-link color
	Highlight bool // hovered
	Selected  bool // being dragged; wins over Highlight
}

// ShapeKey addresses a shape on the surface: an entity's own shape, or the
// plain-graph edge arrow A→B. The Edge tag keeps the two classes disjoint;
// a self-edge's arrow key must not collide with its node's own key. The
// meta-graph has no separate edge shapes: every link is itself one
// addressable shape.
type ShapeKey struct {
	A, B int
	Edge bool
}

// EntityKey returns the key of an entity's own shape.
func EntityKey(i int) ShapeKey { return ShapeKey{A: i, B: i} }

// EdgeKey returns the key of a plain-graph edge shape.
func EdgeKey(e model.Edge) ShapeKey { return ShapeKey{A: e.From, B: e.To, Edge: true} }

// IsEdge reports whether the key addresses a plain-graph edge shape.
func (k ShapeKey) IsEdge() bool { return k.Edge }

// Surface is the renderer boundary: a retained scene keyed by ShapeKey that
// supports incremental updates of individual shapes without a full redraw.
// ResolveAll and ResolveOne are the only two mutation entry points, so any
// backend (raster, SVG, terminal cells) can implement the same contract.
type Surface interface {
	// Upsert creates or replaces one shape.
	Upsert(ShapeKey, Shape)
	// Remove deletes one shape; removing an absent key is a no-op.
	Remove(ShapeKey)
	// Clear drops every shape.
	Clear()
	// RequestRedraw asks the backend to present the current scene. Mutations
	// are complete before this is called; a redraw never observes a
	// half-updated scene.
	RequestRedraw()
}
