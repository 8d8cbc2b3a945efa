// Package canvas implements the interactive graph canvas engine: the entity
// store, the geometry resolver, hit testing, and the pointer interaction
// state machine, glued together behind a small command surface.
//
// Everything runs on one logical goroutine, event-driven: each pointer or
// command handler completes fully, including publishing its shape updates to
// the Surface, before the next is processed. The viewport and the entity
// store are owned by the canvas instance exclusively, so no locking is
// needed, and a redraw never observes a half-updated position map.
package canvas

import (
	"io"
	"log"

	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/layout"
	"github.com/linkscope/linkscope/pkg/loader"
	"github.com/linkscope/linkscope/pkg/model"
)

// Zoom-level bounds for SetZoomLevel, matching the chrome slider.
const (
	MinZoomLevel = 0.1
	MaxZoomLevel = 2.0
)

// LayoutFunc is the pluggable layout provider: a position per entity index
// for the requested kind.
type LayoutFunc func(layout.Kind, *model.Graph) (map[int]geom.Point, error)

// Stats summarizes the loaded model for the chrome.
type Stats struct {
	Entities  int `json:"entity_count"`
	Edges     int `json:"edge_or_link_count"`
	SelfLinks int `json:"self_link_count"`
}

// Canvas is one interactive canvas instance. The viewport outlives any single
// entity store: loads replace the model, not the view metrics.
type Canvas struct {
	mode     model.GraphKind
	store    *Store
	vp       *geom.Viewport
	resolver *Resolver
	hit      *HitTester
	surf     Surface
	layoutFn LayoutFunc
	logf     func(format string, args ...any)

	state    State
	hovered  int
	dragged  int
	panStart geom.Point
	panSnap  geom.Viewport

	layoutKind layout.Kind
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithLayoutFunc overrides the layout provider; mainly for tests.
func WithLayoutFunc(fn LayoutFunc) Option {
	return func(c *Canvas) { c.layoutFn = fn }
}

// WithLogger overrides where recovered failures are reported.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(c *Canvas) { c.logf = logf }
}

// New creates a canvas in the given mode over a drawing surface of the given
// pixel dimensions.
func New(mode model.GraphKind, surf Surface, pixelW, pixelH, density float64, opts ...Option) *Canvas {
	c := &Canvas{
		mode:       mode,
		store:      NewStore(),
		vp:         geom.NewViewport(pixelW, pixelH, density),
		surf:       surf,
		layoutFn:   layout.Compute,
		logf:       log.Printf,
		hovered:    -1,
		dragged:    -1,
		layoutKind: layout.Spring,
	}
	for _, o := range opts {
		o(c)
	}
	c.resolver = NewResolver(c.store, c.vp, surf)
	c.hit = NewHitTester(c.store, c.vp)
	return c
}

// Load parses the source and replaces the model wholesale, then applies the
// spring layout, fits the view and rebuilds the scene. On any load failure
// the previous graph, positions and view are left untouched and the
// *loader.LoadError is returned.
func (c *Canvas) Load(r io.Reader) error {
	g, err := c.parse(r)
	if err != nil {
		return err
	}

	c.store.Load(g)
	c.resetInteraction()
	c.layoutKind = layout.Spring
	c.applyCurrentLayout()
	return nil
}

// Reload replaces the model from the source while keeping the current view
// and the positions of entities that survive the reload, matched by label.
// Entities new to this load take their position from the current layout kind.
// Before the first successful Load, and on failure, Reload behaves like Load.
func (c *Canvas) Reload(r io.Reader) error {
	g, err := c.parse(r)
	if err != nil {
		return err
	}

	kept := make(map[string]geom.Point)
	if old := c.store.Graph(); old != nil {
		for i := 0; i < old.Len(); i++ {
			kept[old.Entity(i).Label] = c.store.Position(i)
		}
	}

	c.store.Load(g)
	c.resetInteraction()

	positions := c.computeLayout(g)
	if positions == nil {
		return nil
	}
	for i := 0; i < g.Len(); i++ {
		if p, ok := kept[g.Entity(i).Label]; ok {
			positions[i] = p
		}
	}
	_ = c.store.ApplyLayout(positions)
	if len(kept) == 0 {
		c.vp.AutoFit(c.store.Positions())
	}
	c.resolver.ResolveAll()
	return nil
}

func (c *Canvas) parse(r io.Reader) (*model.Graph, error) {
	if c.mode == model.Meta {
		return loader.ReadMeta(r)
	}
	return loader.ReadPlain(r)
}

// ApplyLayout runs the layout provider and installs its result, refitting the
// view. Unknown kinds fall back to spring inside the provider; a provider
// failure degrades to the spring result and is logged, never surfaced. A
// no-op before the first load.
func (c *Canvas) ApplyLayout(kind layout.Kind) {
	if !c.store.Loaded() {
		return
	}
	c.layoutKind = kind
	c.applyCurrentLayout()
}

func (c *Canvas) applyCurrentLayout() {
	positions := c.computeLayout(c.store.Graph())
	if positions == nil {
		return
	}
	// Swallowed: the store is loaded here, ApplyLayout only errors otherwise.
	_ = c.store.ApplyLayout(positions)
	c.vp.AutoFit(c.store.Positions())
	c.resolver.ResolveAll()
}

// computeLayout runs the provider for the current kind, degrading to spring
// on failure. A nil result means even the fallback failed and positions
// should be left alone.
func (c *Canvas) computeLayout(g *model.Graph) map[int]geom.Point {
	positions, err := c.layoutFn(c.layoutKind, g)
	if err != nil {
		c.logf("layout %s failed, falling back to spring: %v", c.layoutKind, err)
		c.layoutKind = layout.Spring
		positions, err = c.layoutFn(layout.Spring, g)
		if err != nil {
			c.logf("spring fallback failed, keeping positions: %v", err)
			return nil
		}
	}
	return positions
}

// ResetView refits the viewport around the current positions and rebuilds the
// scene. Positions are untouched.
func (c *Canvas) ResetView() {
	if !c.store.Loaded() {
		return
	}
	c.vp.AutoFit(c.store.Positions())
	c.resolver.ResolveAll()
}

// SetZoomLevel applies slider-driven absolute zoom, clamped to
// [MinZoomLevel, MaxZoomLevel], centered on the current view center.
func (c *Canvas) SetZoomLevel(level float64) {
	if !c.store.Loaded() {
		return
	}
	if level < MinZoomLevel {
		level = MinZoomLevel
	}
	if level > MaxZoomLevel {
		level = MaxZoomLevel
	}
	c.vp.ZoomToLevel(level)
	c.resolver.ResolveAll()
}

// Stats reports entity, edge/link and self-link counts for the loaded model;
// all zero before the first load.
func (c *Canvas) Stats() Stats {
	g := c.store.Graph()
	if g == nil {
		return Stats{}
	}
	edges := len(g.Edges())
	if g.Kind() == model.Meta {
		// Every record of a meta-graph is a link.
		edges = g.Len()
	}
	return Stats{
		Entities:  g.Len(),
		Edges:     edges,
		SelfLinks: g.SelfLinkCount(),
	}
}

// Resize updates the drawable surface dimensions and re-resolves, since the
// pixel-constant node radius depends on them.
func (c *Canvas) Resize(pixelW, pixelH float64) {
	c.vp.Resize(pixelW, pixelH)
	if c.store.Loaded() {
		c.resolver.ResolveAll()
	}
}

// Viewport exposes the canvas viewport; the chrome reads it for status
// display, renderers for coordinate conversion.
func (c *Canvas) Viewport() *geom.Viewport { return c.vp }

// Store exposes the entity store for read access.
func (c *Canvas) Store() *Store { return c.store }

// Mode returns the data model variant the canvas was created for.
func (c *Canvas) Mode() model.GraphKind { return c.mode }

// LayoutKind returns the layout currently applied.
func (c *Canvas) LayoutKind() layout.Kind { return c.layoutKind }

func (c *Canvas) resetInteraction() {
	c.state = StateIdle
	c.hovered = -1
	c.dragged = -1
	c.resolver.Hovered = -1
	c.resolver.Selected = -1
}
