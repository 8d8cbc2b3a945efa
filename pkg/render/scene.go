// Package render holds the drawing backends behind the canvas Surface
// contract: a retained shape scene, a PNG rasterizer and an SVG writer.
package render

import (
	"sort"
	"sync"

	"github.com/linkscope/linkscope/pkg/canvas"
)

// Scene is the retained shape store shared by every backend. The canvas
// resolver upserts and removes individual shapes; a backend snapshots the
// draw-ordered list when it presents.
//
// The canvas mutates the scene from its own event loop while a backend may
// present from another goroutine, so access is serialized.
type Scene struct {
	mu     sync.Mutex
	shapes map[canvas.ShapeKey]canvas.Shape

	// onRedraw, when set, is invoked on every RequestRedraw. The TUI uses it
	// to schedule a frame; the snapshot exporters leave it nil and present
	// once at the end.
	onRedraw func()
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{shapes: make(map[canvas.ShapeKey]canvas.Shape)}
}

// OnRedraw installs the redraw callback.
func (s *Scene) OnRedraw(fn func()) {
	s.mu.Lock()
	s.onRedraw = fn
	s.mu.Unlock()
}

// Upsert creates or replaces one shape.
func (s *Scene) Upsert(k canvas.ShapeKey, shape canvas.Shape) {
	s.mu.Lock()
	s.shapes[k] = shape
	s.mu.Unlock()
}

// Remove deletes one shape; absent keys are ignored.
func (s *Scene) Remove(k canvas.ShapeKey) {
	s.mu.Lock()
	delete(s.shapes, k)
	s.mu.Unlock()
}

// Clear drops every shape.
func (s *Scene) Clear() {
	s.mu.Lock()
	s.shapes = make(map[canvas.ShapeKey]canvas.Shape)
	s.mu.Unlock()
}

// RequestRedraw notifies the presenting backend, if any.
func (s *Scene) RequestRedraw() {
	s.mu.Lock()
	fn := s.onRedraw
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// KeyedShape pairs a shape with its scene key for draw-order traversal.
type KeyedShape struct {
	Key   canvas.ShapeKey
	Shape canvas.Shape
}

// Ordered returns a snapshot of the scene in paint order: edge arrows first
// so entity shapes stack above them, each class ordered by key for
// deterministic output.
func (s *Scene) Ordered() []KeyedShape {
	s.mu.Lock()
	out := make([]KeyedShape, 0, len(s.shapes))
	for k, shape := range s.shapes {
		out = append(out, KeyedShape{Key: k, Shape: shape})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.IsEdge() != b.IsEdge() {
			return a.IsEdge()
		}
		if a.A != b.A {
			return a.A < b.A
		}
		return a.B < b.B
	})
	return out
}

// Len returns the number of retained shapes.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shapes)
}

var _ canvas.Surface = (*Scene)(nil)
