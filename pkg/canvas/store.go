package canvas

import (
	"errors"

	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/model"
)

// ErrNotLoaded is returned by store operations requested before any
// successful load.
var ErrNotLoaded = errors.New("canvas: no graph loaded")

// Store is the entity store: the current graph model plus the cached
// per-entity positions supplied by the layout provider. It is rebuilt
// wholesale on load or layout change; only drag mutates a position in place.
type Store struct {
	graph *model.Graph
	pos   []geom.Point
}

// NewStore returns an empty store. Every accessor fails with ErrNotLoaded
// until Load succeeds.
func NewStore() *Store {
	return &Store{}
}

// Loaded reports whether a graph has been installed.
func (s *Store) Loaded() bool { return s.graph != nil }

// Load replaces the full entity set and adjacency, and clears all positions.
func (s *Store) Load(g *model.Graph) {
	s.graph = g
	s.pos = make([]geom.Point, g.Len())
}

// Graph returns the current model, or nil before the first load.
func (s *Store) Graph() *model.Graph { return s.graph }

// Len returns the entity count, zero before the first load.
func (s *Store) Len() int {
	if s.graph == nil {
		return 0
	}
	return s.graph.Len()
}

// ApplyLayout installs a new index→position mapping. Indices the mapping does
// not cover default to the origin rather than keeping stale coordinates.
func (s *Store) ApplyLayout(positions map[int]geom.Point) error {
	if s.graph == nil {
		return ErrNotLoaded
	}
	for i := range s.pos {
		s.pos[i] = positions[i]
	}
	return nil
}

// SetPosition mutates a single entity's position, leaving all others
// untouched. This is the drag path.
func (s *Store) SetPosition(i int, p geom.Point) error {
	if s.graph == nil {
		return ErrNotLoaded
	}
	if i < 0 || i >= len(s.pos) {
		return errors.New("canvas: position index out of range")
	}
	s.pos[i] = p
	return nil
}

// Position returns the cached position for an entity index. Out-of-range
// indices yield the origin, mirroring how absent references render.
func (s *Store) Position(i int) geom.Point {
	if i < 0 || i >= len(s.pos) {
		return geom.Point{}
	}
	return s.pos[i]
}

// Positions returns all cached positions in index order. Shared slice, read
// only.
func (s *Store) Positions() []geom.Point { return s.pos }

// Neighbors returns the incident edges of an entity, in-edges and out-edges
// combined, for partial-update targeting.
func (s *Store) Neighbors(i int) []model.Edge {
	if s.graph == nil {
		return nil
	}
	return s.graph.Incident(i)
}
