// Package model holds the graph data model shared by the two canvas variants:
// the plain node/edge graph and the links-as-nodes meta-graph, where each
// record references other records by id and may reference itself.
//
// Entities are addressed by their dense insertion-order index. Plain nodes get
// indices in registration order; meta links get index = id-1, since link ids
// are assigned by 1-based row order. That one integer handle is what the
// entity store, geometry resolver, hit tester and renderers key on.
package model

import "fmt"

// GraphKind selects the data model variant.
type GraphKind int

const (
	// Plain is the node/edge graph: string-labelled nodes, directed edges.
	Plain GraphKind = iota
	// Meta is the links-as-nodes graph: every record is a link that may
	// reference other links by id.
	Meta
)

func (k GraphKind) String() string {
	if k == Meta {
		return "links"
	}
	return "graph"
}

// LinkKind is the classification of a meta-graph link, resolved once at load
// time. Precedence: self-loop, then regular, then bare node.
type LinkKind int

const (
	// SelfLoop is a link whose from, to and own id are all equal. Rendered as
	// a closed lemniscate, not a straight arrow.
	SelfLoop LinkKind = iota
	// Regular has both endpoints present and is not a self-loop.
	Regular
	// BareNode is missing from and/or to; rendered as a plain circle with no
	// directionality.
	BareNode
)

func (k LinkKind) String() string {
	switch k {
	case SelfLoop:
		return "self-loop"
	case Regular:
		return "regular"
	default:
		return "bare-node"
	}
}

// Link is a meta-graph record. From and To are nil when the source field was
// blank or non-numeric.
type Link struct {
	ID   int
	From *int
	To   *int
	Kind LinkKind
}

// ClassifyLink applies the kind precedence to a link's fields.
func ClassifyLink(id int, from, to *int) LinkKind {
	switch {
	case from != nil && to != nil && *from == id && *to == id:
		return SelfLoop
	case from != nil && to != nil:
		return Regular
	default:
		return BareNode
	}
}

// Entity is one addressable graph element. Label carries the node id for the
// plain variant and the decimal link id for the meta variant; Link is non-nil
// only for the meta variant.
type Entity struct {
	Index int
	Label string
	Link  *Link
}

// Edge is an ordered pair of entity indices. For the plain graph these are the
// drawn arrows; for the meta-graph they are the reference relationships used
// for layout and partial-update targeting.
type Edge struct {
	From, To int
}

// Graph is the entity set plus adjacency for one loaded dataset. Zero value is
// not usable; construct with NewPlain or NewMeta.
type Graph struct {
	kind     GraphKind
	entities []Entity
	byLabel  map[string]int
	byLinkID map[int]int
	edges    []Edge
	edgeSet  map[Edge]struct{}
	incident map[int][]Edge // in-edges and out-edges per entity index
}

// NewPlain returns an empty plain node/edge graph.
func NewPlain() *Graph {
	return &Graph{
		kind:     Plain,
		byLabel:  make(map[string]int),
		edgeSet:  make(map[Edge]struct{}),
		incident: make(map[int][]Edge),
	}
}

// NewMeta returns an empty links-as-nodes graph.
func NewMeta() *Graph {
	return &Graph{
		kind:     Meta,
		byLinkID: make(map[int]int),
		edgeSet:  make(map[Edge]struct{}),
		incident: make(map[int][]Edge),
	}
}

// Kind returns the data model variant.
func (g *Graph) Kind() GraphKind { return g.kind }

// Len returns the number of entities.
func (g *Graph) Len() int { return len(g.entities) }

// Entity returns the entity at the given index.
func (g *Graph) Entity(i int) Entity { return g.entities[i] }

// Entities returns all entities in insertion order. The returned slice is
// shared; callers must not mutate it.
func (g *Graph) Entities() []Entity { return g.entities }

// Edges returns all adjacency edges in insertion order. Shared slice, read
// only.
func (g *Graph) Edges() []Edge { return g.edges }

// AddNode registers a plain-graph node, returning its index. Adding an
// existing label is idempotent.
func (g *Graph) AddNode(label string) int {
	if g.kind != Plain {
		panic("model: AddNode on a meta-graph")
	}
	if i, ok := g.byLabel[label]; ok {
		return i
	}
	i := len(g.entities)
	g.entities = append(g.entities, Entity{Index: i, Label: label})
	g.byLabel[label] = i
	return i
}

// AddEdge registers a directed plain-graph edge between existing nodes.
// Duplicate edges are idempotent: the edge set is a set, not a multiset.
func (g *Graph) AddEdge(from, to int) {
	g.addEdge(Edge{from, to})
}

func (g *Graph) addEdge(e Edge) {
	if _, ok := g.edgeSet[e]; ok {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.incident[e.From] = append(g.incident[e.From], e)
	if e.To != e.From {
		g.incident[e.To] = append(g.incident[e.To], e)
	}
}

// AddLink appends a meta-graph link under the given 1-based id, classifying
// its kind immediately so the resolver never re-branches on raw field values.
// Ids follow the source's physical data-row order; rows the loader skips
// still consume an id, so ids may be sparse while entity indices stay dense.
func (g *Graph) AddLink(id int, from, to *int) *Link {
	if g.kind != Meta {
		panic("model: AddLink on a plain graph")
	}
	l := &Link{ID: id, From: from, To: to, Kind: ClassifyLink(id, from, to)}
	i := len(g.entities)
	g.entities = append(g.entities, Entity{Index: i, Label: fmt.Sprint(id), Link: l})
	g.byLinkID[id] = i
	return l
}

// BuildMetaEdges derives the reference adjacency of a meta-graph: for a link L,
// an existing from-reference F yields F→L and an existing to-reference T
// yields L→T. Call once after all links are added. References to absent ids
// produce no edge.
func (g *Graph) BuildMetaEdges() {
	if g.kind != Meta {
		return
	}
	for _, e := range g.entities {
		l := e.Link
		if l.From != nil {
			if fi, ok := g.byLinkID[*l.From]; ok {
				g.addEdge(Edge{fi, e.Index})
			}
		}
		if l.To != nil {
			if ti, ok := g.byLinkID[*l.To]; ok {
				g.addEdge(Edge{e.Index, ti})
			}
		}
	}
}

// NodeIndex returns the index of a plain-graph node by label.
func (g *Graph) NodeIndex(label string) (int, bool) {
	i, ok := g.byLabel[label]
	return i, ok
}

// LinkIndex returns the index of a meta-graph link by id.
func (g *Graph) LinkIndex(id int) (int, bool) {
	i, ok := g.byLinkID[id]
	return i, ok
}

// Incident returns the edges touching the entity, in-edges and out-edges
// combined. Shared slice, read only.
func (g *Graph) Incident(i int) []Edge {
	return g.incident[i]
}

// SelfLinkCount returns the number of self-loop links; zero for plain graphs.
func (g *Graph) SelfLinkCount() int {
	n := 0
	for _, e := range g.entities {
		if e.Link != nil && e.Link.Kind == SelfLoop {
			n++
		}
	}
	return n
}

// IntRef is a convenience for building optional link references.
func IntRef(v int) *int { return &v }
