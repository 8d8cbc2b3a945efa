package layout

import (
	"errors"
	"math/rand/v2"

	gglayout "gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/model"
)

// gonumGraph mirrors the model adjacency into a gonum directed graph, with
// node id = entity index. Self-edges are dropped: simple graphs reject them
// and they carry no force or spectral information anyway.
func gonumGraph(g *model.Graph) *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	for i := 0; i < g.Len(); i++ {
		dg.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}
	return dg
}

// forceDirected runs the Eades spring-embedder from gonum over the reference
// adjacency. Seeded, so identical inputs give identical layouts.
func forceDirected(g *model.Graph) (map[int]geom.Point, error) {
	dg := gonumGraph(g)
	eades := gglayout.EadesR2{
		Repulsion: 1,
		Rate:      0.05,
		Updates:   100,
		Theta:     0.2,
		Src:       rand.NewPCG(0xfd, uint64(g.Len())),
	}
	optimizer := gglayout.NewOptimizerR2(dg, eades.Update)
	for optimizer.Update() {
	}

	n := g.Len()
	px := make([]float64, n)
	py := make([]float64, n)
	for i := 0; i < n; i++ {
		v := optimizer.Coord2(int64(i))
		px[i], py[i] = v.X, v.Y
	}
	return rescaled(px, py), nil
}

// spectral positions entities by the second and third eigenvectors of the
// undirected graph Laplacian, the classic spectral embedding. Graphs with
// fewer than three entities have no such eigenvectors and fall back to the
// circular arrangement.
func spectral(g *model.Graph) (map[int]geom.Point, error) {
	n := g.Len()
	if n < 3 {
		return circular(g), nil
	}

	lap := mat.NewSymDense(n, nil)
	deg := make([]float64, n)
	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		deg[e.From]++
		deg[e.To]++
		lap.SetSym(e.From, e.To, -1)
	}
	for i := 0; i < n; i++ {
		lap.SetSym(i, i, deg[i])
	}

	var eig mat.EigenSym
	if !eig.Factorize(lap, true) {
		return nil, &Error{Kind: Spectral, Err: errors.New("eigendecomposition failed")}
	}

	// EigenSym orders eigenvalues ascending; columns 1 and 2 are the Fiedler
	// vector and its successor.
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	px := make([]float64, n)
	py := make([]float64, n)
	for i := 0; i < n; i++ {
		px[i] = vecs.At(i, 1)
		py[i] = vecs.At(i, 2)
	}
	return rescaled(px, py), nil
}
