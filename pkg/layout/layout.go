// Package layout computes per-entity positions for a graph model. It is the
// pluggable layout provider consumed by the canvas: the canvas treats the
// result as an immutable id→position mapping and never recomputes positions
// implicitly.
package layout

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/model"
)

// Kind names a layout algorithm.
type Kind string

const (
	Spring        Kind = "spring"
	Circular      Kind = "circular"
	Random        Kind = "random"
	ForceDirected Kind = "force-directed"
	Spectral      Kind = "spectral"
)

// Kinds lists the supported layouts in presentation order.
func Kinds() []Kind {
	return []Kind{Spring, Circular, Random, ForceDirected, Spectral}
}

// Error reports a failed layout computation. The canvas recovers from it by
// falling back to the spring result; it is never fatal.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s layout: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Compute returns a position per entity index. An unknown kind falls back to
// spring. The mapping covers every entity of g; an empty graph yields an empty
// mapping.
func Compute(kind Kind, g *model.Graph) (map[int]geom.Point, error) {
	if g.Len() == 0 {
		return map[int]geom.Point{}, nil
	}
	switch kind {
	case Circular:
		return circular(g), nil
	case Random:
		return random(g), nil
	case ForceDirected:
		return forceDirected(g)
	case Spectral:
		return spectral(g)
	default:
		return spring(g), nil
	}
}

// circular places entities on a unit circle in insertion order. Equal angular
// spacing keeps every entity at the same distance from the centroid.
func circular(g *model.Graph) map[int]geom.Point {
	n := g.Len()
	pos := make(map[int]geom.Point, n)
	if n == 1 {
		pos[0] = geom.Point{}
		return pos
	}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pos[i] = geom.Point{X: math.Cos(a), Y: math.Sin(a)}
	}
	return pos
}

// random scatters entities uniformly over the unit square. Seeded by the
// entity count so repeated runs over the same graph are reproducible.
func random(g *model.Graph) map[int]geom.Point {
	n := g.Len()
	rnd := rand.New(rand.NewPCG(0x1e57, uint64(n)))
	pos := make(map[int]geom.Point, n)
	for i := 0; i < n; i++ {
		pos[i] = geom.Point{X: rnd.Float64(), Y: rnd.Float64()}
	}
	return pos
}

// spring is a Fruchterman-Reingold force simulation with optimal distance
// k=0.5 over 100 iterations and linear cooling, rescaled to the unit extent.
func spring(g *model.Graph) map[int]geom.Point {
	const (
		k     = 0.5
		iters = 100
	)
	n := g.Len()
	rnd := rand.New(rand.NewPCG(0x5b41, uint64(n)))

	px := make([]float64, n)
	py := make([]float64, n)
	for i := range px {
		px[i] = rnd.Float64()
		py[i] = rnd.Float64()
	}
	if n == 1 {
		return map[int]geom.Point{0: {}}
	}

	dx := make([]float64, n)
	dy := make([]float64, n)
	temp := 0.1
	cool := temp / float64(iters+1)

	for it := 0; it < iters; it++ {
		for i := range dx {
			dx[i], dy[i] = 0, 0
		}
		// Repulsion between all pairs.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				ddx, ddy, d := delta(px[i]-px[j], py[i]-py[j])
				f := k * k / (d * d)
				dx[i] += ddx * f
				dy[i] += ddy * f
				dx[j] -= ddx * f
				dy[j] -= ddy * f
			}
		}
		// Attraction along edges; self-edges exert no force.
		for _, e := range g.Edges() {
			if e.From == e.To {
				continue
			}
			ddx, ddy, d := delta(px[e.From]-px[e.To], py[e.From]-py[e.To])
			f := d / k
			dx[e.From] -= ddx * f
			dy[e.From] -= ddy * f
			dx[e.To] += ddx * f
			dy[e.To] += ddy * f
		}
		// Cap displacement by the current temperature.
		for i := 0; i < n; i++ {
			l := math.Hypot(dx[i], dy[i])
			if l < 1e-12 {
				continue
			}
			step := math.Min(l, temp) / l
			px[i] += dx[i] * step
			py[i] += dy[i] * step
		}
		temp -= cool
	}

	return rescaled(px, py)
}

// delta returns a displacement vector normalized per unit distance along with
// the (floored) distance itself.
func delta(ddx, ddy float64) (x, y, dist float64) {
	d := math.Hypot(ddx, ddy)
	if d < 1e-9 {
		// Coincident points: nudge apart along x.
		return 1, 0, 1e-9
	}
	return ddx / d, ddy / d, d
}

// rescaled centers the coordinates on the origin and scales the largest
// absolute component to 1, producing an extent comparable across layouts.
func rescaled(px, py []float64) map[int]geom.Point {
	n := len(px)
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += px[i]
		my += py[i]
	}
	mx /= float64(n)
	my /= float64(n)

	scale := 0.0
	for i := 0; i < n; i++ {
		px[i] -= mx
		py[i] -= my
		scale = math.Max(scale, math.Max(math.Abs(px[i]), math.Abs(py[i])))
	}
	if scale < 1e-12 {
		scale = 1
	}

	pos := make(map[int]geom.Point, n)
	for i := 0; i < n; i++ {
		pos[i] = geom.Point{X: px[i] / scale, Y: py[i] / scale}
	}
	return pos
}
