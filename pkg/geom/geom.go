// Package geom provides the 2D primitives and the viewport model for the
// canvas engine: data-space points, axis ranges, and the conversion between
// data space and device (pixel) space.
package geom

import "math"

// Point is a coordinate in either data space or device space, depending on
// context. Data-space y grows upward; device-space y grows downward.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p with both components multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

// Dist2 returns the squared euclidean distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid returns the midpoint of p and q.
func Mid(p, q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// Range is a closed interval on one axis.
type Range struct {
	Min, Max float64
}

// Width returns Max - Min.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Center returns the midpoint of the interval.
func (r Range) Center() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether v lies inside the interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Shift returns the interval translated by d.
func (r Range) Shift(d float64) Range {
	return Range{r.Min + d, r.Max + d}
}
