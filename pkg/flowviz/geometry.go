// Geometric primitives for process-flow diagram rendering.
// Provides points, rectangles and the node anchor conventions shared by
// the routing, fitting and rasterising code.

package flowviz

import (
	"math"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the right edge coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the rectangle's centre point.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Union returns the smallest rectangle covering both r and s.
// A zero-size rect unions as a point, not as the origin.
func (r Rect) Union(s Rect) Rect {
	minX := math.Min(r.X, s.X)
	minY := math.Min(r.Y, s.Y)
	maxX := math.Max(r.Right(), s.Right())
	maxY := math.Max(r.Bottom(), s.Bottom())
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// ExtendToPoint grows the rectangle just enough to cover p.
func (r Rect) ExtendToPoint(p Point) Rect {
	return r.Union(Rect{p.X, p.Y, 0, 0})
}

// Expand returns the rectangle grown by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{r.X - m, r.Y - m, r.W + 2*m, r.H + 2*m}
}

// NodeRect returns a node's box as a Rect.
func NodeRect(n *flow.Node) Rect {
	return Rect{n.X, n.Y, n.W, n.H}
}

// SourceAnchor is where links leave a node: the right edge midpoint.
func SourceAnchor(n *flow.Node) Point {
	return Point{n.X + n.W, n.Y + n.H/2}
}

// TargetAnchor is where links enter a node: the left edge midpoint.
func TargetAnchor(n *flow.Node) Point {
	return Point{n.X, n.Y + n.H/2}
}
