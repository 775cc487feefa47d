// Link routing for circular process-flow diagrams.
// Forward links take a horizontal S-curve; links that travel backwards
// (or sideways) take a rectilinear loop route below or above the nodes,
// with rounded corners.

package flowviz

import (
	"math"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

const (
	// Loop-back route constants.
	loopStub       = 40.0  // horizontal clearance out of / into a node
	loopRadius     = 20.0  // corner rounding radius
	loopBaseOffset = 100.0 // rail distance below the lower anchor
	loopStagger    = 60.0  // extra rail distance per additional loop
)

// RoutedLink pairs a link with its computed path geometry.
type RoutedLink struct {
	Link  *flow.Link
	Path  Path
	Loop  bool // rectilinear loop-back route
	Index int  // position in Diagram.Links, used for element ids
}

// RouteAll computes paths for every resolvable link in the diagram.
// Links whose source or target is missing are dropped.
func RouteAll(d *flow.Diagram) []RoutedLink {
	routed := make([]RoutedLink, 0, len(d.Links))
	loopIndex := 0

	for i := range d.Links {
		l := &d.Links[i]
		src := d.NodeByID(l.Source)
		dst := d.NodeByID(l.Target)
		if src == nil || dst == nil {
			continue
		}

		sa := SourceAnchor(src)
		ta := TargetAnchor(dst)

		if ta.X > sa.X {
			routed = append(routed, RoutedLink{
				Link:  l,
				Path:  forwardPath(sa, ta),
				Index: i,
			})
			continue
		}

		routed = append(routed, RoutedLink{
			Link:  l,
			Path:  loopPath(sa, ta, l.LoopY, loopIndex),
			Loop:  true,
			Index: i,
		})
		loopIndex++
	}

	return routed
}

// forwardPath is a single cubic Bézier with both control points at the
// horizontal midpoint, giving the classic flow S-curve.
func forwardPath(sa, ta Point) Path {
	mx := (sa.X + ta.X) / 2
	return NewPathBuilder(sa).
		CubicTo(Point{mx, sa.Y}, Point{mx, ta.Y}, ta).
		Path()
}

// loopPath routes a link whose target is at or left of its source: out of
// the source to the right, down (or up) to a horizontal rail, back across,
// then into the target from the left. loopY overrides the rail position;
// otherwise rails stack downwards per loop index so multiple loops in one
// scene never share a rail.
func loopPath(sa, ta Point, loopY *float64, loopIndex int) Path {
	rail := math.Max(sa.Y, ta.Y) + loopBaseOffset + loopStagger*float64(loopIndex)
	if loopY != nil {
		rail = *loopY
	}

	waypoints := []Point{
		sa,
		{sa.X + loopStub, sa.Y},
		{sa.X + loopStub, rail},
		{ta.X - loopStub, rail},
		{ta.X - loopStub, ta.Y},
		ta,
	}
	return roundedPolyline(waypoints, loopRadius)
}

// roundedPolyline joins waypoints with straight runs and bends each interior
// corner with a quadratic whose control point is the corner itself, so the
// bow always follows the actual turn direction. Corner radii shrink when the
// adjoining runs are too short for the full radius.
func roundedPolyline(pts []Point, radius float64) Path {
	// Drop consecutive duplicates so corner directions stay well-defined.
	clean := pts[:0:0]
	for _, p := range pts {
		if len(clean) == 0 || clean[len(clean)-1].Dist(p) > 1e-9 {
			clean = append(clean, p)
		}
	}
	if len(clean) < 2 {
		return Path{}
	}

	b := NewPathBuilder(clean[0])

	for i := 1; i < len(clean)-1; i++ {
		prev, corner, next := clean[i-1], clean[i], clean[i+1]

		inLen := prev.Dist(corner)
		outLen := corner.Dist(next)
		r := math.Min(radius, math.Min(inLen/2, outLen/2))

		inDir := corner.Sub(prev).Scale(1 / inLen)
		outDir := next.Sub(corner).Scale(1 / outLen)

		// Collinear continuation needs no rounding.
		cross := inDir.X*outDir.Y - inDir.Y*outDir.X
		if math.Abs(cross) < 1e-9 {
			b.LineTo(corner)
			continue
		}

		b.LineTo(corner.Sub(inDir.Scale(r)))
		b.QuadTo(corner, corner.Add(outDir.Scale(r)))
	}

	b.LineTo(clean[len(clean)-1])
	return b.Path()
}
