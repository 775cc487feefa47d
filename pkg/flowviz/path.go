// Path construction and sampling for link routes.
// A path is a run of line, quadratic and cubic Bézier segments; lengths
// and lookups use sampled approximation rather than closed forms.

package flowviz

import (
	"fmt"
	"math"
	"strings"
)

// SegmentKind identifies the curve type of one path segment.
type SegmentKind int

const (
	SegLine SegmentKind = iota
	SegQuad
	SegCubic
)

// Segment is one piece of a path. P0 and P3 are the endpoints; quadratic
// segments use P1 as the control point, cubics use P1 and P2.
type Segment struct {
	Kind           SegmentKind
	P0, P1, P2, P3 Point
}

// Path is a contiguous run of segments. The zero value is an empty path.
type Path struct {
	Segments []Segment
}

// PathBuilder accumulates segments from a moving pen position.
type PathBuilder struct {
	segments []Segment
	pen      Point
}

// NewPathBuilder starts a path at the given point.
func NewPathBuilder(start Point) *PathBuilder {
	return &PathBuilder{pen: start}
}

// LineTo appends a straight segment to p. Zero-length segments are
// dropped; they add nothing and would skew uniform-parameter sampling.
func (b *PathBuilder) LineTo(p Point) *PathBuilder {
	if b.pen.Dist(p) < 1e-9 {
		return b
	}
	b.segments = append(b.segments, Segment{Kind: SegLine, P0: b.pen, P3: p})
	b.pen = p
	return b
}

// QuadTo appends a quadratic Bézier through ctrl to p.
func (b *PathBuilder) QuadTo(ctrl, p Point) *PathBuilder {
	b.segments = append(b.segments, Segment{Kind: SegQuad, P0: b.pen, P1: ctrl, P3: p})
	b.pen = p
	return b
}

// CubicTo appends a cubic Bézier through c1, c2 to p.
func (b *PathBuilder) CubicTo(c1, c2, p Point) *PathBuilder {
	b.segments = append(b.segments, Segment{Kind: SegCubic, P0: b.pen, P1: c1, P2: c2, P3: p})
	b.pen = p
	return b
}

// Path returns the accumulated path.
func (b *PathBuilder) Path() Path {
	return Path{Segments: b.segments}
}

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Start returns the path's first point.
func (p Path) Start() Point {
	if p.IsEmpty() {
		return Point{}
	}
	return p.Segments[0].P0
}

// End returns the path's last point.
func (p Path) End() Point {
	if p.IsEmpty() {
		return Point{}
	}
	return p.Segments[len(p.Segments)-1].P3
}

// evaluateSegment computes the point on one segment at local t ∈ [0,1].
func evaluateSegment(s Segment, t float64) Point {
	mt := 1 - t
	switch s.Kind {
	case SegLine:
		return Point{
			X: mt*s.P0.X + t*s.P3.X,
			Y: mt*s.P0.Y + t*s.P3.Y,
		}
	case SegQuad:
		mt2 := mt * mt
		t2 := t * t
		return Point{
			X: mt2*s.P0.X + 2*mt*t*s.P1.X + t2*s.P3.X,
			Y: mt2*s.P0.Y + 2*mt*t*s.P1.Y + t2*s.P3.Y,
		}
	default: // SegCubic
		mt2 := mt * mt
		mt3 := mt2 * mt
		t2 := t * t
		t3 := t2 * t
		return Point{
			X: mt3*s.P0.X + 3*mt2*t*s.P1.X + 3*mt*t2*s.P2.X + t3*s.P3.X,
			Y: mt3*s.P0.Y + 3*mt2*t*s.P1.Y + 3*mt*t2*s.P2.Y + t3*s.P3.Y,
		}
	}
}

// tangentSegment computes the derivative of one segment at local t.
func tangentSegment(s Segment, t float64) Point {
	mt := 1 - t
	switch s.Kind {
	case SegLine:
		return Point{s.P3.X - s.P0.X, s.P3.Y - s.P0.Y}
	case SegQuad:
		return Point{
			X: 2*mt*(s.P1.X-s.P0.X) + 2*t*(s.P3.X-s.P1.X),
			Y: 2*mt*(s.P1.Y-s.P0.Y) + 2*t*(s.P3.Y-s.P1.Y),
		}
	default: // SegCubic
		mt2 := mt * mt
		t2 := t * t
		return Point{
			X: 3*mt2*(s.P1.X-s.P0.X) + 6*mt*t*(s.P2.X-s.P1.X) + 3*t2*(s.P3.X-s.P2.X),
			Y: 3*mt2*(s.P1.Y-s.P0.Y) + 6*mt*t*(s.P2.Y-s.P1.Y) + 3*t2*(s.P3.Y-s.P2.Y),
		}
	}
}

// locate maps a whole-path parameter t ∈ [0,1] to a segment and local t.
// The parameter is uniform across segments, not arc length.
func (p Path) locate(t float64) (Segment, float64) {
	n := len(p.Segments)
	if t <= 0 {
		return p.Segments[0], 0
	}
	if t >= 1 {
		return p.Segments[n-1], 1
	}

	seg := int(t * float64(n))
	if seg >= n {
		seg = n - 1
	}
	localT := t*float64(n) - float64(seg)
	return p.Segments[seg], localT
}

// Evaluate computes the point on the path at parameter t ∈ [0,1].
func (p Path) Evaluate(t float64) Point {
	if p.IsEmpty() {
		return Point{}
	}
	s, localT := p.locate(t)
	return evaluateSegment(s, localT)
}

// Tangent computes the (unnormalised) tangent vector at parameter t.
func (p Path) Tangent(t float64) Point {
	if p.IsEmpty() {
		return Point{1, 0}
	}
	s, localT := p.locate(t)
	return tangentSegment(s, localT)
}

// pathSamples is the sample count used for length approximation.
const pathSamples = 100

// Length approximates the path length by sampling.
func (p Path) Length() float64 {
	if p.IsEmpty() {
		return 0
	}

	length := 0.0
	prev := p.Evaluate(0)
	for i := 1; i <= pathSamples; i++ {
		t := float64(i) / float64(pathSamples)
		curr := p.Evaluate(t)
		length += prev.Dist(curr)
		prev = curr
	}
	return length
}

// PointAtFraction returns the point at the given fraction of arc length.
// This matches how browsers position textPath offsets, unlike Evaluate's
// uniform-per-segment parameter.
func (p Path) PointAtFraction(frac float64) Point {
	pt, _ := p.sampleAtFraction(frac)
	return pt
}

// TangentAtFraction returns the tangent at the given fraction of arc length.
func (p Path) TangentAtFraction(frac float64) Point {
	_, tan := p.sampleAtFraction(frac)
	return tan
}

func (p Path) sampleAtFraction(frac float64) (Point, Point) {
	if p.IsEmpty() {
		return Point{}, Point{1, 0}
	}
	if frac <= 0 {
		return p.Evaluate(0), p.Tangent(0)
	}
	if frac >= 1 {
		return p.Evaluate(1), p.Tangent(1)
	}

	// Cumulative sampled lengths, then walk to the target distance.
	total := p.Length()
	if total == 0 {
		return p.Evaluate(0), p.Tangent(0)
	}
	target := frac * total

	walked := 0.0
	prev := p.Evaluate(0)
	for i := 1; i <= pathSamples; i++ {
		t := float64(i) / float64(pathSamples)
		curr := p.Evaluate(t)
		step := prev.Dist(curr)
		if walked+step >= target {
			// Interpolate within this sample step.
			tPrev := float64(i-1) / float64(pathSamples)
			var f float64
			if step > 0 {
				f = (target - walked) / step
			}
			at := tPrev + f/float64(pathSamples)
			return p.Evaluate(at), p.Tangent(at)
		}
		walked += step
		prev = curr
	}
	return p.Evaluate(1), p.Tangent(1)
}

// Bounds returns the path's axis-aligned bounding box by sampling.
func (p Path) Bounds() Rect {
	if p.IsEmpty() {
		return Rect{}
	}

	start := p.Evaluate(0)
	minX, maxX := start.X, start.X
	minY, maxY := start.Y, start.Y

	for i := 1; i <= pathSamples; i++ {
		t := float64(i) / float64(pathSamples)
		pt := p.Evaluate(t)
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Reverse returns the path traversed end to start. Used to keep loop-back
// label glyphs upright: text on a right-to-left path renders upside down,
// so the label binds to the reversed geometry instead.
func (p Path) Reverse() Path {
	if p.IsEmpty() {
		return Path{}
	}

	rev := make([]Segment, len(p.Segments))
	for i, s := range p.Segments {
		r := Segment{Kind: s.Kind, P0: s.P3, P3: s.P0}
		switch s.Kind {
		case SegQuad:
			r.P1 = s.P1
		case SegCubic:
			r.P1 = s.P2
			r.P2 = s.P1
		}
		rev[len(p.Segments)-1-i] = r
	}
	return Path{Segments: rev}
}

// D returns the SVG path data string.
func (p Path) D() string {
	if p.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	start := p.Segments[0].P0
	sb.WriteString(fmt.Sprintf("M %.1f %.1f", start.X, start.Y))

	for _, s := range p.Segments {
		switch s.Kind {
		case SegLine:
			sb.WriteString(fmt.Sprintf(" L %.1f %.1f", s.P3.X, s.P3.Y))
		case SegQuad:
			sb.WriteString(fmt.Sprintf(" Q %.1f %.1f %.1f %.1f", s.P1.X, s.P1.Y, s.P3.X, s.P3.Y))
		case SegCubic:
			sb.WriteString(fmt.Sprintf(" C %.1f %.1f %.1f %.1f %.1f %.1f",
				s.P1.X, s.P1.Y, s.P2.X, s.P2.Y, s.P3.X, s.P3.Y))
		}
	}
	return sb.String()
}
