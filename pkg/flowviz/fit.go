// Viewport fitting: scales a scene built in authoring coordinates to fill
// a target viewport, keeping a small margin and centring both ways.

package flowviz

import (
	"math"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// fitMargin leaves breathing room around the fitted scene.
const fitMargin = 0.95

// Fit is the transform mapping scene coordinates onto a viewport.
type Fit struct {
	Scale  float64
	Tx, Ty float64
	Bounds Rect // scene bounds in authoring coordinates
}

// SceneBounds computes the axis-aligned bounds of everything the render
// will draw: node boxes grown by their stroke, and link paths grown by
// their stroke width (the link value).
func SceneBounds(d *flow.Diagram, routes []RoutedLink) Rect {
	var bounds Rect
	first := true

	add := func(r Rect) {
		if first {
			bounds = r
			first = false
		} else {
			bounds = bounds.Union(r)
		}
	}

	for i := range d.Nodes {
		add(NodeRect(&d.Nodes[i]).Expand(nodeStrokeWidth / 2))
	}
	for _, rl := range routes {
		add(rl.Path.Bounds().Expand(rl.Link.Value / 2))
	}

	return bounds
}

// FitViewport computes the transform that scales bounds to fill viewW x
// viewH at the fit margin, centred. No clamping: small scenes scale up,
// large scenes scale down.
func FitViewport(bounds Rect, viewW, viewH float64) Fit {
	if bounds.W <= 0 || bounds.H <= 0 {
		return Fit{
			Scale:  1,
			Tx:     viewW/2 - bounds.X,
			Ty:     viewH/2 - bounds.Y,
			Bounds: bounds,
		}
	}

	scaleX := viewW / bounds.W
	scaleY := viewH / bounds.H
	scale := math.Min(scaleX, scaleY) * fitMargin

	scaledW := bounds.W * scale
	scaledH := bounds.H * scale
	tx := (viewW-scaledW)/2 - bounds.X*scale
	ty := (viewH-scaledH)/2 - bounds.Y*scale

	return Fit{Scale: scale, Tx: tx, Ty: ty, Bounds: bounds}
}

// Apply maps a scene point to viewport coordinates.
func (f Fit) Apply(p Point) Point {
	return Point{p.X*f.Scale + f.Tx, p.Y*f.Scale + f.Ty}
}
