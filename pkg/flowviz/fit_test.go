package flowviz

import (
	"math"
	"testing"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		name          string
		bounds        Rect
		viewW, viewH  float64
		expectedScale float64
	}{
		{
			name:          "Width limited",
			bounds:        Rect{0, 0, 400, 100},
			viewW:         800,
			viewH:         600,
			expectedScale: 800.0 / 400.0 * fitMargin,
		},
		{
			name:          "Height limited",
			bounds:        Rect{0, 0, 100, 300},
			viewW:         800,
			viewH:         600,
			expectedScale: 600.0 / 300.0 * fitMargin,
		},
		{
			name:          "Scales up small scenes",
			bounds:        Rect{0, 0, 80, 45},
			viewW:         960,
			viewH:         540,
			expectedScale: 960.0 / 80.0 * fitMargin,
		},
		{
			name:          "Scales down large scenes",
			bounds:        Rect{0, 0, 9600, 5400},
			viewW:         960,
			viewH:         540,
			expectedScale: 0.1 * fitMargin,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fit := FitViewport(tc.bounds, tc.viewW, tc.viewH)
			if math.Abs(fit.Scale-tc.expectedScale) > 1e-9 {
				t.Errorf("Scale %.4f, expected %.4f", fit.Scale, tc.expectedScale)
			}
		})
	}
}

func TestFitCentresContent(t *testing.T) {
	bounds := Rect{100, 50, 200, 100}
	fit := FitViewport(bounds, 800, 600)

	// The scaled bounds centre must land on the viewport centre.
	centre := fit.Apply(bounds.Center())
	if math.Abs(centre.X-400) > 1e-6 {
		t.Errorf("Centre x %.2f, expected 400", centre.X)
	}
	if math.Abs(centre.Y-300) > 1e-6 {
		t.Errorf("Centre y %.2f, expected 300", centre.Y)
	}

	// The fitted scene keeps the margin on the limiting axis.
	topLeft := fit.Apply(Point{bounds.X, bounds.Y})
	bottomRight := fit.Apply(Point{bounds.Right(), bounds.Bottom()})
	if topLeft.X < 0 || topLeft.Y < 0 || bottomRight.X > 800 || bottomRight.Y > 600 {
		t.Errorf("Fitted scene leaks outside viewport: %v to %v", topLeft, bottomRight)
	}
}

func TestFitOffsetsNonZeroOrigin(t *testing.T) {
	// Content far from the origin still lands inside the viewport.
	bounds := Rect{5000, -3000, 100, 100}
	fit := FitViewport(bounds, 400, 400)

	p := fit.Apply(Point{5050, -2950}) // content centre
	if math.Abs(p.X-200) > 1e-6 || math.Abs(p.Y-200) > 1e-6 {
		t.Errorf("Centre mapped to %v, expected (200, 200)", p)
	}
}

func TestFitDegenerateBounds(t *testing.T) {
	fit := FitViewport(Rect{10, 10, 0, 0}, 800, 600)
	if fit.Scale != 1 {
		t.Errorf("Degenerate bounds should fit at scale 1, got %.2f", fit.Scale)
	}
	p := fit.Apply(Point{10, 10})
	if math.Abs(p.X-400) > 1e-6 || math.Abs(p.Y-300) > 1e-6 {
		t.Errorf("Degenerate point mapped to %v, expected viewport centre", p)
	}
}

func TestSceneBoundsCoversLoops(t *testing.T) {
	// The loop rail extends the scene below the nodes; fitting must account
	// for it or the rail would render outside the viewport.
	d := flow.New(flow.KindProposed)
	d.AddNode(flow.Node{ID: "a", Name: "A", X: 0, Y: 0, W: 80, H: 60})
	d.AddNode(flow.Node{ID: "b", Name: "B", X: 300, Y: 0, W: 80, H: 60})
	d.AddLink(flow.Link{Source: "b", Target: "a", Value: 4})

	routes := RouteAll(d)
	bounds := SceneBounds(d, routes)

	// Rail at 130 plus half the stroke width.
	if bounds.Bottom() < 130 {
		t.Errorf("Scene bounds bottom %.1f does not cover the loop rail at 130", bounds.Bottom())
	}
	// Loop stub extends right of node b (x 380 + stub 40).
	if bounds.Right() < 420 {
		t.Errorf("Scene bounds right %.1f does not cover the loop stub at 420", bounds.Right())
	}
}
