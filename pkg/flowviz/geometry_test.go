package flowviz

import (
	"math"
	"testing"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

func TestPointOps(t *testing.T) {
	a := Point{1, 2}
	b := Point{4, 6}

	if got := a.Add(b); got != (Point{5, 8}) {
		t.Errorf("Add = %v, expected (5, 8)", got)
	}
	if got := b.Sub(a); got != (Point{3, 4}) {
		t.Errorf("Sub = %v, expected (3, 4)", got)
	}
	if got := a.Scale(2); got != (Point{2, 4}) {
		t.Errorf("Scale = %v, expected (2, 4)", got)
	}
	if d := a.Dist(b); math.Abs(d-5) > 1e-9 {
		t.Errorf("Dist = %.4f, expected 5", d)
	}
}

func TestRectAccessors(t *testing.T) {
	r := Rect{10, 20, 100, 50}

	if r.Right() != 110 {
		t.Errorf("Right = %.1f, expected 110", r.Right())
	}
	if r.Bottom() != 70 {
		t.Errorf("Bottom = %.1f, expected 70", r.Bottom())
	}
	if c := r.Center(); c != (Point{60, 45}) {
		t.Errorf("Center = %v, expected (60, 45)", c)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{0, 0, 10, 10}

	if !r.Contains(Point{5, 5}) {
		t.Error("Interior point should be contained")
	}
	if !r.Contains(Point{0, 0}) {
		t.Error("Edge point should be contained")
	}
	if r.Contains(Point{11, 5}) {
		t.Error("Outside point should not be contained")
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{20, 5, 10, 10}

	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Right() != 30 || u.Bottom() != 15 {
		t.Errorf("Union = %v, expected (0, 0)-(30, 15)", u)
	}
}

func TestRectExpand(t *testing.T) {
	r := Rect{10, 10, 20, 20}.Expand(5)
	if r.X != 5 || r.Y != 5 || r.W != 30 || r.H != 30 {
		t.Errorf("Expand = %v, expected (5, 5, 30, 30)", r)
	}
}

func TestRectExtendToPoint(t *testing.T) {
	r := Rect{0, 0, 10, 10}

	grown := r.ExtendToPoint(Point{20, -5})
	if grown.Right() != 20 || grown.Y != -5 {
		t.Errorf("ExtendToPoint = %v, expected right 20 top -5", grown)
	}

	same := r.ExtendToPoint(Point{5, 5})
	if same != r {
		t.Errorf("Interior point should leave the rect unchanged, got %v", same)
	}
}

func TestAnchors(t *testing.T) {
	n := &flow.Node{ID: "a", X: 100, Y: 40, W: 120, H: 70}

	src := SourceAnchor(n)
	if src != (Point{220, 75}) {
		t.Errorf("SourceAnchor = %v, expected (220, 75)", src)
	}
	dst := TargetAnchor(n)
	if dst != (Point{100, 75}) {
		t.Errorf("TargetAnchor = %v, expected (100, 75)", dst)
	}

	r := NodeRect(n)
	if r != (Rect{100, 40, 120, 70}) {
		t.Errorf("NodeRect = %v, expected the node box", r)
	}
}
