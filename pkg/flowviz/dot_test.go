package flowviz

import (
	"strings"
	"testing"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

func TestGenerateDOT(t *testing.T) {
	d := flow.New(flow.KindCurrent)
	d.AddNode(flow.Node{ID: "waste", Name: "Waste<br/>Collection", X: 0, Y: 0, W: 120, H: 70})
	d.AddNode(flow.Node{ID: "plant", Name: "Plant", X: 300, Y: 0, W: 120, H: 70, Color: "#2e7d56"})
	d.AddLink(flow.Link{ID: "ab", Source: "waste", Target: "plant", Value: 6, Label: "120 kt"})

	dot := GenerateDOT(d, "Current flow")

	for _, want := range []string{
		"digraph flow {",
		"rankdir=LR;",
		`label="Current flow";`,
		`"waste" [label="Waste\nCollection"];`,
		`"plant" [label="Plant", color="#2e7d56"];`,
		`"waste" -> "plant" [label="120 kt", penwidth=2.0];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestGenerateDOTSkipsDangling(t *testing.T) {
	d := flow.New(flow.KindCurrent)
	d.AddNode(flow.Node{ID: "a", Name: "A", X: 0, Y: 0, W: 80, H: 60})
	d.AddLink(flow.Link{ID: "bad", Source: "a", Target: "ghost", Value: 2})

	dot := GenerateDOT(d, "")
	if strings.Contains(dot, "ghost") {
		t.Errorf("Dangling link should be skipped:\n%s", dot)
	}
	if strings.Contains(dot, "labelloc") {
		t.Error("Untitled graphs should not set labelloc")
	}
}

func TestPenWidth(t *testing.T) {
	tests := []struct {
		value    float64
		expected float64
	}{
		{0.5, 1}, // clamps up
		{3, 1},   // lower edge
		{12, 4},  // scales
		{30, 8},  // clamps down
	}
	for _, tc := range tests {
		if got := penWidth(tc.value); got != tc.expected {
			t.Errorf("penWidth(%.1f) = %.1f, expected %.1f", tc.value, got, tc.expected)
		}
	}
}

func TestEscapeDOT(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{`plain`, `plain`},
		{`say "hi"`, `say \"hi\"`},
		{`a<b>c`, `a\<b\>c`},
		{`back\slash`, `back\\slash`},
	}
	for _, tc := range tests {
		if got := escapeDOT(tc.in); got != tc.expected {
			t.Errorf("escapeDOT(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}
