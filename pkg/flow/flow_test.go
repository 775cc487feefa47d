package flow

import (
	"math"
	"testing"
)

func testDiagram() *Diagram {
	d := New(KindProposed)
	d.Name = "plant"
	d.AddNode(Node{ID: "collection", Name: "Waste<br>Collection", X: 40, Y: 60, W: 80, H: 80, Icon: "collection"})
	d.AddNode(Node{ID: "sorting", Name: "Sorting", X: 220, Y: 60, W: 80, H: 80, Icon: "sorting"})
	d.AddNode(Node{ID: "energy", Name: "Energy\nRecovery", X: 400, Y: 60, W: 80, H: 80, Icon: "energy"})
	d.AddLink(Link{ID: "l1", Source: "collection", Target: "sorting", Value: 12})
	d.AddLink(Link{ID: "l2", Source: "sorting", Target: "energy", Value: 8})
	d.AddLink(Link{ID: "l3", Source: "energy", Target: "collection", Value: 3})
	return d
}

func TestValidate(t *testing.T) {
	d := testDiagram()
	if err := d.Validate(); err != nil {
		t.Errorf("Valid diagram failed validation: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Diagram)
	}{
		{
			name: "Dangling link source",
			mutate: func(d *Diagram) {
				d.AddLink(Link{Source: "nowhere", Target: "sorting", Value: 1})
			},
		},
		{
			name: "Dangling link target",
			mutate: func(d *Diagram) {
				d.AddLink(Link{Source: "sorting", Target: "nowhere", Value: 1})
			},
		},
		{
			name: "Negative link value",
			mutate: func(d *Diagram) {
				d.Links[0].Value = -2
			},
		},
		{
			name: "Label position out of range",
			mutate: func(d *Diagram) {
				pos := 1.5
				d.Links[0].LabelPos = &pos
			},
		},
		{
			name: "Unknown kind",
			mutate: func(d *Diagram) {
				d.Config.Kind = "future"
			},
		},
		{
			name: "Reveal phase references missing node",
			mutate: func(d *Diagram) {
				d.Config.Reveal = []RevealPhase{{Nodes: []string{"ghost"}, Duration: 500}}
			},
		},
		{
			name: "Reveal phase references missing link",
			mutate: func(d *Diagram) {
				d.Config.Reveal = []RevealPhase{{Links: []string{"l9"}, Duration: 500}}
			},
		},
		{
			name: "Negative reveal timing",
			mutate: func(d *Diagram) {
				d.Config.Reveal = []RevealPhase{{Nodes: []string{"sorting"}, Delay: -100, Duration: 500}}
			},
		},
		{
			name: "Pulse references missing node",
			mutate: func(d *Diagram) {
				d.Config.Pulse = []string{"ghost"}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := testDiagram()
			tc.mutate(d)
			if err := d.Validate(); err == nil {
				t.Errorf("Expected validation error, got nil")
			}
		})
	}
}

func TestValidateDuplicateNode(t *testing.T) {
	// AddNode ignores duplicates, so a duplicate has to be forced in.
	d := testDiagram()
	d.Nodes = append(d.Nodes, Node{ID: "sorting", Name: "Again", W: 10, H: 10})
	if err := d.Validate(); err == nil {
		t.Errorf("Expected duplicate node id error, got nil")
	}
}

func TestAddNodeIgnoresDuplicate(t *testing.T) {
	d := testDiagram()
	before := len(d.Nodes)
	d.AddNode(Node{ID: "sorting", Name: "Shadow"})
	if len(d.Nodes) != before {
		t.Errorf("Expected duplicate AddNode to be ignored, node count %d -> %d", before, len(d.Nodes))
	}
	if d.NodeByID("sorting").Name != "Sorting" {
		t.Errorf("Duplicate AddNode overwrote original node")
	}
}

func TestNodeByID(t *testing.T) {
	d := testDiagram()

	n := d.NodeByID("energy")
	if n == nil {
		t.Fatalf("NodeByID(energy) returned nil")
	}
	if n.X != 400 {
		t.Errorf("Expected X=400, got %.1f", n.X)
	}

	if d.NodeByID("missing") != nil {
		t.Errorf("NodeByID(missing) should return nil")
	}
}

func TestNameLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Plain", "Sorting", []string{"Sorting"}},
		{"BR tag", "Waste<br>Collection", []string{"Waste", "Collection"}},
		{"Self-closing BR", "Waste<br/>Collection", []string{"Waste", "Collection"}},
		{"Newline", "Energy\nRecovery", []string{"Energy", "Recovery"}},
		{"Trims spaces", "Energy <br> Recovery ", []string{"Energy", "Recovery"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := Node{Name: tc.input}
			lines := n.NameLines()
			if len(lines) != len(tc.expected) {
				t.Fatalf("Expected %d lines, got %d: %v", len(tc.expected), len(lines), lines)
			}
			for i := range lines {
				if lines[i] != tc.expected[i] {
					t.Errorf("Line %d: expected %q, got %q", i, tc.expected[i], lines[i])
				}
			}
		})
	}
}

func TestLabelFraction(t *testing.T) {
	l := Link{}
	if math.Abs(l.LabelFraction()-DefaultLabelPos) > 1e-9 {
		t.Errorf("Expected default label fraction %.2f, got %.2f", DefaultLabelPos, l.LabelFraction())
	}

	pos := 0.25
	l.LabelPos = &pos
	if math.Abs(l.LabelFraction()-0.25) > 1e-9 {
		t.Errorf("Expected label fraction 0.25, got %.2f", l.LabelFraction())
	}
}

func TestParticleDefaults(t *testing.T) {
	var p *ParticleSpec

	// Nil spec resolves entirely to defaults.
	if p.ResolvedCount() != DefaultParticleCount {
		t.Errorf("Expected count %d, got %d", DefaultParticleCount, p.ResolvedCount())
	}
	if p.ResolvedRate() != DefaultParticleRate {
		t.Errorf("Expected rate %.1f, got %.1f", DefaultParticleRate, p.ResolvedRate())
	}
	if p.ResolvedSize() != DefaultParticleSize {
		t.Errorf("Expected size %.1f, got %.1f", DefaultParticleSize, p.ResolvedSize())
	}

	// Zero fields resolve per-field.
	p = &ParticleSpec{Count: 5}
	if p.ResolvedCount() != 5 {
		t.Errorf("Expected count 5, got %d", p.ResolvedCount())
	}
	if p.ResolvedRate() != DefaultParticleRate {
		t.Errorf("Expected default rate for zero field, got %.1f", p.ResolvedRate())
	}
}

func TestDocumentByKind(t *testing.T) {
	doc := &Document{
		Name: "plant",
		Diagrams: []Diagram{
			{Config: Config{Kind: KindCurrent}},
			{Config: Config{Kind: KindProposed}},
		},
	}

	if d := doc.ByKind(KindProposed); d == nil || d.Config.Kind != KindProposed {
		t.Errorf("ByKind(proposed) returned wrong diagram")
	}
	if d := doc.ByKind("future"); d != nil {
		t.Errorf("ByKind(future) should return nil")
	}
}

func TestDocumentValidate(t *testing.T) {
	doc := &Document{}
	if err := doc.Validate(); err == nil {
		t.Errorf("Empty document should fail validation")
	}

	doc.Diagrams = []Diagram{*testDiagram()}
	if err := doc.Validate(); err != nil {
		t.Errorf("Valid document failed validation: %v", err)
	}

	doc.Diagrams[0].Links[0].Target = "nowhere"
	if err := doc.Validate(); err == nil {
		t.Errorf("Document with dangling link should fail validation")
	}
}
