// Package flow provides the core circular process-flow diagram model.
package flow

import (
	"fmt"
	"strings"
)

// Kind tags a diagram as describing the current or the proposed process.
type Kind string

const (
	KindCurrent  Kind = "current"
	KindProposed Kind = "proposed"
)

// Defaults for optional fields. Missing values fall back to these rather
// than failing the render.
const (
	DefaultLabelPos      = 0.5
	DefaultParticleCount = 3
	DefaultParticleRate  = 3.0
	DefaultParticleSize  = 4.0
)

// Node is a process stage placed at an absolute position.
// Name may contain <br> or \n line breaks, rendered as stacked lines.
type Node struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color string  `json:"color,omitempty"`
	Icon  string  `json:"icon,omitempty"`

	// Optional label display flags.
	LabelSize   float64 `json:"label_size,omitempty"` // 0 = renderer default
	LabelHidden bool    `json:"label_hidden,omitempty"`
	LabelDy     float64 `json:"label_dy,omitempty"` // vertical offset
}

// ParticleSpec configures the animated markers travelling along a link.
type ParticleSpec struct {
	Count int     `json:"count,omitempty"` // 0 = DefaultParticleCount
	Rate  float64 `json:"rate,omitempty"`  // higher = faster; 0 = DefaultParticleRate
	Size  float64 `json:"size,omitempty"`  // marker radius; 0 = DefaultParticleSize
	Shape string  `json:"shape,omitempty"` // "dot" (default) or an icon reference
}

// Link connects two nodes. Value is used directly as the stroke width.
type Link struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
	Color  string  `json:"color,omitempty"`

	Label    string   `json:"label,omitempty"`
	LabelPos *float64 `json:"label_pos,omitempty"` // fraction 0-1 along path; nil = DefaultLabelPos

	Particles *ParticleSpec `json:"particles,omitempty"`

	// LoopY pins the horizontal rail of a loop-back route to an explicit
	// vertical coordinate. Nil selects the computed fallback.
	LoopY *float64 `json:"loop_y,omitempty"`
}

// RevealPhase names the elements revealed together during the staged
// entrance animation. Delay is measured from the end of the previous phase.
type RevealPhase struct {
	Nodes    []string `json:"nodes,omitempty"`
	Links    []string `json:"links,omitempty"`
	Delay    int      `json:"delay"`    // ms after previous phase completes
	Duration int      `json:"duration"` // ms
}

// Config carries per-diagram presentation settings.
type Config struct {
	Kind   Kind          `json:"kind"`
	Reveal []RevealPhase `json:"reveal,omitempty"`
	Pulse  []string      `json:"pulse,omitempty"` // node ids that pulse after reveal
}

// Diagram is one complete node/link scene.
type Diagram struct {
	Name   string `json:"name,omitempty"`
	Config Config `json:"config"`
	Nodes  []Node `json:"nodes"`
	Links  []Link `json:"links"`
}

// Document is a named set of diagrams, typically one per Kind.
type Document struct {
	Name     string    `json:"name,omitempty"`
	Diagrams []Diagram `json:"diagrams"`
}

// New creates an empty diagram of the given kind.
func New(kind Kind) *Diagram {
	return &Diagram{
		Config: Config{Kind: kind},
		Nodes:  make([]Node, 0),
		Links:  make([]Link, 0),
	}
}

// AddNode appends a node, ignoring duplicates by id.
func (d *Diagram) AddNode(n Node) {
	for _, e := range d.Nodes {
		if e.ID == n.ID {
			return
		}
	}
	d.Nodes = append(d.Nodes, n)
}

// AddLink appends a link.
func (d *Diagram) AddLink(l Link) {
	d.Links = append(d.Links, l)
}

// NodeByID returns the node with the given id, or nil.
func (d *Diagram) NodeByID(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// LinkByID returns the link with the given id, or nil.
func (d *Diagram) LinkByID(id string) *Link {
	for i := range d.Links {
		if d.Links[i].ID == id {
			return &d.Links[i]
		}
	}
	return nil
}

// NameLines splits a node display name on <br> or newline markers.
func (n *Node) NameLines() []string {
	s := n.Name
	for _, br := range []string{"<br/>", "<br>", "<BR/>", "<BR>"} {
		s = strings.ReplaceAll(s, br, "\n")
	}
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

// LabelFraction returns the label anchor fraction with the default applied.
func (l *Link) LabelFraction() float64 {
	if l.LabelPos == nil {
		return DefaultLabelPos
	}
	return *l.LabelPos
}

// ResolvedCount returns the particle count with the default applied.
func (p *ParticleSpec) ResolvedCount() int {
	if p == nil || p.Count <= 0 {
		return DefaultParticleCount
	}
	return p.Count
}

// ResolvedRate returns the particle rate with the default applied.
func (p *ParticleSpec) ResolvedRate() float64 {
	if p == nil || p.Rate <= 0 {
		return DefaultParticleRate
	}
	return p.Rate
}

// ResolvedSize returns the marker size with the default applied.
func (p *ParticleSpec) ResolvedSize() float64 {
	if p == nil || p.Size <= 0 {
		return DefaultParticleSize
	}
	return p.Size
}

// Validate checks that the diagram is well-formed. Rendering never requires
// a valid diagram (bad links are simply skipped); this exists so tooling can
// report authoring mistakes.
func (d *Diagram) Validate() error {
	seen := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if n.W < 0 || n.H < 0 {
			return fmt.Errorf("node %q: negative size", n.ID)
		}
	}

	linkSeen := make(map[string]bool, len(d.Links))
	for i, l := range d.Links {
		if l.ID != "" {
			if linkSeen[l.ID] {
				return fmt.Errorf("duplicate link id %q", l.ID)
			}
			linkSeen[l.ID] = true
		}
		if !seen[l.Source] {
			return fmt.Errorf("link %d: source %q not in nodes", i, l.Source)
		}
		if !seen[l.Target] {
			return fmt.Errorf("link %d: target %q not in nodes", i, l.Target)
		}
		if l.Value < 0 {
			return fmt.Errorf("link %d: negative value", i)
		}
		if l.LabelPos != nil && (*l.LabelPos < 0 || *l.LabelPos > 1) {
			return fmt.Errorf("link %d: label position %.2f outside 0-1", i, *l.LabelPos)
		}
	}

	switch d.Config.Kind {
	case "", KindCurrent, KindProposed:
	default:
		return fmt.Errorf("unknown diagram kind %q", d.Config.Kind)
	}

	// Reveal phases may only name known elements.
	for pi, p := range d.Config.Reveal {
		for _, id := range p.Nodes {
			if !seen[id] {
				return fmt.Errorf("reveal phase %d: node %q not in nodes", pi+1, id)
			}
		}
		for _, id := range p.Links {
			if d.LinkByID(id) == nil {
				return fmt.Errorf("reveal phase %d: link %q not in links", pi+1, id)
			}
		}
		if p.Delay < 0 || p.Duration < 0 {
			return fmt.Errorf("reveal phase %d: negative timing", pi+1)
		}
	}
	for _, id := range d.Config.Pulse {
		if !seen[id] {
			return fmt.Errorf("pulse node %q not in nodes", id)
		}
	}

	return nil
}

// Validate checks every diagram in the document.
func (doc *Document) Validate() error {
	if len(doc.Diagrams) == 0 {
		return fmt.Errorf("document has no diagrams")
	}
	for i := range doc.Diagrams {
		if err := doc.Diagrams[i].Validate(); err != nil {
			name := doc.Diagrams[i].Name
			if name == "" {
				name = string(doc.Diagrams[i].Config.Kind)
			}
			return fmt.Errorf("diagram %q: %w", name, err)
		}
	}
	return nil
}

// ByKind returns the first diagram tagged with the given kind, or nil.
func (doc *Document) ByKind(kind Kind) *Diagram {
	for i := range doc.Diagrams {
		if doc.Diagrams[i].Config.Kind == kind {
			return &doc.Diagrams[i]
		}
	}
	return nil
}

// String returns a short summary of the diagram.
func (d *Diagram) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Diagram[%s]: %s\n", d.Config.Kind, d.Name))
	sb.WriteString(fmt.Sprintf("  Nodes: %d\n", len(d.Nodes)))
	sb.WriteString(fmt.Sprintf("  Links: %d\n", len(d.Links)))
	sb.WriteString(fmt.Sprintf("  Reveal phases: %d\n", len(d.Config.Reveal)))
	return sb.String()
}
