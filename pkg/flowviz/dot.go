package flowviz

import (
	"fmt"
	"strings"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// GenerateDOT converts a diagram to Graphviz DOT format. Positions and
// animation are dropped; this is a topology view for debugging datasets.
func GenerateDOT(d *flow.Diagram, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph flow {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=box, style=rounded];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for i := range d.Nodes {
		n := &d.Nodes[i]
		var attrs []string

		// Escape per line, then join with a literal DOT line break.
		lines := n.NameLines()
		escaped := make([]string, len(lines))
		for j, line := range lines {
			escaped[j] = escapeDOT(line)
		}
		attrs = append(attrs, fmt.Sprintf("label=\"%s\"", strings.Join(escaped, "\\n")))
		if n.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=\"%s\"", escapeDOT(n.Color)))
		}

		sb.WriteString(fmt.Sprintf("    \"%s\" [%s];\n", escapeDOT(n.ID), strings.Join(attrs, ", ")))
	}
	sb.WriteString("\n")

	for i := range d.Links {
		l := &d.Links[i]
		if d.NodeByID(l.Source) == nil || d.NodeByID(l.Target) == nil {
			continue
		}

		var attrs []string
		if l.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=\"%s\"", escapeDOT(l.Label)))
		}
		attrs = append(attrs, fmt.Sprintf("penwidth=%.1f", penWidth(l.Value)))
		if l.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=\"%s\"", escapeDOT(l.Color)))
		}

		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [%s];\n",
			escapeDOT(l.Source), escapeDOT(l.Target), strings.Join(attrs, ", ")))
	}

	sb.WriteString("}\n")

	return sb.String()
}

// penWidth maps a link value onto a readable DOT stroke range.
func penWidth(value float64) float64 {
	w := value / 3
	if w < 1 {
		w = 1
	}
	if w > 8 {
		w = 8
	}
	return w
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
