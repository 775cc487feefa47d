// Colour themes for diagram rendering. Node fills and particle tints are
// derived from the authored accent colours in Lab space rather than
// hand-picked per shade.

package flowviz

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

const (
	nodeStrokeWidth  = 2.0
	nodeCornerRadius = 10.0
)

// Theme holds the colours and type sizes shared by the SVG and PNG
// renderers.
type Theme struct {
	Background string
	NodeFill   string // used when a node has no accent colour
	NodeStroke string
	NodeText   string
	LinkColor  string // used when a link has no colour
	LabelColor string
	LabelHalo  string
	FontFamily string
	FontSize   float64 // node label base size
	LabelSize  float64 // link label size
}

// DefaultTheme returns the neutral palette.
func DefaultTheme() Theme {
	return Theme{
		Background: "#fcfcf9",
		NodeFill:   "#eef1f0",
		NodeStroke: "#5a6b63",
		NodeText:   "#233029",
		LinkColor:  "#8aa39a",
		LabelColor: "#3c4a43",
		LabelHalo:  "#fcfcf9",
		FontFamily: "sans-serif",
		FontSize:   14,
		LabelSize:  12,
	}
}

// ThemeForKind adapts the palette to the dataset: the current process reads
// warm and heavy, the proposed circular process reads green.
func ThemeForKind(kind flow.Kind) Theme {
	t := DefaultTheme()
	switch kind {
	case flow.KindCurrent:
		t.NodeStroke = "#7a6458"
		t.LinkColor = "#b09386"
		t.NodeFill = "#f3ece7"
	case flow.KindProposed:
		t.NodeStroke = "#2e7d56"
		t.LinkColor = "#74a98e"
		t.NodeFill = "#e9f4ee"
	}
	return t
}

// Lighten blends a hex colour toward white in Lab space. Bad input returns
// the input unchanged; colour problems never fail a render.
func Lighten(hex string, t float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	return c.BlendLab(white, t).Clamped().Hex()
}

// Darken blends a hex colour toward black in Lab space.
func Darken(hex string, t float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	black := colorful.Color{}
	return c.BlendLab(black, t).Clamped().Hex()
}

// nodeColors resolves a node's fill and stroke: an authored accent colour
// becomes a strong stroke over a pale fill of the same hue.
func nodeColors(n *flow.Node, theme Theme) (fill, stroke string) {
	if n.Color == "" {
		return theme.NodeFill, theme.NodeStroke
	}
	return Lighten(n.Color, 0.78), n.Color
}

// linkColor resolves a link's stroke colour.
func linkColor(l *flow.Link, theme Theme) string {
	if l.Color == "" {
		return theme.LinkColor
	}
	return l.Color
}

// particleColor derives the marker tint from the link colour, one step
// brighter so markers read against their own path.
func particleColor(l *flow.Link, theme Theme) string {
	return Lighten(linkColor(l, theme), 0.35)
}
