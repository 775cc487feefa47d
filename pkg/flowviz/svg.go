package flowviz

import (
	"fmt"
	"html"
	"strings"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Width       int    // viewport width in pixels
	Height      int    // viewport height in pixels
	Title       string // document title, drawn as an overlay when set
	Staged      bool   // run the reveal choreography (proposed diagrams only)
	Interactive bool   // embed the hover/click behaviour script

	// Nav resolves click destinations; nil uses flow.DefaultNav().
	Nav flow.NavTable

	// Tooltips overrides the native <title> per node id. Nodes without an
	// entry fall back to their display name.
	Tooltips map[string]string

	// Theme overrides the kind-derived palette.
	Theme *Theme
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       960,
		Height:      540,
		Interactive: true,
	}
}

// safeID reduces a string to characters usable in an XML id.
func safeID(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func nodeElementID(id string) string {
	return "node-" + safeID(id)
}

func linkElementID(rl RoutedLink) string {
	if rl.Link.ID != "" {
		return "link-" + safeID(rl.Link.ID)
	}
	return fmt.Sprintf("link-%d", rl.Index)
}

func pathElementID(rl RoutedLink) string {
	if rl.Link.ID != "" {
		return "flowpath-" + safeID(rl.Link.ID)
	}
	return fmt.Sprintf("flowpath-%d", rl.Index)
}

// GenerateSVG renders a diagram to a self-contained SVG document: routed
// links under nodes, fitted to the viewport, with particles, labels and
// the optional staged reveal all baked in declaratively.
func GenerateSVG(d *flow.Diagram, opts SVGOptions) string {
	if opts.Width == 0 {
		opts.Width = 960
	}
	if opts.Height == 0 {
		opts.Height = 540
	}
	if opts.Nav == nil {
		opts.Nav = flow.DefaultNav()
	}

	theme := ThemeForKind(d.Config.Kind)
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	routes := RouteAll(d)
	bounds := SceneBounds(d, routes)
	fit := FitViewport(bounds, float64(opts.Width), float64(opts.Height))

	staged := opts.Staged && d.Config.Kind == flow.KindProposed
	plan := buildRevealPlan(d.Config)

	var sb strings.Builder

	kindAttr := ""
	if d.Config.Kind != "" {
		kindAttr = fmt.Sprintf(` data-kind="%s"`, html.EscapeString(string(d.Config.Kind)))
	}
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d"%s>
`, opts.Width, opts.Height, opts.Width, opts.Height, kindAttr))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(opts.Title)))
	}

	sb.WriteString("<defs>\n")
	writeIconSymbols(&sb, diagramIcons(d))
	sb.WriteString("</defs>\n")

	writeStyle(&sb, d, routes, plan, theme, staged)

	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>
`, opts.Width, opts.Height, theme.Background))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="26" class="title">%s</text>
`, opts.Width/2, html.EscapeString(opts.Title)))
	}

	sb.WriteString(fmt.Sprintf(`<g class="scene" transform="translate(%.2f %.2f) scale(%.4f)">
`, fit.Tx, fit.Ty, fit.Scale))

	// Links go under nodes.
	for _, rl := range routes {
		drawLink(&sb, rl, theme)
	}
	for i := range d.Nodes {
		drawNode(&sb, &d.Nodes[i], theme, opts)
	}

	sb.WriteString("</g>\n")

	if opts.Interactive {
		writeBehaviourScript(&sb)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// writeStyle emits the stylesheet: static classes plus the reveal and
// pulse rules when they apply.
func writeStyle(sb *strings.Builder, d *flow.Diagram, routes []RoutedLink, plan revealPlan, theme Theme, staged bool) {
	sb.WriteString(fmt.Sprintf(`<style>
  .title { font-family: %s; font-size: %.0fpx; font-weight: bold; text-anchor: middle; fill: %s; }
  .node-box { stroke-width: %.0f; }
  .node-label { font-family: %s; font-size: %.0fpx; text-anchor: middle; dominant-baseline: middle; fill: %s; }
  .link-path { fill: none; stroke-linecap: round; }
  .link-label { font-family: %s; font-size: %.0fpx; fill: %s; text-anchor: middle;
                paint-order: stroke; stroke: %s; stroke-width: 3px; stroke-linejoin: round; }
  .particle { pointer-events: none; }
  .node, .link { transition: opacity 300ms ease; }
  .dim { opacity: 0.25; }
  .node[data-href] { cursor: pointer; }
`,
		theme.FontFamily, theme.FontSize+4, theme.LabelColor,
		nodeStrokeWidth,
		theme.FontFamily, theme.FontSize, theme.NodeText,
		theme.FontFamily, theme.LabelSize, theme.LabelColor, theme.LabelHalo))

	if staged {
		writeRevealCSS(sb, d, routes, plan)
	}
	writePulseCSS(sb, d, plan, staged)

	sb.WriteString("</style>\n")
}

// drawLink emits one link group: the visible path, the hidden reversed
// path for upright loop labels, the label and the particle markers.
func drawLink(sb *strings.Builder, rl RoutedLink, theme Theme) {
	l := rl.Link
	groupID := linkElementID(rl)
	pathID := pathElementID(rl)
	stroke := linkColor(l, theme)

	sb.WriteString(fmt.Sprintf(`<g id="%s" class="link">
`, groupID))
	sb.WriteString(fmt.Sprintf(`<path id="%s" class="link-path" d="%s" stroke="%s" stroke-width="%.1f"/>
`, pathID, rl.Path.D(), stroke, l.Value))

	labelPathID := pathID
	if rl.Loop {
		// Loop paths run right to left; labels bind to the reversed copy so
		// the glyphs stay upright.
		labelPathID = pathID + "-rev"
		sb.WriteString(fmt.Sprintf(`<path id="%s" d="%s" fill="none" stroke="none"/>
`, labelPathID, rl.Path.Reverse().D()))
	}

	if l.Label != "" {
		sb.WriteString(fmt.Sprintf(`<text class="link-label" dy="-4"><textPath href="#%s" startOffset="%.4g%%">%s</textPath></text>
`, labelPathID, l.LabelFraction()*100, html.EscapeString(l.Label)))
	}

	writeParticles(sb, rl, pathID, theme)

	sb.WriteString("</g>\n")
}

// drawNode emits one node group: outer group carries identity and reveal,
// inner body carries the pulse, so the two transforms never collide.
func drawNode(sb *strings.Builder, n *flow.Node, theme Theme, opts SVGOptions) {
	fill, stroke := nodeColors(n, theme)

	attrs := fmt.Sprintf(`id="%s" class="node"`, nodeElementID(n.ID))
	if n.Icon != "" {
		attrs += fmt.Sprintf(` data-icon="%s"`, html.EscapeString(n.Icon))
	}

	navKey := n.Icon
	if navKey == "" {
		navKey = n.ID
	}
	if href := opts.Nav.Resolve(navKey); href != "" {
		attrs += fmt.Sprintf(` data-href="%s"`, html.EscapeString(href))
	}

	sb.WriteString(fmt.Sprintf("<g %s>\n<g class=\"node-body\">\n", attrs))

	tooltip := opts.Tooltips[n.ID]
	if tooltip == "" {
		tooltip = strings.Join(n.NameLines(), " ")
	}
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(tooltip)))

	sb.WriteString(fmt.Sprintf(`<rect class="node-box" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s"/>
`, n.X, n.Y, n.W, n.H, nodeCornerRadius, fill, stroke))

	cx := n.X + n.W/2

	hasIcon := n.Icon != "" && HasIcon(n.Icon)
	if hasIcon {
		size := minFloat(n.W, n.H) * 0.42
		iconY := n.Y + n.H*0.14
		sb.WriteString(fmt.Sprintf(`<use href="#icon-%s" class="node-icon" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, n.Icon, cx-size/2, iconY, size, size, stroke))
	}

	if !n.LabelHidden {
		drawNodeLabel(sb, n, theme, cx, hasIcon)
	}

	sb.WriteString("</g>\n</g>\n")
}

func drawNodeLabel(sb *strings.Builder, n *flow.Node, theme Theme, cx float64, hasIcon bool) {
	lines := n.NameLines()
	fontSize := theme.FontSize
	if n.LabelSize > 0 {
		fontSize = n.LabelSize
	}
	lineHeight := fontSize * 1.2

	// Icon nodes stack the label in the lower half; plain nodes centre the
	// whole block.
	var y float64
	if hasIcon {
		y = n.Y + n.H*0.68
	} else {
		y = n.Y + n.H/2 - lineHeight*float64(len(lines)-1)/2
	}
	y += n.LabelDy

	// Inline style so the per-node size wins over the class rule.
	sizeAttr := ""
	if n.LabelSize > 0 {
		sizeAttr = fmt.Sprintf(` style="font-size: %.0fpx"`, n.LabelSize)
	}

	sb.WriteString(fmt.Sprintf(`<text class="node-label"%s x="%.1f" y="%.1f">`, sizeAttr, cx, y))
	for i, line := range lines {
		if i == 0 {
			sb.WriteString(fmt.Sprintf(`<tspan x="%.1f">%s</tspan>`, cx, html.EscapeString(line)))
		} else {
			sb.WriteString(fmt.Sprintf(`<tspan x="%.1f" dy="%.1f">%s</tspan>`, cx, lineHeight, html.EscapeString(line)))
		}
	}
	sb.WriteString("</text>\n")
}

// writeBehaviourScript embeds the pointer behaviour: hovering an element
// dims everything else (one highlighted element at a time, last write
// wins), leaving restores, clicking follows the element's data-href.
func writeBehaviourScript(sb *strings.Builder) {
	sb.WriteString(`<script><![CDATA[
(function () {
  var svg = document.currentScript ? document.currentScript.ownerSVGElement : null;
  if (!svg) { return; }
  var items = Array.prototype.slice.call(svg.querySelectorAll(".node, .link"));
  var highlighted = null;

  function apply() {
    items.forEach(function (el) {
      if (highlighted && el !== highlighted) {
        el.classList.add("dim");
      } else {
        el.classList.remove("dim");
      }
    });
  }

  items.forEach(function (el) {
    el.addEventListener("pointerover", function () {
      highlighted = el;
      apply();
    });
    el.addEventListener("pointerout", function () {
      if (highlighted === el) {
        highlighted = null;
      }
      apply();
    });
    el.addEventListener("click", function () {
      var href = el.getAttribute("data-href");
      if (href) {
        window.location.href = href;
      }
    });
  });
})();
]]></script>
`)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
