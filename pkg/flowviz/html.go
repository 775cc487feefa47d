package flowviz

import (
	"fmt"
	"html"
	"strings"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// GenerateHTML wraps a rendered diagram in a minimal standalone page, for
// quick previews outside the hosted site. The SVG is inlined, so the
// reveal, pulse and particle behaviour all work from a file:// open.
func GenerateHTML(d *flow.Diagram, opts SVGOptions) string {
	title := opts.Title
	if title == "" {
		title = d.Name
	}
	if title == "" {
		title = "Process flow"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString(`<style>
  body { margin: 0; min-height: 100vh; display: flex; align-items: center;
         justify-content: center; background: #f4f4ef; }
  svg { max-width: 96vw; height: auto; box-shadow: 0 2px 14px rgba(20, 40, 30, 0.12);
        border-radius: 8px; }
</style>
`)
	sb.WriteString("</head>\n<body>\n")
	// Drop the XML prolog; it has no place inside an HTML body.
	svg := GenerateSVG(d, opts)
	svg = strings.TrimPrefix(svg, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString(svg)
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
