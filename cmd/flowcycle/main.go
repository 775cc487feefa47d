// Command flowcycle renders circular process-flow diagrams and hosts the
// marketing page around them.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ecoviz/flowcycle/pkg/flow"
	"github.com/ecoviz/flowcycle/pkg/flowviz"
)

const usage = `flowcycle - circular process-flow diagram toolkit

Usage:
  flowcycle <command> [options]

Commands:
  render     Render a diagram to SVG
  png        Render a diagram to PNG
  html       Render a standalone HTML preview
  dot        Generate Graphviz DOT output
  info       Show document information
  validate   Validate a flow document
  serve      Host the marketing page and diagram endpoints

Examples:
  flowcycle render plant.json --kind proposed --staged -o proposed.svg
  flowcycle png plant.json --kind current --width 1200 --height 675
  flowcycle dot plant.json --kind proposed | dot -Tpng -o topology.png
  flowcycle serve --data plant.json --content content.toml --watch
  flowcycle validate plant.json

Use "flowcycle <command> -h" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "render":
		cmdRender(args)
	case "png":
		cmdPNG(args)
	case "html":
		cmdHTML(args)
	case "dot":
		cmdDot(args)
	case "info":
		cmdInfo(args)
	case "validate":
		cmdValidate(args)
	case "serve":
		cmdServe(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// renderFlags is the option set shared by the render, png and html
// commands.
type renderFlags struct {
	input  string
	output string
	kind   string
	title  string
	width  int
	height int
	staged bool
}

func parseRenderFlags(args []string, usageLine string) renderFlags {
	if len(args) < 1 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, usageLine)
		os.Exit(1)
	}

	f := renderFlags{input: args[0]}
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				f.output = args[i+1]
				i++
			}
		case "--kind", "-k":
			if i+1 < len(args) {
				f.kind = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				f.title = args[i+1]
				i++
			}
		case "--width":
			if i+1 < len(args) {
				f.width = atoiOrDie(args[i+1], "--width")
				i++
			}
		case "--height":
			if i+1 < len(args) {
				f.height = atoiOrDie(args[i+1], "--height")
				i++
			}
		case "--staged":
			f.staged = true
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
			fmt.Fprintln(os.Stderr, usageLine)
			os.Exit(1)
		}
	}
	return f
}

func atoiOrDie(s, flagName string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "Invalid value for %s: %s\n", flagName, s)
		os.Exit(1)
	}
	return n
}

func loadDocument(path string) *flow.Document {
	doc, err := flow.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
		os.Exit(1)
	}
	return doc
}

// pickDiagram selects the diagram to render: the named kind, or the only
// diagram when the document has just one.
func pickDiagram(doc *flow.Document, kind string) *flow.Diagram {
	if kind == "" {
		if len(doc.Diagrams) == 1 {
			return &doc.Diagrams[0]
		}
		kinds := make([]string, 0, len(doc.Diagrams))
		for i := range doc.Diagrams {
			kinds = append(kinds, string(doc.Diagrams[i].Config.Kind))
		}
		fmt.Fprintf(os.Stderr, "Document has %d diagrams (%s); pick one with --kind\n",
			len(doc.Diagrams), strings.Join(kinds, ", "))
		os.Exit(1)
	}

	d := doc.ByKind(flow.Kind(kind))
	if d == nil {
		fmt.Fprintf(os.Stderr, "No diagram with kind %q\n", kind)
		os.Exit(1)
	}
	return d
}

// defaultOutput derives an output filename from the input and extension,
// tagging the kind when one was picked explicitly.
func defaultOutput(input, kind, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if kind != "" {
		base += "-" + kind
	}
	return base + ext
}

func writeOutput(path string, data []byte) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
		os.Exit(1)
	}
	color.Green("Written: %s", path)
}

func cmdRender(args []string) {
	f := parseRenderFlags(args,
		"Usage: flowcycle render <input> [-o output] [--kind k] [--staged] [--width N] [--height N] [-t title]")

	doc := loadDocument(f.input)
	d := pickDiagram(doc, f.kind)

	opts := flowviz.SVGOptions{
		Width:       f.width,
		Height:      f.height,
		Title:       f.title,
		Staged:      f.staged,
		Interactive: true,
	}
	svg := flowviz.GenerateSVG(d, opts)

	if f.output == "" {
		f.output = defaultOutput(f.input, f.kind, ".svg")
	}
	writeOutput(f.output, []byte(svg))
}

func cmdPNG(args []string) {
	f := parseRenderFlags(args,
		"Usage: flowcycle png <input> [-o output] [--kind k] [--width N] [--height N] [-t title]")

	doc := loadDocument(f.input)
	d := pickDiagram(doc, f.kind)

	if f.output == "" {
		f.output = defaultOutput(f.input, f.kind, ".png")
	}

	out, err := os.Create(f.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", f.output, err)
		os.Exit(1)
	}
	defer out.Close()

	opts := flowviz.PNGOptions{Width: f.width, Height: f.height, Title: f.title}
	if err := flowviz.RenderPNG(d, out, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering %s: %v\n", f.output, err)
		os.Exit(1)
	}
	color.Green("Written: %s", f.output)
}

func cmdHTML(args []string) {
	f := parseRenderFlags(args,
		"Usage: flowcycle html <input> [-o output] [--kind k] [--staged] [--width N] [--height N] [-t title]")

	doc := loadDocument(f.input)
	d := pickDiagram(doc, f.kind)

	opts := flowviz.SVGOptions{
		Width:       f.width,
		Height:      f.height,
		Title:       f.title,
		Staged:      f.staged,
		Interactive: true,
	}
	page := flowviz.GenerateHTML(d, opts)

	if f.output == "" {
		f.output = defaultOutput(f.input, f.kind, ".html")
	}
	writeOutput(f.output, []byte(page))
}

func cmdDot(args []string) {
	f := parseRenderFlags(args,
		"Usage: flowcycle dot <input> [-o output] [--kind k] [-t title]")

	doc := loadDocument(f.input)
	d := pickDiagram(doc, f.kind)

	title := f.title
	if title == "" {
		title = d.Name
	}
	dot := flowviz.GenerateDOT(d, title)

	if f.output != "" {
		writeOutput(f.output, []byte(dot))
	} else {
		fmt.Print(dot)
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: flowcycle info <input>")
		os.Exit(1)
	}

	input := args[0]
	doc := loadDocument(input)

	if doc.Name != "" {
		fmt.Printf("Document:  %s\n", doc.Name)
	}
	fmt.Printf("Diagrams:  %d\n", len(doc.Diagrams))

	for i := range doc.Diagrams {
		d := &doc.Diagrams[i]
		routes := flowviz.RouteAll(d)
		loops := 0
		for _, rl := range routes {
			if rl.Loop {
				loops++
			}
		}

		fmt.Println()
		name := d.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("[%s] %s\n", d.Config.Kind, name)
		fmt.Printf("  Nodes:   %d\n", len(d.Nodes))
		fmt.Printf("  Links:   %d (%d loop-back)\n", len(d.Links), loops)
		if dropped := len(d.Links) - len(routes); dropped > 0 {
			fmt.Printf("  Dangling: %d link(s) reference missing nodes\n", dropped)
		}
		if len(d.Config.Reveal) > 0 {
			starts := flowviz.PhaseStarts(d.Config.Reveal)
			last := d.Config.Reveal[len(d.Config.Reveal)-1]
			fmt.Printf("  Reveal:  %d phases over %dms\n",
				len(d.Config.Reveal), starts[len(starts)-1]+last.Duration)
		}
		if len(d.Config.Pulse) > 0 {
			fmt.Printf("  Pulse:   %s\n", strings.Join(d.Config.Pulse, ", "))
		}
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: flowcycle validate <input>")
		os.Exit(1)
	}

	input := args[0]
	doc := loadDocument(input)

	if err := doc.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	nodes, links := 0, 0
	for i := range doc.Diagrams {
		nodes += len(doc.Diagrams[i].Nodes)
		links += len(doc.Diagrams[i].Links)
	}
	color.Green("%s: valid document with %d diagram(s), %d nodes, %d links",
		input, len(doc.Diagrams), nodes, links)
}
