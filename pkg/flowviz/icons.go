// Inline icon glyphs for process stages. Each icon is a 24x24 symbol
// emitted once into the document defs and referenced with <use>, so node
// badges and icon-shaped particles share one definition. Paths carry no
// fill of their own and inherit it from the referencing element.

package flowviz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

var icons = map[string]string{
	"collection":   `<path d="M1 7h12v9H1z"/><path d="M13 10h5l4 4v2h-9z"/><circle cx="6" cy="18" r="2"/><circle cx="17" cy="18" r="2"/>`,
	"sorting":      `<path d="M3 4h18l-7 8v7l-4-2v-5z"/>`,
	"incineration": `<path d="M12 2c2 4 6 6 6 11a6 6 0 0 1-12 0c0-3 2-5 3-7 1 2 3 3 3-4z"/>`,
	"energy":       `<path d="M13 2 3 14h8l-1 8 11-12h-8z"/>`,
	"recycling":    `<path d="M12 3l4 6h-8z"/><path d="M5 13l-2 7 7-1z"/><path d="M19 13l2 7-7-1z"/>`,
	"residue":      `<path d="M4 18c0-4 4-7 8-7s8 3 8 7z"/>`,
	"materials":    `<path d="M12 2 3 7v10l9 5 9-5V7z"/>`,
	"landfill":     `<path d="M3 20h18l-3-6H6z"/><path d="M8 12h8l-2-4h-4z"/>`,
	"emissions":    `<path d="M7 18a4 4 0 1 1 .6-7.96A5.5 5.5 0 0 1 18 9a4.5 4.5 0 0 1-.5 9z"/>`,
	"heat":         `<path d="M8 3c0 3-3 4-3 8a4 4 0 0 0 8 0c0-4-3-5-3-8z"/><path d="M16 7c0 2-2 3-2 6a3 3 0 0 0 6 0c0-3-2-4-2-6z"/>`,
	"homes":        `<path d="M3 11 12 3l9 8"/><path d="M5 10v10h14V10"/><path d="M10 20v-6h4v6"/>`,
}

// HasIcon reports whether name is a known icon reference.
func HasIcon(name string) bool {
	_, ok := icons[name]
	return ok
}

// IconNames returns the known icon references in sorted order.
func IconNames() []string {
	names := make([]string, 0, len(icons))
	for name := range icons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// diagramIcons collects the icon references a diagram actually uses, from
// node badges and icon-shaped particles, sorted and deduplicated.
func diagramIcons(d *flow.Diagram) []string {
	seen := make(map[string]bool)
	for i := range d.Nodes {
		if name := d.Nodes[i].Icon; name != "" && HasIcon(name) {
			seen[name] = true
		}
	}
	for i := range d.Links {
		p := d.Links[i].Particles
		if p == nil {
			continue
		}
		if name := p.Shape; name != "" && name != "dot" && HasIcon(name) {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeIconSymbols emits one <symbol> per icon in use.
func writeIconSymbols(sb *strings.Builder, names []string) {
	for _, name := range names {
		markup, ok := icons[name]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(`  <symbol id="icon-%s" viewBox="0 0 24 24">%s</symbol>
`, name, markup))
	}
}
