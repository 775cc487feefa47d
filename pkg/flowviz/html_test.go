package flowviz

import (
	"strings"
	"testing"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

func TestGenerateHTML(t *testing.T) {
	d := flow.New(flow.KindProposed)
	d.Name = "Proposed cycle"
	d.AddNode(flow.Node{ID: "a", Name: "A", X: 0, Y: 0, W: 80, H: 60})

	page := GenerateHTML(d, SVGOptions{})

	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Error("Missing doctype")
	}
	if !strings.Contains(page, "<title>Proposed cycle</title>") {
		t.Error("Page title should fall back to the diagram name")
	}
	if !strings.Contains(page, "<svg xmlns=") {
		t.Error("SVG should be inlined")
	}
	if strings.Contains(page, "<?xml") {
		t.Error("XML prolog does not belong inside an HTML body")
	}
	if !strings.HasSuffix(page, "</html>\n") {
		t.Error("Page should close cleanly")
	}
}

func TestGenerateHTMLTitlePrecedence(t *testing.T) {
	d := flow.New(flow.KindCurrent)
	d.Name = "Dataset name"

	page := GenerateHTML(d, SVGOptions{Title: "Override & co"})
	if !strings.Contains(page, "<title>Override &amp; co</title>") {
		t.Error("Explicit title should win and be escaped")
	}

	unnamed := GenerateHTML(flow.New(flow.KindCurrent), SVGOptions{})
	if !strings.Contains(unnamed, "<title>Process flow</title>") {
		t.Error("Unnamed diagrams get the generic title")
	}
}
