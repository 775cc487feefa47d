package flowviz

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

func TestRenderPNG(t *testing.T) {
	d := flow.New(flow.KindProposed)
	d.AddNode(flow.Node{ID: "a", Name: "Collection", X: 0, Y: 0, W: 120, H: 70, Icon: "collection"})
	d.AddNode(flow.Node{ID: "b", Name: "Plant", X: 300, Y: 0, W: 120, H: 70})
	d.AddLink(flow.Link{ID: "ab", Source: "a", Target: "b", Value: 6, Label: "120 kt"})
	d.AddLink(flow.Link{ID: "back", Source: "b", Target: "a", Value: 3,
		Particles: &flow.ParticleSpec{Count: 3}})

	var buf bytes.Buffer
	if err := RenderPNG(d, &buf, PNGOptions{Width: 320, Height: 180}); err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 320 || bounds.Dy() != 180 {
		t.Errorf("Image is %dx%d, expected 320x180", bounds.Dx(), bounds.Dy())
	}

	// Something other than the background must have been painted.
	theme := ThemeForKind(flow.KindProposed)
	bg := parseColor(theme.Background)
	painted := false
	for y := bounds.Min.Y; y < bounds.Max.Y && !painted; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			br, bgc, bb, _ := bg.RGBA()
			if r != br || g != bgc || b != bb {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Error("Rendered image is entirely background")
	}
}

func TestRenderPNGDefaults(t *testing.T) {
	d := flow.New(flow.KindCurrent)
	d.AddNode(flow.Node{ID: "a", Name: "A", X: 0, Y: 0, W: 80, H: 60})

	var buf bytes.Buffer
	if err := RenderPNG(d, &buf, PNGOptions{}); err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("Output is not a valid PNG: %v", err)
	}
	if cfg.Width != 960 || cfg.Height != 540 {
		t.Errorf("Default size is %dx%d, expected 960x540", cfg.Width, cfg.Height)
	}
}

func TestRenderPNGEmptyDiagram(t *testing.T) {
	d := flow.New(flow.KindCurrent)

	var buf bytes.Buffer
	if err := RenderPNG(d, &buf, PNGOptions{Width: 100, Height: 100}); err != nil {
		t.Fatalf("Empty diagrams should still render: %v", err)
	}
}

func TestParseColor(t *testing.T) {
	c := parseColor("#ff0000")
	if c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("Parsed %v, expected pure red", c)
	}

	fallback := parseColor("not-a-colour")
	if fallback.R != 128 || fallback.G != 128 || fallback.B != 128 {
		t.Errorf("Bad input should fall back to grey, got %v", fallback)
	}
}
