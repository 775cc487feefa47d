// Native PNG rendering for flow diagrams.
// Mirrors the SVG renderer's layout using Go's image packages: same
// routing and viewport fit, rendered 4x and downsampled for smooth edges.
// Animation-only features degrade to their static positions: particles
// draw at their rest points and reveal phases draw fully visible.

package flowviz

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width  int
	Height int
	Title  string
	Theme  *Theme
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:  960,
		Height: 540,
	}
}

// rasterContext carries the shared raster state: the target image, the
// supersample factor and a small cache of font faces by size.
type rasterContext struct {
	img   *image.RGBA
	ss    float64
	fnt   *opentype.Font
	faces map[float64]font.Face
}

func newRasterContext(img *image.RGBA, ss int) *rasterContext {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font, cannot fail
	}
	return &rasterContext{
		img:   img,
		ss:    float64(ss),
		fnt:   fnt,
		faces: make(map[float64]font.Face),
	}
}

// face returns a font face at the given pre-supersample point size.
func (ctx *rasterContext) face(size float64) font.Face {
	scaled := size * ctx.ss
	if f, ok := ctx.faces[scaled]; ok {
		return f
	}
	f, err := opentype.NewFace(ctx.fnt, &opentype.FaceOptions{
		Size:    scaled,
		DPI:     72,
		Hinting: font.HintingNone, // supersampling smooths instead
	})
	if err != nil {
		panic(err)
	}
	ctx.faces[scaled] = f
	return f
}

// parseColor converts a hex colour to RGBA, falling back to mid grey so a
// bad colour never fails a render.
func parseColor(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{128, 128, 128, 255}
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

// RenderPNG renders a diagram to PNG. Renders at 4x and downsamples with
// Catmull-Rom interpolation for smooth strokes and type.
func RenderPNG(d *flow.Diagram, w io.Writer, opts PNGOptions) error {
	if opts.Width == 0 {
		opts.Width = 960
	}
	if opts.Height == 0 {
		opts.Height = 540
	}

	ss := 4
	large := renderRaster(d, opts, ss)

	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)

	return png.Encode(w, final)
}

func renderRaster(d *flow.Diagram, opts PNGOptions, ss int) *image.RGBA {
	theme := ThemeForKind(d.Config.Kind)
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width*ss, opts.Height*ss))
	ctx := newRasterContext(img, ss)

	// Background.
	bg := parseColor(theme.Background)
	for y := 0; y < opts.Height*ss; y++ {
		for x := 0; x < opts.Width*ss; x++ {
			img.Set(x, y, bg)
		}
	}

	routes := RouteAll(d)
	bounds := SceneBounds(d, routes)
	fit := FitViewport(bounds, float64(opts.Width), float64(opts.Height))

	// Scene coordinates to supersampled pixels.
	project := func(p Point) Point {
		return fit.Apply(p).Scale(ctx.ss)
	}
	px := func(v float64) float64 {
		return v * fit.Scale * ctx.ss
	}

	if opts.Title != "" {
		drawTextCentered(ctx, opts.Width*ss/2, 26*ss, opts.Title, theme.FontSize+4, parseColor(theme.LabelColor))
	}

	// Fonts inside the scene scale with the fit.
	fontScale := fit.Scale

	// Links under nodes, matching the SVG stacking order.
	for _, rl := range routes {
		stroke := parseColor(linkColor(rl.Link, theme))
		strokePath(ctx, rl.Path, project, px(rl.Link.Value), stroke)

		if rl.Link.Label != "" {
			pos := project(rl.Path.PointAtFraction(rl.Link.LabelFraction()))
			drawTextCentered(ctx, int(pos.X), int(pos.Y-px(6)), rl.Link.Label,
				theme.LabelSize*fontScale, parseColor(theme.LabelColor))
		}
	}

	// Particles at their load-time positions: marker i rides at phase
	// i/count, the same spread the animated document shows at time zero.
	for _, rl := range routes {
		spec := rl.Link.Particles
		if spec == nil || rl.Path.IsEmpty() {
			continue
		}
		tint := parseColor(particleColor(rl.Link, theme))
		count := spec.ResolvedCount()
		for i := 0; i < count; i++ {
			pos := project(rl.Path.PointAtFraction(float64(i) / float64(count)))
			fillCircle(ctx, pos, px(spec.ResolvedSize()), tint)
		}
	}

	for i := range d.Nodes {
		drawNodePNG(ctx, &d.Nodes[i], theme, project, px)
	}

	return img
}

func drawNodePNG(ctx *rasterContext, n *flow.Node, theme Theme, project func(Point) Point, px func(float64) float64) {
	fillHex, strokeHex := nodeColors(n, theme)
	topLeft := project(Point{n.X, n.Y})
	w := px(n.W)
	h := px(n.H)
	radius := px(nodeCornerRadius)

	fillRoundedRect(ctx, topLeft, w, h, radius, parseColor(fillHex))
	strokeRoundedRect(ctx, topLeft, w, h, radius, px(nodeStrokeWidth), parseColor(strokeHex))

	if n.LabelHidden {
		return
	}

	lines := n.NameLines()
	fontSize := theme.FontSize
	if n.LabelSize > 0 {
		fontSize = n.LabelSize
	}
	lineHeight := px(fontSize * 1.2)

	cx := topLeft.X + w/2
	y := topLeft.Y + h/2 - lineHeight*float64(len(lines)-1)/2
	if n.Icon != "" && HasIcon(n.Icon) {
		y = topLeft.Y + h*0.68
	}
	y += px(n.LabelDy)

	fitScale := px(1) / ctx.ss
	textColor := parseColor(theme.NodeText)
	for i, line := range lines {
		drawTextCentered(ctx, int(cx), int(y+float64(i)*lineHeight), line, fontSize*fitScale, textColor)
	}
}

// strokePath draws a path as a dense run of thick line segments.
func strokePath(ctx *rasterContext, p Path, project func(Point) Point, thickness float64, c color.Color) {
	if p.IsEmpty() {
		return
	}

	steps := pathSamples * 2
	prev := project(p.Evaluate(0))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		curr := project(p.Evaluate(t))
		drawThickLine(ctx, prev, curr, thickness, c)
		prev = curr
	}
}

// drawThickLine steps along the segment painting perpendicular spans.
func drawThickLine(ctx *rasterContext, a, b Point, thickness float64, c color.Color) {
	img := ctx.img

	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	half := thickness / 2

	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				img.Set(int(a.X+tx), int(a.Y+ty), c)
			}
		}
		return
	}

	steps := math.Max(math.Abs(dx), math.Abs(dy))
	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := a.X + dx*t
		cy := a.Y + dy*t
		for offset := -half; offset <= half; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

func fillCircle(ctx *rasterContext, centre Point, r float64, c color.Color) {
	img := ctx.img
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.Set(int(centre.X+dx), int(centre.Y+dy), c)
			}
		}
	}
}

// fillRoundedRect fills row by row, trimming rows that cross the corner
// circles.
func fillRoundedRect(ctx *rasterContext, tl Point, w, h, radius float64, c color.Color) {
	img := ctx.img
	r := math.Min(radius, math.Min(w/2, h/2))

	for dy := 0.0; dy <= h; dy++ {
		x0, x1 := tl.X, tl.X+w
		if dy < r {
			inset := r - math.Sqrt(r*r-(r-dy)*(r-dy))
			x0 += inset
			x1 -= inset
		} else if dy > h-r {
			e := dy - (h - r)
			inset := r - math.Sqrt(math.Max(0, r*r-e*e))
			x0 += inset
			x1 -= inset
		}
		for x := x0; x <= x1; x++ {
			img.Set(int(x), int(tl.Y+dy), c)
		}
	}
}

// strokeRoundedRect traces the outline: four straight edges plus four
// quarter-circle corners.
func strokeRoundedRect(ctx *rasterContext, tl Point, w, h, radius, thickness float64, c color.Color) {
	r := math.Min(radius, math.Min(w/2, h/2))

	// Edges.
	drawThickLine(ctx, Point{tl.X + r, tl.Y}, Point{tl.X + w - r, tl.Y}, thickness, c)
	drawThickLine(ctx, Point{tl.X + r, tl.Y + h}, Point{tl.X + w - r, tl.Y + h}, thickness, c)
	drawThickLine(ctx, Point{tl.X, tl.Y + r}, Point{tl.X, tl.Y + h - r}, thickness, c)
	drawThickLine(ctx, Point{tl.X + w, tl.Y + r}, Point{tl.X + w, tl.Y + h - r}, thickness, c)

	// Corner arcs, one quadrant each.
	corners := []struct {
		cx, cy   float64
		from, to float64
	}{
		{tl.X + r, tl.Y + r, math.Pi, math.Pi * 1.5},         // top-left
		{tl.X + w - r, tl.Y + r, math.Pi * 1.5, math.Pi * 2}, // top-right
		{tl.X + w - r, tl.Y + h - r, 0, math.Pi * 0.5},       // bottom-right
		{tl.X + r, tl.Y + h - r, math.Pi * 0.5, math.Pi},     // bottom-left
	}
	for _, corner := range corners {
		steps := 24
		prev := Point{corner.cx + r*math.Cos(corner.from), corner.cy + r*math.Sin(corner.from)}
		for i := 1; i <= steps; i++ {
			angle := corner.from + (corner.to-corner.from)*float64(i)/float64(steps)
			curr := Point{corner.cx + r*math.Cos(angle), corner.cy + r*math.Sin(angle)}
			drawThickLine(ctx, prev, curr, thickness, c)
			prev = curr
		}
	}
}

// drawTextCentered draws text centred at the given pixel position.
func drawTextCentered(ctx *rasterContext, x, y int, text string, size float64, c color.Color) {
	face := ctx.face(size)
	width := font.MeasureString(face, text).Ceil()

	// Visual centring: drop the baseline slightly below the midline.
	metrics := face.Metrics()
	baselineY := y + int(float64(metrics.Ascent.Ceil())*0.35)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x - width/2),
			Y: fixed.I(baselineY),
		},
	}
	d.DrawString(text)
}
