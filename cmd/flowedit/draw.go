package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/ecoviz/flowcycle/pkg/flow"
	"github.com/ecoviz/flowcycle/pkg/flowviz"
)

// Styles
var (
	styleNode       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleNodeSel    = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleLink       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleLoop       = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// cellAspect compensates for terminal cells being roughly twice as tall
// as they are wide. The fit runs in a viewport with doubled rows and the
// row coordinate is halved on the way back out.
const cellAspect = 2.0

// diagramFit computes the scene-to-cell transform for a cols x rows
// canvas, reusing the same fit maths the SVG render uses.
func diagramFit(d *flow.Diagram, cols, rows int) (flowviz.Fit, []flowviz.RoutedLink) {
	routes := flowviz.RouteAll(d)
	bounds := flowviz.SceneBounds(d, routes)
	return flowviz.FitViewport(bounds, float64(cols), float64(rows)*cellAspect), routes
}

// toCell maps a scene point to a terminal cell.
func toCell(f flowviz.Fit, p flowviz.Point) (int, int) {
	v := f.Apply(p)
	return int(math.Round(v.X)), int(math.Round(v.Y / cellAspect))
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	rows := h - 2 // status and help bars
	if rows >= 3 && w >= 16 {
		ed.drawCanvas(w, rows)
	}
	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawCanvas(w, rows int) {
	d := ed.current()
	if len(d.Nodes) == 0 {
		ed.drawString(2, 1, "Empty diagram", styleHelp)
		return
	}

	fit, routes := diagramFit(d, w, rows)

	// Links first so the node boxes draw over them.
	for _, rl := range routes {
		style := styleLink
		if rl.Loop {
			style = styleLoop
		}
		ed.drawPath(fit, rl.Path, style, w, rows)
	}

	for i := range d.Nodes {
		ed.drawNode(fit, &d.Nodes[i], i == ed.selected, w, rows)
	}
}

// drawPath samples the path at roughly one point per cell and plots a dot
// for each, with an arrow at the target end.
func (ed *Editor) drawPath(fit flowviz.Fit, p flowviz.Path, style tcell.Style, w, rows int) {
	steps := int(p.Length() * fit.Scale / 2)
	if steps < 16 {
		steps = 16
	}
	if steps > 512 {
		steps = 512
	}

	for i := 0; i <= steps; i++ {
		pt := p.Evaluate(float64(i) / float64(steps))
		x, y := toCell(fit, pt)
		ed.plot(x, y, '·', style, w, rows)
	}

	x, y := toCell(fit, p.End())
	ed.plot(x, y, '>', style, w, rows)
}

func (ed *Editor) drawNode(fit flowviz.Fit, n *flow.Node, selected bool, w, rows int) {
	r := flowviz.NodeRect(n)
	x0, y0 := toCell(fit, flowviz.Point{X: r.X, Y: r.Y})
	x1, y1 := toCell(fit, flowviz.Point{X: r.Right(), Y: r.Bottom()})

	// Keep boxes drawable at tiny scales.
	if x1 < x0+3 {
		x1 = x0 + 3
	}
	if y1 < y0+2 {
		y1 = y0 + 2
	}

	style := styleNode
	if selected {
		style = styleNodeSel
	}

	ed.plot(x0, y0, '┌', style, w, rows)
	ed.plot(x1, y0, '┐', style, w, rows)
	ed.plot(x0, y1, '└', style, w, rows)
	ed.plot(x1, y1, '┘', style, w, rows)
	for x := x0 + 1; x < x1; x++ {
		ed.plot(x, y0, '─', style, w, rows)
		ed.plot(x, y1, '─', style, w, rows)
	}
	for y := y0 + 1; y < y1; y++ {
		ed.plot(x0, y, '│', style, w, rows)
		ed.plot(x1, y, '│', style, w, rows)
		for x := x0 + 1; x < x1; x++ {
			ed.plot(x, y, ' ', style, w, rows)
		}
	}

	// Name lines centred in the box, clipped to its interior.
	lines := n.NameLines()
	inner := x1 - x0 - 1
	top := y0 + 1 + (y1-y0-1-len(lines))/2
	if top < y0+1 {
		top = y0 + 1
	}
	for i, line := range lines {
		y := top + i
		if y >= y1 {
			break
		}
		if len(line) > inner {
			line = line[:inner]
		}
		x := x0 + 1 + (inner-len(line))/2
		for j, ch := range line {
			ed.plot(x+j, y, ch, style, w, rows)
		}
	}
}

// plot sets one cell, clipped to the canvas.
func (ed *Editor) plot(x, y int, r rune, style tcell.Style, w, rows int) {
	if x < 0 || x >= w || y < 0 || y >= rows {
		return
	}
	ed.screen.SetContent(x, y, r, nil, style)
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := ed.filename
	if len(fileInfo) > 30 {
		fileInfo = filepath.Base(ed.filename)
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	// Diagram position
	d := ed.current()
	pos := fmt.Sprintf("[%s] %d/%d", d.Config.Kind, ed.diagram+1, len(ed.doc.Diagrams))
	ed.drawString(w/2-len(pos)/2, y, pos, styleStatus)

	// Message
	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError, MsgWarning:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		ed.drawString(w-len(ed.message)-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
	help := "tab: next node  arrows: nudge  shift+arrows: fine  [ ]: diagram  s: save  q: quit"
	ed.drawString(1, y, help, styleHelp)
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}
