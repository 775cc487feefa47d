// Command flowedit is a TUI editor for flow diagram layouts.
//
// It draws the diagram projected onto terminal cells and lets you nudge
// node positions with the keyboard, which beats editing x/y values in
// JSON by hand.
package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// Editor holds all editor state
type Editor struct {
	screen   tcell.Screen
	doc      *flow.Document
	filename string
	modified bool

	diagram  int // index into doc.Diagrams
	selected int // node index, -1 = none

	message     string
	messageType MessageType

	confirmQuit bool
}

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
	MsgWarning
)

// Nudge distances in authoring coordinates.
const (
	nudgeStep = 10
	fineStep  = 1
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: flowedit <file.json>")
		os.Exit(1)
	}

	ed := &Editor{
		filename: os.Args[1],
		selected: -1,
	}

	doc, err := flow.ReadFile(ed.filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", ed.filename, err)
		os.Exit(1)
	}
	if len(doc.Diagrams) == 0 {
		fmt.Fprintf(os.Stderr, "Error loading %s: document has no diagrams\n", ed.filename)
		os.Exit(1)
	}
	ed.doc = doc

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.Clear()
	ed.screen = screen

	ed.run()

	screen.Fini()
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		}
	}
}

func (ed *Editor) current() *flow.Diagram {
	return &ed.doc.Diagrams[ed.diagram]
}

// handleKey processes one key event. Returns true to quit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ed.confirmQuit {
		switch ev.Rune() {
		case 'y', 'Y':
			return true
		}
		ed.confirmQuit = false
		ed.setMessage("", MsgInfo)
		return false
	}

	step := nudgeStep
	if ev.Modifiers()&tcell.ModShift != 0 {
		step = fineStep
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ed.quit()
	case tcell.KeyTab:
		ed.cycleSelection(1)
		return false
	case tcell.KeyBacktab:
		ed.cycleSelection(-1)
		return false
	case tcell.KeyUp:
		ed.nudge(0, -step)
		return false
	case tcell.KeyDown:
		ed.nudge(0, step)
		return false
	case tcell.KeyLeft:
		ed.nudge(-step, 0)
		return false
	case tcell.KeyRight:
		ed.nudge(step, 0)
		return false
	}

	switch ev.Rune() {
	case 'q':
		return ed.quit()
	case 's':
		ed.save()
	case '[':
		ed.switchDiagram(-1)
	case ']':
		ed.switchDiagram(1)
	}
	return false
}

// quit returns true when it is safe to exit now. With unsaved changes it
// arms the confirmation prompt instead.
func (ed *Editor) quit() bool {
	if !ed.modified {
		return true
	}
	ed.confirmQuit = true
	ed.setMessage("Unsaved changes. Quit without saving? (y/n)", MsgWarning)
	return false
}

// cycleSelection moves the node selection forward or backward, wrapping
// at either end.
func (ed *Editor) cycleSelection(dir int) {
	d := ed.current()
	n := len(d.Nodes)
	if n == 0 {
		ed.selected = -1
		return
	}

	if ed.selected < 0 {
		if dir > 0 {
			ed.selected = 0
		} else {
			ed.selected = n - 1
		}
	} else {
		ed.selected = (ed.selected + dir + n) % n
	}

	node := &d.Nodes[ed.selected]
	ed.setMessage(fmt.Sprintf("%s (%.0f, %.0f)", node.ID, node.X, node.Y), MsgInfo)
}

// nudge moves the selected node by the given delta in authoring
// coordinates.
func (ed *Editor) nudge(dx, dy int) {
	d := ed.current()
	if ed.selected < 0 || ed.selected >= len(d.Nodes) {
		return
	}

	node := &d.Nodes[ed.selected]
	node.X += float64(dx)
	node.Y += float64(dy)
	ed.modified = true
	ed.setMessage(fmt.Sprintf("%s (%.0f, %.0f)", node.ID, node.X, node.Y), MsgInfo)
}

// switchDiagram moves to the previous or next diagram, wrapping, and
// clears the selection.
func (ed *Editor) switchDiagram(dir int) {
	n := len(ed.doc.Diagrams)
	if n < 2 {
		return
	}

	ed.diagram = (ed.diagram + dir + n) % n
	ed.selected = -1

	d := ed.current()
	name := d.Name
	if name == "" {
		name = "(unnamed)"
	}
	ed.setMessage(fmt.Sprintf("[%s] %s", d.Config.Kind, name), MsgInfo)
}

func (ed *Editor) save() {
	if err := flow.WriteFile(ed.filename, ed.doc, true); err != nil {
		ed.setMessage(fmt.Sprintf("Save failed: %v", err), MsgError)
		return
	}
	ed.modified = false
	ed.setMessage(fmt.Sprintf("Saved %s", ed.filename), MsgSuccess)
}

func (ed *Editor) setMessage(msg string, t MessageType) {
	ed.message = msg
	ed.messageType = t
}
