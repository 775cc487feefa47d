// Staged reveal: elements named in reveal phases enter in sequence when
// the proposed diagram renders in staged mode. Everything compiles to CSS
// keyframes, so replacing the rendered document cancels the whole
// choreography without leaving timers running.

package flowviz

import (
	"fmt"
	"strings"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// PhaseStarts computes the absolute start time in milliseconds of each
// reveal phase: phase N starts after every prior phase's delay and
// duration have elapsed, plus its own delay.
func PhaseStarts(phases []flow.RevealPhase) []int {
	starts := make([]int, len(phases))
	elapsed := 0
	for i, p := range phases {
		starts[i] = elapsed + p.Delay
		elapsed += p.Delay + p.Duration
	}
	return starts
}

// revealRule is the resolved timing for one element.
type revealRule struct {
	start    int
	duration int
}

// revealPlan maps element ids to their reveal timing. Elements not in the
// plan render immediately at full opacity.
type revealPlan struct {
	nodes map[string]revealRule
	links map[string]revealRule
}

func buildRevealPlan(cfg flow.Config) revealPlan {
	plan := revealPlan{
		nodes: make(map[string]revealRule),
		links: make(map[string]revealRule),
	}

	starts := PhaseStarts(cfg.Reveal)
	for i, p := range cfg.Reveal {
		rule := revealRule{start: starts[i], duration: p.Duration}
		for _, id := range p.Nodes {
			plan.nodes[id] = rule
		}
		for _, id := range p.Links {
			plan.links[id] = rule
		}
	}
	return plan
}

// nodePulseDelay returns when a node's pulse should begin: after its
// reveal completes, or immediately when the node is not staged.
func (p revealPlan) nodePulseDelay(id string) int {
	if rule, ok := p.nodes[id]; ok {
		return rule.start + rule.duration
	}
	return 0
}

// Reveal easing: a back-out curve so nodes overshoot slightly as they pop in.
const revealEasing = "cubic-bezier(0.34, 1.56, 0.64, 1)"

// writeRevealCSS emits the keyframes and per-element animation rules for a
// staged render. Nodes scale up from 0.6 with overshoot; link paths sweep
// in along their own length while the rest of the link group fades.
func writeRevealCSS(sb *strings.Builder, d *flow.Diagram, routes []RoutedLink, plan revealPlan) {
	sb.WriteString(`@keyframes flow-node-reveal {
  from { opacity: 0; transform: scale(0.6); }
  to   { opacity: 1; transform: scale(1); }
}
@keyframes flow-fade-in {
  from { opacity: 0; }
  to   { opacity: 1; }
}
@keyframes flow-link-draw {
  to { stroke-dashoffset: 0; }
}
`)

	for i := range d.Nodes {
		id := d.Nodes[i].ID
		rule, ok := plan.nodes[id]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("#%s { animation: flow-node-reveal %dms %s %dms both; transform-box: fill-box; transform-origin: center; }\n",
			nodeElementID(id), rule.duration, revealEasing, rule.start))
	}

	for _, rl := range routes {
		if rl.Link.ID == "" {
			continue
		}
		rule, ok := plan.links[rl.Link.ID]
		if !ok {
			continue
		}
		groupID := linkElementID(rl)
		length := rl.Path.Length()
		sb.WriteString(fmt.Sprintf("#%s { animation: flow-fade-in %dms ease %dms both; }\n",
			groupID, rule.duration, rule.start))
		sb.WriteString(fmt.Sprintf("#%s .link-path { stroke-dasharray: %.1f; stroke-dashoffset: %.1f; animation: flow-link-draw %dms ease-out %dms both; }\n",
			groupID, length, length, rule.duration, rule.start))
	}
}

// writePulseCSS emits the idle pulse for highlighted nodes. The pulse runs
// on the inner node body so it can never fight the reveal animation on the
// outer group, and hovering suspends it back to native scale.
func writePulseCSS(sb *strings.Builder, d *flow.Diagram, plan revealPlan, staged bool) {
	if len(d.Config.Pulse) == 0 {
		return
	}

	sb.WriteString(`@keyframes flow-node-pulse {
  0%, 100% { transform: scale(1); }
  50%      { transform: scale(1.06); }
}
`)

	for _, id := range d.Config.Pulse {
		delay := 0
		if staged {
			delay = plan.nodePulseDelay(id)
		}
		eid := nodeElementID(id)
		sb.WriteString(fmt.Sprintf("#%s .node-body { animation: flow-node-pulse 2400ms ease-in-out %dms infinite; transform-box: fill-box; transform-origin: center; }\n",
			eid, delay))
		sb.WriteString(fmt.Sprintf("#%s:hover .node-body { animation: none; }\n", eid))
	}
}
