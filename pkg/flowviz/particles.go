// Particle animation along link paths. Timing is pure arithmetic here;
// the markers themselves are SMIL animateMotion elements riding the link
// path, so the browser does the interpolation and a document replacement
// cancels everything with no timers left behind.

package flowviz

import (
	"fmt"
	"strings"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

// particleDurationBase divided by the rate gives the loop duration in
// seconds: rate 3 is a 16s circuit, rate 6 an 8s circuit.
const particleDurationBase = 48.0

// ParticleTiming computes the loop duration and evenly spaced per-marker
// start offsets for a particle spec. Marker i starts i*dur/count into the
// cycle.
func ParticleTiming(spec *flow.ParticleSpec) (dur float64, offsets []float64) {
	dur = particleDurationBase / spec.ResolvedRate()
	count := spec.ResolvedCount()

	offsets = make([]float64, count)
	for i := 0; i < count; i++ {
		offsets[i] = float64(i) * dur / float64(count)
	}
	return dur, offsets
}

// writeParticles emits the markers for one routed link. Start offsets are
// emitted as negative begin values so every marker is already on its path
// at phase i/count when the document loads; a positive begin would park
// the marker at the group origin for its first cycle. Without a usable
// path the markers rest at the path origin, unanimated.
func writeParticles(sb *strings.Builder, rl RoutedLink, pathID string, theme Theme) {
	spec := rl.Link.Particles
	if spec == nil {
		return
	}

	size := spec.ResolvedSize()
	fill := particleColor(rl.Link, theme)
	dur, offsets := ParticleTiming(spec)

	if rl.Path.IsEmpty() || rl.Path.Length() == 0 {
		origin := rl.Path.Start()
		for range offsets {
			sb.WriteString(fmt.Sprintf(`<circle class="particle" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, origin.X, origin.Y, size, fill))
		}
		return
	}

	for _, offset := range offsets {
		begin := "0s"
		if offset > 0 {
			begin = fmt.Sprintf("-%.2fs", offset)
		}

		if spec.Shape != "" && spec.Shape != "dot" && HasIcon(spec.Shape) {
			// Icon marker, centred on the path position.
			sb.WriteString(fmt.Sprintf(`<use class="particle" href="#icon-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s">
`, spec.Shape, -size, -size, size*2, size*2, fill))
			writeMotion(sb, dur, begin, pathID)
			sb.WriteString("</use>\n")
			continue
		}

		sb.WriteString(fmt.Sprintf(`<circle class="particle" r="%.1f" fill="%s">
`, size, fill))
		writeMotion(sb, dur, begin, pathID)
		sb.WriteString("</circle>\n")
	}
}

func writeMotion(sb *strings.Builder, dur float64, begin, pathID string) {
	sb.WriteString(fmt.Sprintf(`  <animateMotion dur="%.2fs" repeatCount="indefinite" begin="%s"><mpath href="#%s"/></animateMotion>
`, dur, begin, pathID))
}
