// @lixen: #interact{state[metrics,checkpoint],trigger[cue]}
package effect

import (
	"fmt"
	"time"

	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

// issueLevel is one severity of simulated training incidents
type issueLevel struct {
	style    terminal.Style
	level    string
	messages []string
	delay    [2]float64 // seconds the run stalls after the message
}

// insight is an optional remark printed under a metrics block
type insight struct {
	style terminal.Style
	text  func(b *base) string
	prob  float64
}

func fixed(s string) func(*base) string {
	return func(*base) string { return s }
}

// gauge is one system metric rendered as a labelled bar
type gauge struct {
	label  string
	lo, hi float64 // sampling range
	scale  float64 // value that fills the bar
	unit   string
}

// issue picks a random incident and returns its log line and stall time in seconds
func (b *base) issue(levels []issueLevel) (render.Line, float64) {
	lvl := pick(b.rng, levels)
	msg := pick(b.rng, lvl.messages)

	impact := ""
	if b.chance(0.3) {
		impact = fmt.Sprintf(" [Performance impact: %d%%]", b.randint(5, 30))
	}
	eta := ""
	if b.chance(0.3) {
		eta = fmt.Sprintf(" [ETA: %ds]", b.randint(10, 300))
	}

	text := fmt.Sprintf("[%s] [%s]: %s%s%s", stampCentis(b.now()), lvl.level, msg, impact, eta)
	return render.Styled(text, lvl.style), b.uniform(lvl.delay[0], lvl.delay[1])
}

// gaugeLines samples every gauge and renders "Label       [████░░] 92.3%"
func (b *base) gaugeLines(gauges []gauge) []string {
	out := make([]string, len(gauges))
	for i, g := range gauges {
		v := b.uniform(g.lo, g.hi)
		out[i] = fmt.Sprintf("    %-11s %s %.1f%s", g.label, meter(v/g.scale, 20), v, g.unit)
	}
	return out
}

// printInsights rolls each insight and prints up to limit of them, pausing
// half a second per line
func (b *base) printInsights(title string, insights []insight, limit int) {
	var picked []render.Line
	for _, in := range insights {
		// Text is evaluated even when not picked so random draws stay aligned
		text := in.text(b)
		if b.chance(in.prob) && len(picked) < limit {
			picked = append(picked, render.Styled("  "+text, in.style))
		}
	}
	if len(picked) == 0 {
		return
	}

	b.con.blank()
	b.con.println(title, stylePlain)
	for _, l := range picked {
		b.con.print(l)
	}
	b.sleep(time.Duration(len(picked)) * 500 * time.Millisecond)
}

// printBlock prints lines that share one style
func (b *base) printBlock(style terminal.Style, lines ...string) {
	for _, l := range lines {
		b.con.println(l, style)
	}
}
