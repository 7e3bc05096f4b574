package effect

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

const boxWidth = 64

// intro animates a list of setup steps, each as a progress bar filling over
// stepDur, optionally followed by a retry warning
type intro struct {
	steps    []string
	style    terminal.Style
	barWidth int
	stepDur  time.Duration

	retryChance float64
	retryDur    time.Duration

	done    string
	doneDur time.Duration

	idx      int
	pct      int
	started  bool
	finished bool
}

// advance runs one tick; it reports true once every step and the closing pause are over
func (in *intro) advance(b *base) bool {
	if in.finished {
		return true
	}
	if in.idx >= len(in.steps) {
		in.finished = true
		return true
	}

	inc := int(int64(100) * int64(b.interval) / int64(in.stepDur))
	if inc < 1 {
		inc = 1
	}
	if !in.started {
		in.started = true
		in.pct = 0
	} else {
		in.pct = min(in.pct+inc, 100)
	}

	step := in.steps[in.idx]
	b.con.setStatus(render.Styled(fmt.Sprintf("[*] %s: %s", step, progressBar(float64(in.pct)/100, in.barWidth)), in.style))
	if in.pct < 100 {
		return false
	}

	b.con.commit()
	b.signal(render.CueKey)
	in.idx++
	in.started = false

	if in.retryChance > 0 && b.chance(in.retryChance) {
		b.con.println(fmt.Sprintf("[WARN] Retrying %s (Attempt %d/3)", strings.ToLower(step), b.randint(1, 3)), styleYellow)
		b.signal(render.CueAlert)
		b.sleep(in.retryDur)
	}

	if in.idx == len(in.steps) {
		b.con.blank()
		b.con.println(in.done, styleGreen)
		b.con.blank()
		b.signal(render.CueChime)
		b.sleep(in.doneDur)
	}
	return false
}

// printBox draws the framed configuration header used by the training and
// market screens. Rows are left open on the right like a log banner.
func printBox(c *console, title string, rows []string, style terminal.Style) {
	bar := strings.Repeat("═", boxWidth)
	c.blank()
	c.println("    ╔"+bar+"╗", style)
	c.println("    ║"+strings.Repeat(" ", 16)+title, style)
	for _, r := range rows {
		c.println("    ║     "+r, style)
	}
	c.println("    ╚"+bar+"╝", style)
	c.blank()
}

// printBanner draws a closed box with centered lines
func printBanner(c *console, width int, lines []string, style terminal.Style) {
	bar := strings.Repeat("═", width)
	c.blank()
	c.println("    ╔"+bar+"╗", style)
	for _, l := range lines {
		c.println("    ║"+render.Center(l, width)+"║", style)
	}
	c.println("    ╚"+bar+"╝", style)
	c.blank()
}

// kv is one "key: value" header row
type kv struct {
	key, value string
}

func kvRows(items []kv) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = "- " + it.key + ": " + it.value
	}
	return out
}
