package effect

import (
	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

const scrollbackLines = 400

// console emulates a scrolling terminal: committed lines plus one status line
// that is rewritten in place, the way a carriage return redraws a row
type console struct {
	lines  []render.Line
	status render.Line
	max    int

	typing  []rune
	typed   int
	typeSty terminal.Style
	typeTo  int // runes per tick
}

func newConsole(max int) console {
	return console{max: max}
}

// print appends a committed line
func (c *console) print(l render.Line) {
	c.lines = append(c.lines, l)
	if len(c.lines) > 2*c.max {
		n := copy(c.lines, c.lines[len(c.lines)-c.max:])
		c.lines = c.lines[:n]
	}
}

func (c *console) println(text string, style terminal.Style) {
	c.print(render.Styled(text, style))
}

func (c *console) blank() {
	c.print(nil)
}

// setStatus replaces the in-place line
func (c *console) setStatus(l render.Line) {
	c.status = l
}

// commit turns the status line into a regular line
func (c *console) commit() {
	if c.status != nil {
		c.print(c.status)
		c.status = nil
	}
}

// clear drops everything, used when an effect switches to full-screen drawing
func (c *console) clear() {
	c.lines = c.lines[:0]
	c.status = nil
	c.typing = nil
}

// typeLine starts revealing text on the status line at rate runes per tick
func (c *console) typeLine(text string, style terminal.Style, rate int) {
	c.commit()
	if rate < 1 {
		rate = 1
	}
	c.typing = []rune(text)
	c.typed = 0
	c.typeSty = style
	c.typeTo = rate
}

// advanceTyping reveals the next runes, committing the line once complete.
// Returns false when nothing is being typed.
func (c *console) advanceTyping() bool {
	if c.typing == nil {
		return false
	}
	c.typed = min(c.typed+c.typeTo, len(c.typing))
	c.status = render.Styled(string(c.typing[:c.typed]), c.typeSty)
	if c.typed == len(c.typing) {
		c.typing = nil
		c.commit()
	}
	return true
}

// view returns the bottom rows that fit in width x height
func (c *console) view(width, height int) []render.Line {
	if height < 1 {
		height = 1
	}

	rows := c.lines
	if c.status != nil {
		rows = append(rows[:len(rows):len(rows)], c.status)
	}
	if len(rows) > height {
		rows = rows[len(rows)-height:]
	}

	out := make([]render.Line, len(rows))
	visible := false
	for i, l := range rows {
		out[i] = l.Truncate(width)
		if !visible && out[i].Width() > 0 {
			visible = true
		}
	}

	// A frame always shows something, a cursor on an otherwise blank screen
	if !visible {
		out = append(out[:0], render.Styled("▌", styleGreen))
	}
	return out
}
