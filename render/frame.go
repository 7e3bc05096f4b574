package render

import (
	"strings"

	"github.com/lixenwraith/termsim/terminal"
)

// Cue is a sound hint attached to a frame, ignored when audio is off
type Cue uint8

const (
	CueNone  Cue = iota
	CueKey       // typing click
	CueAlert     // error buzz
	CueChime     // success tone
)

var cueNames = [...]string{"none", "key", "alert", "chime"}

func (c Cue) String() string {
	if int(c) < len(cueNames) {
		return cueNames[c]
	}
	return "unknown"
}

// Span is a run of glyphs sharing one style
type Span struct {
	Text  string
	Style terminal.Style
}

// Line is one terminal row of spans, drawn left to right from column 0
type Line []Span

// Frame is the complete visible content for one tick.
// Frames are built fresh by the effect and treated as immutable afterwards.
type Frame struct {
	Lines []Line
	Cue   Cue
}

// Plain returns a single-span line in the terminal default style
func Plain(text string) Line {
	return Line{{Text: text, Style: terminal.StyleDefault}}
}

// Styled returns a single-span line in style
func Styled(text string, style terminal.Style) Line {
	return Line{{Text: text, Style: style}}
}

// Text concatenates span text, dropping styles
func (l Line) Text() string {
	if len(l) == 1 {
		return l[0].Text
	}
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Width returns the display width in terminal cells
func (l Line) Width() int {
	w := 0
	for _, s := range l {
		w += StringWidth(s.Text)
	}
	return w
}

// Append adds a span, merging it into the last one when styles match
func (l Line) Append(text string, style terminal.Style) Line {
	if text == "" {
		return l
	}
	if n := len(l); n > 0 && l[n-1].Style == style {
		l[n-1].Text += text
		return l
	}
	return append(l, Span{Text: text, Style: style})
}

// Empty reports whether the frame has no visible content at all
func (f Frame) Empty() bool {
	for _, l := range f.Lines {
		if l.Width() > 0 {
			return false
		}
	}
	return true
}

// Texts returns the plain text of every line, for tests and logs
func (f Frame) Texts() []string {
	out := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		out[i] = l.Text()
	}
	return out
}
