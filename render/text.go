package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the number of terminal cells s occupies.
// East Asian wide glyphs (katakana rain) count as two.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateString cuts s to at most width cells without splitting a wide glyph
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}

	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			return s[:i]
		}
		w += rw
	}
	return s
}

// PadRight pads s with spaces to exactly width cells, truncating if longer
func PadRight(s string, width int) string {
	s = TruncateString(s, width)
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Center places s in the middle of a width-cell field
func Center(s string, width int) string {
	s = TruncateString(s, width)
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// Truncate cuts the line to at most width cells, splitting the span that crosses the edge
func (l Line) Truncate(width int) Line {
	if width <= 0 {
		return nil
	}

	used := 0
	for i, s := range l {
		sw := StringWidth(s.Text)
		if used+sw <= width {
			used += sw
			continue
		}
		out := make(Line, i, i+1)
		copy(out, l[:i])
		if rest := TruncateString(s.Text, width-used); rest != "" {
			out = append(out, Span{Text: rest, Style: s.Style})
		}
		return out
	}
	return l
}

// Clip limits the frame to width x height cells, keeping the top rows
func Clip(f Frame, width, height int) Frame {
	if height < 0 {
		height = 0
	}
	lines := f.Lines
	if len(lines) > height {
		lines = lines[:height]
	}

	out := Frame{Lines: make([]Line, len(lines)), Cue: f.Cue}
	for i, l := range lines {
		out.Lines[i] = l.Truncate(width)
	}
	return out
}
