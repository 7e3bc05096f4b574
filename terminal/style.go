package terminal

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// Style is the foreground color and attributes of a run of glyphs.
// Background is always the terminal default.
type Style struct {
	Fg      RGB
	Attrs   Attr
	Default bool // use terminal default foreground, Fg ignored
}

// StyleDefault renders with the terminal's own foreground
var StyleDefault = Style{Default: true}

// Fg returns a style with the given foreground color
func Fg(c RGB) Style {
	return Style{Fg: c}
}

// Bold returns a copy of s with bold set
func (s Style) Bold() Style {
	s.Attrs |= AttrBold
	return s
}

// Dim returns a copy of s with dim set
func (s Style) Dim() Style {
	s.Attrs |= AttrDim
	return s
}
