package effect

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/termsim/terminal"
)

// Console colors, matching the ANSI foreground set the animations were designed for
var (
	styleRed     = terminal.Fg(terminal.RGBRed)
	styleGreen   = terminal.Fg(terminal.RGBGreen)
	styleYellow  = terminal.Fg(terminal.RGBYellow)
	styleBlue    = terminal.Fg(terminal.RGBBlue)
	styleMagenta = terminal.Fg(terminal.RGBMagenta)
	styleCyan    = terminal.Fg(terminal.RGBCyan)
	styleWhite   = terminal.Fg(terminal.RGBWhite)
	styleGray    = terminal.Fg(terminal.RGBGray)
	stylePlain   = terminal.StyleDefault
)

func toColorful(c terminal.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) terminal.RGB {
	r, g, b := c.Clamped().RGB255()
	return terminal.RGB{R: r, G: g, B: b}
}

// gradient blends n colors from a to b in Lab space, which keeps perceived
// brightness falling evenly along a rain trail
func gradient(a, b terminal.RGB, n int) []terminal.RGB {
	if n < 2 {
		return []terminal.RGB{a}
	}
	ca, cb := toColorful(a), toColorful(b)
	out := make([]terminal.RGB, n)
	for i := range out {
		out[i] = fromColorful(ca.BlendLab(cb, float64(i)/float64(n-1)))
	}
	return out
}

// ramp picks the color at position t (0..1) of a precomputed gradient
func ramp(colors []terminal.RGB, t float64) terminal.RGB {
	if t <= 0 {
		return colors[0]
	}
	if t >= 1 {
		return colors[len(colors)-1]
	}
	return colors[int(t*float64(len(colors)-1)+0.5)]
}
