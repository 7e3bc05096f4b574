package effect

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

func runToRain(t *testing.T, e *cyberEffect) {
	t.Helper()
	for i := 0; i < 1000 && e.phase != cyberRainPhase; i++ {
		e.NextFrame()
	}
	require.Equal(t, cyberRainPhase, e.phase)
}

func TestCyber_BannerThenInit(t *testing.T) {
	e := newCyber(testConfig(1, 50*time.Millisecond))
	var seen []string
	for i := 0; i < 40; i++ {
		seen = append(seen, e.NextFrame().Texts()...)
	}
	all := strings.Join(seen, "\n")
	assert.Contains(t, all, "QUANTUM CYBERSECURITY MATRIX v4.0.1")
	assert.Contains(t, all, "INITIALIZING QUANTUM PROCESSORS")
}

func TestCyber_RainFillsViewport(t *testing.T) {
	cfg := testConfig(2, 50*time.Millisecond)
	cfg.Viewport = FixedViewport{Width: 41, Height: 12}
	e := newCyber(cfg)
	runToRain(t, e)

	for i := 0; i < 100; i++ {
		f := e.NextFrame()
		require.Len(t, f.Lines, 12)
		for _, l := range f.Lines[:11] {
			assert.Equal(t, 40, l.Width(), "rain rows use whole double-width columns")
		}
		assert.True(t, strings.HasPrefix(f.Lines[11].Text(), "[*] "))
	}
}

func TestCyber_HeadGlyphStyle(t *testing.T) {
	e := newCyber(testConfig(3, 50*time.Millisecond))
	runToRain(t, e)

	heads := 0
	for i := 0; i < 50; i++ {
		for _, l := range e.NextFrame().Lines {
			for _, s := range l {
				if s.Style == terminal.Fg(rainHead).Bold() {
					heads++
					for _, r := range s.Text {
						assert.Contains(t, matrixChars, string(r))
					}
				}
			}
		}
	}
	assert.Positive(t, heads)
}

func TestCyber_TickerRotates(t *testing.T) {
	e := newCyber(testConfig(4, 50*time.Millisecond))
	runToRain(t, e)

	messages := map[string]bool{}
	for i := 0; i < 400; i++ {
		f := e.NextFrame()
		messages[f.Lines[len(f.Lines)-1].Text()] = true
	}
	assert.Greater(t, len(messages), 1)
}

func TestCyber_DropsRecycle(t *testing.T) {
	e := newCyber(testConfig(5, 50*time.Millisecond))
	runToRain(t, e)

	for i := 0; i < 2000; i++ {
		e.NextFrame()
		for _, d := range e.drops {
			require.LessOrEqual(t, int(d.head)-d.length, e.rows+1)
			require.Positive(t, d.speed)
		}
	}
}

func TestGradient_Endpoints(t *testing.T) {
	g := gradient(rainTop, rainTail, trailShades)
	require.Len(t, g, trailShades)

	near := func(a, b terminal.RGB) {
		assert.InDelta(t, a.R, b.R, 1)
		assert.InDelta(t, a.G, b.G, 1)
		assert.InDelta(t, a.B, b.B, 1)
	}
	near(rainTop, g[0])
	near(rainTail, g[len(g)-1])

	// Green falls monotonically along the trail
	for i := 1; i < len(g); i++ {
		assert.LessOrEqual(t, g[i].G, g[i-1].G)
	}

	assert.Equal(t, g[0], ramp(g, -1))
	assert.Equal(t, g[len(g)-1], ramp(g, 2))
	assert.Equal(t, []terminal.RGB{rainTop}, gradient(rainTop, rainTail, 1))
}

func TestHackShutdown(t *testing.T) {
	lines := lineTexts(hackShutdown())
	assert.Contains(t, lines, "[!] EMERGENCY PROTOCOL ACTIVATED - SYSTEM TERMINATED")
	assert.Equal(t, render.Line(nil), hackShutdown()[0])
}
