// @focus: #vfx { rain }
package effect

import (
	"time"

	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

const (
	matrixChars = "アァカサタナハマヤャラワガザダバパイィキシチニヒミリヰギジヂビピウゥクスツヌフムユュルグズブヅプエェケセテネヘメレヱゲゼデベペオォコソトノホモヨョロヲゴゾドボポヴッン"

	brightCharChance = 0.1
	glyphMutation    = 0.02
	trailShades      = 12
	messageHold      = 700 * time.Millisecond
	bannerCharDelay  = time.Millisecond
)

var cyberInitSteps = []string{
	"INITIALIZING QUANTUM PROCESSORS",
	"ESTABLISHING SECURE CONNECTION",
	"LOADING NEURAL BYPASS MODULES",
	"CALIBRATING ENCRYPTION MATRICES",
}

var cyberHackMessages = []string{
	"BYPASSING QUANTUM FIREWALL ENCRYPTION...",
	"INJECTING POLYMORPHIC PAYLOAD...",
	"DECRYPTING NEURAL DATABASE NODES...",
	"ACCESSING MAINFRAME CORE SYSTEMS...",
	"EXTRACTING ENCRYPTED DATA STREAMS...",
	"ROUTING THROUGH DARK WEB PROXIES...",
	"COMPILING ADVANCED AI ALGORITHMS...",
	"DEPLOYING STEALTH PROTOCOLS...",
	"BREACHING SECURITY LAYER ALPHA...",
	"INTERCEPTING NETWORK PACKETS...",
}

var cyberBanner = []string{
	"",
	"    ╔══════════════════════════════════════════════════════════╗",
	"    ║          QUANTUM CYBERSECURITY MATRIX v4.0.1             ║",
	"    ║     [ TOP SECRET ] - CLASSIFIED NEURAL INFILTRATION      ║",
	"    ╚══════════════════════════════════════════════════════════╝",
	"",
}

// Trail fades from phosphor green to near black
var (
	rainHead = terminal.RGB{R: 200, G: 255, B: 200}
	rainTop  = terminal.RGB{R: 0, G: 255, B: 65}
	rainTail = terminal.RGB{R: 0, G: 40, B: 10}
)

type cyberPhase uint8

const (
	cyberBannerPhase cyberPhase = iota
	cyberInitPhase
	cyberRainPhase
)

// drop is one falling column of glyphs
type drop struct {
	head   float64 // row of the leading glyph, negative while waiting to enter
	speed  float64 // rows per tick
	length int
}

// cyberEffect types a banner, runs the init bars, then fills the screen with katakana rain
type cyberEffect struct {
	base
	glyphs []rune
	trail  []terminal.RGB

	phase     cyberPhase
	bannerIdx int
	intro     intro

	width, height int
	rows          int // rain rows, the ticker takes the last screen row
	drops         []drop
	grid          [][]rune

	message  string
	msgTicks int
}

func newCyber(cfg Config) *cyberEffect {
	e := &cyberEffect{
		base:   newBase(cfg),
		glyphs: []rune(matrixChars),
		trail:  gradient(rainTop, rainTail, trailShades),
	}
	e.intro = intro{
		steps:    cyberInitSteps,
		style:    styleYellow,
		barWidth: 40,
		stepDur:  time.Second,
		done:     "[+] SYSTEM INITIALIZED - COMMENCING SEQUENCE",
		doneDur:  time.Second,
	}
	return e
}

func (e *cyberEffect) NextFrame() render.Frame {
	e.advance(e.script)

	var f render.Frame
	if e.phase == cyberRainPhase {
		f = e.rainFrame()
	} else {
		f = e.emit()
	}
	e.tick++
	return f
}

func (e *cyberEffect) script() {
	switch e.phase {
	case cyberBannerPhase:
		if e.con.advanceTyping() {
			return
		}
		if e.bannerIdx < len(cyberBanner) {
			// One millisecond per character, so a whole line usually lands in a tick
			rate := int(e.interval / bannerCharDelay)
			e.con.typeLine(cyberBanner[e.bannerIdx], styleGreen, rate)
			e.con.advanceTyping()
			e.bannerIdx++
			return
		}
		e.phase = cyberInitPhase
		e.intro.advance(&e.base)

	case cyberInitPhase:
		if e.intro.advance(&e.base) {
			e.phase = cyberRainPhase
			e.con.clear()
			e.stepRain()
		}

	case cyberRainPhase:
		e.stepRain()
	}
}

// layout sizes the rain to the viewport, rebuilding it after a resize
func (e *cyberEffect) layout() {
	w, h := e.view.Size()
	if w == e.width && h == e.height && e.grid != nil {
		return
	}
	e.width, e.height = w, h

	e.rows = h - 1
	if e.rows < 1 {
		e.rows = 0
	}
	cols := w / 2

	e.grid = make([][]rune, e.rows)
	for r := range e.grid {
		e.grid[r] = make([]rune, cols)
		for c := range e.grid[r] {
			e.grid[r][c] = pick(e.rng, e.glyphs)
		}
	}
	e.drops = make([]drop, cols)
	for c := range e.drops {
		e.drops[c] = e.newDrop()
	}
}

func (e *cyberEffect) newDrop() drop {
	rows := max(e.rows, 1)
	// Lines appeared every 10ms to 400ms, so speeds span roughly that range
	perSecond := e.uniform(2.5, 25)
	return drop{
		head:   -float64(e.randint(0, rows)),
		speed:  perSecond * e.interval.Seconds(),
		length: e.randint(min(4, rows), max(rows, 4)),
	}
}

func (e *cyberEffect) stepRain() {
	e.layout()

	for c := range e.drops {
		d := &e.drops[c]
		before := int(d.head)
		d.head += d.speed
		// Fresh glyphs for every cell the head passed over
		for r := max(before+1, 0); r <= int(d.head) && r < e.rows; r++ {
			e.grid[r][c] = pick(e.rng, e.glyphs)
		}
		if int(d.head)-d.length > e.rows {
			*d = e.newDrop()
		}
	}

	for r := range e.grid {
		for c := range e.grid[r] {
			if e.chance(glyphMutation) {
				e.grid[r][c] = pick(e.rng, e.glyphs)
			}
		}
	}

	if e.msgTicks--; e.msgTicks <= 0 || e.message == "" {
		e.message = pick(e.rng, cyberHackMessages)
		e.msgTicks = e.ticks(messageHold) + e.randint(0, e.ticks(time.Second))
		e.signal(render.CueKey)
	}
}

func (e *cyberEffect) rainFrame() render.Frame {
	lines := make([]render.Line, 0, e.rows+1)
	blank := "  "

	for r := 0; r < e.rows; r++ {
		var line render.Line
		for c, d := range e.drops {
			dist := int(d.head) - r
			if dist < 0 || dist >= d.length {
				line = line.Append(blank, stylePlain)
				continue
			}

			glyph := string(e.grid[r][c])
			switch {
			case dist == 0:
				line = line.Append(glyph, terminal.Fg(rainHead).Bold())
			case e.chance(brightCharChance):
				line = line.Append(glyph, styleWhite.Bold())
			default:
				line = line.Append(glyph, terminal.Fg(ramp(e.trail, float64(dist)/float64(d.length))))
			}
		}
		lines = append(lines, line)
	}

	ticker := render.Styled("[*] "+e.message, styleCyan.Bold()).Truncate(e.width)
	lines = append(lines, ticker)

	f := render.Frame{Lines: lines, Cue: e.cue}
	e.cue = render.CueNone
	return f
}

// Summary is the emergency shutdown notice
func (e *cyberEffect) Summary() []render.Line {
	return hackShutdown()
}

func hackShutdown() []render.Line {
	return []render.Line{
		nil,
		render.Styled("[!] EMERGENCY PROTOCOL ACTIVATED - SYSTEM TERMINATED", styleRed.Bold()),
		render.Styled("* * * CONNECTION TERMINATED * * *", styleRed),
	}
}
