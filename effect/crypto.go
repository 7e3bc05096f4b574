// @lixen: #focus{vfx[chart,ticker]}
package effect

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

// marketSnapshot is the starting state of the simulated market.
// The dashboard never fetches live data; this is the fixed offline snapshot.
type marketSnapshot struct {
	price      float64
	volume     float64 // 24h volume
	high24h    float64
	low24h     float64
	change24h  float64 // percent
	marketCap  float64
	ath        float64
	atl        float64
	volatility float64 // daily, as a fraction
	dominance  float64
}

var btcSnapshot = marketSnapshot{
	price:      42000,
	volume:     5e6,
	high24h:    43000,
	low24h:     41000,
	change24h:  -1.5,
	marketCap:  800e9,
	ath:        69000,
	atl:        3000,
	volatility: 0.02,
	dominance:  45,
}

const (
	cryptoPair        = "BTC/USD"
	cryptoExchange    = "Aggregated Markets"
	cryptoTimeframe   = "1m"
	cryptoUpdateEvery = time.Second
	cryptoDetailEvery = 30 // seconds of simulated time between detail blocks
	cryptoEventChance = 0.05
	chartPoints       = 60
)

var cryptoInitSteps = []string{
	"Connecting to exchange websockets...",
	"Loading historical data...",
	"Calculating baseline metrics...",
	"Initializing technical indicators...",
	"Setting up order flow analysis...",
	"Loading market depth...",
	"Initializing liquidation feeds...",
	"Syncing funding data...",
	"Setting up alert system...",
	"Calibrating volatility models...",
}

// sparkChars gives a chart eight levels per cell
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// indicators is one sample of the technical readouts
type indicators struct {
	rsi, macd, obv, funding, cvd, oi float64
}

type cryptoPhase uint8

const (
	cryptoIntro cryptoPhase = iota
	cryptoLive
)

// cryptoEffect is a market dashboard driven by a random walk over the snapshot
type cryptoEffect struct {
	base
	market marketSnapshot

	phase      cryptoPhase
	intro      intro
	liveStart  uint64
	updates    int
	chartRamp  []terminal.RGB
	history    []float64
	initial    float64
	price      float64
	volume     float64 // hourly
	high, low  float64
	baseVol    float64 // per-update volatility
	lastChange float64
}

func newCrypto(cfg Config) *cryptoEffect {
	m := btcSnapshot
	e := &cryptoEffect{
		base:      newBase(cfg),
		market:    m,
		initial:   m.price,
		price:     m.price,
		volume:    m.volume / 24,
		high:      m.price,
		low:       m.price,
		baseVol:   m.volatility / math.Sqrt(24*60),
		chartRamp: gradient(terminal.RGBRed, terminal.RGBGreen, 8),
	}
	e.intro = intro{
		steps:    cryptoInitSteps,
		style:    styleBlue,
		barWidth: 40,
		stepDur:  5 * time.Second,
		done:     "[+] Market feeds initialized - Starting analysis",
		doneDur:  2 * time.Second,
	}

	printBox(&e.con, "Market Analysis Dashboard", []string{
		"[Market Configuration]",
		"- Pair: " + cryptoPair,
		"- Exchange: " + cryptoExchange,
		"- Timeframe: " + cryptoTimeframe,
		"- Initial Price: " + formatPrice(m.price),
		"- 24h Volume: " + formatVolume(m.volume),
		"- Market Cap: " + formatVolume(m.marketCap),
		"",
		"[Market Context]",
		fmt.Sprintf("- 24h Change: %+.2f%%", m.change24h),
		"- ATH: " + formatPrice(m.ath),
		fmt.Sprintf("- Volatility: %.1f%%", m.volatility*100),
		fmt.Sprintf("- BTC Dominance: %.1f%%", m.dominance),
		"",
		"[Analysis Configuration]",
		"- Technical Indicators: RSI, MACD, OBV",
		"- Order Flow Analysis: CVD, Funding",
		"- Market Depth: 100 levels",
		"- Liquidation Tracker: Enabled",
	}, styleGreen.Bold())
	e.con.println("[*] Initializing market data feeds...", styleYellow)
	return e
}

func (e *cryptoEffect) NextFrame() render.Frame {
	e.advance(e.script)
	f := e.emit()
	e.tick++
	return f
}

func (e *cryptoEffect) script() {
	switch e.phase {
	case cryptoIntro:
		if e.intro.advance(&e.base) {
			e.phase = cryptoLive
			e.liveStart = e.tick
			e.update()
		}
	case cryptoLive:
		e.update()
	}
}

// movement returns the fractional price and volume change for one update.
// Cycle and support/resistance terms are percentages, scaled to fractions here.
func (e *cryptoEffect) movement() (priceChange, volumeChange float64) {
	m := e.market
	cycles := e.uniform(-0.2, 0.2) + // 4h
		e.uniform(-0.15, 0.15) + // 1h
		e.uniform(-0.1, 0.1) + // 15m
		e.uniform(-0.05, 0.05) // 1m

	trend := m.change24h / 100 / 86400
	athPull := -0.1 * (m.ath - e.price) / m.ath
	atlPull := 0.1 * (e.price - m.atl) / e.price

	vol := e.baseVol * (1 + math.Abs(m.change24h)/100)
	priceChange = e.rng.NormFloat64()*vol + trend + (cycles+athPull+atlPull)/100

	volumeChange = e.rng.NormFloat64() * 0.1 * (1 + math.Abs(priceChange)*5)
	return priceChange, volumeChange
}

func (e *cryptoEffect) indicators() indicators {
	momentum := e.market.change24h / 100
	v := e.volume
	return indicators{
		rsi:     math.Max(math.Min(50+momentum*200+e.uniform(-10, 10), 95), 5),
		macd:    momentum*100 + e.uniform(-20, 20),
		obv:     v * (1 + momentum) * e.uniform(0.8, 1.2),
		funding: momentum*0.1 + e.uniform(-0.05, 0.05),
		cvd:     v * momentum * e.uniform(-0.3, 0.3),
		oi:      v * (1.5 + momentum) * e.uniform(0.4, 1.6),
	}
}

func (e *cryptoEffect) update() {
	elapsed := int(e.since(e.liveStart) / time.Second)

	change, volChange := e.movement()
	e.price *= 1 + change
	e.volume *= 1 + volChange
	if e.volume < 1 {
		e.volume = 1
	}
	e.high = math.Max(e.high, e.price)
	e.low = math.Min(e.low, e.price)
	e.lastChange = change
	e.updates++

	e.history = append(e.history, e.price)
	if len(e.history) > 2*chartPoints {
		e.history = append(e.history[:0], e.history[len(e.history)-chartPoints:]...)
	}

	if e.chance(cryptoEventChance) {
		e.con.commit()
		line, delay := e.marketEvent()
		e.con.print(line)
		e.sleepSeconds(delay)
	}

	e.then(func() {
		ind := e.indicators()
		e.con.setStatus(render.Styled(fmt.Sprintf("[%s] %s: %s | 24h: %s | Δ: %+.2f%%",
			stamp(e.now()), cryptoPair, formatPrice(e.price), formatVolume(e.volume*24), change*100), styleCyan))

		if elapsed%cryptoDetailEvery == 0 {
			e.printDetail(ind)
		}
		e.sleep(cryptoUpdateEvery)
	})
}

// marketEvent picks an alert weighted by how close price sits to its extremes
func (e *cryptoEffect) marketEvent() (render.Line, float64) {
	m := e.market
	weights := []float64{0.33, 0.34, 0.33}
	switch {
	case e.price > m.ath*0.95:
		weights = []float64{0.5, 0.3, 0.2}
	case e.price < m.atl*1.2:
		weights = []float64{0.2, 0.3, 0.5}
	}

	type kind struct {
		style    terminal.Style
		level    string
		messages func() []string
		delay    [2]float64
	}
	kinds := []kind{
		{styleRed, "ALERT", e.bearishEvents, [2]float64{2, 5}},
		{styleYellow, "WARN", e.neutralEvents, [2]float64{1, 3}},
		{styleGreen, "INFO", e.bullishEvents, [2]float64{1, 2}},
	}
	k := kinds[weighted(e.rng, weights)]
	msg := pick(e.rng, k.messages())

	detail := ""
	details := e.eventDetails()
	if e.chance(0.4) {
		detail = " " + pick(e.rng, details)
	}
	impact := ""
	if e.chance(0.3) {
		impact = fmt.Sprintf(" [Impact: %.1f%%]", e.uniform(0.1, 2.0))
	}

	e.signal(render.CueAlert)
	text := fmt.Sprintf("[%s] [%s]%s: %s%s", stamp(e.now()), k.level, detail, msg, impact)
	return render.Styled(text, k.style), e.uniform(k.delay[0], k.delay[1])
}

func (e *cryptoEffect) bearishEvents() []string {
	p, v := e.price, e.market.volume
	return []string{
		"Large sell wall detected at " + formatPrice(p*1.02),
		"Bearish divergence forming on 4H timeframe",
		"Whale movement: " + formatVolume(v*e.uniform(0.001, 0.01)) + " BTC",
		"Support breach at " + formatPrice(p*0.98),
		fmt.Sprintf("Funding rate spike to %.3f%%", e.uniform(-0.2, -0.05)),
		"Liquidation cascade: " + formatVolume(v*e.uniform(0.005, 0.02)),
		"Exchange outflow: " + formatVolume(v*e.uniform(0.01, 0.05)),
		"Options gamma exposure: " + formatVolume(v*e.uniform(0.1, 0.3)),
	}
}

func (e *cryptoEffect) neutralEvents() []string {
	p, m := e.price, e.market
	return []string{
		fmt.Sprintf("Volume %s at %s", pick(e.rng, []string{"surge", "decline"}), formatPrice(p)),
		fmt.Sprintf("RSI divergence at %.1f", e.uniform(20, 80)),
		fmt.Sprintf("Funding imbalance: %.3f%%", e.uniform(-0.1, 0.1)),
		fmt.Sprintf("OI/Volume ratio: %.2f", e.uniform(0.5, 2.0)),
		"Unusual options flow at " + formatPrice(p*e.uniform(0.9, 1.1)),
		"Momentum shift at " + formatPrice(p),
		fmt.Sprintf("Volatility compression: %.1f%%", m.volatility*100),
		"Technical divergence on " + pick(e.rng, []string{"RSI", "MACD", "OBV"}),
	}
}

func (e *cryptoEffect) bullishEvents() []string {
	p, m := e.price, e.market
	return []string{
		"Accumulation detected: " + formatVolume(m.volume*e.uniform(0.01, 0.05)),
		"Higher low formed at " + formatPrice(p*0.99),
		"Golden cross: MA50 crosses MA200",
		"Support forming at " + formatPrice(p*0.95),
		"Institutional inflow: " + formatVolume(m.volume*e.uniform(0.02, 0.08)),
		fmt.Sprintf("Funding normalization at %.3f%%", e.uniform(-0.01, 0.01)),
		"OI reset complete: " + formatVolume(m.volume*e.uniform(0.5, 0.8)),
		fmt.Sprintf("Volatility breakout: %.1f%%", m.volatility*100*e.uniform(1.2, 1.5)),
	}
}

func (e *cryptoEffect) eventDetails() []string {
	v := e.market.volume
	return []string{
		"(Vol: " + formatVolume(v*e.uniform(0.001, 0.01)) + ")",
		"(OI: " + formatVolume(v*e.uniform(0.4, 0.8)) + ")",
		fmt.Sprintf("(Lvg: %.1fx)", e.uniform(2, 20)),
		"(Depth: " + formatVolume(v*e.uniform(0.01, 0.05)) + ")",
		fmt.Sprintf("(Spread: %.3f%%)", e.uniform(0.01, 0.1)),
		"(CVD: " + formatVolume(v*e.uniform(-0.1, 0.1)) + ")",
	}
}

// indicatorLines renders the six readouts as labelled bars
func indicatorLines(ind indicators) (technical, flow []string) {
	row := func(label string, p float64, value string) string {
		return fmt.Sprintf("    %-11s %s %s", label, progressBar(p, 20), value)
	}
	obv := ind.obv
	if obv == 0 {
		obv = 1
	}
	technical = []string{
		row("RSI", ind.rsi/100, fmt.Sprintf("%.1f", ind.rsi)),
		row("MACD", (ind.macd+100)/200, fmt.Sprintf("%.1f", ind.macd)),
		row("OBV", 0.5, formatVolume(ind.obv)),
	}
	flow = []string{
		row("Funding", (ind.funding+0.1)/0.2, fmt.Sprintf("%.3f%%", ind.funding*100)),
		row("CVD", (ind.cvd+obv)/(2*obv), formatVolume(ind.cvd)),
		row("OpenInt", ind.oi/obv, formatVolume(ind.oi)),
	}
	return technical, flow
}

// sparkline charts recent prices with block characters colored low red to high green
func (e *cryptoEffect) sparkline(width int) render.Line {
	values := e.history
	if len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	line := render.Line{{Text: "    Chart       ", Style: styleBlue}}
	for _, v := range values {
		norm := (v - lo) / span
		idx := min(int(norm*7.99), 7)
		line = line.Append(string(sparkChars[idx]), terminal.Fg(ramp(e.chartRamp, norm)))
	}
	return line
}

func (e *cryptoEffect) printDetail(ind indicators) {
	technical, flow := indicatorLines(ind)

	e.con.commit()
	e.con.blank()
	e.printBlock(styleGreen,
		strings.Repeat("=", 100),
		fmt.Sprintf("[Market Update] %s on %s", cryptoPair, cryptoExchange))
	e.printBlock(styleYellow,
		"Price Action:",
		fmt.Sprintf("    Current: %s (%+.2f%%)", formatPrice(e.price), e.lastChange*100),
		fmt.Sprintf("    24h High: %s | Low: %s", formatPrice(e.high), formatPrice(e.low)),
		fmt.Sprintf("    24h Volume: %s", formatVolume(e.volume*24)),
		fmt.Sprintf("    Price Range: %.1f%%", (e.high/e.low-1)*100))
	e.printBlock(styleCyan, "Technical Analysis:")
	e.printBlock(styleCyan, technical...)
	e.printBlock(styleMagenta, "Order Flow:")
	e.printBlock(styleMagenta, flow...)
	e.printBlock(styleBlue,
		"Market Structure:",
		fmt.Sprintf("    Trend: %s (%s)", pick(e.rng, []string{"Bullish", "Bearish", "Neutral"}), cryptoTimeframe),
		fmt.Sprintf("    Volatility: %.1f%%", e.uniform(20, 100)),
		"    Liquidity: "+formatVolume(e.volume*e.uniform(0.1, 0.3)),
		fmt.Sprintf("    Dominance: %.1f%%", e.uniform(40, 60)))
	if chart := e.sparkline(chartPoints); chart != nil {
		e.con.print(chart)
	}

	p := e.price
	e.printInsights("Market Insights:", []insight{
		{styleGreen, fixed("[✓] Strong buy wall at " + formatPrice(p*0.98)), 0.2},
		{styleGreen, fixed("[✓] Accumulation detected on spot exchanges"), 0.2},
		{styleYellow, func(b *base) string { return fmt.Sprintf("[!] Funding rate divergence: %.3f%%", b.uniform(-0.1, 0.1)) }, 0.3},
		{styleGreen, fixed("[✓] OI/Volume ratio healthy"), 0.2},
		{styleBlue, fixed("[i] Large options expiry approaching"), 0.2},
		{styleYellow, func(b *base) string { return "[!] Whale wallet movement: " + formatVolume(b.uniform(1e6, 1e7)) }, 0.3},
		{styleGreen, fixed("[✓] Spot premium on major exchanges"), 0.2},
		{styleBlue, fixed("[i] Institutional flow positive"), 0.3},
	}, 2)
}

// Summary is the market report printed after the dashboard closes
func (e *cryptoEffect) Summary() []render.Line {
	var duration time.Duration
	if e.phase == cryptoLive {
		duration = e.since(e.liveStart)
	}
	lines := []string{
		"Market Summary:",
		strings.Repeat("=", 50),
		"- Analysis duration: " + formatElapsed(duration),
		"- Final price: " + formatPrice(e.price),
		fmt.Sprintf("- Price change: %+.2f%%", (e.price/e.initial-1)*100),
		"- 24h range: " + formatPrice(e.low) + " - " + formatPrice(e.high),
		"- Total volume: " + formatVolume(e.volume*24),
		fmt.Sprintf("- Peak funding rate: %.3f%%", 0.1),
		fmt.Sprintf("- Max leverage observed: %.1fx", 25.0),
		"- Largest single trade: " + formatVolume(e.volume*0.2),
		"- Notable levels:",
		"  * Support: " + formatPrice(e.price*0.95),
		"  * Resistance: " + formatPrice(e.price*1.05),
		"- Market sentiment: Neutral",
	}
	out := []render.Line{nil}
	for _, l := range lines {
		out = append(out, render.Styled(l, styleYellow))
	}
	return out
}
