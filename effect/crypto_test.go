package effect

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termsim/terminal"
)

func runToMarket(t *testing.T, e *cryptoEffect) {
	t.Helper()
	for i := 0; i < 1000 && e.phase != cryptoLive; i++ {
		e.NextFrame()
	}
	require.Equal(t, cryptoLive, e.phase)
}

func TestCrypto_Header(t *testing.T) {
	e := newCrypto(testConfig(1, 200*time.Millisecond))
	header := strings.Join(lineTexts(e.con.lines), "\n")
	assert.Contains(t, header, "Market Analysis Dashboard")
	assert.Contains(t, header, "- Initial Price: $42,000.00")
	assert.Contains(t, header, "- 24h Volume: $5.00M")
	assert.Contains(t, header, "- Market Cap: $800.00B")
	assert.Contains(t, header, "- 24h Change: -1.50%")
}

func TestCrypto_PriceWalkStaysSane(t *testing.T) {
	e := newCrypto(testConfig(2, 200*time.Millisecond))
	runToMarket(t, e)

	for i := 0; i < 3000; i++ {
		e.NextFrame()
		require.Positive(t, e.price)
		require.GreaterOrEqual(t, e.volume, 1.0)
		require.LessOrEqual(t, e.low, e.price)
		require.GreaterOrEqual(t, e.high, e.price)
	}
	assert.Positive(t, e.updates)
	// A few minutes of one-second updates should not move price by an order of magnitude
	assert.InDelta(t, btcSnapshot.price, e.price, btcSnapshot.price*0.5)
}

func TestCrypto_StatusLine(t *testing.T) {
	e := newCrypto(testConfig(3, 200*time.Millisecond))
	runToMarket(t, e)

	found := false
	for i := 0; i < 50 && !found; i++ {
		for _, l := range e.NextFrame().Texts() {
			if strings.Contains(l, "BTC/USD: $") && strings.Contains(l, "| Δ: ") {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestCrypto_DetailBlockOnFirstUpdate(t *testing.T) {
	e := newCrypto(testConfig(4, 200*time.Millisecond))
	runToMarket(t, e)
	// A market event may delay the first update by a few seconds
	collect(e, 40)

	all := strings.Join(lineTexts(e.con.lines), "\n")
	assert.Contains(t, all, "[Market Update] BTC/USD")
	assert.Contains(t, all, "Technical Analysis:")
	assert.Contains(t, all, "Order Flow:")
	assert.Contains(t, all, "Chart")
}

func TestCrypto_Sparkline(t *testing.T) {
	e := newCrypto(testConfig(5, 200*time.Millisecond))
	assert.Nil(t, e.sparkline(10))

	for i := 0; i < 20; i++ {
		e.history = append(e.history, float64(100+i))
	}
	line := e.sparkline(8)
	text := line.Text()
	bars := []rune(strings.TrimPrefix(text, "    Chart       "))
	require.Len(t, bars, 8)
	assert.Equal(t, '▁', bars[0])
	assert.Equal(t, '█', bars[7])

	// Lowest point is red, highest green
	last := line[len(line)-1]
	assert.Equal(t, terminal.Fg(e.chartRamp[len(e.chartRamp)-1]), last.Style)
	assert.Equal(t, terminal.Fg(e.chartRamp[0]), line[1].Style)
}

func TestCrypto_FlatSparkline(t *testing.T) {
	e := newCrypto(testConfig(6, 200*time.Millisecond))
	e.history = []float64{5, 5, 5}
	bars := []rune(strings.TrimPrefix(e.sparkline(10).Text(), "    Chart       "))
	assert.Equal(t, []rune("▁▁▁"), bars)
}

func TestIndicatorLines(t *testing.T) {
	technical, flow := indicatorLines(indicators{rsi: 50, macd: 0, obv: 1e6, funding: 0.01, cvd: -2e4, oi: 1.2e6})
	require.Len(t, technical, 3)
	require.Len(t, flow, 3)
	assert.Contains(t, technical[0], "RSI")
	assert.Contains(t, technical[0], "50%")
	assert.Contains(t, flow[0], "1.000%")
	assert.Contains(t, flow[2], "$1.20M")

	// Zero OBV must not divide by zero
	assert.NotPanics(t, func() { indicatorLines(indicators{}) })
}

func TestCrypto_Summary(t *testing.T) {
	e := newCrypto(testConfig(7, 200*time.Millisecond))
	runToMarket(t, e)
	collect(e, 300)

	summary := strings.Join(lineTexts(e.Summary()), "\n")
	assert.Contains(t, summary, "Market Summary:")
	assert.Contains(t, summary, "- Analysis duration: 0:01:00")
	assert.Contains(t, summary, "- Final price: $")
}
