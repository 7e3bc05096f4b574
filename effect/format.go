package effect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	barFull  = "█"
	barEmpty = "░"
)

// progressBar renders "[████░░░░] 50%", progress is clamped to 0..1
func progressBar(progress float64, width int) string {
	progress = clamp01(progress)
	filled := int(float64(width) * progress)
	return "[" + strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled) +
		fmt.Sprintf("] %d%%", int(progress*100))
}

// meter is a bar without the percentage, for labelled gauges
func meter(progress float64, width int) string {
	filled := int(float64(width) * clamp01(progress))
	return "[" + strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled) + "]"
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatNumber abbreviates with T/B/M/K suffixes
func formatNumber(n float64) string {
	switch abs := math.Abs(n); {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", n/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", n/1e3)
	default:
		return fmt.Sprintf("%.2f", n)
	}
}

// formatClock renders seconds as HH:MM:SS, hours unbounded
func formatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	s := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// formatElapsed renders a duration as H:MM:SS without zero padding the hours
func formatElapsed(d time.Duration) string {
	s := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// formatFloat prints like a plain numeric literal: 0.0001, 1e-05, 2048
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatPrice prints $1,234.56 above 1000 and four decimals below
func formatPrice(price float64) string {
	d := decimal.NewFromFloat(price)
	if d.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return "$" + groupThousands(d.StringFixed(2))
	}
	return "$" + d.StringFixed(4)
}

var (
	thousand = decimal.New(1, 3)
	million  = decimal.New(1, 6)
	billion  = decimal.New(1, 9)
)

// formatVolume prints a dollar amount with a B/M/K suffix
func formatVolume(v float64) string {
	d := decimal.NewFromFloat(v)
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(billion):
		return "$" + d.Div(billion).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(million):
		return "$" + d.Div(million).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return "$" + d.Div(thousand).StringFixed(2) + "K"
	default:
		return "$" + d.StringFixed(2)
	}
}

// groupThousands inserts commas into the integer part of a fixed-point string
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + sb.String() + frac
}

// stamp formats simulated time for log prefixes
func stamp(t time.Time) string {
	return t.Format("15:04:05")
}

// stampCentis adds hundredths of a second
func stampCentis(t time.Time) string {
	return t.Format("15:04:05.00")
}
