package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/termsim/terminal"
)

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 5, StringWidth("hello"))
	assert.Equal(t, 4, StringWidth("アカ"))
	assert.Equal(t, 3, StringWidth("█░▌"))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "abc", 5, "abc"},
		{"exact", "abc", 3, "abc"},
		{"cut", "abcdef", 4, "abcd"},
		{"zero width", "abc", 0, ""},
		{"negative width", "abc", -2, ""},
		{"wide glyph not split", "アカサ", 3, "ア"},
		{"wide glyph boundary", "アカサ", 4, "アカ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.in, tt.width))
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abc", PadRight("abcdef", 3))
	assert.Equal(t, "ア ", PadRight("アカ", 3))
}

func TestCenter(t *testing.T) {
	assert.Equal(t, "  ab  ", Center("ab", 6))
	assert.Equal(t, " ab  ", Center("ab", 5))
	assert.Equal(t, "abc", Center("abcdef", 3))
}

func TestLineTruncate(t *testing.T) {
	red := terminal.Fg(terminal.RGBRed)
	line := Line{
		{Text: "abc", Style: terminal.StyleDefault},
		{Text: "defg", Style: red},
		{Text: "hi", Style: terminal.StyleDefault},
	}

	t.Run("splits crossing span", func(t *testing.T) {
		got := line.Truncate(5)
		assert.Equal(t, "abcde", got.Text())
		assert.Len(t, got, 2)
		assert.Equal(t, red, got[1].Style)
	})

	t.Run("span boundary", func(t *testing.T) {
		got := line.Truncate(3)
		assert.Equal(t, "abc", got.Text())
		assert.Len(t, got, 1)
	})

	t.Run("wider than line", func(t *testing.T) {
		assert.Equal(t, line, line.Truncate(100))
	})

	t.Run("does not alias input", func(t *testing.T) {
		got := line.Truncate(5)
		got[0].Text = "zzz"
		assert.Equal(t, "abc", line[0].Text)
	})
}

func TestClip(t *testing.T) {
	f := Frame{
		Lines: []Line{Plain("first line"), Plain("second"), Plain("third")},
		Cue:   CueChime,
	}

	got := Clip(f, 4, 2)
	assert.Equal(t, []string{"firs", "seco"}, got.Texts())
	assert.Equal(t, CueChime, got.Cue)

	for _, l := range Clip(f, 80, 24).Lines {
		assert.LessOrEqual(t, l.Width(), 80)
	}
	assert.Empty(t, Clip(f, 10, 0).Lines)
}
