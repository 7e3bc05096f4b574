package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want uint8
	}{
		{"black", RGB{0, 0, 0}, 16},
		{"white", RGB{255, 255, 255}, 231},
		{"pure red", RGB{255, 0, 0}, 196},
		{"pure green", RGB{0, 255, 0}, 46},
		{"mid gray uses ramp", RGB{128, 128, 128}, 244},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RGBTo256(tt.in))
		})
	}
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want ColorMode
	}{
		{"empty env", nil, ColorMode256},
		{"colorterm truecolor", map[string]string{"COLORTERM": "truecolor"}, ColorModeTrueColor},
		{"colorterm 24bit", map[string]string{"COLORTERM": "24bit"}, ColorModeTrueColor},
		{"kitty", map[string]string{"KITTY_WINDOW_ID": "1"}, ColorModeTrueColor},
		{"term direct", map[string]string{"TERM": "xterm-DIRECT"}, ColorModeTrueColor},
		{"plain xterm", map[string]string{"TERM": "xterm-256color"}, ColorMode256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.want, detectColorMode(getenv))
		})
	}
}

func TestParseColorMode(t *testing.T) {
	assert.Equal(t, ColorMode256, ParseColorMode("256"))
	assert.Equal(t, ColorModeTrueColor, ParseColorMode("truecolor"))
	assert.Equal(t, ColorModeTrueColor, ParseColorMode("24BIT"))
	assert.Equal(t, "truecolor", ColorModeTrueColor.String())
	assert.Equal(t, "256", ColorMode256.String())
}
