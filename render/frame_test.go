package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/termsim/terminal"
)

func TestLineAppendMergesStyles(t *testing.T) {
	green := terminal.Fg(terminal.RGBGreen)

	var l Line
	l = l.Append("ab", green)
	l = l.Append("cd", green)
	l = l.Append("", terminal.StyleDefault)
	l = l.Append("ef", terminal.StyleDefault)

	assert.Len(t, l, 2)
	assert.Equal(t, "abcdef", l.Text())
	assert.Equal(t, 6, l.Width())
}

func TestFrameEmpty(t *testing.T) {
	assert.True(t, Frame{}.Empty())
	assert.True(t, Frame{Lines: []Line{nil, Plain("")}}.Empty())
	assert.False(t, Frame{Lines: []Line{Plain(" ")}}.Empty())
}

func TestCueString(t *testing.T) {
	assert.Equal(t, "none", CueNone.String())
	assert.Equal(t, "chime", CueChime.String())
	assert.Equal(t, "unknown", Cue(42).String())
}
