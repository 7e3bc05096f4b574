package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

func TestWriteSummary_Plain(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, []render.Line{
		nil,
		render.Styled("[!] Training interrupted", terminal.Fg(terminal.RGBRed).Bold()),
		{{Text: "a", Style: terminal.StyleDefault}, {Text: "b", Style: terminal.Fg(terminal.RGBGreen)}},
	}, false)

	assert.Equal(t, "\n[!] Training interrupted\nab\n", buf.String())
}

func TestWriteSummary_Colored(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, []render.Line{
		render.Styled("done", terminal.Fg(terminal.RGB{R: 1, G: 2, B: 3}).Bold()),
		render.Plain("plain"),
	}, true)

	out := buf.String()
	assert.Contains(t, out, "38;2;1;2;3")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "\nplain\n", "default style is written without escapes")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}

func TestNewSink_DefaultsToANSI(t *testing.T) {
	sink, err := newSink("ansi", terminal.ColorMode256)
	require.NoError(t, err)
	_, ok := sink.(*terminal.ANSI)
	assert.True(t, ok)
}

func TestRunAnimation_RejectsInvalidMode(t *testing.T) {
	err := runAnimation(context.Background(), &options{mode: "bogus", logDir: t.TempDir()}, io.Discard, io.Discard)
	var ue *usageError
	require.ErrorAs(t, err, &ue)
}
