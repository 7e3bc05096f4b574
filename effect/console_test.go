package effect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termsim/render"
)

func lineTexts(lines []render.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text()
	}
	return out
}

func TestConsole_ViewShowsBottomRows(t *testing.T) {
	c := newConsole(100)
	for _, s := range []string{"a", "b", "c", "d"} {
		c.println(s, stylePlain)
	}
	c.setStatus(render.Plain("status"))

	assert.Equal(t, []string{"c", "d", "status"}, lineTexts(c.view(80, 3)))
	assert.Equal(t, []string{"a", "b", "c", "d", "status"}, lineTexts(c.view(80, 10)))
}

func TestConsole_ViewTruncatesWidth(t *testing.T) {
	c := newConsole(100)
	c.println("abcdefghij", stylePlain)
	c.println("日本語テキスト", stylePlain)

	got := c.view(5, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "abcde", got[0].Text())
	assert.LessOrEqual(t, got[1].Width(), 5)
}

func TestConsole_ViewDoesNotAliasScrollback(t *testing.T) {
	c := newConsole(100)
	c.println("a", stylePlain)
	c.println("b", stylePlain)
	c.lines = c.lines[:1]
	c.setStatus(render.Plain("s"))

	c.view(80, 10)
	c.println("c", stylePlain)
	assert.Equal(t, []string{"a", "c"}, lineTexts(c.lines))
}

func TestConsole_EmptyShowsCursor(t *testing.T) {
	c := newConsole(100)
	got := c.view(80, 24)
	require.Len(t, got, 1)
	assert.Equal(t, "▌", got[0].Text())

	c.blank()
	c.blank()
	got = c.view(80, 24)
	require.Len(t, got, 1)
	assert.Equal(t, "▌", got[0].Text())
}

func TestConsole_CommitStatus(t *testing.T) {
	c := newConsole(100)
	c.commit()
	assert.Empty(t, c.lines, "nothing to commit")

	c.setStatus(render.Plain("progress"))
	c.commit()
	assert.Equal(t, []string{"progress"}, lineTexts(c.lines))
	assert.Nil(t, c.status)
}

func TestConsole_ScrollbackTrim(t *testing.T) {
	c := newConsole(10)
	for i := 0; i < 21; i++ {
		c.println(strings.Repeat("x", i), stylePlain)
	}
	assert.Len(t, c.lines, 10)
	assert.Equal(t, strings.Repeat("x", 20), c.lines[9].Text())
	assert.Equal(t, strings.Repeat("x", 11), c.lines[0].Text())
}

func TestConsole_Typing(t *testing.T) {
	c := newConsole(100)
	assert.False(t, c.advanceTyping())

	c.typeLine("hello", styleGreen, 2)
	require.True(t, c.advanceTyping())
	assert.Equal(t, "he", c.status.Text())
	require.True(t, c.advanceTyping())
	assert.Equal(t, "hell", c.status.Text())
	require.True(t, c.advanceTyping())

	assert.Nil(t, c.status)
	assert.Equal(t, []string{"hello"}, lineTexts(c.lines))
	assert.False(t, c.advanceTyping())
}

func TestConsole_Clear(t *testing.T) {
	c := newConsole(100)
	c.println("a", stylePlain)
	c.typeLine("abc", stylePlain, 1)
	c.advanceTyping()
	c.clear()

	assert.Empty(t, c.lines)
	assert.Nil(t, c.status)
	assert.False(t, c.advanceTyping())
}
