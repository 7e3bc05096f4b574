package effect

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termsim/render"
)

var testStart = time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)

func newTestEffect(t *testing.T, m Mode, seed int64, w, h int) Effect {
	t.Helper()
	fx, err := New(m, Config{
		Rand:     rand.New(rand.NewSource(seed)),
		Viewport: FixedViewport{Width: w, Height: h},
		Start:    testStart,
	})
	require.NoError(t, err)
	return fx
}

func collect(fx Effect, n int) []render.Frame {
	frames := make([]render.Frame, n)
	for i := range frames {
		frames[i] = fx.NextFrame()
	}
	return frames
}

func TestEffects_Deterministic(t *testing.T) {
	for _, m := range Modes() {
		t.Run(m.String(), func(t *testing.T) {
			a := collect(newTestEffect(t, m, 42, 80, 24), 800)
			b := collect(newTestEffect(t, m, 42, 80, 24), 800)
			for i := range a {
				require.Equal(t, a[i].Texts(), b[i].Texts(), "frame %d", i)
				require.Equal(t, a[i].Cue, b[i].Cue, "frame %d", i)
			}
		})
	}
}

func TestEffects_SeedsDiverge(t *testing.T) {
	for _, m := range Modes() {
		t.Run(m.String(), func(t *testing.T) {
			a := collect(newTestEffect(t, m, 1, 80, 24), 1500)
			b := collect(newTestEffect(t, m, 2, 80, 24), 1500)

			same := true
			for i := range a {
				if strings.Join(a[i].Texts(), "\n") != strings.Join(b[i].Texts(), "\n") {
					same = false
					break
				}
			}
			assert.False(t, same)
		})
	}
}

func TestEffects_FramesFitViewport(t *testing.T) {
	sizes := []struct{ w, h int }{{80, 24}, {10, 3}, {41, 7}, {200, 60}, {1, 1}}

	for _, m := range Modes() {
		for _, sz := range sizes {
			t.Run(fmt.Sprintf("%s/%dx%d", m, sz.w, sz.h), func(t *testing.T) {
				fx := newTestEffect(t, m, 3, sz.w, sz.h)
				for i := 0; i < 1500; i++ {
					f := fx.NextFrame()
					require.False(t, f.Empty(), "frame %d is empty", i)
					require.LessOrEqual(t, len(f.Lines), sz.h, "frame %d", i)
					for row, l := range f.Lines {
						require.LessOrEqual(t, l.Width(), sz.w, "frame %d row %d: %q", i, row, l.Text())
					}
				}
			})
		}
	}
}

func TestEffects_FollowViewportResize(t *testing.T) {
	vp := &resizableViewport{w: 80, h: 24}
	fx, err := New(ModeCyber, Config{Rand: rand.New(rand.NewSource(5)), Viewport: vp, Start: testStart})
	require.NoError(t, err)

	collect(fx, 400)
	vp.w, vp.h = 30, 8
	for i := 0; i < 50; i++ {
		f := fx.NextFrame()
		require.LessOrEqual(t, len(f.Lines), 8)
		for _, l := range f.Lines {
			require.LessOrEqual(t, l.Width(), 30)
		}
	}
}

type resizableViewport struct{ w, h int }

func (v *resizableViewport) Size() (int, int) { return v.w, v.h }

func TestEffects_Summaries(t *testing.T) {
	for _, m := range Modes() {
		t.Run(m.String(), func(t *testing.T) {
			fx := newTestEffect(t, m, 9, 80, 24)

			s, ok := fx.(Summarizer)
			require.True(t, ok)
			assert.NotEmpty(t, s.Summary(), "summary before any frame")

			collect(fx, 2000)
			lines := s.Summary()
			require.NotEmpty(t, lines)
			var text []string
			for _, l := range lines {
				text = append(text, l.Text())
			}
			assert.NotEmpty(t, strings.TrimSpace(strings.Join(text, "")))
		})
	}
}

func TestEffects_RaiseCues(t *testing.T) {
	for _, m := range Modes() {
		t.Run(m.String(), func(t *testing.T) {
			fx := newTestEffect(t, m, 11, 80, 24)
			cues := 0
			for _, f := range collect(fx, 2000) {
				if f.Cue != render.CueNone {
					cues++
				}
			}
			assert.Positive(t, cues)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	fx, err := New(ModeLLM, Config{})
	require.NoError(t, err)
	f := fx.NextFrame()
	assert.False(t, f.Empty())
	assert.LessOrEqual(t, len(f.Lines), 24)
}
