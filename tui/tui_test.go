package tui_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pathviz/config"
	"github.com/katalvlaran/pathviz/session"
	"github.com/katalvlaran/pathviz/tui"
)

// newUI returns a UI over a 6x4 instant-mode session on a simulation screen.
func newUI(t *testing.T) (*tui.UI, tcell.SimulationScreen, *session.Session) {
	t.Helper()
	cfg := config.Default()
	cfg.Grid.Width, cfg.Grid.Height = 6, 4
	cfg.Search.Animate = false
	cfg.Seed = 3
	sess, err := session.New(cfg)
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 8)
	t.Cleanup(screen.Fini)

	return tui.New(screen, sess), screen, sess
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

// click presses and releases the left button over grid cell (x, y).
func click(u *tui.UI, x, y int) {
	u.Handle(tcell.NewEventMouse(2*x, y+1, tcell.Button1, tcell.ModNone))
	u.Handle(tcell.NewEventMouse(2*x, y+1, tcell.ButtonNone, tcell.ModNone))
}

// row returns terminal row y as a string.
func row(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

// board returns the grid symbols of terminal rows 1..h, one char per cell.
func board(screen tcell.SimulationScreen, w, h int) []string {
	out := make([]string, h)
	for y := 0; y < h; y++ {
		r := []rune(row(screen, y+1))
		var b strings.Builder
		for x := 0; x < w; x++ {
			b.WriteRune(r[2*x])
		}
		out[y] = b.String()
	}
	return out
}

func TestTools(t *testing.T) {
	u, _, _ := newUI(t)
	assert.Equal(t, tui.ToolWall, u.Tool())
	u.Handle(key('1'))
	assert.Equal(t, tui.ToolStart, u.Tool())
	u.Handle(key('2'))
	assert.Equal(t, tui.ToolEnd, u.Tool())
	u.Handle(key('3'))
	assert.Equal(t, tui.ToolWall, u.Tool())
	assert.Equal(t, "wall", u.Tool().String())
}

// TestDrawSearch places endpoints and a wall with the mouse, searches and
// checks the rendered board.
func TestDrawSearch(t *testing.T) {
	u, screen, sess := newUI(t)

	u.Handle(key('1'))
	click(u, 0, 0)
	u.Handle(key('2'))
	click(u, 5, 0)
	u.Handle(key('3'))
	click(u, 2, 0)
	require.True(t, u.Handle(key(' ')))
	require.Equal(t, session.Succeeded, sess.Phase())

	u.Draw()
	got := board(screen, 6, 4)
	assert.Equal(t, byte('S'), got[0][0])
	assert.Equal(t, byte('#'), got[0][2])
	assert.Equal(t, byte('E'), got[0][5])
	assert.Contains(t, got[1], "*", "path detours below the wall")
	assert.True(t, strings.HasPrefix(row(screen, 0), "succeeded"))
	assert.Contains(t, row(screen, 5), "q quit")
}

// TestDragPaint paints a run of walls in one drag and erases it in another.
func TestDragPaint(t *testing.T) {
	u, _, sess := newUI(t)

	for x := 0; x < 4; x++ {
		u.Handle(tcell.NewEventMouse(2*x, 2, tcell.Button1, tcell.ModNone))
	}
	u.Handle(tcell.NewEventMouse(6, 2, tcell.ButtonNone, tcell.ModNone))
	snap := sess.Snapshot()
	for x := 0; x < 4; x++ {
		assert.True(t, snap.Has(x, 1, session.FlagObstacle), x)
	}

	// Starting on a wall erases.
	u.Handle(tcell.NewEventMouse(0, 2, tcell.Button1, tcell.ModNone))
	u.Handle(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone))
	u.Handle(tcell.NewEventMouse(2, 2, tcell.ButtonNone, tcell.ModNone))
	snap = sess.Snapshot()
	assert.False(t, snap.Has(0, 1, session.FlagObstacle))
	assert.False(t, snap.Has(1, 1, session.FlagObstacle))
	assert.True(t, snap.Has(2, 1, session.FlagObstacle))
}

func TestErrorsInStatus(t *testing.T) {
	u, screen, _ := newUI(t)

	u.Handle(key(' '))
	assert.Contains(t, u.Status(), "must both be set")

	u.Handle(key('2'))
	click(u, 1, 1)
	assert.Equal(t, session.ErrStartUnset.Error(), u.Status())

	u.Draw()
	assert.Contains(t, row(screen, 0), "place the start first")

	u.Handle(key('m'))
	assert.Empty(t, u.Status())
}

func TestModeKeys(t *testing.T) {
	u, screen, sess := newUI(t)

	u.Handle(key('a'))
	u.Handle(key('d'))
	assert.True(t, sess.Animate())
	assert.True(t, sess.Dynamic())

	u.Handle(key('m'))
	u.Draw()
	assert.Contains(t, row(screen, 0), "anim:on")
	assert.Contains(t, row(screen, 0), "dyn:on")
	assert.NotEmpty(t, sess.Snapshot().Movers)

	u.Handle(key('R'))
	assert.Empty(t, sess.Snapshot().Movers)
}

func TestQuitKeys(t *testing.T) {
	u, _, _ := newUI(t)
	assert.False(t, u.Handle(key('q')))
	assert.False(t, u.Handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, u.Handle(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone)))
}

func TestRun_QuitAndCancel(t *testing.T) {
	u, screen, _ := newUI(t)

	done := make(chan error, 1)
	go func() { done <- u.Run(context.Background()) }()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return on q")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { done <- u.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return on cancel")
	}
}
