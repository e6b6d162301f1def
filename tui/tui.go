// Package tui renders a session in a terminal with tcell and maps keys and
// mouse clicks to session actions.
//
// Each grid cell takes two terminal columns; row 0 is the status line and the
// row below the board lists the keys:
//
//	1/2/3   tool: start, end, wall     mouse-left  apply tool (drag paints walls)
//	space   start search               r / R       reset path / reset all
//	o       randomize obstacles        m           spawn moving obstacles
//	a       toggle animation           d           toggle dynamic obstacles
//	q, Esc  quit
package tui

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/katalvlaran/pathviz/grid"
	"github.com/katalvlaran/pathviz/session"
)

// Tool is what a left click does.
type Tool int

const (
	ToolStart Tool = iota
	ToolEnd
	ToolWall
)

// String implements fmt.Stringer.
func (t Tool) String() string {
	switch t {
	case ToolStart:
		return "start"
	case ToolEnd:
		return "end"
	case ToolWall:
		return "wall"
	default:
		return "unknown"
	}
}

const helpLine = "1/2/3 tool  space search  r/R reset  o random  m movers  a anim  d dynamic  q quit"

// quitSignal is posted to unblock PollEvent when the context ends.
type quitSignal struct{}

var (
	styleEmpty    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	styleStart    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleEnd      = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorRed)
	stylePath     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleExplored = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightBlue)
	styleFrontier = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGreen)
	styleMover    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorPurple)
	styleText     = tcell.StyleDefault
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// UI is a terminal front-end for one session.
type UI struct {
	screen tcell.Screen
	sess   *session.Session

	tool     Tool
	status   string
	isErr    bool
	painting *bool // wall state being dragged, nil when not dragging
	last     grid.Point

	pending atomic.Bool // a redraw interrupt is queued
}

// New binds an initialized screen to sess.
func New(screen tcell.Screen, sess *session.Session) *UI {
	return &UI{screen: screen, sess: sess, tool: ToolWall, last: grid.Point{X: -1, Y: -1}}
}

// Tool returns the active tool.
func (u *UI) Tool() Tool { return u.tool }

// Status returns the last status message.
func (u *UI) Status() string { return u.status }

// Run enables the mouse, draws, and handles events until the user quits or
// ctx ends. It does not call Fini on the screen.
func (u *UI) Run(ctx context.Context) error {
	u.screen.EnableMouse()
	defer u.screen.DisableMouse()

	cancel := u.sess.Subscribe(func(session.Event) {
		if u.pending.CompareAndSwap(false, true) {
			if err := u.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
				u.pending.Store(false)
			}
		}
	})
	defer cancel()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			u.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
		case <-stop:
		}
	}()

	u.Draw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil // screen finalized
		}
		if in, ok := ev.(*tcell.EventInterrupt); ok {
			if _, quit := in.Data().(quitSignal); quit {
				return ctx.Err()
			}
			u.pending.Store(false)
		}
		if !u.Handle(ev) {
			return nil
		}
		u.Draw()
	}
}

// Handle applies one terminal event and reports whether the UI keeps running.
func (u *UI) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return u.handleKey(ev)
	case *tcell.EventMouse:
		u.handleMouse(ev)
	case *tcell.EventResize:
		u.screen.Sync()
	}
	return true
}

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	var err error
	switch ev.Rune() {
	case 'q':
		return false
	case '1':
		u.tool = ToolStart
	case '2':
		u.tool = ToolEnd
	case '3':
		u.tool = ToolWall
	case ' ':
		err = u.sess.StartSearch()
	case 'r':
		u.sess.ResetPath()
	case 'R':
		u.sess.ResetAll()
	case 'o':
		_, err = u.sess.RandomizeObstacles()
	case 'm':
		u.sess.SpawnMovers()
	case 'a':
		u.sess.ToggleAnimation()
	case 'd':
		u.sess.ToggleDynamic()
	default:
		return true
	}
	u.report(err)
	return true
}

// cellAt maps a terminal position to a grid cell.
func cellAt(mx, my int) (int, int) {
	return mx / 2, my - 1
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		u.painting = nil
		u.last = grid.Point{X: -1, Y: -1}
		return
	}
	x, y := cellAt(ev.Position())
	p := grid.Point{X: x, Y: y}
	if p == u.last {
		return
	}
	u.last = p

	var err error
	switch u.tool {
	case ToolStart:
		err = u.sess.PlaceStart(x, y)
	case ToolEnd:
		err = u.sess.PlaceEnd(x, y)
	case ToolWall:
		if u.painting == nil {
			on := !u.sess.Snapshot().Has(x, y, session.FlagObstacle)
			u.painting = &on
		}
		err = u.sess.PaintObstacle(x, y, *u.painting)
	}
	u.report(err)
}

func (u *UI) report(err error) {
	if err != nil {
		u.status, u.isErr = err.Error(), true
		return
	}
	u.status, u.isErr = "", false
}

// Draw renders the current snapshot.
func (u *UI) Draw() {
	snap := u.sess.Snapshot()
	u.screen.Clear()

	header := fmt.Sprintf("%-9s tool:%-5s anim:%-3s dyn:%-3s ",
		snap.Phase, u.tool, onOff(snap.Animate), onOff(snap.Dynamic))
	col := u.text(0, 0, header, styleText)
	if u.status != "" {
		st := styleText
		if u.isErr {
			st = styleError
		}
		u.text(col, 0, u.status, st)
	}

	movers := make(map[grid.Point]bool, len(snap.Movers))
	for _, m := range snap.Movers {
		movers[grid.Point{X: m.X, Y: m.Y}] = true
	}
	for y := 0; y < snap.H; y++ {
		for x := 0; x < snap.W; x++ {
			r, st := glyph(snap.Cells[y*snap.W+x])
			if movers[grid.Point{X: x, Y: y}] {
				r, st = '@', styleMover
			}
			u.screen.SetContent(2*x, y+1, r, nil, st)
			u.screen.SetContent(2*x+1, y+1, ' ', nil, st)
		}
	}
	u.text(0, snap.H+1, helpLine, styleText)
	u.screen.Show()
}

// glyph picks the symbol and style of a cell by flag priority.
func glyph(f uint8) (rune, tcell.Style) {
	switch {
	case f&session.FlagObstacle != 0:
		return '#', styleObstacle
	case f&session.FlagStart != 0:
		return 'S', styleStart
	case f&session.FlagEnd != 0:
		return 'E', styleEnd
	case f&session.FlagPath != 0:
		return '*', stylePath
	case f&session.FlagExplored != 0:
		return 'x', styleExplored
	case f&session.FlagFrontier != 0:
		return 'o', styleFrontier
	default:
		return '.', styleEmpty
	}
}

// text writes s from column x and returns the column after it.
func (u *UI) text(x, y int, s string, st tcell.Style) int {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, st)
		x++
	}
	return x
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
