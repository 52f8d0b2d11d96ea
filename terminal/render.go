package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"gridsnake/game"
)

// Each grid cell is two terminal columns wide so the board looks square
const cellWidth = 2

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCrash  = tcell.StyleDefault.Foreground(tcell.GetColor("#EF4444")).Bold(true)
)

// GridForScreen fits a grid inside a w x h terminal, leaving room for the border and HUD line
func GridForScreen(w, h, maxCols, maxRows int) game.Grid {
	cols := (w - 2) / cellWidth
	rows := h - 3
	if maxCols > 0 && cols > maxCols {
		cols = maxCols
	}
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
	}
	return game.Grid{Cols: max(cols, 0), Rows: max(rows, 0)}
}

// View is everything the renderer needs for one frame
type View struct {
	Snap       game.Snapshot
	Segments   []game.Segment
	Difficulty game.Difficulty
	Demo       bool
}

// Draw renders one frame. The board's top-left border corner sits at (0,0).
func Draw(screen tcell.Screen, v View) {
	screen.Clear()
	st := v.Snap.State
	g := st.Grid

	drawBorder(screen, g, st.Walls)

	if g.Contains(st.Food.Cell) {
		style := tcell.StyleDefault.Foreground(tcell.GetColor(st.Food.Item.Color))
		setCell(screen, g, float64(st.Food.X), float64(st.Food.Y), st.Food.Item.Shape, style)
	}

	body := tcell.StyleDefault.Foreground(tcell.GetColor(st.Tint))
	if st.Phase == game.GameOver && st.Outcome != game.OutcomeBoardFull {
		body = styleCrash
	}
	// Tail first so the head is drawn on top
	for i := len(v.Segments) - 1; i >= 0; i-- {
		seg := v.Segments[i]
		r := '●'
		if i == 0 {
			r = st.Direction.Glyph()
		} else if i == len(v.Segments)-1 {
			r = '•'
		}
		setCell(screen, g, seg.Pos.X, seg.Pos.Y, r, body)
		if seg.HasGhost {
			setCell(screen, g, seg.Ghost.X, seg.Ghost.Y, r, body)
		}
	}

	drawHUD(screen, g, v)
	drawBanner(screen, g, st)
	screen.Show()
}

// setCell draws r at a grid position, clipped to the board interior
func setCell(screen tcell.Screen, g game.Grid, x, y float64, r rune, style tcell.Style) {
	col := int(math.Round(x * cellWidth))
	row := int(math.Round(y))
	if col < 0 || col > (g.Cols-1)*cellWidth || row < 0 || row >= g.Rows {
		return
	}
	screen.SetContent(1+col, 1+row, r, nil, style)
}

func drawBorder(screen tcell.Screen, g game.Grid, walls bool) {
	h, v := '─', '│'
	if !walls {
		h, v = '┄', '┆'
	}
	right := 1 + g.Cols*cellWidth
	bottom := 1 + g.Rows
	for x := 1; x < right; x++ {
		screen.SetContent(x, 0, h, nil, styleBorder)
		screen.SetContent(x, bottom, h, nil, styleBorder)
	}
	for y := 1; y < bottom; y++ {
		screen.SetContent(0, y, v, nil, styleBorder)
		screen.SetContent(right, y, v, nil, styleBorder)
	}
	screen.SetContent(0, 0, '┌', nil, styleBorder)
	screen.SetContent(right, 0, '┐', nil, styleBorder)
	screen.SetContent(0, bottom, '└', nil, styleBorder)
	screen.SetContent(right, bottom, '┘', nil, styleBorder)
}

func drawHUD(screen tcell.Screen, g game.Grid, v View) {
	st := v.Snap.State
	mode := "walls"
	if !st.Walls {
		mode = "wrap"
	}
	line := fmt.Sprintf(" score %d  level %d  best %d  %dms  %s  %s  %s",
		st.Score, st.Level, v.Snap.Best, st.Interval.Milliseconds(), v.Difficulty, mode, st.Phase)
	if v.Demo {
		line += "  demo"
	}
	drawText(screen, 0, g.Rows+2, line, styleHUD)
}

func drawBanner(screen tcell.Screen, g game.Grid, st game.State) {
	var msg string
	style := styleBanner
	switch st.Phase {
	case game.Idle:
		msg = "enter start · 1/2/3 speed · t walls · m demo"
	case game.Paused:
		msg = "paused · space to resume"
	case game.GameOver:
		if st.Outcome == game.OutcomeBoardFull {
			msg = fmt.Sprintf("board cleared! %d points · enter", st.Score)
		} else {
			msg = fmt.Sprintf("game over (%s) · %d points · enter", st.Outcome, st.Score)
			style = styleCrash
		}
	default:
		return
	}
	width := 2 + g.Cols*cellWidth
	x := max((width-len([]rune(msg)))/2, 0)
	drawText(screen, x, 1+g.Rows/2, msg, style)
}

func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
