package game

import "math"

// Cell is a grid coordinate
type Cell struct {
	X int
	Y int
}

// Add returns the cell one step away in direction d
func (c Cell) Add(d Direction) Cell {
	v := d.Vector()
	return Cell{X: c.X + v.X, Y: c.Y + v.Y}
}

// Grid is the immutable board size, coordinates {0..Cols-1} x {0..Rows-1}
type Grid struct {
	Cols int
	Rows int
}

// GridForViewport derives the board from a viewport in px: horizontal padding is trimmed, the
// board takes BoardHeightRatio of the height, and partial cells are dropped.
func GridForViewport(width, height float64) Grid {
	boardW := width - 2*BoardPadding
	boardH := height * BoardHeightRatio
	if boardW < 0 {
		boardW = 0
	}
	if boardH < 0 {
		boardH = 0
	}
	return Grid{
		Cols: int(math.Floor(boardW / CellSize)),
		Rows: int(math.Floor(boardH / CellSize)),
	}
}

// Area returns the number of cells
func (g Grid) Area() int {
	return g.Cols * g.Rows
}

// Contains reports whether c lies inside the grid
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Cols && c.Y >= 0 && c.Y < g.Rows
}

// Wrap reduces c modulo the grid so it re-enters from the opposite edge
func (g Grid) Wrap(c Cell) Cell {
	return Cell{X: mod(c.X, g.Cols), Y: mod(c.Y, g.Rows)}
}

// Center returns the spawn cell for the head
func (g Grid) Center() Cell {
	return Cell{X: g.Cols / 2, Y: g.Rows / 2}
}

// Adjacent reports whether a and b are one orthogonal step apart, counting wraps when wrap is set
func (g Grid) Adjacent(a, b Cell, wrap bool) bool {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if wrap {
		if g.Cols > 1 && dx == g.Cols-1 {
			dx = 1
		}
		if g.Rows > 1 && dy == g.Rows-1 {
			dy = 1
		}
	}
	return dx+dy == 1
}

// Distance is the Manhattan distance between a and b, taking the short way round when wrap is set
func (g Grid) Distance(a, b Cell, wrap bool) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if wrap {
		dx = min(dx, g.Cols-dx)
		dy = min(dy, g.Rows-dy)
	}
	return dx + dy
}

func mod(v, n int) int {
	if n <= 0 {
		return 0
	}
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
