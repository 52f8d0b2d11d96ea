package game

import "math"

// Point is a position in grid units; (1.5, 2) is halfway between cells (1,2) and (2,2)
type Point struct {
	X float64
	Y float64
}

// Segment is the rendered position of one snake cell between two ticks. While a segment
// crosses a wrapping edge it is drawn twice: Pos slides off one edge and Ghost, the same
// position shifted by one grid length, slides in from the other.
type Segment struct {
	Pos      Point
	Ghost    Point
	HasGhost bool
}

// Nearest returns the on-grid cell closest to the segment, folding off-grid positions back
// through the wrap.
func (s Segment) Nearest(g Grid) Cell {
	return g.Wrap(Cell{X: int(math.Round(s.Pos.X)), Y: int(math.Round(s.Pos.Y))})
}

// Interpolate places each cell of curr between its previous position and its current one.
// progress is clamped to [0,1]. A cell with no counterpart in prev (just grown, or prev
// absent) is held still at its current cell.
func Interpolate(prev, curr []Cell, g Grid, progress float64) []Segment {
	p := clamp01(progress)
	out := make([]Segment, len(curr))
	for i, c := range curr {
		from := c
		if i < len(prev) {
			from = prev[i]
		}
		x, gx, wx := lerpAxis(from.X, c.X, g.Cols, p)
		y, gy, wy := lerpAxis(from.Y, c.Y, g.Rows, p)
		seg := Segment{Pos: Point{X: x, Y: y}}
		if wx || wy {
			seg.HasGhost = true
			seg.Ghost = Point{X: x + gx, Y: y + gy}
		}
		out[i] = seg
	}
	return out
}

// lerpAxis interpolates one coordinate. A delta of ±(n-1) is a wrap: the value heads for the
// unwrapped coordinate one step past the edge and shift is the offset of the ghost copy.
// Grids of two or fewer cells on an axis cannot tell a wrap from a plain step, so they never
// wrap visually.
func lerpAxis(from, to, n int, p float64) (v, shift float64, wrapped bool) {
	target := to
	if n > 2 {
		switch to - from {
		case -(n - 1): // last -> 0, moving forward
			target = to + n
			shift = -float64(n)
			wrapped = true
		case n - 1: // 0 -> last, moving backward
			target = to - n
			shift = float64(n)
			wrapped = true
		}
	}
	v = float64(from) + float64(target-from)*p
	return v, shift, wrapped
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
