package game

// spawnBody returns the reset snake: SpawnLength cells in a row, head at the grid centre,
// trailing to the left so the first move to the right is legal.
func spawnBody(g Grid) []Cell {
	head := g.Center()
	body := make([]Cell, SpawnLength)
	for i := range body {
		body[i] = Cell{X: head.X - i, Y: head.Y}
	}
	return body
}

// advance prepends head to body. When grow is false the tail is dropped so the length is
// unchanged. The result never aliases body.
func advance(body []Cell, head Cell, grow bool) []Cell {
	keep := len(body)
	if !grow {
		keep--
	}
	out := make([]Cell, 0, keep+1)
	out = append(out, head)
	out = append(out, body[:keep]...)
	return out
}

// occupancy is a cell set for O(1) spawn and collision queries
type occupancy map[Cell]struct{}

func newOccupancy(cells []Cell) occupancy {
	o := make(occupancy, len(cells))
	for _, c := range cells {
		o[c] = struct{}{}
	}
	return o
}

func (o occupancy) has(c Cell) bool {
	_, ok := o[c]
	return ok
}

// hits reports whether head lands on body. When the snake is not growing the tail cell
// vacates this tick, so it is excluded.
func hits(body []Cell, head Cell, grow bool) bool {
	check := body
	if !grow && len(check) > 0 {
		check = check[:len(check)-1]
	}
	for _, c := range check {
		if c == head {
			return true
		}
	}
	return false
}
