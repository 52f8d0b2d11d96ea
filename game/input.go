package game

import "math"

// Metric measures a drag vector against the deadzone
type Metric uint8

const (
	// Chebyshev passes when either axis exceeds the deadzone
	Chebyshev Metric = iota
	// Manhattan passes when |dx|+|dy| exceeds the deadzone
	Manhattan
)

// InputMapper turns raw swipe/drag deltas into a direction
type InputMapper struct {
	Deadzone float64
	Metric   Metric
}

var (
	// SwipeInput suits whole-gesture deltas from a swipe
	SwipeInput = InputMapper{Deadzone: 15, Metric: Chebyshev}
	// DragInput suits small incremental deltas from a finger held on the board
	DragInput = InputMapper{Deadzone: 2, Metric: Manhattan}
)

// Map picks the dominant axis of (dx, dy); y grows downward. Vectors inside the deadzone are
// ignored. Equal magnitudes resolve to the vertical axis.
func (m InputMapper) Map(dx, dy float64) (Direction, bool) {
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return Right, false
	}
	ax, ay := math.Abs(dx), math.Abs(dy)

	var mag float64
	switch m.Metric {
	case Manhattan:
		mag = ax + ay
	default:
		mag = math.Max(ax, ay)
	}
	if mag <= m.Deadzone {
		return Right, false
	}

	if ax > ay {
		if dx > 0 {
			return Right, true
		}
		return Left, true
	}
	if dy > 0 {
		return Down, true
	}
	return Up, true
}

// QueueDirection writes d into the single queued slot. A reversal of the active direction is
// dropped while the snake is longer than one cell, leaving the earlier queued direction in
// place. Only Running games accept input. The second result reports whether d was queued.
func QueueDirection(s State, d Direction) (State, bool) {
	if s.Phase != Running {
		return s, false
	}
	if len(s.Snake) > 1 && d == s.Direction.Opposite() {
		return s, false
	}
	s.Queued = d
	return s, true
}
