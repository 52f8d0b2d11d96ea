package game

// Direction is one of the four unit moves
type Direction uint8

const (
	Right Direction = iota
	Left
	Up
	Down
)

// Vector returns the unit step; y grows downward
func (d Direction) Vector() Cell {
	switch d {
	case Up:
		return Cell{X: 0, Y: -1}
	case Down:
		return Cell{X: 0, Y: 1}
	case Left:
		return Cell{X: -1, Y: 0}
	default:
		return Cell{X: 1, Y: 0}
	}
}

// Opposite returns the reversal of d
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Glyph is the head symbol pointing in d
func (d Direction) Glyph() rune {
	switch d {
	case Up:
		return '▲'
	case Down:
		return '▼'
	case Left:
		return '◀'
	default:
		return '▶'
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "right"
	}
}

// ParseDirection accepts "u"/"up", "d"/"down", "l"/"left", "r"/"right"
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "u", "up":
		return Up, true
	case "d", "down":
		return Down, true
	case "l", "left":
		return Left, true
	case "r", "right":
		return Right, true
	}
	return Right, false
}

// Directions lists every direction in a fixed order
var Directions = [...]Direction{Up, Right, Down, Left}
