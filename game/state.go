package game

import "time"

// Phase is the lifecycle of a game
type Phase uint8

const (
	Idle Phase = iota
	Running
	Paused
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "gameover"
	default:
		return "idle"
	}
}

// Outcome records why a game ended
type Outcome uint8

const (
	OutcomeNone      Outcome = iota
	OutcomeWall              // head left a walled grid
	OutcomeSelf              // head ran into the body
	OutcomeBoardFull         // no free cell left for food
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWall:
		return "wall"
	case OutcomeSelf:
		return "self"
	case OutcomeBoardFull:
		return "cleared"
	default:
		return ""
	}
}

// Event is what the most recent tick did
type Event uint8

const (
	EventNone Event = iota
	EventMoved
	EventAte
	EventCrashed
	EventCleared
)

func (e Event) String() string {
	switch e {
	case EventMoved:
		return "moved"
	case EventAte:
		return "ate"
	case EventCrashed:
		return "crashed"
	case EventCleared:
		return "cleared"
	default:
		return ""
	}
}

// State is one discrete game state. Step never mutates its input; a State handed out by the
// engine may be kept as an immutable snapshot.
type State struct {
	Grid      Grid
	Walls     bool
	Snake     []Cell // index 0 = head
	Food      Food
	Direction Direction // active direction, committed at the last tick
	Queued    Direction // applied at the next tick
	Score     int
	Level     int
	Interval  time.Duration
	Phase     Phase
	Outcome   Outcome
	Event     Event
	Tint      string // snake colour, takes the colour of the last food eaten
	Ticks     int
}

// Head returns the head cell
func (s State) Head() Cell {
	return s.Snake[0]
}

// Tail returns the last cell
func (s State) Tail() Cell {
	return s.Snake[len(s.Snake)-1]
}

// Clone returns a deep copy safe to hand to another goroutine
func (s State) Clone() State {
	out := s
	if s.Snake != nil {
		out.Snake = make([]Cell, len(s.Snake))
		copy(out.Snake, s.Snake)
	}
	return out
}
