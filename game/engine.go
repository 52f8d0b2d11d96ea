package game

import (
	"fmt"
	"math/rand"
	"time"
)

// noFood marks a board without food (only after the snake filled it)
var noFood = Food{Cell: Cell{X: -1, Y: -1}}

// Engine advances game states for one config. It keeps no game state of its own; the random
// source makes it unsafe for concurrent use, callers serialize access (see Session).
type Engine struct {
	cfg Config
	rng *rand.Rand
}

// NewEngine validates cfg and binds it to rng. A nil rng gets a time-seeded source.
func NewEngine(cfg Config, rng *rand.Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg, rng: rng}, nil
}

// Config returns the engine's config
func (e *Engine) Config() Config {
	return e.cfg
}

// Reset builds a fresh board: a SpawnLength snake centred on the grid heading right, new food,
// zeroed score and the preset's initial interval. phase must be Idle or Running; anything else
// is treated as Idle.
func (e *Engine) Reset(phase Phase) State {
	if phase != Running {
		phase = Idle
	}
	body := spawnBody(e.cfg.Grid)
	food, _ := e.SpawnFood(body) // Validate guarantees a free cell
	return State{
		Grid:      e.cfg.Grid,
		Walls:     e.cfg.Walls,
		Snake:     body,
		Food:      food,
		Direction: Right,
		Queued:    Right,
		Score:     0,
		Level:     1,
		Interval:  e.cfg.Difficulty.Preset().Initial,
		Phase:     phase,
		Tint:      DefaultTint,
	}
}

// NextHead applies the boundary policy to a one-cell move from head. ok is false when the
// move leaves a walled grid.
func (e *Engine) NextHead(head Cell, d Direction) (Cell, bool) {
	next := head.Add(d)
	if e.cfg.Walls {
		return next, e.cfg.Grid.Contains(next)
	}
	return e.cfg.Grid.Wrap(next), true
}

// Fatal reports whether moving s one cell in d would end the game
func (e *Engine) Fatal(s State, d Direction) bool {
	head, ok := e.NextHead(s.Head(), d)
	if !ok {
		return true
	}
	return hits(s.Snake, head, head == s.Food.Cell)
}

// Step advances s by one tick in the queued direction. Order matters: the boundary policy and
// the collision check run before any growth is applied, and a fatal move leaves the snake and
// food exactly as they were. States that are not Running come back unchanged.
func (e *Engine) Step(s State, queued Direction) State {
	if s.Phase != Running || len(s.Snake) == 0 {
		return s
	}

	dir := queued
	if len(s.Snake) > 1 && queued == s.Direction.Opposite() {
		dir = s.Direction
	}

	next := s
	next.Direction = dir
	next.Queued = dir
	next.Ticks++

	head, ok := e.NextHead(s.Head(), dir)
	if !ok {
		next.Phase = GameOver
		next.Outcome = OutcomeWall
		next.Event = EventCrashed
		return next
	}

	grow := head == s.Food.Cell
	if hits(s.Snake, head, grow) {
		next.Phase = GameOver
		next.Outcome = OutcomeSelf
		next.Event = EventCrashed
		return next
	}

	next.Snake = advance(s.Snake, head, grow)
	next.Event = EventMoved
	if !grow {
		return next
	}

	preset := e.cfg.Difficulty.Preset()
	next.Event = EventAte
	next.Score += e.cfg.FoodReward
	next.Level = next.Score/e.cfg.PointsPerLevel + 1
	next.Interval = max(preset.Floor, s.Interval-preset.Decrement)
	next.Tint = s.Food.Item.Color

	food, ok := e.SpawnFood(next.Snake)
	if !ok {
		next.Food = noFood
		next.Phase = GameOver
		next.Outcome = OutcomeBoardFull
		next.Event = EventCleared
		return next
	}
	next.Food = food
	return next
}
